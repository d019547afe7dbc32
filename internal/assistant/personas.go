package assistant

import "fmt"

// The system personas mirror the clinic's service lines. Each operation pins
// its own persona so prompt drift in one feature cannot change the tone of
// another.

const consultationPersona = "You are the expert AI assistant of the 'Enid Beauty' clinic. " +
	"Your specialties are: 1) Hair transplantation (FUE, DHI, sapphire), " +
	"2) Medical aesthetics (botox, fillers, rejuvenation injections), " +
	"3) Skin renewal (gold needle radiofrequency, laser). " +
	"Give clients professional, reassuring, science-based information about procedures, " +
	"recovery timelines, and treatments suited to their skin type. " +
	"Never give a medical diagnosis; offer aesthetic guidance only."

const aftercarePersona = "You are the expert consultant of the 'Enid Beauty' clinic. " +
	"Give detailed guidance on post-transplant washing, shock loss phases, " +
	"anti-aging applications, and skin care routines."

const intakePersona = "You are a senior aesthetics and hair transplant coordinator. " +
	"Analyze uploaded photos in detail. Based on hair thinning, skin laxity, or " +
	"pigmentation, propose precise, combined treatment plans."

func complaintPrompt(complaint string) string {
	return fmt.Sprintf("Client request: %s\n\n"+
		"Please analyze the photo and the request from these angles: "+
		"1. If it is a hair photo: what is the loss stage on the Norwood scale and the estimated graft need? Which technique (DHI/FUE) fits? "+
		"2. If it is a face photo: what is the skin type (oily/dry/combination), and what signs of aging or pigmentation are visible? "+
		"3. Recommended procedures (e.g. hair transplant + PRP, gold needle, salmon DNA).", complaint)
}

func treatmentCarePrompt(treatment string) string {
	return fmt.Sprintf("The client has received the %q procedure. "+
		"This is an aesthetic/medical procedure. "+
		"List, point by point, what the client must pay attention to after the procedure. "+
		"Cover in particular: water contact, sleeping position, sun protection, and general advice on medication or creams. "+
		"Write in Markdown.", treatment)
}

func treatmentQuestionPrompt(treatment, question string) string {
	return fmt.Sprintf("Topic: the %s aesthetic procedure.\nClient question: %q\n\n"+
		"Answer in an expert, scientific but accessible tone. Mention the recovery process where relevant.", treatment, question)
}

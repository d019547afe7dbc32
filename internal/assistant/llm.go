package assistant

import "context"

// TurnRole labels a history entry.
type TurnRole string

const (
	TurnUser  TurnRole = "user"
	TurnModel TurnRole = "model"
)

// Turn is one prior exchange in a consultation thread.
type Turn struct {
	Role TurnRole `json:"role"`
	Text string   `json:"text"`
}

// Attachment is an inline image or document sent with a prompt. Data is
// base64-encoded as received from the client.
type Attachment struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

// Request is a single prompt to the language model.
type Request struct {
	System      string
	History     []Turn
	Message     string
	Attachments []Attachment
}

// Response is the model's reply.
type Response struct {
	Text string
}

// LLMClient abstracts the language model so the service can run without
// credentials and tests can swap in a fake. Stream calls onText with the
// cumulative reply after every chunk.
type LLMClient interface {
	Complete(ctx context.Context, req Request) (Response, error)
	Stream(ctx context.Context, req Request, onText func(string)) (Response, error)
}

package assistant

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/OmerBikec/Enid-Beauty/internal/api/respond"
	"github.com/OmerBikec/Enid-Beauty/pkg/logging"
)

// Handler serves the assistant routes. All of them sit behind auth; the
// service itself never errors, so the handlers only deal with bad input.
type Handler struct {
	svc    *Service
	logger *logging.Logger
}

func NewHandler(svc *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

type analyzeRequest struct {
	Complaint string       `json:"complaint"`
	Images    []Attachment `json:"images,omitempty"`
}

type careRequest struct {
	Treatment string `json:"treatment"`
}

type answerRequest struct {
	Treatment string `json:"treatment"`
	Question  string `json:"question"`
}

type replyResponse struct {
	Reply string `json:"reply"`
}

// Consult handles POST /assistant/consultation as a server-sent event
// stream. Each event carries the cumulative reply so far; the stream ends
// with a "done" event holding the final text.
func (h *Handler) Consult(w http.ResponseWriter, r *http.Request) {
	var req ConsultationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		respond.Fail(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	final := h.svc.StreamConsultation(r.Context(), req, func(cumulative string) {
		writeEvent(w, "message", cumulative)
		flusher.Flush()
	})
	writeEvent(w, "done", final)
	flusher.Flush()
}

// Analyze handles POST /assistant/analysis.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	reply := h.svc.AnalyzeComplaint(r.Context(), req.Complaint, req.Images)
	respond.JSON(w, http.StatusOK, replyResponse{Reply: reply})
}

// TreatmentCare handles POST /assistant/treatment-care.
func (h *Handler) TreatmentCare(w http.ResponseWriter, r *http.Request) {
	var req careRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	reply := h.svc.TreatmentCare(r.Context(), req.Treatment)
	respond.JSON(w, http.StatusOK, replyResponse{Reply: reply})
}

// TreatmentAnswer handles POST /assistant/treatment-answer.
func (h *Handler) TreatmentAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	reply := h.svc.TreatmentAnswer(r.Context(), req.Treatment, req.Question)
	respond.JSON(w, http.StatusOK, replyResponse{Reply: reply})
}

// writeEvent emits one SSE event with a JSON string payload so newlines in
// the reply survive framing.
func writeEvent(w http.ResponseWriter, event, text string) {
	data, _ := json.Marshal(text)
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
}

package assistant

import (
	"context"

	"github.com/OmerBikec/Enid-Beauty/internal/observability/metrics"
	"github.com/OmerBikec/Enid-Beauty/pkg/logging"
)

// Fallback replies. Assistant operations never surface errors to clients;
// when the model is missing or unreachable they answer with one of these.
const (
	fallbackNotConfigured    = "The assistant is not set up yet. Please contact the clinic administrator."
	fallbackUnavailable      = "Sorry, we cannot connect right now. Please try again later."
	fallbackAnalysisMissing  = "The AI service is currently unavailable."
	fallbackAnalysisFailed   = "The analysis cannot be completed right now."
	fallbackAftercareMissing = "Aftercare tips cannot be loaded right now."
	fallbackAftercareFailed  = "The AI service is currently unreachable."
	fallbackChatMissing      = "The chat feature is not active right now."
	fallbackChatFailed       = "Connection error. Please try again."
)

// ConsultationRequest is the live-chat payload.
type ConsultationRequest struct {
	History     []Turn       `json:"history"`
	Message     string       `json:"message"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Service fronts the language model for the portal. llm may be nil when no
// API key is configured; every operation then returns its fallback reply.
type Service struct {
	llm     LLMClient
	metrics *metrics.AssistantMetrics
	logger  *logging.Logger
}

func NewService(llm LLMClient, m *metrics.AssistantMetrics, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{llm: llm, metrics: m, logger: logger}
}

// StreamConsultation answers a live chat message, forwarding the cumulative
// reply through onPartial as chunks arrive. The returned string is always a
// usable reply, never an error message for the logs.
func (s *Service) StreamConsultation(ctx context.Context, req ConsultationRequest, onPartial func(string)) string {
	if s.llm == nil {
		s.metrics.ObserveRequest("consultation", "not_configured", 0)
		if onPartial != nil {
			onPartial(fallbackNotConfigured)
		}
		return fallbackNotConfigured
	}
	done := s.metrics.StartRequest("consultation")
	resp, err := s.llm.Stream(ctx, Request{
		System:      consultationPersona,
		History:     req.History,
		Message:     req.Message,
		Attachments: req.Attachments,
	}, onPartial)
	if err != nil {
		done("error")
		s.logger.Error("consultation stream failed", "error", err)
		if onPartial != nil {
			onPartial(fallbackUnavailable)
		}
		return fallbackUnavailable
	}
	done("ok")
	return resp.Text
}

// AnalyzeComplaint reviews an intake request with its photos and suggests a
// treatment direction.
func (s *Service) AnalyzeComplaint(ctx context.Context, complaint string, images []Attachment) string {
	if s.llm == nil {
		s.metrics.ObserveRequest("complaint_analysis", "not_configured", 0)
		return fallbackAnalysisMissing
	}
	done := s.metrics.StartRequest("complaint_analysis")
	resp, err := s.llm.Complete(ctx, Request{
		System:      intakePersona,
		Message:     complaintPrompt(complaint),
		Attachments: images,
	})
	if err != nil {
		done("error")
		s.logger.Error("complaint analysis failed", "error", err)
		return fallbackAnalysisFailed
	}
	done("ok")
	return resp.Text
}

// TreatmentCare produces aftercare guidance for a completed procedure.
func (s *Service) TreatmentCare(ctx context.Context, treatment string) string {
	if s.llm == nil {
		s.metrics.ObserveRequest("treatment_care", "not_configured", 0)
		return fallbackAftercareMissing
	}
	done := s.metrics.StartRequest("treatment_care")
	resp, err := s.llm.Complete(ctx, Request{Message: treatmentCarePrompt(treatment)})
	if err != nil {
		done("error")
		s.logger.Error("treatment care failed", "error", err)
		return fallbackAftercareFailed
	}
	done("ok")
	return resp.Text
}

// TreatmentAnswer answers a follow-up question about a specific procedure.
func (s *Service) TreatmentAnswer(ctx context.Context, treatment, question string) string {
	if s.llm == nil {
		s.metrics.ObserveRequest("treatment_answer", "not_configured", 0)
		return fallbackChatMissing
	}
	done := s.metrics.StartRequest("treatment_answer")
	resp, err := s.llm.Complete(ctx, Request{
		System:  aftercarePersona,
		Message: treatmentQuestionPrompt(treatment, question),
	})
	if err != nil {
		done("error")
		s.logger.Error("treatment answer failed", "error", err)
		return fallbackChatFailed
	}
	done("ok")
	return resp.Text
}

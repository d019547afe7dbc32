package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/OmerBikec/Enid-Beauty/internal/appointments"
	"github.com/OmerBikec/Enid-Beauty/internal/assistant"
	"github.com/OmerBikec/Enid-Beauty/internal/auth"
	"github.com/OmerBikec/Enid-Beauty/internal/chat"
	httpmiddleware "github.com/OmerBikec/Enid-Beauty/internal/http/middleware"
	"github.com/OmerBikec/Enid-Beauty/internal/patients"
	"github.com/OmerBikec/Enid-Beauty/internal/payments"
	"github.com/OmerBikec/Enid-Beauty/internal/records"
	"github.com/OmerBikec/Enid-Beauty/internal/staff"
	"github.com/OmerBikec/Enid-Beauty/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger              *logging.Logger
	Tokens              *auth.TokenIssuer
	AuthHandler         *auth.Handler
	PatientsHandler     *patients.Handler
	AppointmentsHandler *appointments.Handler
	PaymentsHandler     *payments.Handler
	RecordsHandler      *records.Handler
	StaffHandler        *staff.Handler
	ChatHandler         *chat.Handler
	AssistantHandler    *assistant.Handler
	MetricsHandler      http.Handler
	CORSAllowedOrigins  []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints
	r.Group(func(public chi.Router) {
		public.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		})
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		public.Route("/auth", func(r chi.Router) {
			r.Post("/register", cfg.AuthHandler.Register)
			r.Post("/login", cfg.AuthHandler.Login)
		})
	})

	// Authenticated API
	r.Group(func(api chi.Router) {
		api.Use(httpmiddleware.SessionAuth(cfg.Tokens))

		api.Route("/patients", func(r chi.Router) {
			r.Get("/me", cfg.PatientsHandler.Me)
			r.Patch("/me", cfg.PatientsHandler.UpdateMe)
			r.With(httpmiddleware.RequireAdmin).Group(func(admin chi.Router) {
				admin.Get("/", cfg.PatientsHandler.List)
				admin.Get("/watch", cfg.PatientsHandler.Watch)
				admin.Post("/", cfg.PatientsHandler.Create)
				admin.Patch("/{id}", cfg.PatientsHandler.Update)
				admin.Delete("/{id}", cfg.PatientsHandler.Delete)
			})
		})

		api.Route("/appointments", func(r chi.Router) {
			r.Get("/", cfg.AppointmentsHandler.List)
			r.Get("/watch", cfg.AppointmentsHandler.Watch)
			r.Post("/", cfg.AppointmentsHandler.Book)
			r.With(httpmiddleware.RequireAdmin).Group(func(admin chi.Router) {
				admin.Patch("/{id}/status", cfg.AppointmentsHandler.UpdateStatus)
				admin.Patch("/{id}/price", cfg.AppointmentsHandler.SetPrice)
			})
		})

		api.Route("/payments", func(r chi.Router) {
			r.Get("/", cfg.PaymentsHandler.List)
			r.Get("/watch", cfg.PaymentsHandler.Watch)
			r.Post("/", cfg.PaymentsHandler.Submit)
			r.With(httpmiddleware.RequireAdmin).Patch("/{id}/status", cfg.PaymentsHandler.UpdateStatus)
		})

		api.Route("/records", func(r chi.Router) {
			r.Get("/", cfg.RecordsHandler.List)
			r.Get("/watch", cfg.RecordsHandler.Watch)
			r.With(httpmiddleware.RequireAdmin).Group(func(admin chi.Router) {
				admin.Post("/", cfg.RecordsHandler.Create)
				admin.Patch("/{id}", cfg.RecordsHandler.Update)
				admin.Post("/{id}/sessions", cfg.RecordsHandler.IncrementSession)
				admin.Delete("/{id}", cfg.RecordsHandler.Delete)
			})
		})

		api.Route("/staff", func(r chi.Router) {
			r.Get("/", cfg.StaffHandler.List)
			r.Get("/watch", cfg.StaffHandler.Watch)
			r.With(httpmiddleware.RequireAdmin).Group(func(admin chi.Router) {
				admin.Post("/", cfg.StaffHandler.Add)
				admin.Delete("/{id}", cfg.StaffHandler.Delete)
			})
		})

		api.Route("/chat", func(r chi.Router) {
			r.Get("/messages", cfg.ChatHandler.List)
			r.Post("/messages", cfg.ChatHandler.Send)
			r.Get("/watch", cfg.ChatHandler.Watch)
			r.Get("/threads/{patientID}", cfg.ChatHandler.Thread)
			r.Post("/threads/{patientID}/read", cfg.ChatHandler.MarkRead)
		})

		api.Route("/assistant", func(r chi.Router) {
			r.Post("/consultation", cfg.AssistantHandler.Consult)
			r.Post("/analysis", cfg.AssistantHandler.Analyze)
			r.Post("/treatment-care", cfg.AssistantHandler.TreatmentCare)
			r.Post("/treatment-answer", cfg.AssistantHandler.TreatmentAnswer)
		})
	})

	return r
}

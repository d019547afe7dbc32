package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/OmerBikec/Enid-Beauty/internal/api/router"
	"github.com/OmerBikec/Enid-Beauty/internal/appointments"
	"github.com/OmerBikec/Enid-Beauty/internal/assistant"
	"github.com/OmerBikec/Enid-Beauty/internal/audit"
	"github.com/OmerBikec/Enid-Beauty/internal/auth"
	"github.com/OmerBikec/Enid-Beauty/internal/chat"
	appconfig "github.com/OmerBikec/Enid-Beauty/internal/config"
	"github.com/OmerBikec/Enid-Beauty/internal/observability/metrics"
	"github.com/OmerBikec/Enid-Beauty/internal/patients"
	"github.com/OmerBikec/Enid-Beauty/internal/payments"
	"github.com/OmerBikec/Enid-Beauty/internal/records"
	"github.com/OmerBikec/Enid-Beauty/internal/seed"
	"github.com/OmerBikec/Enid-Beauty/internal/staff"
	"github.com/OmerBikec/Enid-Beauty/internal/store"
	"github.com/OmerBikec/Enid-Beauty/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting enid-beauty API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	// Durable mutation journal when Postgres is configured.
	var journal audit.Trail = audit.NewMemoryTrail()
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to postgres", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		journal = audit.NewPostgresTrail(pool)
		logger.Info("mutation journal backed by postgres")
	}

	storeMetrics := metrics.NewStoreMetrics(nil)
	storeOpts := store.Options{Journal: journal, Metrics: storeMetrics, Logger: logger}

	patientCol := store.NewCollection[*patients.Patient]("patients", storeOpts)
	appointmentCol := store.NewCollection[*appointments.Appointment]("appointments", storeOpts)
	paymentCol := store.NewCollection[*payments.Payment]("payments", storeOpts)
	recordCol := store.NewCollection[*records.ServiceRecord]("records", storeOpts)
	staffCol := store.NewCollection[*staff.Member]("staff", storeOpts)
	chatCol := store.NewCollection[*chat.Message]("chat", storeOpts)

	// Chat transcripts survive restarts when Redis is configured.
	var archive *chat.TranscriptArchive
	if cfg.RedisAddr != "" {
		redisOpts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
		if cfg.RedisTLS {
			redisOpts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		redisClient := redis.NewClient(redisOpts)
		defer func() { _ = redisClient.Close() }()
		archive = chat.NewTranscriptArchive(redisClient, cfg.ChatTranscriptTTL, nil)
		logger.Info("chat transcript archive enabled")
	}

	patientSvc := patients.NewService(patientCol, logger)
	appointmentSvc := appointments.NewService(appointmentCol, logger)
	paymentSvc := payments.NewService(paymentCol, logger)
	recordSvc := records.NewService(recordCol, logger)
	staffSvc := staff.NewService(staffCol, logger)
	chatSvc := chat.NewService(chatCol, archive, logger)

	tokens, err := auth.NewTokenIssuer(cfg.AuthJWTSecret, cfg.AuthTokenTTL)
	if err != nil {
		logger.Error("failed to initialize token issuer", "error", err)
		os.Exit(1)
	}
	creds := auth.NewCredentialStore()
	authSvc := auth.NewService(patientSvc, creds, tokens, cfg.AdminRegistrationCode, logger)

	// Deleting a patient takes their dependents with them.
	patientSvc.RegisterCascade(appointmentSvc)
	patientSvc.RegisterCascade(paymentSvc)
	patientSvc.RegisterCascade(recordSvc)
	patientSvc.RegisterCascade(chatSvc)
	patientSvc.RegisterCascade(authSvc)

	// The assistant runs in degraded mode without credentials.
	var llm assistant.LLMClient
	if cfg.GeminiAPIKey != "" {
		gemini, err := assistant.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Error("failed to initialize gemini client", "error", err)
			os.Exit(1)
		}
		defer func() { _ = gemini.Close() }()
		llm = gemini
	} else {
		logger.Warn("GEMINI_API_KEY not set, assistant will serve fallback replies")
	}
	assistantSvc := assistant.NewService(llm, metrics.NewAssistantMetrics(nil), logger)

	if cfg.SeedDemoData {
		err := seed.Apply(ctx, seed.Deps{
			Patients:    patientSvc,
			Records:     recordSvc,
			Staff:       staffSvc,
			Credentials: creds,
			Logger:      logger,
		})
		if err != nil {
			logger.Error("failed to seed demo data", "error", err)
			os.Exit(1)
		}
	}

	resolveName := func(userID string) string {
		p, err := patientCol.Get(userID)
		if err != nil {
			return ""
		}
		return p.Name + " " + p.Surname
	}

	r := router.New(&router.Config{
		Logger:              logger,
		Tokens:              tokens,
		AuthHandler:         auth.NewHandler(authSvc, logger),
		PatientsHandler:     patients.NewHandler(patientSvc, logger),
		AppointmentsHandler: appointments.NewHandler(appointmentSvc, logger),
		PaymentsHandler:     payments.NewHandler(paymentSvc, resolveName, logger),
		RecordsHandler:      records.NewHandler(recordSvc, logger),
		StaffHandler:        staff.NewHandler(staffSvc, logger),
		ChatHandler:         chat.NewHandler(chatSvc, logger),
		AssistantHandler:    assistant.NewHandler(assistantSvc, logger),
		MetricsHandler:      promhttp.Handler(),
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"translator-booking/internal/usecase"
)

type Server struct {
	bookings  usecase.BookingUseCase
	telemetry usecase.TelemetryUseCase
	notif     usecase.NotificationUseCase
	auth      *AuthManager
	log       *zerolog.Logger
}

func NewServer(
	bookings usecase.BookingUseCase,
	telemetry usecase.TelemetryUseCase,
	notif usecase.NotificationUseCase,
	auth *AuthManager,
	logger *zerolog.Logger,
) *Server {
	l := logger.With().Str("component", "WebServer").Logger()
	return &Server{bookings: bookings, telemetry: telemetry, notif: notif, auth: auth, log: &l}
}

// Router assembles the API. Every /api/v1 route requires a valid bearer
// token; finer role checks live in the use cases.
func (s *Server) Router(requestTimeout time.Duration) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.auth.AuthMiddleware)

		r.Get("/jobs", s.handleIndex)
		r.Post("/jobs", s.handleStore)
		r.Get("/jobs/history", s.handleHistory)
		r.Get("/jobs/potential", s.handlePotentialJobs)
		r.Post("/jobs/accept", s.handleAcceptJob)
		r.Post("/jobs/accept-with-id", s.handleAcceptJobWithID)

		r.Get("/jobs/{id}", s.handleShow)
		r.Put("/jobs/{id}", s.handleUpdate)
		r.Post("/jobs/{id}/email", s.handleJobEmail)
		r.Post("/jobs/{id}/start", s.handleStart)
		r.Post("/jobs/{id}/cancel", s.handleCancel)
		r.Post("/jobs/{id}/end", s.handleEnd)
		r.Post("/jobs/{id}/customer-not-call", s.handleCustomerNotCall)
		r.Post("/jobs/{id}/reopen", s.handleReopen)
		r.Post("/jobs/{id}/resend-notifications", s.handleResendNotifications)
		r.Post("/jobs/{id}/resend-sms", s.handleResendSMS)

		r.Post("/distance-feed", s.handleDistanceFeed)
	})

	return Chain(r,
		TraceID(),
		RequestLog(s.log),
		Recover(s.log),
		Timeout(requestTimeout),
	)
}

package rest

import (
	"log/slog"
	"net/http"

	"github.com/dkoval/fieldops-backend/internal/config"
	"github.com/dkoval/fieldops-backend/internal/transport/middleware"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Health      *HealthHandler
	Clients     *ClientHandler
	Jobs        *JobHandler
	Quotes      *QuoteHandler
	TimeEntries *TimeEntryHandler
}

// NewRouter builds the HTTP handler. Health probes stay outside the
// authenticated chain; everything under /v1 requires a bearer token.
func NewRouter(log *slog.Logger, cfg *config.Config, limiter *middleware.RateLimiter, h Handlers) http.Handler {
	api := http.NewServeMux()

	api.HandleFunc("POST /v1/clients", h.Clients.Create)
	api.HandleFunc("GET /v1/clients", h.Clients.List)
	api.HandleFunc("GET /v1/clients/{id}", h.Clients.Get)
	api.HandleFunc("PATCH /v1/clients/{id}", h.Clients.Update)
	api.HandleFunc("DELETE /v1/clients/{id}", h.Clients.Delete)
	api.HandleFunc("GET /v1/clients/{id}/jobs", h.Clients.ListJobs)

	api.HandleFunc("POST /v1/jobs", h.Jobs.Create)
	api.HandleFunc("GET /v1/jobs", h.Jobs.List)
	api.HandleFunc("GET /v1/jobs/{id}", h.Jobs.Get)
	api.HandleFunc("PATCH /v1/jobs/{id}", h.Jobs.Update)
	api.HandleFunc("DELETE /v1/jobs/{id}", h.Jobs.Delete)
	api.HandleFunc("POST /v1/jobs/{id}/status", h.Jobs.UpdateStatus)
	api.HandleFunc("POST /v1/jobs/{id}/complete", h.Jobs.Complete)
	api.HandleFunc("POST /v1/jobs/{id}/schedule", h.Jobs.UpdateSchedule)
	api.HandleFunc("POST /v1/jobs/{id}/assignees", h.Jobs.AssignTeam)
	api.HandleFunc("POST /v1/jobs/{id}/photos", h.Jobs.AddPhoto)
	api.HandleFunc("GET /v1/jobs/{id}/photos", h.Jobs.ListPhotos)
	api.HandleFunc("DELETE /v1/jobs/{id}/photos/{photoID}", h.Jobs.DeletePhoto)

	api.HandleFunc("POST /v1/quotes", h.Quotes.Create)
	api.HandleFunc("GET /v1/quotes", h.Quotes.List)
	api.HandleFunc("GET /v1/quotes/{id}", h.Quotes.Get)
	api.HandleFunc("PATCH /v1/quotes/{id}", h.Quotes.Update)
	api.HandleFunc("DELETE /v1/quotes/{id}", h.Quotes.Delete)
	api.HandleFunc("POST /v1/quotes/{id}/send", h.Quotes.Send)
	api.HandleFunc("POST /v1/quotes/{id}/approve", h.Quotes.Approve)
	api.HandleFunc("POST /v1/quotes/{id}/decline", h.Quotes.Decline)
	api.HandleFunc("POST /v1/quotes/{id}/convert", h.Quotes.Convert)

	api.HandleFunc("POST /v1/time-entries/clock-in", h.TimeEntries.ClockIn)
	api.HandleFunc("GET /v1/time-entries/{id}", h.TimeEntries.Get)
	api.HandleFunc("PATCH /v1/time-entries/{id}", h.TimeEntries.Update)
	api.HandleFunc("DELETE /v1/time-entries/{id}", h.TimeEntries.Delete)
	api.HandleFunc("POST /v1/time-entries/{id}/clock-out", h.TimeEntries.ClockOut)
	api.HandleFunc("POST /v1/time-entries/{id}/approve", h.TimeEntries.Approve)
	api.HandleFunc("POST /v1/time-entries/{id}/reject", h.TimeEntries.Reject)
	api.HandleFunc("GET /v1/workers/{id}/time-entries", h.TimeEntries.ListByWorker)

	protected := middleware.Chain(
		middleware.Recovery(log),
		middleware.CORS(cfg.CORS),
		limiter.Limit(cfg.Server.RateLimitPerMinute),
		middleware.Auth(cfg.Auth),
	)(api)

	root := http.NewServeMux()
	root.HandleFunc("GET /health", h.Health.Health)
	root.HandleFunc("GET /ready", h.Health.Ready)
	root.HandleFunc("GET /live", h.Health.Live)
	root.Handle("/v1/", protected)

	return middleware.Chain(
		middleware.RequestID,
		middleware.Logger(log),
	)(root)
}

// Package app wires configuration, storage, services and transport
// together and runs the HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dkoval/fieldops-backend/internal/adapter/invoicing"
	"github.com/dkoval/fieldops-backend/internal/adapter/postgres"
	clientrepo "github.com/dkoval/fieldops-backend/internal/adapter/postgres/client"
	invoicerepo "github.com/dkoval/fieldops-backend/internal/adapter/postgres/invoice"
	jobrepo "github.com/dkoval/fieldops-backend/internal/adapter/postgres/job"
	jobphotorepo "github.com/dkoval/fieldops-backend/internal/adapter/postgres/jobphoto"
	quoterepo "github.com/dkoval/fieldops-backend/internal/adapter/postgres/quote"
	sequencerepo "github.com/dkoval/fieldops-backend/internal/adapter/postgres/sequence"
	timeentryrepo "github.com/dkoval/fieldops-backend/internal/adapter/postgres/timeentry"
	workerrepo "github.com/dkoval/fieldops-backend/internal/adapter/postgres/worker"
	"github.com/dkoval/fieldops-backend/internal/config"
	clientsvc "github.com/dkoval/fieldops-backend/internal/service/client"
	jobsvc "github.com/dkoval/fieldops-backend/internal/service/job"
	quotesvc "github.com/dkoval/fieldops-backend/internal/service/quote"
	timesheetsvc "github.com/dkoval/fieldops-backend/internal/service/timesheet"
	"github.com/dkoval/fieldops-backend/internal/transport/middleware"
	"github.com/dkoval/fieldops-backend/internal/transport/rest"
	"github.com/dkoval/fieldops-backend/pkg/clockutil"
)

// Run is the application entry point. It blocks until ctx is cancelled,
// then shuts the server down gracefully.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)
	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	tx := postgres.NewTxManager(pool)
	clock := clockutil.System{}

	clients := clientrepo.New(pool)
	workers := workerrepo.New(pool)
	jobs := jobrepo.New(pool)
	photos := jobphotorepo.New(pool)
	quotes := quoterepo.New(pool)
	invoices := invoicerepo.New(pool)
	numbers := sequencerepo.New(pool)
	notifier := invoicing.NewNotifier(logger)

	jobService := jobsvc.NewService(logger, jobs, clients, workers, photos, quotes, invoices, numbers, notifier, tx, clock, cfg.Workflow)
	quoteService := quotesvc.NewService(logger, quotes, clients, numbers, jobService, tx, clock, cfg.Workflow)
	timesheetService := timesheetsvc.NewService(logger, timeentryrepo.New(pool), workers, jobs, clock, cfg.Workflow)
	clientService := clientsvc.NewService(logger, clients)

	limiter := middleware.NewRateLimiter(time.Minute)
	defer limiter.Stop()

	router := rest.NewRouter(logger, cfg, limiter, rest.Handlers{
		Health:      rest.NewHealthHandler(pool, BuildVersion()),
		Clients:     rest.NewClientHandler(logger, clientService, jobService),
		Jobs:        rest.NewJobHandler(logger, jobService),
		Quotes:      rest.NewQuoteHandler(logger, quoteService),
		TimeEntries: rest.NewTimeEntryHandler(logger, timesheetService),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}

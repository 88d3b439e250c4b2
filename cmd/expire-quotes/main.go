// Command expire-quotes marks sent quotes whose expiry date has passed as
// expired. It is intended to be invoked by an external cron job, not as an
// in-process goroutine.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/dkoval/fieldops-backend/internal/adapter/postgres"
	clientrepo "github.com/dkoval/fieldops-backend/internal/adapter/postgres/client"
	quoterepo "github.com/dkoval/fieldops-backend/internal/adapter/postgres/quote"
	sequencerepo "github.com/dkoval/fieldops-backend/internal/adapter/postgres/sequence"
	"github.com/dkoval/fieldops-backend/internal/app"
	"github.com/dkoval/fieldops-backend/internal/config"
	quotesvc "github.com/dkoval/fieldops-backend/internal/service/quote"
	"github.com/dkoval/fieldops-backend/pkg/clockutil"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	// The sweep never converts quotes, so no job service is wired.
	svc := quotesvc.NewService(
		logger,
		quoterepo.New(pool),
		clientrepo.New(pool),
		sequencerepo.New(pool),
		nil,
		postgres.NewTxManager(pool),
		clockutil.System{},
		cfg.Workflow,
	)

	expired, err := svc.ExpireSweep(ctx)
	if err != nil {
		logger.Error("expire sweep failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("expire sweep completed", slog.Int("expired", expired))
}

// Package invoicing notifies the downstream billing system about completed
// jobs. Invoice generation happens entirely on that side; this notifier only
// hands over the completion event and must never fail the completing
// transaction.
package invoicing

import (
	"context"
	"log/slog"

	"github.com/dkoval/fieldops-backend/internal/domain"
)

// Notifier emits job completion events for the billing system.
type Notifier struct {
	log *slog.Logger
}

// NewNotifier creates a new invoicing notifier.
func NewNotifier(log *slog.Logger) *Notifier {
	return &Notifier{log: log.With("component", "invoicing")}
}

// JobCompleted records that a job finished and is ready for invoicing.
// The event is emitted after the completing transaction commits; failures
// here are logged, never propagated.
func (n *Notifier) JobCompleted(ctx context.Context, job domain.Job) {
	n.log.InfoContext(ctx, "job completed, ready for invoicing",
		"job_id", job.ID,
		"account_id", job.AccountID,
		"number", job.Number,
		"actual_cost", job.ActualCost,
	)
}

// Package quote implements the quote lifecycle: creation with number
// allocation and totals, the approval state machine, conversion into a job,
// and the expiry sweep.
package quote

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	quoterepo "github.com/dkoval/fieldops-backend/internal/adapter/postgres/quote"
	"github.com/dkoval/fieldops-backend/internal/config"
	"github.com/dkoval/fieldops-backend/internal/domain"
	jobsvc "github.com/dkoval/fieldops-backend/internal/service/job"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type quoteRepo interface {
	GetByID(ctx context.Context, accountID, quoteID uuid.UUID) (domain.Quote, error)
	List(ctx context.Context, accountID uuid.UUID) ([]domain.Quote, error)
	ListExpiring(ctx context.Context, asOf time.Time, limit int) ([]quoterepo.ExpiringQuote, error)
	Create(ctx context.Context, quote domain.Quote) (domain.Quote, error)
	Update(ctx context.Context, quote domain.Quote) error
	ReplaceItems(ctx context.Context, quoteID uuid.UUID, items []domain.QuoteLineItem) ([]domain.QuoteLineItem, error)
	SetStatus(ctx context.Context, accountID, quoteID uuid.UUID, from, to domain.QuoteStatus) (bool, error)
	Approve(ctx context.Context, accountID, quoteID uuid.UUID, signature, ip string, at time.Time) (bool, error)
	Decline(ctx context.Context, accountID, quoteID uuid.UUID, reason string, at time.Time) (bool, error)
	SetConverted(ctx context.Context, accountID, quoteID, jobID uuid.UUID) (bool, error)
	MarkExpired(ctx context.Context, quoteID uuid.UUID) (bool, error)
	SoftDelete(ctx context.Context, accountID, quoteID uuid.UUID) error
}

type clientRepo interface {
	GetByID(ctx context.Context, accountID, clientID uuid.UUID) (domain.Client, error)
}

type numberAllocator interface {
	Next(ctx context.Context, accountID uuid.UUID, docType domain.DocumentType) (string, error)
}

// jobCreator creates the job a quote converts into. Satisfied by the job
// service; its own transaction joins the conversion transaction.
type jobCreator interface {
	Create(ctx context.Context, input jobsvc.CreateInput) (domain.Job, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type clock interface {
	Now() time.Time
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the quote business logic.
type Service struct {
	log     *slog.Logger
	quotes  quoteRepo
	clients clientRepo
	numbers numberAllocator
	jobs    jobCreator
	tx      txManager
	clock   clock
	cfg     config.WorkflowConfig
}

// NewService creates a new Quote service.
func NewService(
	log *slog.Logger,
	quotes quoteRepo,
	clients clientRepo,
	numbers numberAllocator,
	jobs jobCreator,
	tx txManager,
	clock clock,
	cfg config.WorkflowConfig,
) *Service {
	return &Service{
		log:     log.With("service", "quote"),
		quotes:  quotes,
		clients: clients,
		numbers: numbers,
		jobs:    jobs,
		tx:      tx,
		clock:   clock,
		cfg:     cfg,
	}
}

// buildItems maps line item inputs to domain items, preserving input order.
// Each item's total is quantity times unit price, unrounded. Lines are
// taxable unless the input explicitly opts out.
func buildItems(inputs []LineItemInput) []domain.QuoteLineItem {
	items := make([]domain.QuoteLineItem, len(inputs))
	for i, in := range inputs {
		taxable := true
		if in.Taxable != nil {
			taxable = *in.Taxable
		}
		items[i] = domain.QuoteLineItem{
			ItemType:   in.ItemType,
			Name:       in.Name,
			Quantity:   in.Quantity,
			UnitPrice:  in.UnitPrice,
			Taxable:    taxable,
			TotalPrice: in.Quantity * in.UnitPrice,
			SortOrder:  i,
		}
	}
	return items
}

package quote

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dkoval/fieldops-backend/internal/domain"
	"github.com/dkoval/fieldops-backend/pkg/ctxutil"
)

// Send moves a draft quote to sent.
func (s *Service) Send(ctx context.Context, quoteID uuid.UUID) (domain.Quote, error) {
	accountID, ok := ctxutil.AccountIDFromCtx(ctx)
	if !ok {
		return domain.Quote{}, domain.ErrUnauthorized
	}

	current, err := s.quotes.GetByID(ctx, accountID, quoteID)
	if err != nil {
		return domain.Quote{}, err
	}
	if current.Status == domain.QuoteStatusSent {
		return domain.Quote{}, fmt.Errorf("quote %s already sent: %w", quoteID, domain.ErrAlreadyProcessed)
	}
	if !current.Status.CanTransitionTo(domain.QuoteStatusSent) {
		return domain.Quote{}, domain.NewTransitionError("quote", current.Status.String(), domain.QuoteStatusSent.String())
	}

	moved, err := s.quotes.SetStatus(ctx, accountID, quoteID, domain.QuoteStatusDraft, domain.QuoteStatusSent)
	if err != nil {
		return domain.Quote{}, err
	}
	if !moved {
		// Someone else moved the quote between the read and the write.
		return domain.Quote{}, fmt.Errorf("quote %s: %w", quoteID, domain.ErrAlreadyProcessed)
	}

	s.log.InfoContext(ctx, "quote sent", "quote_id", quoteID, "number", current.Number)

	return s.quotes.GetByID(ctx, accountID, quoteID)
}

// Approve records client approval on a sent quote. Approving twice is an
// idempotency violation; declined and expired quotes cannot be approved.
func (s *Service) Approve(ctx context.Context, quoteID uuid.UUID, signature, ip string) (domain.Quote, error) {
	accountID, ok := ctxutil.AccountIDFromCtx(ctx)
	if !ok {
		return domain.Quote{}, domain.ErrUnauthorized
	}

	current, err := s.quotes.GetByID(ctx, accountID, quoteID)
	if err != nil {
		return domain.Quote{}, err
	}
	switch current.Status {
	case domain.QuoteStatusApproved, domain.QuoteStatusConverted:
		return domain.Quote{}, fmt.Errorf("quote %s already approved: %w", quoteID, domain.ErrAlreadyProcessed)
	case domain.QuoteStatusSent:
	default:
		return domain.Quote{}, domain.NewTransitionError("quote", current.Status.String(), domain.QuoteStatusApproved.String())
	}

	approved, err := s.quotes.Approve(ctx, accountID, quoteID, signature, ip, s.clock.Now())
	if err != nil {
		return domain.Quote{}, err
	}
	if !approved {
		return domain.Quote{}, fmt.Errorf("quote %s: %w", quoteID, domain.ErrAlreadyProcessed)
	}

	s.log.InfoContext(ctx, "quote approved", "quote_id", quoteID, "number", current.Number)

	return s.quotes.GetByID(ctx, accountID, quoteID)
}

// Decline records a decline on a sent quote with an optional reason.
func (s *Service) Decline(ctx context.Context, quoteID uuid.UUID, reason string) (domain.Quote, error) {
	accountID, ok := ctxutil.AccountIDFromCtx(ctx)
	if !ok {
		return domain.Quote{}, domain.ErrUnauthorized
	}

	current, err := s.quotes.GetByID(ctx, accountID, quoteID)
	if err != nil {
		return domain.Quote{}, err
	}
	switch current.Status {
	case domain.QuoteStatusDeclined:
		return domain.Quote{}, fmt.Errorf("quote %s already declined: %w", quoteID, domain.ErrAlreadyProcessed)
	case domain.QuoteStatusSent:
	default:
		return domain.Quote{}, domain.NewTransitionError("quote", current.Status.String(), domain.QuoteStatusDeclined.String())
	}

	declined, err := s.quotes.Decline(ctx, accountID, quoteID, reason, s.clock.Now())
	if err != nil {
		return domain.Quote{}, err
	}
	if !declined {
		return domain.Quote{}, fmt.Errorf("quote %s: %w", quoteID, domain.ErrAlreadyProcessed)
	}

	s.log.InfoContext(ctx, "quote declined", "quote_id", quoteID, "number", current.Number)

	return s.quotes.GetByID(ctx, accountID, quoteID)
}

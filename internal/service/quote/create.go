package quote

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dkoval/fieldops-backend/internal/domain"
	"github.com/dkoval/fieldops-backend/pkg/ctxutil"
)

// Create validates client ownership, allocates a quote number, computes
// totals and persists the quote with its line items in one transaction.
// Expiry defaults to the configured number of days from today when the
// input leaves it unset.
func (s *Service) Create(ctx context.Context, input CreateInput) (domain.Quote, error) {
	accountID, ok := ctxutil.AccountIDFromCtx(ctx)
	if !ok {
		return domain.Quote{}, domain.ErrUnauthorized
	}

	if err := input.Validate(s.cfg.MaxLineItemsPerQuote); err != nil {
		return domain.Quote{}, err
	}

	if _, err := s.clients.GetByID(ctx, accountID, input.ClientID); err != nil {
		return domain.Quote{}, fmt.Errorf("validate client: %w", err)
	}

	items := buildItems(input.Items)
	totals := domain.CalculateQuoteTotals(items, input.TaxRate, input.DiscountAmount)

	expiry := input.ExpiryDate
	if expiry == nil {
		d := s.clock.Now().AddDate(0, 0, s.cfg.QuoteExpiryDays)
		expiry = &d
	}

	var created domain.Quote
	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		number, err := s.numbers.Next(txCtx, accountID, domain.DocumentTypeQuote)
		if err != nil {
			return fmt.Errorf("allocate quote number: %w", err)
		}

		created, err = s.quotes.Create(txCtx, domain.Quote{
			AccountID:      accountID,
			ClientID:       input.ClientID,
			Number:         number,
			Title:          input.Title,
			Description:    input.Description,
			Address:        input.Address,
			Status:         domain.QuoteStatusDraft,
			Items:          items,
			TaxRate:        input.TaxRate,
			DiscountAmount: input.DiscountAmount,
			Subtotal:       totals.Subtotal,
			TaxAmount:      totals.TaxAmount,
			Total:          totals.Total,
			ExpiryDate:     expiry,
		})
		if err != nil {
			return fmt.Errorf("create quote: %w", err)
		}
		return nil
	})
	if txErr != nil {
		return domain.Quote{}, txErr
	}

	s.log.InfoContext(ctx, "quote created",
		"quote_id", created.ID, "number", created.Number, "total", created.Total)

	return created, nil
}

// Get returns a quote with its line items.
func (s *Service) Get(ctx context.Context, quoteID uuid.UUID) (domain.Quote, error) {
	accountID, ok := ctxutil.AccountIDFromCtx(ctx)
	if !ok {
		return domain.Quote{}, domain.ErrUnauthorized
	}

	return s.quotes.GetByID(ctx, accountID, quoteID)
}

// List returns the account's quotes without line items, newest first.
func (s *Service) List(ctx context.Context) ([]domain.Quote, error) {
	accountID, ok := ctxutil.AccountIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	return s.quotes.List(ctx, accountID)
}

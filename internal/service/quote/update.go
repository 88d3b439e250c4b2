package quote

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dkoval/fieldops-backend/internal/domain"
	"github.com/dkoval/fieldops-backend/pkg/ctxutil"
)

// Update edits a quote. When line items are supplied the existing set is
// replaced wholesale; otherwise totals are recomputed against the current
// items. Approved and converted quotes are immutable.
func (s *Service) Update(ctx context.Context, quoteID uuid.UUID, input UpdateInput) (domain.Quote, error) {
	accountID, ok := ctxutil.AccountIDFromCtx(ctx)
	if !ok {
		return domain.Quote{}, domain.ErrUnauthorized
	}

	if err := input.Validate(s.cfg.MaxLineItemsPerQuote); err != nil {
		return domain.Quote{}, err
	}

	current, err := s.quotes.GetByID(ctx, accountID, quoteID)
	if err != nil {
		return domain.Quote{}, err
	}
	if current.Status == domain.QuoteStatusApproved || current.Status == domain.QuoteStatusConverted {
		return domain.Quote{}, fmt.Errorf("quote %s is %s: %w", quoteID, current.Status, domain.ErrInvalidTransition)
	}

	updated := current
	if input.Title != nil {
		updated.Title = *input.Title
	}
	if input.Description != nil {
		updated.Description = *input.Description
	}
	if input.Address != nil {
		updated.Address = *input.Address
	}
	if input.TaxRate != nil {
		updated.TaxRate = *input.TaxRate
	}
	if input.DiscountAmount != nil {
		updated.DiscountAmount = *input.DiscountAmount
	}
	if input.ExpiryDate != nil {
		updated.ExpiryDate = input.ExpiryDate
	}

	items := current.Items
	if input.Items != nil {
		items = buildItems(input.Items)
	}

	totals := domain.CalculateQuoteTotals(items, updated.TaxRate, updated.DiscountAmount)
	updated.Subtotal = totals.Subtotal
	updated.TaxAmount = totals.TaxAmount
	updated.Total = totals.Total

	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.quotes.Update(txCtx, updated); err != nil {
			return fmt.Errorf("update quote: %w", err)
		}
		if input.Items != nil {
			if _, err := s.quotes.ReplaceItems(txCtx, quoteID, items); err != nil {
				return fmt.Errorf("replace line items: %w", err)
			}
		}
		return nil
	})
	if txErr != nil {
		return domain.Quote{}, txErr
	}

	return s.quotes.GetByID(ctx, accountID, quoteID)
}

// Delete soft-deletes a quote. Only drafts can be deleted.
func (s *Service) Delete(ctx context.Context, quoteID uuid.UUID) error {
	accountID, ok := ctxutil.AccountIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	current, err := s.quotes.GetByID(ctx, accountID, quoteID)
	if err != nil {
		return err
	}
	if current.Status != domain.QuoteStatusDraft {
		return fmt.Errorf("quote %s is %s: %w", quoteID, current.Status, domain.ErrInvalidTransition)
	}

	if err := s.quotes.SoftDelete(ctx, accountID, quoteID); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "quote deleted", "quote_id", quoteID, "number", current.Number)
	return nil
}

package quote

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dkoval/fieldops-backend/internal/domain"
)

// LineItemInput holds one priced line of a quote. A nil Taxable means
// taxable: lines are taxed unless the caller opts out.
type LineItemInput struct {
	ItemType  string
	Name      string
	Quantity  float64
	UnitPrice float64
	Taxable   *bool
}

// CreateInput holds the parameters for creating a quote.
type CreateInput struct {
	ClientID       uuid.UUID
	Title          string
	Description    string
	Address        string
	TaxRate        float64
	DiscountAmount float64
	ExpiryDate     *time.Time
	Items          []LineItemInput
}

// Validate checks all fields and collects all errors.
func (i *CreateInput) Validate(maxItems int) error {
	var errs []domain.FieldError

	if i.ClientID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "client_id", Message: "required"})
	}
	if i.Title == "" {
		errs = append(errs, domain.FieldError{Field: "title", Message: "required"})
	} else if len(i.Title) > 500 {
		errs = append(errs, domain.FieldError{Field: "title", Message: "too long (max 500)"})
	}
	errs = append(errs, validateRates(i.TaxRate, i.DiscountAmount)...)
	errs = append(errs, validateItems(i.Items, maxItems)...)

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// UpdateInput holds the optional fields of a quote update. A nil Items
// leaves the existing line items in place and only recomputes totals.
type UpdateInput struct {
	Title          *string
	Description    *string
	Address        *string
	TaxRate        *float64
	DiscountAmount *float64
	ExpiryDate     *time.Time
	Items          []LineItemInput
}

// Validate checks all fields and collects all errors.
func (i *UpdateInput) Validate(maxItems int) error {
	var errs []domain.FieldError

	if i.Title != nil {
		if *i.Title == "" {
			errs = append(errs, domain.FieldError{Field: "title", Message: "required"})
		} else if len(*i.Title) > 500 {
			errs = append(errs, domain.FieldError{Field: "title", Message: "too long (max 500)"})
		}
	}
	if i.TaxRate != nil && (*i.TaxRate < 0 || *i.TaxRate > 1) {
		errs = append(errs, domain.FieldError{Field: "tax_rate", Message: "must be between 0 and 1"})
	}
	if i.DiscountAmount != nil && *i.DiscountAmount < 0 {
		errs = append(errs, domain.FieldError{Field: "discount_amount", Message: "must be >= 0"})
	}
	if i.Items != nil {
		errs = append(errs, validateItems(i.Items, maxItems)...)
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func validateRates(taxRate, discount float64) []domain.FieldError {
	var errs []domain.FieldError

	if taxRate < 0 || taxRate > 1 {
		errs = append(errs, domain.FieldError{Field: "tax_rate", Message: "must be between 0 and 1"})
	}
	if discount < 0 {
		errs = append(errs, domain.FieldError{Field: "discount_amount", Message: "must be >= 0"})
	}
	return errs
}

func validateItems(items []LineItemInput, max int) []domain.FieldError {
	var errs []domain.FieldError

	if len(items) == 0 {
		errs = append(errs, domain.FieldError{Field: "items", Message: "at least one line item required"})
		return errs
	}
	if len(items) > max {
		errs = append(errs, domain.FieldError{Field: "items", Message: "too many"})
		return errs
	}

	for idx, item := range items {
		field := fmt.Sprintf("items[%d]", idx)
		if item.Name == "" {
			errs = append(errs, domain.FieldError{Field: field + ".name", Message: "required"})
		}
		if item.Quantity <= 0 {
			errs = append(errs, domain.FieldError{Field: field + ".quantity", Message: "must be > 0"})
		}
		if item.UnitPrice < 0 {
			errs = append(errs, domain.FieldError{Field: field + ".unit_price", Message: "must be >= 0"})
		}
	}
	return errs
}

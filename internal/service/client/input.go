package client

import (
	"strings"

	"github.com/dkoval/fieldops-backend/internal/domain"
)

// CreateInput holds the parameters for creating a client.
type CreateInput struct {
	Name    string
	Email   string
	Phone   string
	Address string
	Notes   string
}

// Validate checks all fields and collects all errors.
func (i *CreateInput) Validate() error {
	var errs []domain.FieldError

	if i.Name == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
	} else if len(i.Name) > 255 {
		errs = append(errs, domain.FieldError{Field: "name", Message: "too long (max 255)"})
	}
	errs = append(errs, validateEmail(i.Email)...)

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// UpdateInput holds the optional fields of a client update.
type UpdateInput struct {
	Name    *string
	Email   *string
	Phone   *string
	Address *string
	Notes   *string
}

// Validate checks all fields and collects all errors.
func (i *UpdateInput) Validate() error {
	var errs []domain.FieldError

	if i.Name != nil {
		if *i.Name == "" {
			errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
		} else if len(*i.Name) > 255 {
			errs = append(errs, domain.FieldError{Field: "name", Message: "too long (max 255)"})
		}
	}
	if i.Email != nil {
		errs = append(errs, validateEmail(*i.Email)...)
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func validateEmail(email string) []domain.FieldError {
	var errs []domain.FieldError

	if email == "" {
		errs = append(errs, domain.FieldError{Field: "email", Message: "required"})
	} else if !strings.Contains(email, "@") || len(email) > 255 {
		errs = append(errs, domain.FieldError{Field: "email", Message: "invalid"})
	}
	return errs
}

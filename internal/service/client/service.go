// Package client implements client management for an account.
package client

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dkoval/fieldops-backend/internal/domain"
	"github.com/dkoval/fieldops-backend/pkg/ctxutil"
)

type clientRepo interface {
	GetByID(ctx context.Context, accountID, clientID uuid.UUID) (domain.Client, error)
	List(ctx context.Context, accountID uuid.UUID) ([]domain.Client, error)
	Create(ctx context.Context, c domain.Client) (domain.Client, error)
	Update(ctx context.Context, c domain.Client) (domain.Client, error)
	SoftDelete(ctx context.Context, accountID, clientID uuid.UUID) error
}

// Service implements the client business logic.
type Service struct {
	log     *slog.Logger
	clients clientRepo
}

// NewService creates a new Client service.
func NewService(log *slog.Logger, clients clientRepo) *Service {
	return &Service{
		log:     log.With("service", "client"),
		clients: clients,
	}
}

// Create adds a client to the account. A duplicate email within the
// account surfaces as ErrAlreadyExists.
func (s *Service) Create(ctx context.Context, input CreateInput) (domain.Client, error) {
	accountID, ok := ctxutil.AccountIDFromCtx(ctx)
	if !ok {
		return domain.Client{}, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return domain.Client{}, err
	}

	created, err := s.clients.Create(ctx, domain.Client{
		AccountID: accountID,
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		Address:   input.Address,
		Notes:     input.Notes,
	})
	if err != nil {
		return domain.Client{}, err
	}

	s.log.InfoContext(ctx, "client created", "client_id", created.ID)

	return created, nil
}

// Get returns a client by ID.
func (s *Service) Get(ctx context.Context, clientID uuid.UUID) (domain.Client, error) {
	accountID, ok := ctxutil.AccountIDFromCtx(ctx)
	if !ok {
		return domain.Client{}, domain.ErrUnauthorized
	}

	return s.clients.GetByID(ctx, accountID, clientID)
}

// List returns the account's clients ordered by name.
func (s *Service) List(ctx context.Context) ([]domain.Client, error) {
	accountID, ok := ctxutil.AccountIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	return s.clients.List(ctx, accountID)
}

// Update applies the non-nil fields of input to the client.
func (s *Service) Update(ctx context.Context, clientID uuid.UUID, input UpdateInput) (domain.Client, error) {
	accountID, ok := ctxutil.AccountIDFromCtx(ctx)
	if !ok {
		return domain.Client{}, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return domain.Client{}, err
	}

	current, err := s.clients.GetByID(ctx, accountID, clientID)
	if err != nil {
		return domain.Client{}, err
	}

	if input.Name != nil {
		current.Name = *input.Name
	}
	if input.Email != nil {
		current.Email = *input.Email
	}
	if input.Phone != nil {
		current.Phone = *input.Phone
	}
	if input.Address != nil {
		current.Address = *input.Address
	}
	if input.Notes != nil {
		current.Notes = *input.Notes
	}

	return s.clients.Update(ctx, current)
}

// Delete soft-deletes a client. Existing jobs and quotes keep their
// reference.
func (s *Service) Delete(ctx context.Context, clientID uuid.UUID) error {
	accountID, ok := ctxutil.AccountIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}

	if err := s.clients.SoftDelete(ctx, accountID, clientID); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "client deleted", "client_id", clientID)
	return nil
}

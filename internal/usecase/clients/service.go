package clients

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/simaogato/portfolio-tracker/internal/domain"
)

const (
	DefaultListLimit = 10
	MaxListLimit     = 100
)

// CreateClientInput represents the input for registering a client
type CreateClientInput struct {
	Name     string
	Email    string
	IsActive *bool // defaults to true
}

// ClientService handles client lifecycle operations
type ClientService struct {
	ClientRepo domain.ClientRepository
	log        zerolog.Logger
}

// NewClientService creates a new ClientService instance
func NewClientService(clientRepo domain.ClientRepository, log zerolog.Logger) *ClientService {
	return &ClientService{
		ClientRepo: clientRepo,
		log:        log.With().Str("component", "clients").Logger(),
	}
}

// CreateClient validates and stores a new client
// The email must be unique across clients (ErrDuplicateEmail)
func (s *ClientService) CreateClient(ctx context.Context, input CreateClientInput) (*domain.Client, error) {
	client := &domain.Client{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(input.Name),
		Email:     strings.TrimSpace(input.Email),
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
	if input.IsActive != nil {
		client.IsActive = *input.IsActive
	}

	if err := client.Validate(); err != nil {
		return nil, err
	}

	if err := s.ClientRepo.Create(ctx, client); err != nil {
		return nil, err
	}

	s.log.Info().Str("client_id", client.ID.String()).Msg("Client created")
	return client, nil
}

// GetClient returns a client by id
func (s *ClientService) GetClient(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	return s.ClientRepo.GetByID(ctx, id)
}

// ListClients returns one page of clients
// A limit outside 1..MaxListLimit is replaced: zero or less by DefaultListLimit,
// above the maximum by MaxListLimit. A negative offset is treated as zero.
func (s *ClientService) ListClients(ctx context.Context, filter domain.ClientFilter) ([]*domain.Client, error) {
	filter.Query = strings.TrimSpace(filter.Query)
	switch {
	case filter.Limit <= 0:
		filter.Limit = DefaultListLimit
	case filter.Limit > MaxListLimit:
		filter.Limit = MaxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	return s.ClientRepo.List(ctx, filter)
}

// UpdateClient applies a partial update to an existing client
func (s *ClientService) UpdateClient(ctx context.Context, id uuid.UUID, update domain.ClientUpdate) (*domain.Client, error) {
	if err := update.Validate(); err != nil {
		return nil, err
	}

	client, err := s.ClientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	update.Apply(client)
	if err := s.ClientRepo.Update(ctx, client); err != nil {
		return nil, err
	}

	return client, nil
}

// DeleteClient removes a client together with its allocations
// Deleting an unknown client is a no-op
func (s *ClientService) DeleteClient(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.ClientRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if deleted {
		s.log.Info().Str("client_id", id.String()).Msg("Client deleted")
	}
	return nil
}

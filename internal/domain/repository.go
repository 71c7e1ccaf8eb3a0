package domain

import (
	"context"

	"github.com/google/uuid"
)

// ClientRepository defines the interface for client persistence operations
type ClientRepository interface {
	// Create inserts a new client
	// Returns ErrDuplicateEmail if the email is already taken
	Create(ctx context.Context, client *Client) error

	// GetByID retrieves a client by its ID
	// Returns ErrClientNotFound if no such client exists
	GetByID(ctx context.Context, id uuid.UUID) (*Client, error)

	// List retrieves clients matching the filter, oldest first
	List(ctx context.Context, filter ClientFilter) ([]*Client, error)

	// Update overwrites name, email and active flag of an existing client
	Update(ctx context.Context, client *Client) error

	// Delete removes a client and all of its allocations in one transaction
	// Returns false if the client did not exist
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// AssetRepository defines the interface for asset persistence operations
type AssetRepository interface {
	// GetByTicker retrieves an asset by its normalized ticker
	// Returns ErrAssetNotFound if the ticker is not provisioned
	GetByTicker(ctx context.Context, ticker string) (*Asset, error)

	// Create inserts a new asset as a single-row insert
	// Returns ErrDuplicateTicker if the ticker already exists
	Create(ctx context.Context, asset *Asset) error

	// List retrieves all assets ordered by ticker
	List(ctx context.Context) ([]*Asset, error)
}

// AllocationRepository defines the interface for allocation persistence operations
type AllocationRepository interface {
	// Create inserts a new allocation as a single-row insert
	// Returns ErrDuplicateAllocation if the (client, asset) pair already holds a lot
	Create(ctx context.Context, allocation *Allocation) error

	// ListByClient retrieves every allocation of a client with its asset ticker,
	// ordered by buy date then ID
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]*Allocation, error)
}

package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/portfolio-tracker/internal/domain"
)

// AddAllocationInput represents the input for recording a lot
type AddAllocationInput struct {
	ClientID uuid.UUID
	Ticker   string
	Quantity decimal.Decimal
	BuyPrice decimal.Decimal
	BuyDate  string // ISO-8601 calendar date
}

// AllocationService handles allocation (lot) bookkeeping
type AllocationService struct {
	ClientRepo     domain.ClientRepository
	AssetRepo      domain.AssetRepository
	AllocationRepo domain.AllocationRepository
}

// NewAllocationService creates a new AllocationService instance
func NewAllocationService(
	clientRepo domain.ClientRepository,
	assetRepo domain.AssetRepository,
	allocationRepo domain.AllocationRepository,
) *AllocationService {
	return &AllocationService{
		ClientRepo:     clientRepo,
		AssetRepo:      assetRepo,
		AllocationRepo: allocationRepo,
	}
}

// AddAllocation records a new lot for a client
// Logic:
//  1. The client must exist (ErrClientNotFound)
//  2. The asset must already be provisioned (ErrAssetNotProvisioned); this never provisions
//  3. The buy date must be YYYY-MM-DD (ErrInvalidDate)
//  4. Insert; a second lot for the same (client, asset) fails with ErrDuplicateAllocation
func (s *AllocationService) AddAllocation(ctx context.Context, input AddAllocationInput) (*domain.Allocation, error) {
	if _, err := s.ClientRepo.GetByID(ctx, input.ClientID); err != nil {
		return nil, err
	}

	ticker := domain.NormalizeTicker(input.Ticker)
	asset, err := s.AssetRepo.GetByTicker(ctx, ticker)
	if err != nil {
		if errors.Is(err, domain.ErrAssetNotFound) {
			return nil, fmt.Errorf("%w: create it via /allocations/assets/%s first", domain.ErrAssetNotProvisioned, ticker)
		}
		return nil, err
	}

	buyDate, err := domain.ParseBuyDate(input.BuyDate)
	if err != nil {
		return nil, err
	}

	allocation := &domain.Allocation{
		ID:       uuid.New(),
		ClientID: input.ClientID,
		AssetID:  asset.ID,
		Quantity: input.Quantity,
		BuyPrice: input.BuyPrice,
		BuyDate:  buyDate,
		Ticker:   asset.Ticker,
	}

	if err := s.AllocationRepo.Create(ctx, allocation); err != nil {
		return nil, err
	}

	return allocation, nil
}

// ListAllocations returns all and only the lots of a client
func (s *AllocationService) ListAllocations(ctx context.Context, clientID uuid.UUID) ([]*domain.Allocation, error) {
	if _, err := s.ClientRepo.GetByID(ctx, clientID); err != nil {
		return nil, err
	}

	return s.AllocationRepo.ListByClient(ctx, clientID)
}

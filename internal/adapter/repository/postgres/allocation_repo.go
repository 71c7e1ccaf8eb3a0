package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/portfolio-tracker/internal/domain"
)

// allocationRepository implements domain.AllocationRepository
type allocationRepository struct {
	db *DB
}

// NewAllocationRepository creates a new allocation repository
func NewAllocationRepository(db *DB) domain.AllocationRepository {
	return &allocationRepository{db: db}
}

// Create inserts a new allocation
func (r *allocationRepository) Create(ctx context.Context, allocation *domain.Allocation) error {
	query := `
		INSERT INTO allocations (id, client_id, asset_id, quantity, buy_price, buy_date)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		allocation.ID,
		allocation.ClientID,
		allocation.AssetID,
		allocation.Quantity.String(),
		allocation.BuyPrice.String(),
		domain.FormatDate(allocation.BuyDate),
	)
	if err != nil {
		if isUniqueViolation(err, "allocations_client_asset_key") {
			return fmt.Errorf("%w: client %s, asset %s", domain.ErrDuplicateAllocation, allocation.ClientID, allocation.AssetID)
		}
		return fmt.Errorf("failed to create allocation: %w", err)
	}

	return nil
}

// ListByClient retrieves every allocation of a client with its asset ticker
func (r *allocationRepository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*domain.Allocation, error) {
	query := `
		SELECT a.id, a.client_id, a.asset_id, s.ticker, a.quantity, a.buy_price, a.buy_date
		FROM allocations a
		JOIN assets s ON s.id = a.asset_id
		WHERE a.client_id = $1
		ORDER BY a.buy_date ASC, a.id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list allocations: %w", err)
	}
	defer rows.Close()

	allocations := []*domain.Allocation{}
	for rows.Next() {
		var allocation domain.Allocation
		var quantityStr, buyPriceStr string

		if err := rows.Scan(
			&allocation.ID,
			&allocation.ClientID,
			&allocation.AssetID,
			&allocation.Ticker,
			&quantityStr,
			&buyPriceStr,
			&allocation.BuyDate,
		); err != nil {
			return nil, fmt.Errorf("failed to scan allocation: %w", err)
		}

		// Parse quantity and buy_price (NUMERIC)
		quantity, err := decimal.NewFromString(quantityStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse quantity: %w", err)
		}
		buyPrice, err := decimal.NewFromString(buyPriceStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse buy_price: %w", err)
		}
		allocation.Quantity = quantity
		allocation.BuyPrice = buyPrice
		allocation.BuyDate = allocation.BuyDate.UTC()

		allocations = append(allocations, &allocation)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating allocations: %w", err)
	}

	return allocations, nil
}

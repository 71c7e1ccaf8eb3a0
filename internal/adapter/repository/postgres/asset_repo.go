package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/simaogato/portfolio-tracker/internal/domain"
)

// assetRepository implements domain.AssetRepository
type assetRepository struct {
	db *DB
}

// NewAssetRepository creates a new asset repository
func NewAssetRepository(db *DB) domain.AssetRepository {
	return &assetRepository{db: db}
}

// GetByTicker retrieves an asset by its normalized ticker
func (r *assetRepository) GetByTicker(ctx context.Context, ticker string) (*domain.Asset, error) {
	query := `
		SELECT id, ticker, created_at
		FROM assets
		WHERE ticker = $1
	`

	var asset domain.Asset
	err := r.db.QueryRowContext(ctx, query, ticker).Scan(
		&asset.ID,
		&asset.Ticker,
		&asset.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrAssetNotFound, ticker)
		}
		return nil, fmt.Errorf("failed to get asset by ticker: %w", err)
	}

	return &asset, nil
}

// Create inserts a new asset
func (r *assetRepository) Create(ctx context.Context, asset *domain.Asset) error {
	query := `
		INSERT INTO assets (id, ticker, created_at)
		VALUES ($1, $2, $3)
	`

	_, err := r.db.ExecContext(ctx, query, asset.ID, asset.Ticker, asset.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "assets_ticker_key") {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateTicker, asset.Ticker)
		}
		return fmt.Errorf("failed to create asset: %w", err)
	}

	return nil
}

// List retrieves all assets ordered by ticker
func (r *assetRepository) List(ctx context.Context) ([]*domain.Asset, error) {
	query := `
		SELECT id, ticker, created_at
		FROM assets
		ORDER BY ticker ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	defer rows.Close()

	assets := []*domain.Asset{}
	for rows.Next() {
		var asset domain.Asset
		if err := rows.Scan(&asset.ID, &asset.Ticker, &asset.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan asset: %w", err)
		}
		assets = append(assets, &asset)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assets: %w", err)
	}

	return assets, nil
}

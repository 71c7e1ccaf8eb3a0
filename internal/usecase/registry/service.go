package registry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/simaogato/portfolio-tracker/internal/domain"
)

// AssetService provisions assets: a ticker becomes known locally once the
// quote provider confirms it has data for it
type AssetService struct {
	AssetRepo domain.AssetRepository
	Quotes    domain.QuoteProvider
	log       zerolog.Logger
}

// NewAssetService creates a new AssetService instance
func NewAssetService(assetRepo domain.AssetRepository, quotes domain.QuoteProvider, log zerolog.Logger) *AssetService {
	return &AssetService{
		AssetRepo: assetRepo,
		Quotes:    quotes,
		log:       log.With().Str("component", "asset_registry").Logger(),
	}
}

// EnsureAsset returns the asset for ticker, creating it on first use
// Logic:
//  1. Normalize the ticker (trim, upper-case)
//  2. If the asset already exists, return it without asking the provider
//  3. Otherwise ask the provider for a quote:
//     - no data     -> ErrInvalidTicker
//     - rate limit  -> ErrProviderThrottled
//     - other error -> ErrProviderUnavailable
//  4. Insert the asset. The quote lookup has completed before the insert starts.
func (s *AssetService) EnsureAsset(ctx context.Context, rawTicker string) (*domain.Asset, error) {
	ticker := domain.NormalizeTicker(rawTicker)
	if err := domain.ValidateTicker(ticker); err != nil {
		return nil, err
	}

	existing, err := s.AssetRepo.GetByTicker(ctx, ticker)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrAssetNotFound) {
		return nil, err
	}

	if _, err := s.Quotes.GetQuote(ctx, ticker); err != nil {
		return nil, classifyQuoteError(ticker, err)
	}

	asset := &domain.Asset{
		ID:        uuid.New(),
		Ticker:    ticker,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.AssetRepo.Create(ctx, asset); err != nil {
		if !errors.Is(err, domain.ErrDuplicateTicker) {
			return nil, err
		}
		// A concurrent call created the same ticker first; return its row
		winner, getErr := s.AssetRepo.GetByTicker(ctx, ticker)
		if getErr != nil {
			return nil, fmt.Errorf("failed to load concurrently created asset %s: %w", ticker, getErr)
		}
		return winner, nil
	}

	s.log.Info().Str("ticker", ticker).Str("asset_id", asset.ID.String()).Msg("Asset provisioned")
	return asset, nil
}

// GetAsset returns a provisioned asset without contacting the provider
func (s *AssetService) GetAsset(ctx context.Context, rawTicker string) (*domain.Asset, error) {
	return s.AssetRepo.GetByTicker(ctx, domain.NormalizeTicker(rawTicker))
}

// ListAssets returns every provisioned asset
func (s *AssetService) ListAssets(ctx context.Context) ([]*domain.Asset, error) {
	return s.AssetRepo.List(ctx)
}

// classifyQuoteError keeps "no data" apart from "could not ask"
func classifyQuoteError(ticker string, err error) error {
	switch {
	case errors.Is(err, domain.ErrNoQuoteData):
		return fmt.Errorf("%w: %s", domain.ErrInvalidTicker, ticker)
	case errors.Is(err, domain.ErrRateLimited):
		return fmt.Errorf("%w: %w", domain.ErrProviderThrottled, err)
	default:
		return fmt.Errorf("%w: %w", domain.ErrProviderUnavailable, err)
	}
}

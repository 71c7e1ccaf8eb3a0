package enrichment

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/simaogato/portfolio-tracker/internal/domain"
	"github.com/simaogato/portfolio-tracker/internal/usecase/ledger"
)

// DefaultConcurrency bounds in-flight quote lookups per Enrich call
const DefaultConcurrency = 4

var hundred = decimal.NewFromInt(100)

// EnrichmentService joins a client's lots with live quotes
type EnrichmentService struct {
	Ledger      *ledger.AllocationService
	Quotes      domain.QuoteProvider
	Concurrency int
	log         zerolog.Logger
}

// NewEnrichmentService creates a new EnrichmentService instance
// A non-positive concurrency falls back to DefaultConcurrency
func NewEnrichmentService(ledgerService *ledger.AllocationService, quotes domain.QuoteProvider, concurrency int, log zerolog.Logger) *EnrichmentService {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &EnrichmentService{
		Ledger:      ledgerService,
		Quotes:      quotes,
		Concurrency: concurrency,
		log:         log.With().Str("component", "enrichment").Logger(),
	}
}

// Enrich returns one row per allocation of the client, in ledger order
// Logic:
//   - One quote lookup per allocation, no deduplication by ticker
//   - Lookups run concurrently; each row depends only on its own lookup
//   - A failed lookup leaves price, change and P&L unknown for that row only
func (s *EnrichmentService) Enrich(ctx context.Context, clientID uuid.UUID) ([]*domain.EnrichedAllocation, error) {
	allocations, err := s.Ledger.ListAllocations(ctx, clientID)
	if err != nil {
		return nil, err
	}

	rows := make([]*domain.EnrichedAllocation, len(allocations))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.Concurrency)
	for i, allocation := range allocations {
		g.Go(func() error {
			rows[i] = s.enrichOne(gctx, allocation)
			return nil
		})
	}
	// Lookups never return an error; failures are absorbed per row
	_ = g.Wait()

	return rows, nil
}

func (s *EnrichmentService) enrichOne(ctx context.Context, allocation *domain.Allocation) *domain.EnrichedAllocation {
	row := &domain.EnrichedAllocation{
		AllocationID: allocation.ID,
		Ticker:       allocation.Ticker,
		Quantity:     allocation.Quantity,
		BuyPrice:     allocation.BuyPrice,
		BuyDate:      allocation.BuyDate,
	}

	quote, err := s.Quotes.GetQuote(ctx, allocation.Ticker)
	if err != nil {
		s.log.Warn().
			Err(err).
			Str("ticker", allocation.Ticker).
			Str("allocation_id", allocation.ID.String()).
			Msg("Quote unavailable, leaving row unpriced")
		return row
	}

	pnlAbs, pnlPct := CalculatePnL(quote.Price, allocation.BuyPrice, allocation.Quantity)
	row.PriceNow = decimal.NewNullDecimal(quote.Price)
	row.DayChangePct = decimal.NewNullDecimal(quote.ChangePct)
	row.PnLAbs = decimal.NewNullDecimal(pnlAbs)
	row.PnLPct = pnlPct

	return row
}

// CalculatePnL computes absolute and percentage profit/loss of a lot
// Logic:
//
//	pnlAbs = (price - buyPrice) * quantity
//	pnlPct = (price / buyPrice - 1) * 100, unknown unless buyPrice > 0
func CalculatePnL(price, buyPrice, quantity decimal.Decimal) (decimal.Decimal, decimal.NullDecimal) {
	pnlAbs := price.Sub(buyPrice).Mul(quantity)

	var pnlPct decimal.NullDecimal
	if buyPrice.GreaterThan(decimal.Zero) {
		pnlPct = decimal.NewNullDecimal(price.Div(buyPrice).Sub(decimal.NewFromInt(1)).Mul(hundred))
	}

	return pnlAbs, pnlPct
}

package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// Quote is a snapshot of an asset's market price. It is never persisted.
type Quote struct {
	Price         decimal.Decimal
	PreviousClose decimal.Decimal
	ChangePct     decimal.Decimal // passed through from the provider
}

// QuoteProvider fetches live quotes from an external source.
// Implementations return ErrNoQuoteData when the ticker is unknown or has no data,
// ErrRateLimited when the provider throttles, and any other error when the
// provider could not be reached.
type QuoteProvider interface {
	GetQuote(ctx context.Context, ticker string) (*Quote, error)
}

package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxTickerLength matches the width of assets.ticker
const MaxTickerLength = 20

// Asset represents a tradable instrument known locally
// Assets are created lazily on the first successful quote lookup and never updated
type Asset struct {
	ID        uuid.UUID
	Ticker    string // canonical form, see NormalizeTicker
	CreatedAt time.Time
}

// DailyReturn is a per-asset closing price snapshot (daily_returns table)
type DailyReturn struct {
	ID         uuid.UUID
	AssetID    uuid.UUID
	Date       time.Time
	ClosePrice decimal.Decimal
}

// NormalizeTicker returns the canonical identity key of a ticker:
// surrounding whitespace trimmed, upper-cased
func NormalizeTicker(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// ValidateTicker rejects tickers that can never be stored.
// It expects an already normalized ticker.
func ValidateTicker(ticker string) error {
	if ticker == "" {
		return fmt.Errorf("%w: ticker cannot be empty", ErrInvalidTicker)
	}
	if len(ticker) > MaxTickerLength {
		return fmt.Errorf("%w: ticker %q exceeds %d characters", ErrInvalidTicker, ticker, MaxTickerLength)
	}
	return nil
}

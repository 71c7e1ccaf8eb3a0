package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateLayout is the ISO-8601 calendar date format used for buy dates
const DateLayout = "2006-01-02"

// Allocation represents a single lot: a quantity of an asset bought by a client
// at a price on a date. At most one lot exists per (client, asset) pair.
type Allocation struct {
	ID       uuid.UUID
	ClientID uuid.UUID
	AssetID  uuid.UUID
	Quantity decimal.Decimal // signed, not range-checked
	BuyPrice decimal.Decimal
	BuyDate  time.Time // calendar date, UTC midnight

	// Ticker of the referenced asset. Populated on reads only.
	Ticker string
}

// EnrichedAllocation is an allocation joined with a live quote.
// Null decimals mean "unknown": no quote was available or the value is undefined.
type EnrichedAllocation struct {
	AllocationID uuid.UUID
	Ticker       string
	Quantity     decimal.Decimal
	BuyPrice     decimal.Decimal
	BuyDate      time.Time
	PriceNow     decimal.NullDecimal
	DayChangePct decimal.NullDecimal
	PnLAbs       decimal.NullDecimal
	PnLPct       decimal.NullDecimal
}

// ParseBuyDate parses an ISO-8601 calendar date (YYYY-MM-DD)
func ParseBuyDate(raw string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not an ISO-8601 date (YYYY-MM-DD)", ErrInvalidDate, raw)
	}
	return d, nil
}

// FormatDate renders a calendar date as YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

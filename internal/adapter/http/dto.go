package http

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/simaogato/portfolio-tracker/internal/domain"
)

type assetResponse struct {
	ID     string `json:"id"`
	Ticker string `json:"ticker"`
}

type allocationCreatedResponse struct {
	ID string `json:"id"`
}

// addAllocationRequest is the optional JSON body of add_allocation.
// Numbers may be sent as JSON numbers or strings.
type addAllocationRequest struct {
	Quantity *decimal.Decimal `json:"quantity"`
	BuyPrice *decimal.Decimal `json:"buy_price"`
	BuyDate  *string          `json:"buy_date"`
}

// enrichedAllocationResponse mirrors domain.EnrichedAllocation.
// Decimals render as JSON strings; unknown values render as null.
type enrichedAllocationResponse struct {
	AllocationID string              `json:"allocation_id"`
	Ticker       string              `json:"ticker"`
	Quantity     decimal.Decimal     `json:"quantity"`
	BuyPrice     decimal.Decimal     `json:"buy_price"`
	BuyDate      string              `json:"buy_date"`
	PriceNow     decimal.NullDecimal `json:"price_now"`
	DayChangePct decimal.NullDecimal `json:"day_change_pct"`
	PnLAbs       decimal.NullDecimal `json:"pnl_abs"`
	PnLPct       decimal.NullDecimal `json:"pnl_pct"`
}

type createClientRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	IsActive *bool  `json:"is_active"`
}

type updateClientRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	IsActive *bool   `json:"is_active"`
}

type clientResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func toAssetResponse(asset *domain.Asset) assetResponse {
	return assetResponse{ID: asset.ID.String(), Ticker: asset.Ticker}
}

func toEnrichedAllocationResponse(row *domain.EnrichedAllocation) enrichedAllocationResponse {
	return enrichedAllocationResponse{
		AllocationID: row.AllocationID.String(),
		Ticker:       row.Ticker,
		Quantity:     row.Quantity,
		BuyPrice:     row.BuyPrice,
		BuyDate:      domain.FormatDate(row.BuyDate),
		PriceNow:     row.PriceNow,
		DayChangePct: row.DayChangePct,
		PnLAbs:       row.PnLAbs,
		PnLPct:       row.PnLPct,
	}
}

func toClientResponse(client *domain.Client) clientResponse {
	return clientResponse{
		ID:        client.ID.String(),
		Name:      client.Name,
		Email:     client.Email,
		IsActive:  client.IsActive,
		CreatedAt: client.CreatedAt,
	}
}

package grpc

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/portfolio-tracker/internal/domain"
	"github.com/simaogato/portfolio-tracker/internal/usecase/enrichment"
	"github.com/simaogato/portfolio-tracker/internal/usecase/ledger"
	"github.com/simaogato/portfolio-tracker/internal/usecase/registry"
)

// Server implements the PortfolioService gRPC server
type Server struct {
	AssetService      *registry.AssetService
	AllocationService *ledger.AllocationService
	EnrichmentService *enrichment.EnrichmentService
}

// NewServer creates a new gRPC server instance
func NewServer(
	assetService *registry.AssetService,
	allocationService *ledger.AllocationService,
	enrichmentService *enrichment.EnrichmentService,
) *Server {
	return &Server{
		AssetService:      assetService,
		AllocationService: allocationService,
		EnrichmentService: enrichmentService,
	}
}

// EnsureAsset handles the EnsureAsset RPC
// Request: {"ticker": string}. Response: {"id": string, "ticker": string}.
func (s *Server) EnsureAsset(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	asset, err := s.AssetService.EnsureAsset(ctx, stringField(req, "ticker"))
	if err != nil {
		return nil, mapError(err)
	}

	return structpb.NewStruct(map[string]interface{}{
		"id":     asset.ID.String(),
		"ticker": asset.Ticker,
	})
}

// AddAllocation handles the AddAllocation RPC
// Request: {"client_id", "ticker", "quantity", "buy_price", "buy_date"}; numbers
// may be strings or JSON numbers. Response: {"id": string}.
func (s *Server) AddAllocation(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	clientID, err := uuid.Parse(stringField(req, "client_id"))
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid client_id format: %v", err)
	}

	quantity, err := decimalField(req, "quantity")
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid quantity: %v", err)
	}

	buyPrice, err := decimalField(req, "buy_price")
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid buy_price: %v", err)
	}

	allocation, err := s.AllocationService.AddAllocation(ctx, ledger.AddAllocationInput{
		ClientID: clientID,
		Ticker:   stringField(req, "ticker"),
		Quantity: quantity,
		BuyPrice: buyPrice,
		BuyDate:  stringField(req, "buy_date"),
	})
	if err != nil {
		return nil, mapError(err)
	}

	return structpb.NewStruct(map[string]interface{}{
		"id": allocation.ID.String(),
	})
}

// ListAllocations handles the ListAllocations RPC
// Request: {"client_id": string}. Response: {"allocations": [...]} where unknown
// values are null and decimals are strings.
func (s *Server) ListAllocations(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	clientID, err := uuid.Parse(stringField(req, "client_id"))
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid client_id format: %v", err)
	}

	rows, err := s.EnrichmentService.Enrich(ctx, clientID)
	if err != nil {
		return nil, mapError(err)
	}

	allocations := make([]interface{}, 0, len(rows))
	for _, row := range rows {
		allocations = append(allocations, map[string]interface{}{
			"allocation_id":  row.AllocationID.String(),
			"ticker":         row.Ticker,
			"quantity":       row.Quantity.String(),
			"buy_price":      row.BuyPrice.String(),
			"buy_date":       domain.FormatDate(row.BuyDate),
			"price_now":      nullableDecimal(row.PriceNow),
			"day_change_pct": nullableDecimal(row.DayChangePct),
			"pnl_abs":        nullableDecimal(row.PnLAbs),
			"pnl_pct":        nullableDecimal(row.PnLPct),
		})
	}

	return structpb.NewStruct(map[string]interface{}{
		"allocations": allocations,
	})
}

func stringField(req *structpb.Struct, name string) string {
	return req.GetFields()[name].GetStringValue()
}

// decimalField reads a required decimal sent either as a string or a number
func decimalField(req *structpb.Struct, name string) (decimal.Decimal, error) {
	value, ok := req.GetFields()[name]
	if !ok {
		return decimal.Decimal{}, errors.New("field is required")
	}

	switch kind := value.GetKind().(type) {
	case *structpb.Value_StringValue:
		return decimal.NewFromString(kind.StringValue)
	case *structpb.Value_NumberValue:
		if math.IsNaN(kind.NumberValue) || math.IsInf(kind.NumberValue, 0) {
			return decimal.Decimal{}, fmt.Errorf("%v is not a finite number", kind.NumberValue)
		}
		return decimal.NewFromFloat(kind.NumberValue), nil
	default:
		return decimal.Decimal{}, errors.New("must be a string or a number")
	}
}

func nullableDecimal(d decimal.NullDecimal) interface{} {
	if !d.Valid {
		return nil
	}
	return d.Decimal.String()
}

// mapError converts domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var validationErr *domain.ValidationError
	errorMsg := err.Error()

	switch {
	case errors.Is(err, domain.ErrClientNotFound),
		errors.Is(err, domain.ErrAssetNotFound):
		return status.Errorf(codes.NotFound, "%s", errorMsg)
	case errors.Is(err, domain.ErrAssetNotProvisioned):
		return status.Errorf(codes.FailedPrecondition, "%s", errorMsg)
	case errors.Is(err, domain.ErrInvalidTicker),
		errors.Is(err, domain.ErrInvalidDate),
		errors.As(err, &validationErr):
		return status.Errorf(codes.InvalidArgument, "%s", errorMsg)
	case errors.Is(err, domain.ErrProviderThrottled):
		return status.Errorf(codes.ResourceExhausted, "%s", errorMsg)
	case errors.Is(err, domain.ErrProviderUnavailable):
		return status.Errorf(codes.Unavailable, "%s", errorMsg)
	case errors.Is(err, domain.ErrDuplicateTicker),
		errors.Is(err, domain.ErrDuplicateAllocation),
		errors.Is(err, domain.ErrDuplicateEmail):
		return status.Errorf(codes.AlreadyExists, "%s", errorMsg)
	case errors.Is(err, context.Canceled):
		return status.Errorf(codes.Canceled, "%s", errorMsg)
	case errors.Is(err, context.DeadlineExceeded):
		return status.Errorf(codes.DeadlineExceeded, "%s", errorMsg)
	default:
		// Default to Internal error for unknown errors
		return status.Errorf(codes.Internal, "%s", errorMsg)
	}
}

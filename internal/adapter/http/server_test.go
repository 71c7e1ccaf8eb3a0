package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/portfolio-tracker/internal/domain"
	"github.com/simaogato/portfolio-tracker/internal/mocks"
	"github.com/simaogato/portfolio-tracker/internal/usecase/clients"
	"github.com/simaogato/portfolio-tracker/internal/usecase/enrichment"
	"github.com/simaogato/portfolio-tracker/internal/usecase/ledger"
	"github.com/simaogato/portfolio-tracker/internal/usecase/registry"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

type testServer struct {
	clientRepo     *mocks.ClientRepository
	assetRepo      *mocks.AssetRepository
	allocationRepo *mocks.AllocationRepository
	quotes         *mocks.QuoteProvider
	handler        http.Handler
}

func newTestServer(t *testing.T, health HealthChecker) *testServer {
	t.Helper()
	ts := &testServer{
		clientRepo:     new(mocks.ClientRepository),
		assetRepo:      new(mocks.AssetRepository),
		allocationRepo: new(mocks.AllocationRepository),
		quotes:         new(mocks.QuoteProvider),
	}

	log := zerolog.Nop()
	ledgerService := ledger.NewAllocationService(ts.clientRepo, ts.assetRepo, ts.allocationRepo)
	server := New(Config{
		Port:              0,
		Log:               log,
		Health:            health,
		AssetService:      registry.NewAssetService(ts.assetRepo, ts.quotes, log),
		AllocationService: ledgerService,
		EnrichmentService: enrichment.NewEnrichmentService(ledgerService, ts.quotes, 2, log),
		ClientService:     clients.NewClientService(ts.clientRepo, log),
	})
	ts.handler = server.Handler()
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func TestHealth(t *testing.T) {
	t.Run("Database up", func(t *testing.T) {
		ts := newTestServer(t, pingFunc(func(context.Context) error { return nil }))

		rec := ts.do(t, http.MethodGet, "/health", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	})

	t.Run("Database down", func(t *testing.T) {
		ts := newTestServer(t, pingFunc(func(context.Context) error { return errors.New("dial tcp: refused") }))

		rec := ts.do(t, http.MethodGet, "/health", "")

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestEnsureAsset(t *testing.T) {
	t.Run("Creates on first use", func(t *testing.T) {
		ts := newTestServer(t, nil)
		ts.assetRepo.On("GetByTicker", mock.Anything, "TSLA").Return(nil, domain.ErrAssetNotFound)
		ts.quotes.On("GetQuote", mock.Anything, "TSLA").Return(&domain.Quote{Price: decimal.NewFromInt(200)}, nil)
		ts.assetRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Asset")).Return(nil)

		rec := ts.do(t, http.MethodPost, "/allocations/assets/tsla", "")

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var body map[string]string
		decodeBody(t, rec, &body)
		assert.Equal(t, "TSLA", body["ticker"])
		_, err := uuid.Parse(body["id"])
		assert.NoError(t, err)
	})

	tests := []struct {
		name       string
		quoteErr   error
		wantStatus int
	}{
		{name: "Unknown ticker", quoteErr: domain.ErrNoQuoteData, wantStatus: http.StatusUnprocessableEntity},
		{name: "Rate limited", quoteErr: domain.ErrRateLimited, wantStatus: http.StatusTooManyRequests},
		{name: "Provider down", quoteErr: context.DeadlineExceeded, wantStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, nil)
			ts.assetRepo.On("GetByTicker", mock.Anything, "ZZZZ").Return(nil, domain.ErrAssetNotFound)
			ts.quotes.On("GetQuote", mock.Anything, "ZZZZ").Return(nil, tt.quoteErr)

			rec := ts.do(t, http.MethodPost, "/allocations/assets/ZZZZ", "")

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body errorResponse
			decodeBody(t, rec, &body)
			assert.NotEmpty(t, body.Error)
			ts.assetRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestGetAndListAssets(t *testing.T) {
	ts := newTestServer(t, nil)
	aapl := &domain.Asset{ID: uuid.New(), Ticker: "AAPL"}
	msft := &domain.Asset{ID: uuid.New(), Ticker: "MSFT"}
	ts.assetRepo.On("GetByTicker", mock.Anything, "AAPL").Return(aapl, nil)
	ts.assetRepo.On("GetByTicker", mock.Anything, "NOPE").Return(nil, domain.ErrAssetNotFound)
	ts.assetRepo.On("List", mock.Anything).Return([]*domain.Asset{aapl, msft}, nil)

	rec := ts.do(t, http.MethodGet, "/allocations/assets/aapl", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, fmt.Sprintf(`{"id":%q,"ticker":"AAPL"}`, aapl.ID), rec.Body.String())

	rec = ts.do(t, http.MethodGet, "/allocations/assets/NOPE", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodGet, "/allocations/assets", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	var listed []assetResponse
	decodeBody(t, rec, &listed)
	assert.Len(t, listed, 2)

	ts.quotes.AssertNotCalled(t, "GetQuote", mock.Anything, mock.Anything)
}

func TestAddAllocation(t *testing.T) {
	clientID := uuid.New()
	asset := &domain.Asset{ID: uuid.New(), Ticker: "AAPL"}

	setup := func(t *testing.T) *testServer {
		ts := newTestServer(t, nil)
		ts.clientRepo.On("GetByID", mock.Anything, clientID).Return(&domain.Client{ID: clientID}, nil)
		ts.assetRepo.On("GetByTicker", mock.Anything, "AAPL").Return(asset, nil)
		return ts
	}

	t.Run("Query parameters", func(t *testing.T) {
		ts := setup(t)
		ts.allocationRepo.On("Create", mock.Anything, mock.MatchedBy(func(a *domain.Allocation) bool {
			return a.AssetID == asset.ID &&
				a.Quantity.Equal(decimal.RequireFromString("10")) &&
				a.BuyPrice.Equal(decimal.RequireFromString("100.5")) &&
				domain.FormatDate(a.BuyDate) == "2024-01-15"
		})).Return(nil)

		path := fmt.Sprintf("/allocations/clients/%s/asset/aapl?quantity=10&buy_price=100.5&buy_date=2024-01-15", clientID)
		rec := ts.do(t, http.MethodPost, path, "")

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var body map[string]string
		decodeBody(t, rec, &body)
		assert.NotEmpty(t, body["id"])
		ts.allocationRepo.AssertExpectations(t)
	})

	t.Run("JSON body", func(t *testing.T) {
		ts := setup(t)
		ts.allocationRepo.On("Create", mock.Anything, mock.MatchedBy(func(a *domain.Allocation) bool {
			return a.Quantity.Equal(decimal.RequireFromString("2.5")) && a.BuyPrice.Equal(decimal.RequireFromString("0"))
		})).Return(nil)

		path := fmt.Sprintf("/allocations/clients/%s/asset/AAPL", clientID)
		rec := ts.do(t, http.MethodPost, path, `{"quantity": 2.5, "buy_price": "0", "buy_date": "2024-02-01"}`)

		assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	})

	failures := []struct {
		name       string
		path       string
		body       string
		prepare    func(ts *testServer)
		wantStatus int
	}{
		{
			name:       "Malformed quantity",
			path:       fmt.Sprintf("/allocations/clients/%s/asset/AAPL?quantity=ten&buy_price=1&buy_date=2024-01-01", clientID),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Missing buy price",
			path:       fmt.Sprintf("/allocations/clients/%s/asset/AAPL?quantity=1&buy_date=2024-01-01", clientID),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Malformed body",
			path:       fmt.Sprintf("/allocations/clients/%s/asset/AAPL", clientID),
			body:       `{"quantity":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Malformed client id",
			path:       "/allocations/clients/42/asset/AAPL?quantity=1&buy_price=1&buy_date=2024-01-01",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "Invalid date",
			path:       fmt.Sprintf("/allocations/clients/%s/asset/AAPL?quantity=1&buy_price=1&buy_date=15/01/2024", clientID),
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "Asset not provisioned",
			path: fmt.Sprintf("/allocations/clients/%s/asset/NVDA?quantity=1&buy_price=1&buy_date=2024-01-01", clientID),
			prepare: func(ts *testServer) {
				ts.assetRepo.On("GetByTicker", mock.Anything, "NVDA").Return(nil, domain.ErrAssetNotFound)
			},
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "Duplicate lot",
			path: fmt.Sprintf("/allocations/clients/%s/asset/AAPL?quantity=1&buy_price=1&buy_date=2024-01-01", clientID),
			prepare: func(ts *testServer) {
				ts.allocationRepo.On("Create", mock.Anything, mock.Anything).Return(domain.ErrDuplicateAllocation)
			},
			wantStatus: http.StatusConflict,
		},
	}

	for _, tt := range failures {
		t.Run(tt.name, func(t *testing.T) {
			ts := setup(t)
			if tt.prepare != nil {
				tt.prepare(ts)
			}

			rec := ts.do(t, http.MethodPost, tt.path, tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}

	t.Run("Client not found", func(t *testing.T) {
		ts := newTestServer(t, nil)
		missing := uuid.New()
		ts.clientRepo.On("GetByID", mock.Anything, missing).Return(nil, domain.ErrClientNotFound)

		path := fmt.Sprintf("/allocations/clients/%s/asset/AAPL?quantity=1&buy_price=1&buy_date=2024-01-01", missing)
		rec := ts.do(t, http.MethodPost, path, "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestListClientAllocations(t *testing.T) {
	ts := newTestServer(t, nil)
	clientID := uuid.New()
	buyDate := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	aapl := &domain.Allocation{ID: uuid.New(), ClientID: clientID, Ticker: "AAPL", Quantity: decimal.NewFromInt(10), BuyPrice: decimal.NewFromInt(100), BuyDate: buyDate}
	msft := &domain.Allocation{ID: uuid.New(), ClientID: clientID, Ticker: "MSFT", Quantity: decimal.NewFromInt(5), BuyPrice: decimal.Zero, BuyDate: buyDate}
	gone := &domain.Allocation{ID: uuid.New(), ClientID: clientID, Ticker: "GONE", Quantity: decimal.NewFromInt(1), BuyPrice: decimal.NewFromInt(1), BuyDate: buyDate}

	ts.clientRepo.On("GetByID", mock.Anything, clientID).Return(&domain.Client{ID: clientID}, nil)
	ts.allocationRepo.On("ListByClient", mock.Anything, clientID).Return([]*domain.Allocation{aapl, msft, gone}, nil)
	ts.quotes.On("GetQuote", mock.Anything, "AAPL").Return(&domain.Quote{Price: decimal.NewFromInt(110), ChangePct: decimal.RequireFromString("1.25")}, nil)
	ts.quotes.On("GetQuote", mock.Anything, "MSFT").Return(&domain.Quote{Price: decimal.NewFromInt(50)}, nil)
	ts.quotes.On("GetQuote", mock.Anything, "GONE").Return(nil, domain.ErrNoQuoteData)

	rec := ts.do(t, http.MethodGet, "/allocations/clients/"+clientID.String(), "")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var rows []map[string]interface{}
	decodeBody(t, rec, &rows)
	require.Len(t, rows, 3)

	assert.Equal(t, aapl.ID.String(), rows[0]["allocation_id"])
	assert.Equal(t, "AAPL", rows[0]["ticker"])
	assert.Equal(t, "2024-01-15", rows[0]["buy_date"])
	assert.Equal(t, "110", rows[0]["price_now"])
	assert.Equal(t, "1.25", rows[0]["day_change_pct"])
	assert.Equal(t, "100", rows[0]["pnl_abs"])
	assert.Equal(t, "10", rows[0]["pnl_pct"])

	assert.Equal(t, "250", rows[1]["pnl_abs"])
	assert.Nil(t, rows[1]["pnl_pct"])

	assert.Equal(t, "GONE", rows[2]["ticker"])
	assert.Equal(t, "1", rows[2]["quantity"])
	for _, field := range []string{"price_now", "day_change_pct", "pnl_abs", "pnl_pct"} {
		value, present := rows[2][field]
		assert.True(t, present, field)
		assert.Nil(t, value, field)
	}
}

func TestListClientAllocations_ClientNotFound(t *testing.T) {
	ts := newTestServer(t, nil)
	clientID := uuid.New()
	ts.clientRepo.On("GetByID", mock.Anything, clientID).Return(nil, domain.ErrClientNotFound)

	rec := ts.do(t, http.MethodGet, "/allocations/clients/"+clientID.String(), "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body errorResponse
	decodeBody(t, rec, &body)
	assert.Contains(t, body.Error, "client not found")
}

func TestClientRoutes(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		ts := newTestServer(t, nil)
		ts.clientRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Client")).Return(nil)

		rec := ts.do(t, http.MethodPost, "/clients", `{"name":"Ada Lovelace","email":"ada@example.com"}`)

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var body clientResponse
		decodeBody(t, rec, &body)
		assert.Equal(t, "Ada Lovelace", body.Name)
		assert.True(t, body.IsActive)
	})

	t.Run("Create with invalid email", func(t *testing.T) {
		ts := newTestServer(t, nil)

		rec := ts.do(t, http.MethodPost, "/clients", `{"name":"Ada","email":"not-an-email"}`)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("Create with taken email", func(t *testing.T) {
		ts := newTestServer(t, nil)
		ts.clientRepo.On("Create", mock.Anything, mock.Anything).Return(domain.ErrDuplicateEmail)

		rec := ts.do(t, http.MethodPost, "/clients", `{"name":"Ada","email":"ada@example.com"}`)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("List with filters", func(t *testing.T) {
		ts := newTestServer(t, nil)
		ts.clientRepo.On("List", mock.Anything, mock.MatchedBy(func(f domain.ClientFilter) bool {
			return f.Query == "ada" && f.Active != nil && !*f.Active && f.Limit == 5 && f.Offset == 10
		})).Return([]*domain.Client{{ID: uuid.New(), Name: "Ada", Email: "ada@example.com"}}, nil)

		rec := ts.do(t, http.MethodGet, "/clients?q=ada&status=false&limit=5&offset=10", "")

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var body []clientResponse
		decodeBody(t, rec, &body)
		assert.Len(t, body, 1)
	})

	t.Run("List with bad status", func(t *testing.T) {
		ts := newTestServer(t, nil)

		rec := ts.do(t, http.MethodGet, "/clients?status=maybe", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Get missing", func(t *testing.T) {
		ts := newTestServer(t, nil)
		id := uuid.New()
		ts.clientRepo.On("GetByID", mock.Anything, id).Return(nil, domain.ErrClientNotFound)

		rec := ts.do(t, http.MethodGet, "/clients/"+id.String(), "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Update", func(t *testing.T) {
		ts := newTestServer(t, nil)
		existing := &domain.Client{ID: uuid.New(), Name: "Ada", Email: "ada@example.com", IsActive: true}
		ts.clientRepo.On("GetByID", mock.Anything, existing.ID).Return(existing, nil)
		ts.clientRepo.On("Update", mock.Anything, existing).Return(nil)

		rec := ts.do(t, http.MethodPut, "/clients/"+existing.ID.String(), `{"is_active": false}`)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var body clientResponse
		decodeBody(t, rec, &body)
		assert.Equal(t, "Ada", body.Name)
		assert.False(t, body.IsActive)
	})

	t.Run("Delete", func(t *testing.T) {
		ts := newTestServer(t, nil)
		id := uuid.New()
		ts.clientRepo.On("Delete", mock.Anything, id).Return(false, nil)

		rec := ts.do(t, http.MethodDelete, "/clients/"+id.String(), "")

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
	})
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "Client not found", err: domain.ErrClientNotFound, want: http.StatusNotFound},
		{name: "Asset not found", err: fmt.Errorf("x: %w", domain.ErrAssetNotFound), want: http.StatusNotFound},
		{name: "Not provisioned", err: domain.ErrAssetNotProvisioned, want: http.StatusUnprocessableEntity},
		{name: "Invalid ticker", err: domain.ErrInvalidTicker, want: http.StatusUnprocessableEntity},
		{name: "Invalid date", err: domain.ErrInvalidDate, want: http.StatusUnprocessableEntity},
		{name: "Validation", err: domain.NewValidationError("name", "too short"), want: http.StatusUnprocessableEntity},
		{name: "Throttled", err: domain.ErrProviderThrottled, want: http.StatusTooManyRequests},
		{name: "Unavailable", err: domain.ErrProviderUnavailable, want: http.StatusServiceUnavailable},
		{name: "Duplicate ticker", err: domain.ErrDuplicateTicker, want: http.StatusConflict},
		{name: "Duplicate allocation", err: domain.ErrDuplicateAllocation, want: http.StatusConflict},
		{name: "Duplicate email", err: domain.ErrDuplicateEmail, want: http.StatusConflict},
		{name: "Unknown", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

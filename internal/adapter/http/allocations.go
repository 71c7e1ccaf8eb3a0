package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/simaogato/portfolio-tracker/internal/usecase/ledger"
)

// handleEnsureAsset provisions a ticker, asking the quote provider on first use
// POST /allocations/assets/{ticker}
func (s *Server) handleEnsureAsset(w http.ResponseWriter, r *http.Request) {
	asset, err := s.assets.EnsureAsset(r.Context(), chi.URLParam(r, "ticker"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, toAssetResponse(asset))
}

// handleGetAsset returns a provisioned asset without contacting the provider
// GET /allocations/assets/{ticker}
func (s *Server) handleGetAsset(w http.ResponseWriter, r *http.Request) {
	asset, err := s.assets.GetAsset(r.Context(), chi.URLParam(r, "ticker"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, toAssetResponse(asset))
}

// handleListAssets returns every provisioned asset ordered by ticker
// GET /allocations/assets
func (s *Server) handleListAssets(w http.ResponseWriter, r *http.Request) {
	assets, err := s.assets.ListAssets(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	out := make([]assetResponse, 0, len(assets))
	for _, asset := range assets {
		out = append(out, toAssetResponse(asset))
	}
	s.writeJSON(w, http.StatusOK, out)
}

// handleAddAllocation records a lot for a client
// POST /allocations/clients/{clientID}/asset/{ticker}?quantity=&buy_price=&buy_date=
// The same fields may be sent as a JSON body instead of query parameters.
func (s *Server) handleAddAllocation(w http.ResponseWriter, r *http.Request) {
	clientID, ok := s.parseClientID(w, r)
	if !ok {
		return
	}

	input, err := parseAddAllocationInput(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	input.ClientID = clientID
	input.Ticker = chi.URLParam(r, "ticker")

	allocation, err := s.allocations.AddAllocation(r.Context(), input)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, allocationCreatedResponse{ID: allocation.ID.String()})
}

// handleListClientAllocations returns the client's lots enriched with live quotes
// GET /allocations/clients/{clientID}
func (s *Server) handleListClientAllocations(w http.ResponseWriter, r *http.Request) {
	clientID, ok := s.parseClientID(w, r)
	if !ok {
		return
	}

	rows, err := s.enrichment.Enrich(r.Context(), clientID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	out := make([]enrichedAllocationResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, toEnrichedAllocationResponse(row))
	}
	s.writeJSON(w, http.StatusOK, out)
}

// parseAddAllocationInput reads quantity, buy_price and buy_date from the query
// string, then lets a JSON body override any of them
func parseAddAllocationInput(r *http.Request) (ledger.AddAllocationInput, error) {
	var input ledger.AddAllocationInput
	query := r.URL.Query()

	var hasQuantity, hasBuyPrice bool
	if raw := query.Get("quantity"); raw != "" {
		quantity, err := decimal.NewFromString(raw)
		if err != nil {
			return input, fmt.Errorf("invalid quantity %q", raw)
		}
		input.Quantity, hasQuantity = quantity, true
	}
	if raw := query.Get("buy_price"); raw != "" {
		buyPrice, err := decimal.NewFromString(raw)
		if err != nil {
			return input, fmt.Errorf("invalid buy_price %q", raw)
		}
		input.BuyPrice, hasBuyPrice = buyPrice, true
	}
	input.BuyDate = query.Get("buy_date")

	if r.Body != nil {
		var body addAllocationRequest
		err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&body)
		switch {
		case errors.Is(err, io.EOF):
			// no body
		case err != nil:
			return input, errors.New("invalid request body")
		default:
			if body.Quantity != nil {
				input.Quantity, hasQuantity = *body.Quantity, true
			}
			if body.BuyPrice != nil {
				input.BuyPrice, hasBuyPrice = *body.BuyPrice, true
			}
			if body.BuyDate != nil {
				input.BuyDate = *body.BuyDate
			}
		}
	}

	if !hasQuantity {
		return input, errors.New("quantity is required")
	}
	if !hasBuyPrice {
		return input, errors.New("buy_price is required")
	}

	return input, nil
}

// parseClientID reads the {clientID} URL parameter, writing a 400 on failure
func (s *Server) parseClientID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "clientID")
	id, err := uuid.Parse(raw)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid client id %q", raw))
		return uuid.Nil, false
	}
	return id, true
}

package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/simaogato/portfolio-tracker/internal/domain"
	"github.com/simaogato/portfolio-tracker/internal/usecase/clients"
)

// handleCreateClient registers a client
// POST /clients
func (s *Server) handleCreateClient(w http.ResponseWriter, r *http.Request) {
	var req createClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	client, err := s.clients.CreateClient(r.Context(), clients.CreateClientInput{
		Name:     req.Name,
		Email:    req.Email,
		IsActive: req.IsActive,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, toClientResponse(client))
}

// handleListClients returns one page of clients
// GET /clients?q=&status=&limit=&offset=
func (s *Server) handleListClients(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := domain.ClientFilter{Query: query.Get("q")}

	if raw := query.Get("status"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid status %q", raw))
			return
		}
		filter.Active = &active
	}

	var err error
	if filter.Limit, err = intParam(query.Get("limit")); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid limit")
		return
	}
	if filter.Offset, err = intParam(query.Get("offset")); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid offset")
		return
	}

	found, err := s.clients.ListClients(r.Context(), filter)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	out := make([]clientResponse, 0, len(found))
	for _, client := range found {
		out = append(out, toClientResponse(client))
	}
	s.writeJSON(w, http.StatusOK, out)
}

// handleGetClient returns a single client
// GET /clients/{clientID}
func (s *Server) handleGetClient(w http.ResponseWriter, r *http.Request) {
	clientID, ok := s.parseClientID(w, r)
	if !ok {
		return
	}

	client, err := s.clients.GetClient(r.Context(), clientID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, toClientResponse(client))
}

// handleUpdateClient applies a partial update
// PUT|PATCH /clients/{clientID}
func (s *Server) handleUpdateClient(w http.ResponseWriter, r *http.Request) {
	clientID, ok := s.parseClientID(w, r)
	if !ok {
		return
	}

	var req updateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	client, err := s.clients.UpdateClient(r.Context(), clientID, domain.ClientUpdate{
		Name:     req.Name,
		Email:    req.Email,
		IsActive: req.IsActive,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, toClientResponse(client))
}

// handleDeleteClient removes a client and its allocations
// DELETE /clients/{clientID}
func (s *Server) handleDeleteClient(w http.ResponseWriter, r *http.Request) {
	clientID, ok := s.parseClientID(w, r)
	if !ok {
		return
	}

	if err := s.clients.DeleteClient(r.Context(), clientID); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// intParam parses an optional integer query parameter; empty means zero
func intParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

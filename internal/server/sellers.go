package server

import (
	"net/http"

	market "github.com/woysa/marketd/internal"
)

func (s *server) handleListSellers(w http.ResponseWriter, r *http.Request) {
	offset, limit := parsePagination(r)
	sellers, err := s.deps.Catalog.ListSellers(r.Context(), offset, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if sellers == nil {
		sellers = []*market.Seller{}
	}
	writeJSON(w, http.StatusOK, listResponse{
		Data:       sellers,
		Pagination: pagination{Offset: offset, Limit: limit},
	})
}

func (s *server) handleCreateSeller(w http.ResponseWriter, r *http.Request) {
	// New sellers are active unless the body says otherwise.
	seller := market.Seller{IsActive: true}
	if !decodeJSON(w, r, &seller) {
		return
	}
	if err := s.deps.Catalog.CreateSeller(r.Context(), &seller); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, seller)
}

func (s *server) handleGetSeller(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	seller, err := s.deps.Catalog.GetSeller(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, seller)
}

func (s *server) handleUpdateSeller(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	seller, err := s.deps.Catalog.UpdateSeller(r.Context(), id, body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, seller)
}

func (s *server) handleDeleteSeller(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.deps.Catalog.DeleteSeller(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package server

import (
	"net/http"
	"strconv"

	market "github.com/woysa/marketd/internal"
)

func (s *server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	offset, limit := parsePagination(r)

	var sellerID int64
	if raw := r.URL.Query().Get("seller_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse("invalid seller_id"))
			return
		}
		sellerID = id
	}

	products, err := s.deps.Catalog.ListProducts(r.Context(), sellerID, offset, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if products == nil {
		products = []*market.Product{}
	}
	writeJSON(w, http.StatusOK, listResponse{
		Data:       products,
		Pagination: pagination{Offset: offset, Limit: limit},
	})
}

func (s *server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	product := market.Product{IsAvailable: true}
	if !decodeJSON(w, r, &product) {
		return
	}
	if err := s.deps.Catalog.CreateProduct(r.Context(), &product); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

func (s *server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	product, err := s.deps.Catalog.GetProduct(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (s *server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	product, err := s.deps.Catalog.UpdateProduct(r.Context(), id, body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (s *server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.deps.Catalog.DeleteProduct(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

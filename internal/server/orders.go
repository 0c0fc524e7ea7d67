package server

import (
	"net/http"

	market "github.com/woysa/marketd/internal"
)

func (s *server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	offset, limit := parsePagination(r)
	orders, err := s.deps.Orders.ListOrders(r.Context(), offset, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if orders == nil {
		orders = []*market.Order{}
	}
	writeJSON(w, http.StatusOK, listResponse{
		Data:       orders,
		Pagination: pagination{Offset: offset, Limit: limit},
	})
}

func (s *server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var order market.Order
	if !decodeJSON(w, r, &order) {
		return
	}
	if err := s.deps.Orders.CreateOrder(r.Context(), &order); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (s *server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	order, err := s.deps.Orders.GetOrder(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (s *server) handleUpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	order, err := s.deps.Orders.UpdateOrder(r.Context(), id, body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (s *server) handleDeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.deps.Orders.DeleteOrder(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

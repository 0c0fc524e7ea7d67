// Package testutil provides in-memory fakes for marketd tests.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	market "github.com/woysa/marketd/internal"
)

// FakeStore is an in-memory implementation of storage.Store for testing.
type FakeStore struct {
	mu       sync.RWMutex
	sellers  map[int64]*market.Seller
	products map[int64]*market.Product
	orders   map[int64]*market.Order
	nextID   int64

	// Stats is returned verbatim by SellerStats.
	Stats []market.SellerStats

	// Err, when set, is returned by every operation.
	Err error

	// Calls counts store method invocations by name, for asserting
	// that cached reads skip the store.
	Calls map[string]int
}

// NewFakeStore returns a FakeStore with empty collections.
func NewFakeStore() *FakeStore {
	return &FakeStore{
		sellers:  make(map[int64]*market.Seller),
		products: make(map[int64]*market.Product),
		orders:   make(map[int64]*market.Order),
		Calls:    make(map[string]int),
	}
}

func (s *FakeStore) record(name string) error {
	s.Calls[name]++
	return s.Err
}

func (s *FakeStore) id() int64 {
	s.nextID++
	return s.nextID
}

// --- SellerStore ---

func (s *FakeStore) CreateSeller(_ context.Context, sel *market.Seller) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("CreateSeller"); err != nil {
		return err
	}
	sel.ID = s.id()
	now := time.Now().UTC()
	sel.CreatedAt, sel.UpdatedAt = now, now
	cp := *sel
	s.sellers[sel.ID] = &cp
	return nil
}

func (s *FakeStore) GetSeller(_ context.Context, id int64) (*market.Seller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("GetSeller"); err != nil {
		return nil, err
	}
	sel, ok := s.sellers[id]
	if !ok {
		return nil, fmt.Errorf("seller: %w", market.ErrNotFound)
	}
	cp := *sel
	return &cp, nil
}

func (s *FakeStore) ListSellers(_ context.Context, offset, limit int) ([]*market.Seller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("ListSellers"); err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(s.sellers))
	for id := range s.sellers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := []*market.Seller{}
	for i, id := range ids {
		if i < offset {
			continue
		}
		if len(out) >= limit {
			break
		}
		cp := *s.sellers[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (s *FakeStore) UpdateSeller(_ context.Context, sel *market.Seller) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("UpdateSeller"); err != nil {
		return err
	}
	if _, ok := s.sellers[sel.ID]; !ok {
		return fmt.Errorf("seller: %w", market.ErrNotFound)
	}
	sel.UpdatedAt = time.Now().UTC()
	cp := *sel
	s.sellers[sel.ID] = &cp
	return nil
}

func (s *FakeStore) DeleteSeller(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("DeleteSeller"); err != nil {
		return err
	}
	if _, ok := s.sellers[id]; !ok {
		return fmt.Errorf("seller: %w", market.ErrNotFound)
	}
	delete(s.sellers, id)
	return nil
}

// --- ProductStore ---

func (s *FakeStore) CreateProduct(_ context.Context, p *market.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("CreateProduct"); err != nil {
		return err
	}
	p.ID = s.id()
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	cp := *p
	s.products[p.ID] = &cp
	return nil
}

func (s *FakeStore) GetProduct(_ context.Context, id int64) (*market.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("GetProduct"); err != nil {
		return nil, err
	}
	p, ok := s.products[id]
	if !ok {
		return nil, fmt.Errorf("product: %w", market.ErrNotFound)
	}
	cp := *p
	return &cp, nil
}

func (s *FakeStore) ListProducts(_ context.Context, offset, limit int) ([]*market.Product, error) {
	return s.listProducts(0, offset, limit)
}

func (s *FakeStore) ListProductsBySeller(_ context.Context, sellerID int64, offset, limit int) ([]*market.Product, error) {
	return s.listProducts(sellerID, offset, limit)
}

func (s *FakeStore) listProducts(sellerID int64, offset, limit int) ([]*market.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("ListProducts"); err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(s.products))
	for id, p := range s.products {
		if sellerID > 0 && p.SellerID != sellerID {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := []*market.Product{}
	for i, id := range ids {
		if i < offset {
			continue
		}
		if len(out) >= limit {
			break
		}
		cp := *s.products[id]
		out = append(out, &cp)
	}
	return out, nil
}

func (s *FakeStore) UpdateProduct(_ context.Context, p *market.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("UpdateProduct"); err != nil {
		return err
	}
	if _, ok := s.products[p.ID]; !ok {
		return fmt.Errorf("product: %w", market.ErrNotFound)
	}
	p.UpdatedAt = time.Now().UTC()
	cp := *p
	s.products[p.ID] = &cp
	return nil
}

func (s *FakeStore) DeleteProduct(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("DeleteProduct"); err != nil {
		return err
	}
	if _, ok := s.products[id]; !ok {
		return fmt.Errorf("product: %w", market.ErrNotFound)
	}
	delete(s.products, id)
	return nil
}

// --- OrderStore ---

func (s *FakeStore) CreateOrder(_ context.Context, o *market.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("CreateOrder"); err != nil {
		return err
	}
	o.ID = s.id()
	now := time.Now().UTC()
	o.CreatedAt, o.UpdatedAt = now, now
	for i := range o.Items {
		o.Items[i].ID = s.id()
		o.Items[i].OrderID = o.ID
	}
	cp := *o
	cp.Items = append([]market.OrderItem(nil), o.Items...)
	s.orders[o.ID] = &cp
	return nil
}

func (s *FakeStore) GetOrder(_ context.Context, id int64) (*market.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("GetOrder"); err != nil {
		return nil, err
	}
	o, ok := s.orders[id]
	if !ok {
		return nil, fmt.Errorf("order: %w", market.ErrNotFound)
	}
	cp := *o
	cp.Items = append([]market.OrderItem(nil), o.Items...)
	return &cp, nil
}

func (s *FakeStore) ListOrders(_ context.Context, offset, limit int) ([]*market.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("ListOrders"); err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(s.orders))
	for id := range s.orders {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := []*market.Order{}
	for i, id := range ids {
		if i < offset {
			continue
		}
		if len(out) >= limit {
			break
		}
		o := s.orders[id]
		cp := *o
		cp.Items = append([]market.OrderItem(nil), o.Items...)
		out = append(out, &cp)
	}
	return out, nil
}

func (s *FakeStore) UpdateOrder(_ context.Context, o *market.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("UpdateOrder"); err != nil {
		return err
	}
	prev, ok := s.orders[o.ID]
	if !ok {
		return fmt.Errorf("order: %w", market.ErrNotFound)
	}
	o.UpdatedAt = time.Now().UTC()
	cp := *o
	cp.Items = append([]market.OrderItem(nil), prev.Items...)
	s.orders[o.ID] = &cp
	return nil
}

func (s *FakeStore) DeleteOrder(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("DeleteOrder"); err != nil {
		return err
	}
	if _, ok := s.orders[id]; !ok {
		return fmt.Errorf("order: %w", market.ErrNotFound)
	}
	delete(s.orders, id)
	return nil
}

// --- StatsStore ---

func (s *FakeStore) SellerStats(context.Context, time.Time) ([]market.SellerStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("SellerStats"); err != nil {
		return nil, err
	}
	return s.Stats, nil
}

// --- Lifecycle ---

func (s *FakeStore) Ping(context.Context) error { return s.Err }
func (s *FakeStore) Close() error               { return nil }

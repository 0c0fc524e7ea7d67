package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	market "github.com/woysa/marketd/internal"
	"github.com/woysa/marketd/internal/cache"
	"github.com/woysa/marketd/internal/storage"
	"github.com/woysa/marketd/internal/telemetry"
)

// OrdersStore is the persistence surface the order service needs.
// Product access is required to price order items at creation time.
type OrdersStore interface {
	storage.OrderStore
	GetProduct(ctx context.Context, id int64) (*market.Product, error)
}

// OrderService serves order reads through the cache and invalidates
// after writes.
type OrderService struct {
	store   OrdersStore
	cache   cache.Cache
	ttl     time.Duration
	metrics *telemetry.Metrics
}

// NewOrders returns an OrderService. metrics may be nil.
func NewOrders(store OrdersStore, c cache.Cache, ttl time.Duration, metrics *telemetry.Metrics) *OrderService {
	return &OrderService{store: store, cache: c, ttl: ttl, metrics: metrics}
}

// ListOrders returns a page of orders, cached per (offset, limit).
func (s *OrderService) ListOrders(ctx context.Context, offset, limit int) ([]*market.Order, error) {
	key := cache.Key("orders.list", offset, limit)
	orders, hit, err := cache.ReadThrough(ctx, s.cache, key, s.ttl, func(ctx context.Context) ([]*market.Order, error) {
		return s.store.ListOrders(ctx, offset, limit)
	})
	observeCache(s.metrics, hit)
	return orders, err
}

// GetOrder returns a single order with its items, cached per id.
func (s *OrderService) GetOrder(ctx context.Context, id int64) (*market.Order, error) {
	key := cache.Key("orders.byid", id)
	order, hit, err := cache.ReadThrough(ctx, s.cache, key, s.ttl, func(ctx context.Context) (*market.Order, error) {
		return s.store.GetOrder(ctx, id)
	})
	observeCache(s.metrics, hit)
	return order, err
}

// CreateOrder validates an incoming order, prices its items from the
// current product records, and persists it atomically. Unit prices in
// the request are ignored; the stored product price is authoritative.
func (s *OrderService) CreateOrder(ctx context.Context, o *market.Order) error {
	if o.CustomerName == "" {
		return fmt.Errorf("%w: customer name is required", market.ErrBadRequest)
	}
	if len(o.Items) == 0 {
		return fmt.Errorf("%w: order needs at least one item", market.ErrBadRequest)
	}
	if o.Status != "" && !market.ValidStatus(o.Status) {
		return fmt.Errorf("%w: unknown status %q", market.ErrBadRequest, o.Status)
	}

	for i := range o.Items {
		it := &o.Items[i]
		if it.Quantity <= 0 {
			return fmt.Errorf("%w: item quantity must be positive", market.ErrBadRequest)
		}
		p, err := s.store.GetProduct(ctx, it.ProductID)
		if err != nil {
			if errors.Is(err, market.ErrNotFound) {
				return fmt.Errorf("%w: unknown product %d", market.ErrBadRequest, it.ProductID)
			}
			return err
		}
		it.UnitPrice = p.Price
		it.ProductName = p.Name
	}
	o.Normalize()

	err := cache.InvalidateAfter(ctx, s.cache, orderPatterns, func(ctx context.Context) error {
		return s.store.CreateOrder(ctx, o)
	})
	if err != nil {
		return err
	}
	observeInvalidation(s.metrics)
	return nil
}

// UpdateOrder applies a partial update from a raw JSON body. Items are
// immutable after creation; only customer fields and status can change.
func (s *OrderService) UpdateOrder(ctx context.Context, id int64, body []byte) (*market.Order, error) {
	doc, err := parsePatch(body)
	if err != nil {
		return nil, err
	}

	o, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if v := doc.Get("customer_name"); v.Exists() {
		o.CustomerName = v.String()
	}
	if v := doc.Get("customer_email"); v.Exists() {
		o.CustomerEmail = v.String()
	}
	if v := doc.Get("customer_phone"); v.Exists() {
		o.CustomerPhone = v.String()
	}
	if v := doc.Get("shipping_address"); v.Exists() {
		o.ShippingAddress = v.String()
	}
	if v := doc.Get("status"); v.Exists() {
		if !market.ValidStatus(v.String()) {
			return nil, fmt.Errorf("%w: unknown status %q", market.ErrBadRequest, v.String())
		}
		o.Status = v.String()
	}
	if o.CustomerName == "" {
		return nil, fmt.Errorf("%w: customer name must not be empty", market.ErrBadRequest)
	}

	err = cache.InvalidateAfter(ctx, s.cache, orderPatterns, func(ctx context.Context) error {
		return s.store.UpdateOrder(ctx, o)
	})
	if err != nil {
		return nil, err
	}
	observeInvalidation(s.metrics)
	return o, nil
}

// DeleteOrder removes an order and its items.
func (s *OrderService) DeleteOrder(ctx context.Context, id int64) error {
	err := cache.InvalidateAfter(ctx, s.cache, orderPatterns, func(ctx context.Context) error {
		return s.store.DeleteOrder(ctx, id)
	})
	if err != nil {
		return err
	}
	observeInvalidation(s.metrics)
	return nil
}

// Package app implements application-level services for marketd.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tidwall/gjson"
	market "github.com/woysa/marketd/internal"
	"github.com/woysa/marketd/internal/cache"
	"github.com/woysa/marketd/internal/storage"
	"github.com/woysa/marketd/internal/telemetry"
)

// Invalidation patterns per entity. A write clears the entity's own
// namespace family plus every namespace that embeds denormalized fields
// from it: products carry seller_name, order items carry product_name.
var (
	sellerPatterns  = []string{"sellers*", "products*"}
	productPatterns = []string{"products*", "orders*"}
	orderPatterns   = []string{"orders*"}
)

// CatalogStore is the persistence surface the catalog service needs.
type CatalogStore interface {
	storage.SellerStore
	storage.ProductStore
}

// CatalogService serves seller and product reads through the cache and
// invalidates after writes.
type CatalogService struct {
	store   CatalogStore
	cache   cache.Cache
	ttl     time.Duration
	metrics *telemetry.Metrics
}

// NewCatalog returns a CatalogService. metrics may be nil.
func NewCatalog(store CatalogStore, c cache.Cache, ttl time.Duration, metrics *telemetry.Metrics) *CatalogService {
	return &CatalogService{store: store, cache: c, ttl: ttl, metrics: metrics}
}

// --- Sellers ---

// ListSellers returns a page of sellers, cached per (offset, limit).
func (s *CatalogService) ListSellers(ctx context.Context, offset, limit int) ([]*market.Seller, error) {
	key := cache.Key("sellers.list", offset, limit)
	sellers, hit, err := cache.ReadThrough(ctx, s.cache, key, s.ttl, func(ctx context.Context) ([]*market.Seller, error) {
		return s.store.ListSellers(ctx, offset, limit)
	})
	observeCache(s.metrics, hit)
	return sellers, err
}

// GetSeller returns a single seller, cached per id.
func (s *CatalogService) GetSeller(ctx context.Context, id int64) (*market.Seller, error) {
	key := cache.Key("sellers.byid", id)
	seller, hit, err := cache.ReadThrough(ctx, s.cache, key, s.ttl, func(ctx context.Context) (*market.Seller, error) {
		return s.store.GetSeller(ctx, id)
	})
	observeCache(s.metrics, hit)
	return seller, err
}

// CreateSeller validates and persists a new seller, then invalidates
// the seller and product namespaces.
func (s *CatalogService) CreateSeller(ctx context.Context, seller *market.Seller) error {
	if seller.Name == "" {
		return fmt.Errorf("%w: seller name is required", market.ErrBadRequest)
	}
	err := cache.InvalidateAfter(ctx, s.cache, sellerPatterns, func(ctx context.Context) error {
		return s.store.CreateSeller(ctx, seller)
	})
	if err != nil {
		return err
	}
	observeInvalidation(s.metrics)
	return nil
}

// UpdateSeller applies a partial update from a raw JSON body. Only
// known fields are touched; absent fields keep their stored values.
func (s *CatalogService) UpdateSeller(ctx context.Context, id int64, body []byte) (*market.Seller, error) {
	doc, err := parsePatch(body)
	if err != nil {
		return nil, err
	}

	seller, err := s.store.GetSeller(ctx, id)
	if err != nil {
		return nil, err
	}

	if v := doc.Get("name"); v.Exists() {
		seller.Name = v.String()
	}
	if v := doc.Get("contact_person"); v.Exists() {
		seller.ContactPerson = v.String()
	}
	if v := doc.Get("email"); v.Exists() {
		seller.Email = v.String()
	}
	if v := doc.Get("phone"); v.Exists() {
		seller.Phone = v.String()
	}
	if v := doc.Get("address"); v.Exists() {
		seller.Address = v.String()
	}
	if v := doc.Get("is_active"); v.Exists() {
		seller.IsActive = v.Bool()
	}
	if seller.Name == "" {
		return nil, fmt.Errorf("%w: seller name must not be empty", market.ErrBadRequest)
	}

	err = cache.InvalidateAfter(ctx, s.cache, sellerPatterns, func(ctx context.Context) error {
		return s.store.UpdateSeller(ctx, seller)
	})
	if err != nil {
		return nil, err
	}
	observeInvalidation(s.metrics)
	return seller, nil
}

// DeleteSeller removes a seller and invalidates dependent namespaces.
func (s *CatalogService) DeleteSeller(ctx context.Context, id int64) error {
	err := cache.InvalidateAfter(ctx, s.cache, sellerPatterns, func(ctx context.Context) error {
		return s.store.DeleteSeller(ctx, id)
	})
	if err != nil {
		return err
	}
	observeInvalidation(s.metrics)
	return nil
}

// --- Products ---

// ListProducts returns a page of products. sellerID > 0 filters by
// seller; the filter is part of the cache key.
func (s *CatalogService) ListProducts(ctx context.Context, sellerID int64, offset, limit int) ([]*market.Product, error) {
	key := cache.Key("products.list", sellerID, offset, limit)
	products, hit, err := cache.ReadThrough(ctx, s.cache, key, s.ttl, func(ctx context.Context) ([]*market.Product, error) {
		if sellerID > 0 {
			return s.store.ListProductsBySeller(ctx, sellerID, offset, limit)
		}
		return s.store.ListProducts(ctx, offset, limit)
	})
	observeCache(s.metrics, hit)
	return products, err
}

// GetProduct returns a single product, cached per id.
func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*market.Product, error) {
	key := cache.Key("products.byid", id)
	product, hit, err := cache.ReadThrough(ctx, s.cache, key, s.ttl, func(ctx context.Context) (*market.Product, error) {
		return s.store.GetProduct(ctx, id)
	})
	observeCache(s.metrics, hit)
	return product, err
}

// CreateProduct validates and persists a new product. The referenced
// seller must exist.
func (s *CatalogService) CreateProduct(ctx context.Context, p *market.Product) error {
	switch {
	case p.Name == "":
		return fmt.Errorf("%w: product name is required", market.ErrBadRequest)
	case p.Price < 0:
		return fmt.Errorf("%w: price must not be negative", market.ErrBadRequest)
	case p.Quantity < 0:
		return fmt.Errorf("%w: quantity must not be negative", market.ErrBadRequest)
	}
	seller, err := s.store.GetSeller(ctx, p.SellerID)
	if err != nil {
		if errors.Is(err, market.ErrNotFound) {
			return fmt.Errorf("%w: unknown seller %d", market.ErrBadRequest, p.SellerID)
		}
		return err
	}
	p.SellerName = seller.Name

	err = cache.InvalidateAfter(ctx, s.cache, productPatterns, func(ctx context.Context) error {
		return s.store.CreateProduct(ctx, p)
	})
	if err != nil {
		return err
	}
	observeInvalidation(s.metrics)
	return nil
}

// UpdateProduct applies a partial update from a raw JSON body. The
// owning seller cannot be changed.
func (s *CatalogService) UpdateProduct(ctx context.Context, id int64, body []byte) (*market.Product, error) {
	doc, err := parsePatch(body)
	if err != nil {
		return nil, err
	}

	p, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if v := doc.Get("name"); v.Exists() {
		p.Name = v.String()
	}
	if v := doc.Get("description"); v.Exists() {
		p.Description = v.String()
	}
	if v := doc.Get("price"); v.Exists() {
		p.Price = v.Float()
	}
	if v := doc.Get("quantity"); v.Exists() {
		p.Quantity = int(v.Int())
	}
	if v := doc.Get("category"); v.Exists() {
		p.Category = v.String()
	}
	if v := doc.Get("sku"); v.Exists() {
		p.SKU = v.String()
	}
	if v := doc.Get("is_available"); v.Exists() {
		p.IsAvailable = v.Bool()
	}
	switch {
	case p.Name == "":
		return nil, fmt.Errorf("%w: product name must not be empty", market.ErrBadRequest)
	case p.Price < 0:
		return nil, fmt.Errorf("%w: price must not be negative", market.ErrBadRequest)
	case p.Quantity < 0:
		return nil, fmt.Errorf("%w: quantity must not be negative", market.ErrBadRequest)
	}

	err = cache.InvalidateAfter(ctx, s.cache, productPatterns, func(ctx context.Context) error {
		return s.store.UpdateProduct(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	observeInvalidation(s.metrics)
	return p, nil
}

// DeleteProduct removes a product and invalidates dependent namespaces.
func (s *CatalogService) DeleteProduct(ctx context.Context, id int64) error {
	err := cache.InvalidateAfter(ctx, s.cache, productPatterns, func(ctx context.Context) error {
		return s.store.DeleteProduct(ctx, id)
	})
	if err != nil {
		return err
	}
	observeInvalidation(s.metrics)
	return nil
}

// --- Shared helpers ---

// parsePatch validates a partial-update body: it must be a JSON object.
func parsePatch(body []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, fmt.Errorf("%w: malformed JSON", market.ErrBadRequest)
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return gjson.Result{}, fmt.Errorf("%w: expected a JSON object", market.ErrBadRequest)
	}
	return doc, nil
}

func observeCache(m *telemetry.Metrics, hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheHits.Inc()
	} else {
		m.CacheMisses.Inc()
	}
}

func observeInvalidation(m *telemetry.Metrics) {
	if m != nil {
		m.CacheInvalidations.Inc()
	}
}

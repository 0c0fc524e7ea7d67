// Package storage defines persistence interfaces for marketd.
package storage

import (
	"context"
	"time"

	market "github.com/woysa/marketd/internal"
)

// SellerStore manages seller persistence.
type SellerStore interface {
	CreateSeller(ctx context.Context, s *market.Seller) error
	GetSeller(ctx context.Context, id int64) (*market.Seller, error)
	ListSellers(ctx context.Context, offset, limit int) ([]*market.Seller, error)
	UpdateSeller(ctx context.Context, s *market.Seller) error
	DeleteSeller(ctx context.Context, id int64) error
}

// ProductStore manages product persistence.
type ProductStore interface {
	CreateProduct(ctx context.Context, p *market.Product) error
	GetProduct(ctx context.Context, id int64) (*market.Product, error)
	ListProducts(ctx context.Context, offset, limit int) ([]*market.Product, error)
	ListProductsBySeller(ctx context.Context, sellerID int64, offset, limit int) ([]*market.Product, error)
	UpdateProduct(ctx context.Context, p *market.Product) error
	DeleteProduct(ctx context.Context, id int64) error
}

// OrderStore manages order persistence. Orders are written atomically
// with their items.
type OrderStore interface {
	CreateOrder(ctx context.Context, o *market.Order) error
	GetOrder(ctx context.Context, id int64) (*market.Order, error)
	ListOrders(ctx context.Context, offset, limit int) ([]*market.Order, error)
	UpdateOrder(ctx context.Context, o *market.Order) error
	DeleteOrder(ctx context.Context, id int64) error
}

// StatsStore supplies per-seller statistics for the report job.
// shipmentsSince bounds the shipment-count window (completed orders).
type StatsStore interface {
	SellerStats(ctx context.Context, shipmentsSince time.Time) ([]market.SellerStats, error)
}

// Store combines all storage interfaces.
type Store interface {
	SellerStore
	ProductStore
	OrderStore
	StatsStore
	Ping(ctx context.Context) error
	Close() error
}

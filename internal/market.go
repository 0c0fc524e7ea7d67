// Package market defines domain types for the marketd backend.
// This package has no project imports -- it is the dependency root.
package market

import (
	"context"
	"time"
)

// --- Records ---

// Seller is a supplier record exposed by the API.
type Seller struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	ContactPerson string    `json:"contact_person,omitempty"`
	Email         string    `json:"email,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Address       string    `json:"address,omitempty"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Product is a catalog item belonging to a seller.
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Quantity    int       `json:"quantity"`
	Category    string    `json:"category,omitempty"`
	SKU         string    `json:"sku,omitempty"`
	SellerID    int64     `json:"seller_id"`
	IsAvailable bool      `json:"is_available"`
	SellerName  string    `json:"seller_name,omitempty"` // denormalized on reads that join sellers
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Order statuses.
const (
	OrderPending   = "pending"
	OrderCompleted = "completed"
	OrderCancelled = "cancelled"
)

// Order is a customer order with its line items.
type Order struct {
	ID              int64       `json:"id"`
	CustomerName    string      `json:"customer_name"`
	CustomerEmail   string      `json:"customer_email,omitempty"`
	CustomerPhone   string      `json:"customer_phone,omitempty"`
	TotalAmount     float64     `json:"total_amount"`
	Status          string      `json:"status"`
	ShippingAddress string      `json:"shipping_address,omitempty"`
	Items           []OrderItem `json:"items"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// OrderItem is a single product line within an order.
type OrderItem struct {
	ID          int64   `json:"id"`
	OrderID     int64   `json:"order_id"`
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name,omitempty"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	TotalPrice  float64 `json:"total_price"`
}

// Normalize recomputes line totals and the order total from the items.
// Call after mutating Items and before persisting.
func (o *Order) Normalize() {
	var total float64
	for i := range o.Items {
		o.Items[i].TotalPrice = float64(o.Items[i].Quantity) * o.Items[i].UnitPrice
		total += o.Items[i].TotalPrice
	}
	o.TotalAmount = total
	if o.Status == "" {
		o.Status = OrderPending
	}
}

// ValidStatus reports whether s is a known order status.
func ValidStatus(s string) bool {
	switch s {
	case OrderPending, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

// --- Statistics ---

// SellerStats is the per-seller slice of a statistics report.
type SellerStats struct {
	SellerID      int64  `json:"id"`
	Name          string `json:"name"`
	ProductCount  int    `json:"products_count"`
	SalesCount    int    `json:"sales_count"`
	ShipmentCount int    `json:"shipments_count"`
}

// StatsReport aggregates seller statistics for the email report.
type StatsReport struct {
	Sellers       []SellerStats `json:"sellers"`
	TotalSellers  int           `json:"total_sellers"`
	TotalProducts int           `json:"total_products"`
	TotalSales    int           `json:"total_sales"`
	GeneratedAt   time.Time     `json:"generated_at"`
}

// BuildReport rolls per-seller rows up into a report.
func BuildReport(rows []SellerStats, now time.Time) *StatsReport {
	r := &StatsReport{
		Sellers:      rows,
		TotalSellers: len(rows),
		GeneratedAt:  now.UTC(),
	}
	for _, s := range rows {
		r.TotalProducts += s.ProductCount
		r.TotalSales += s.SalesCount
	}
	return r
}

// --- Context keys ---

type contextKey int

const ctxKeyRequestID contextKey = 0

// RequestIDFromContext extracts the request ID from context.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyRequestID).(string)
	return id
}

// ContextWithRequestID returns a context carrying the given request ID.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, id)
}

package sqlite

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	market "github.com/woysa/marketd/internal"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	// Use a unique file-based temp DB for each test to avoid shared :memory: races
	path := t.TempDir() + "/test.db"
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func mustCreateSeller(t *testing.T, s *Store, name string) *market.Seller {
	t.Helper()
	sl := &market.Seller{Name: name, Email: name + "@example.com", IsActive: true}
	if err := s.CreateSeller(context.Background(), sl); err != nil {
		t.Fatal("create seller:", err)
	}
	return sl
}

func mustCreateProduct(t *testing.T, s *Store, sellerID int64, name string, price float64) *market.Product {
	t.Helper()
	p := &market.Product{
		Name:        name,
		Price:       price,
		Quantity:    10,
		SKU:         fmt.Sprintf("sku-%s-%d", name, sellerID),
		SellerID:    sellerID,
		IsAvailable: true,
	}
	if err := s.CreateProduct(context.Background(), p); err != nil {
		t.Fatal("create product:", err)
	}
	return p
}

func TestSellerRoundTrip(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	sl := &market.Seller{
		Name:          "Acme Supplies",
		ContactPerson: "Jo Smith",
		Email:         "jo@acme.test",
		Phone:         "+1-555-0100",
		Address:       "1 Acme Way",
		IsActive:      true,
	}
	if err := s.CreateSeller(ctx, sl); err != nil {
		t.Fatal("create:", err)
	}
	if sl.ID == 0 {
		t.Fatal("create should assign an id")
	}

	got, err := s.GetSeller(ctx, sl.ID)
	if err != nil {
		t.Fatal("get:", err)
	}
	if got.Name != sl.Name {
		t.Errorf("name = %q, want %q", got.Name, sl.Name)
	}
	if got.ContactPerson != sl.ContactPerson {
		t.Errorf("contact = %q, want %q", got.ContactPerson, sl.ContactPerson)
	}
	if !got.IsActive {
		t.Error("is_active should survive the round trip")
	}
	if got.CreatedAt.IsZero() {
		t.Error("created_at should be set")
	}

	// Update
	got.Name = "Acme Wholesale"
	got.IsActive = false
	if err := s.UpdateSeller(ctx, got); err != nil {
		t.Fatal("update:", err)
	}
	got, _ = s.GetSeller(ctx, sl.ID)
	if got.Name != "Acme Wholesale" || got.IsActive {
		t.Errorf("update not applied: %+v", got)
	}

	// Delete
	if err := s.DeleteSeller(ctx, sl.ID); err != nil {
		t.Fatal("delete:", err)
	}
	if _, err := s.GetSeller(ctx, sl.ID); !errors.Is(err, market.ErrNotFound) {
		t.Errorf("get after delete = %v, want ErrNotFound", err)
	}
	if err := s.DeleteSeller(ctx, sl.ID); !errors.Is(err, market.ErrNotFound) {
		t.Errorf("second delete = %v, want ErrNotFound", err)
	}
}

func TestListSellersPagination(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"alpha", "bravo", "charlie"} {
		mustCreateSeller(t, s, name)
	}

	page, err := s.ListSellers(ctx, 1, 1)
	if err != nil {
		t.Fatal("list:", err)
	}
	if len(page) != 1 {
		t.Fatalf("page size = %d, want 1", len(page))
	}
	if page[0].Name != "bravo" {
		t.Errorf("page[0] = %q, want bravo (name order)", page[0].Name)
	}
}

func TestProductRoundTrip(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	sl := mustCreateSeller(t, s, "Acme")
	p := mustCreateProduct(t, s, sl.ID, "Widget", 9.99)

	got, err := s.GetProduct(ctx, p.ID)
	if err != nil {
		t.Fatal("get:", err)
	}
	if got.Price != 9.99 {
		t.Errorf("price = %v, want 9.99", got.Price)
	}
	if got.SellerName != "Acme" {
		t.Errorf("seller_name = %q, want Acme (joined)", got.SellerName)
	}

	got.Quantity = 3
	got.IsAvailable = false
	if err := s.UpdateProduct(ctx, got); err != nil {
		t.Fatal("update:", err)
	}
	got, _ = s.GetProduct(ctx, p.ID)
	if got.Quantity != 3 || got.IsAvailable {
		t.Errorf("update not applied: %+v", got)
	}

	other := mustCreateSeller(t, s, "Bravo")
	mustCreateProduct(t, s, other.ID, "Gadget", 5)

	mine, err := s.ListProductsBySeller(ctx, sl.ID, 0, 10)
	if err != nil {
		t.Fatal("list by seller:", err)
	}
	if len(mine) != 1 || mine[0].ID != p.ID {
		t.Errorf("list by seller = %d products, want only the Acme widget", len(mine))
	}

	all, err := s.ListProducts(ctx, 0, 10)
	if err != nil {
		t.Fatal("list:", err)
	}
	if len(all) != 2 {
		t.Errorf("list = %d products, want 2", len(all))
	}
}

func TestOrderRoundTrip(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	sl := mustCreateSeller(t, s, "Acme")
	p1 := mustCreateProduct(t, s, sl.ID, "Widget", 10)
	p2 := mustCreateProduct(t, s, sl.ID, "Gadget", 2.5)

	o := &market.Order{
		CustomerName:  "Dana",
		CustomerEmail: "dana@example.com",
		Items: []market.OrderItem{
			{ProductID: p1.ID, Quantity: 2, UnitPrice: p1.Price},
			{ProductID: p2.ID, Quantity: 4, UnitPrice: p2.Price},
		},
	}
	o.Normalize()
	if err := s.CreateOrder(ctx, o); err != nil {
		t.Fatal("create:", err)
	}

	got, err := s.GetOrder(ctx, o.ID)
	if err != nil {
		t.Fatal("get:", err)
	}
	if got.TotalAmount != 30 {
		t.Errorf("total = %v, want 30", got.TotalAmount)
	}
	if got.Status != market.OrderPending {
		t.Errorf("status = %q, want pending", got.Status)
	}
	if len(got.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(got.Items))
	}
	if got.Items[0].ProductName != "Widget" {
		t.Errorf("item product_name = %q, want Widget (joined)", got.Items[0].ProductName)
	}

	// Update status.
	got.Status = market.OrderCompleted
	if err := s.UpdateOrder(ctx, got); err != nil {
		t.Fatal("update:", err)
	}
	got, _ = s.GetOrder(ctx, o.ID)
	if got.Status != market.OrderCompleted {
		t.Errorf("status = %q, want completed", got.Status)
	}

	// Delete cascades to items.
	if err := s.DeleteOrder(ctx, o.ID); err != nil {
		t.Fatal("delete:", err)
	}
	if _, err := s.GetOrder(ctx, o.ID); !errors.Is(err, market.ErrNotFound) {
		t.Errorf("get after delete = %v, want ErrNotFound", err)
	}
}

func TestCreateProductUnknownSeller(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	p := &market.Product{Name: "Orphan", Price: 1, SellerID: 999}
	if err := s.CreateProduct(context.Background(), p); !errors.Is(err, market.ErrConflict) {
		t.Errorf("create with unknown seller = %v, want ErrConflict", err)
	}
}

func TestConstraintConflicts(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	sl := mustCreateSeller(t, s, "Acme")
	p := mustCreateProduct(t, s, sl.ID, "Widget", 10)

	// Sellers with products cannot be removed.
	if err := s.DeleteSeller(ctx, sl.ID); !errors.Is(err, market.ErrConflict) {
		t.Errorf("delete seller with products = %v, want ErrConflict", err)
	}

	// SKUs are unique.
	dup := &market.Product{Name: "Clone", Price: 1, SKU: p.SKU, SellerID: sl.ID}
	if err := s.CreateProduct(ctx, dup); !errors.Is(err, market.ErrConflict) {
		t.Errorf("duplicate sku = %v, want ErrConflict", err)
	}

	// Products referenced by order items cannot be removed.
	o := &market.Order{
		CustomerName: "Dana",
		Items:        []market.OrderItem{{ProductID: p.ID, Quantity: 1, UnitPrice: p.Price}},
	}
	o.Normalize()
	if err := s.CreateOrder(ctx, o); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteProduct(ctx, p.ID); !errors.Is(err, market.ErrConflict) {
		t.Errorf("delete ordered product = %v, want ErrConflict", err)
	}

	// Dropping the order frees the product and then the seller.
	if err := s.DeleteOrder(ctx, o.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteProduct(ctx, p.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteSeller(ctx, sl.ID); err != nil {
		t.Fatal(err)
	}
}

func TestSellerStats(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	ctx := context.Background()

	acme := mustCreateSeller(t, s, "Acme")
	bravo := mustCreateSeller(t, s, "Bravo")
	w := mustCreateProduct(t, s, acme.ID, "Widget", 10)
	mustCreateProduct(t, s, acme.ID, "Gadget", 5)

	completed := &market.Order{
		CustomerName: "Dana",
		Status:       market.OrderCompleted,
		Items:        []market.OrderItem{{ProductID: w.ID, Quantity: 1, UnitPrice: w.Price}},
	}
	completed.Normalize()
	if err := s.CreateOrder(ctx, completed); err != nil {
		t.Fatal(err)
	}

	pending := &market.Order{
		CustomerName: "Eli",
		Items:        []market.OrderItem{{ProductID: w.ID, Quantity: 1, UnitPrice: w.Price}},
	}
	pending.Normalize()
	if err := s.CreateOrder(ctx, pending); err != nil {
		t.Fatal(err)
	}

	stats, err := s.SellerStats(ctx, time.Now().Add(-30*24*time.Hour))
	if err != nil {
		t.Fatal("stats:", err)
	}
	if len(stats) != 2 {
		t.Fatalf("stats rows = %d, want 2", len(stats))
	}

	var acmeStats market.SellerStats
	for _, st := range stats {
		if st.SellerID == acme.ID {
			acmeStats = st
		}
	}
	if acmeStats.ProductCount != 2 {
		t.Errorf("acme products = %d, want 2", acmeStats.ProductCount)
	}
	if acmeStats.SalesCount != 1 {
		t.Errorf("acme sales = %d, want 1 (pending orders don't count)", acmeStats.SalesCount)
	}
	if acmeStats.ShipmentCount != 1 {
		t.Errorf("acme shipments = %d, want 1", acmeStats.ShipmentCount)
	}

	for _, st := range stats {
		if st.SellerID == bravo.ID && (st.ProductCount != 0 || st.SalesCount != 0) {
			t.Errorf("bravo should have no activity: %+v", st)
		}
	}

	// A shipment window starting in the future counts nothing.
	stats, err = s.SellerStats(ctx, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	for _, st := range stats {
		if st.ShipmentCount != 0 {
			t.Errorf("future window should count 0 shipments, got %d", st.ShipmentCount)
		}
	}
}

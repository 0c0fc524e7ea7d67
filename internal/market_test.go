package market

import (
	"testing"
	"time"
)

func TestOrderNormalize(t *testing.T) {
	t.Parallel()
	o := &Order{
		Items: []OrderItem{
			{Quantity: 2, UnitPrice: 3.5},
			{Quantity: 1, UnitPrice: 10},
		},
	}
	o.Normalize()

	if o.Items[0].TotalPrice != 7 || o.Items[1].TotalPrice != 10 {
		t.Fatalf("line totals = %v, %v", o.Items[0].TotalPrice, o.Items[1].TotalPrice)
	}
	if o.TotalAmount != 17 {
		t.Fatalf("total = %v, want 17", o.TotalAmount)
	}
	if o.Status != OrderPending {
		t.Fatalf("status = %q, want pending", o.Status)
	}

	// An explicit status survives normalization.
	o.Status = OrderCompleted
	o.Normalize()
	if o.Status != OrderCompleted {
		t.Fatalf("status = %q, want completed", o.Status)
	}
}

func TestValidStatus(t *testing.T) {
	t.Parallel()
	for _, s := range []string{OrderPending, OrderCompleted, OrderCancelled} {
		if !ValidStatus(s) {
			t.Errorf("ValidStatus(%q) = false", s)
		}
	}
	for _, s := range []string{"", "shipped", "Pending"} {
		if ValidStatus(s) {
			t.Errorf("ValidStatus(%q) = true", s)
		}
	}
}

func TestBuildReport(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.FixedZone("x", 3600))
	rows := []SellerStats{
		{SellerID: 1, Name: "A", ProductCount: 2, SalesCount: 3},
		{SellerID: 2, Name: "B", ProductCount: 1, SalesCount: 0},
	}
	r := BuildReport(rows, now)

	if r.TotalSellers != 2 || r.TotalProducts != 3 || r.TotalSales != 3 {
		t.Fatalf("totals = %+v", r)
	}
	if r.GeneratedAt.Location() != time.UTC {
		t.Fatal("generated_at not normalized to UTC")
	}
}

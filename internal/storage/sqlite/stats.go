package sqlite

import (
	"context"
	"time"

	market "github.com/woysa/marketd/internal"
)

// SellerStats computes per-seller report rows: total products, completed
// sales (distinct completed orders containing the seller's products), and
// shipments (completed orders since shipmentsSince).
func (s *Store) SellerStats(ctx context.Context, shipmentsSince time.Time) ([]market.SellerStats, error) {
	rows, err := s.read.QueryContext(ctx,
		`SELECT sl.id, sl.name,
			(SELECT COUNT(*) FROM products p WHERE p.seller_id = sl.id),
			(SELECT COUNT(DISTINCT o.id)
			   FROM orders o
			   JOIN order_items oi ON oi.order_id = o.id
			   JOIN products p ON p.id = oi.product_id
			  WHERE p.seller_id = sl.id AND o.status = ?),
			(SELECT COUNT(DISTINCT o.id)
			   FROM orders o
			   JOIN order_items oi ON oi.order_id = o.id
			   JOIN products p ON p.id = oi.product_id
			  WHERE p.seller_id = sl.id AND o.status = ? AND o.created_at >= ?)
		 FROM sellers sl ORDER BY sl.name, sl.id`,
		market.OrderCompleted, market.OrderCompleted, shipmentsSince.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []market.SellerStats
	for rows.Next() {
		var st market.SellerStats
		if err := rows.Scan(&st.SellerID, &st.Name, &st.ProductCount, &st.SalesCount, &st.ShipmentCount); err != nil {
			return nil, err
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}

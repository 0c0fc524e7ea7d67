package sqlite

import (
	"context"
	"database/sql"
	"time"

	market "github.com/woysa/marketd/internal"
)

// CreateOrder inserts an order and its items in one transaction and fills
// in the assigned IDs. Item and order totals must already be normalized.
func (s *Store) CreateOrder(ctx context.Context, o *market.Order) error {
	now := time.Now().UTC()
	o.CreatedAt, o.UpdatedAt = now, now

	tx, err := s.write.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO orders (customer_name, customer_email, customer_phone, total_amount, status, shipping_address, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		o.CustomerName, nullStr(o.CustomerEmail), nullStr(o.CustomerPhone), o.TotalAmount,
		o.Status, nullStr(o.ShippingAddress), now.Format(time.RFC3339), now.Format(time.RFC3339),
	)
	if err != nil {
		return err
	}
	if o.ID, err = result.LastInsertId(); err != nil {
		return err
	}

	for i := range o.Items {
		it := &o.Items[i]
		it.OrderID = o.ID
		res, err := tx.ExecContext(ctx,
			`INSERT INTO order_items (order_id, product_id, quantity, unit_price, total_price)
			 VALUES (?, ?, ?, ?, ?)`,
			it.OrderID, it.ProductID, it.Quantity, it.UnitPrice, it.TotalPrice,
		)
		if err != nil {
			return err
		}
		if it.ID, err = res.LastInsertId(); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetOrder retrieves an order with its items.
func (s *Store) GetOrder(ctx context.Context, id int64) (*market.Order, error) {
	row := s.read.QueryRowContext(ctx,
		`SELECT id, customer_name, customer_email, customer_phone, total_amount, status, shipping_address, created_at, updated_at
		 FROM orders WHERE id=?`, id,
	)
	o, err := scanOrder(row)
	if err != nil {
		return nil, err
	}
	if err := s.loadItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// ListOrders returns orders newest first, each with its items.
func (s *Store) ListOrders(ctx context.Context, offset, limit int) ([]*market.Order, error) {
	rows, err := s.read.QueryContext(ctx,
		`SELECT id, customer_name, customer_email, customer_phone, total_amount, status, shipping_address, created_at, updated_at
		 FROM orders ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*market.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, o := range orders {
		if err := s.loadItems(ctx, o); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// UpdateOrder updates an order's customer fields and status. Items are
// immutable after creation.
func (s *Store) UpdateOrder(ctx context.Context, o *market.Order) error {
	o.UpdatedAt = time.Now().UTC()
	result, err := s.write.ExecContext(ctx,
		`UPDATE orders SET customer_name=?, customer_email=?, customer_phone=?, status=?, shipping_address=?, updated_at=?
		 WHERE id=?`,
		o.CustomerName, nullStr(o.CustomerEmail), nullStr(o.CustomerPhone), o.Status,
		nullStr(o.ShippingAddress), o.UpdatedAt.Format(time.RFC3339), o.ID,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(result, "order")
}

// DeleteOrder removes an order; its items go with it via ON DELETE CASCADE.
func (s *Store) DeleteOrder(ctx context.Context, id int64) error {
	result, err := s.write.ExecContext(ctx, `DELETE FROM orders WHERE id=?`, id)
	if err != nil {
		return err
	}
	return checkRowsAffected(result, "order")
}

func (s *Store) loadItems(ctx context.Context, o *market.Order) error {
	rows, err := s.read.QueryContext(ctx,
		`SELECT oi.id, oi.order_id, oi.product_id, p.name, oi.quantity, oi.unit_price, oi.total_price
		 FROM order_items oi JOIN products p ON p.id = oi.product_id
		 WHERE oi.order_id=? ORDER BY oi.id`, o.ID,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	o.Items = []market.OrderItem{}
	for rows.Next() {
		var it market.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.Quantity, &it.UnitPrice, &it.TotalPrice); err != nil {
			return err
		}
		o.Items = append(o.Items, it)
	}
	return rows.Err()
}

func scanOrder(sc scanner) (*market.Order, error) {
	var o market.Order
	var email, phone, address sql.NullString
	var createdAt, updatedAt string

	err := sc.Scan(&o.ID, &o.CustomerName, &email, &phone, &o.TotalAmount, &o.Status, &address, &createdAt, &updatedAt)
	if err != nil {
		return nil, notFoundErr(err)
	}

	o.CustomerEmail = email.String
	o.CustomerPhone = phone.String
	o.ShippingAddress = address.String
	o.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	o.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &o, nil
}

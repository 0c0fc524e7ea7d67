package sqlite

import (
	"context"
	"database/sql"
	"time"

	market "github.com/woysa/marketd/internal"
)

// productCols joins products to sellers for the denormalized seller name.
const productCols = `p.id, p.name, p.description, p.price, p.quantity, p.category, p.sku,
	p.seller_id, p.is_available, s.name, p.created_at, p.updated_at`

// CreateProduct inserts a new product and fills in its assigned ID.
// The referenced seller must exist (enforced by the foreign key).
func (s *Store) CreateProduct(ctx context.Context, p *market.Product) error {
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now

	result, err := s.write.ExecContext(ctx,
		`INSERT INTO products (name, description, price, quantity, category, sku, seller_id, is_available, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Name, nullStr(p.Description), p.Price, p.Quantity, nullStr(p.Category), nullStr(p.SKU),
		p.SellerID, boolToInt(p.IsAvailable), now.Format(time.RFC3339), now.Format(time.RFC3339),
	)
	if err != nil {
		return conflictErr(err)
	}
	p.ID, err = result.LastInsertId()
	return err
}

// GetProduct retrieves a product by ID, including its seller's name.
func (s *Store) GetProduct(ctx context.Context, id int64) (*market.Product, error) {
	row := s.read.QueryRowContext(ctx,
		`SELECT `+productCols+` FROM products p JOIN sellers s ON s.id = p.seller_id WHERE p.id=?`, id,
	)
	return scanProduct(row)
}

// ListProducts returns products ordered by name.
func (s *Store) ListProducts(ctx context.Context, offset, limit int) ([]*market.Product, error) {
	rows, err := s.read.QueryContext(ctx,
		`SELECT `+productCols+` FROM products p JOIN sellers s ON s.id = p.seller_id
		 ORDER BY p.name, p.id LIMIT ? OFFSET ?`, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

// ListProductsBySeller returns one seller's products ordered by name.
func (s *Store) ListProductsBySeller(ctx context.Context, sellerID int64, offset, limit int) ([]*market.Product, error) {
	rows, err := s.read.QueryContext(ctx,
		`SELECT `+productCols+` FROM products p JOIN sellers s ON s.id = p.seller_id
		 WHERE p.seller_id=? ORDER BY p.name, p.id LIMIT ? OFFSET ?`, sellerID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

// UpdateProduct updates a product.
func (s *Store) UpdateProduct(ctx context.Context, p *market.Product) error {
	p.UpdatedAt = time.Now().UTC()
	result, err := s.write.ExecContext(ctx,
		`UPDATE products SET name=?, description=?, price=?, quantity=?, category=?, sku=?, is_available=?, updated_at=?
		 WHERE id=?`,
		p.Name, nullStr(p.Description), p.Price, p.Quantity, nullStr(p.Category), nullStr(p.SKU),
		boolToInt(p.IsAvailable), p.UpdatedAt.Format(time.RFC3339), p.ID,
	)
	if err != nil {
		return conflictErr(err)
	}
	return checkRowsAffected(result, "product")
}

// DeleteProduct removes a product. Fails with market.ErrConflict while the
// product is referenced by order items.
func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	result, err := s.write.ExecContext(ctx, `DELETE FROM products WHERE id=?`, id)
	if err != nil {
		return conflictErr(err)
	}
	return checkRowsAffected(result, "product")
}

func collectProducts(rows *sql.Rows) ([]*market.Product, error) {
	defer rows.Close()
	var products []*market.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func scanProduct(sc scanner) (*market.Product, error) {
	var p market.Product
	var desc, category, sku sql.NullString
	var available int
	var createdAt, updatedAt string

	err := sc.Scan(&p.ID, &p.Name, &desc, &p.Price, &p.Quantity, &category, &sku,
		&p.SellerID, &available, &p.SellerName, &createdAt, &updatedAt)
	if err != nil {
		return nil, notFoundErr(err)
	}

	p.Description = desc.String
	p.Category = category.String
	p.SKU = sku.String
	p.IsAvailable = available != 0
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &p, nil
}

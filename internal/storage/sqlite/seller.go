package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	market "github.com/woysa/marketd/internal"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// CreateSeller inserts a new seller and fills in its assigned ID.
func (s *Store) CreateSeller(ctx context.Context, sl *market.Seller) error {
	now := time.Now().UTC()
	sl.CreatedAt, sl.UpdatedAt = now, now

	result, err := s.write.ExecContext(ctx,
		`INSERT INTO sellers (name, contact_person, email, phone, address, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sl.Name, nullStr(sl.ContactPerson), nullStr(sl.Email), nullStr(sl.Phone), nullStr(sl.Address),
		boolToInt(sl.IsActive), now.Format(time.RFC3339), now.Format(time.RFC3339),
	)
	if err != nil {
		return err
	}
	sl.ID, err = result.LastInsertId()
	return err
}

// GetSeller retrieves a seller by ID.
func (s *Store) GetSeller(ctx context.Context, id int64) (*market.Seller, error) {
	row := s.read.QueryRowContext(ctx,
		`SELECT id, name, contact_person, email, phone, address, is_active, created_at, updated_at
		 FROM sellers WHERE id=?`, id,
	)
	return scanSeller(row)
}

// ListSellers returns sellers ordered by name.
func (s *Store) ListSellers(ctx context.Context, offset, limit int) ([]*market.Seller, error) {
	rows, err := s.read.QueryContext(ctx,
		`SELECT id, name, contact_person, email, phone, address, is_active, created_at, updated_at
		 FROM sellers ORDER BY name, id LIMIT ? OFFSET ?`, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sellers []*market.Seller
	for rows.Next() {
		sl, err := scanSeller(rows)
		if err != nil {
			return nil, err
		}
		sellers = append(sellers, sl)
	}
	return sellers, rows.Err()
}

// UpdateSeller updates a seller.
func (s *Store) UpdateSeller(ctx context.Context, sl *market.Seller) error {
	sl.UpdatedAt = time.Now().UTC()
	result, err := s.write.ExecContext(ctx,
		`UPDATE sellers SET name=?, contact_person=?, email=?, phone=?, address=?, is_active=?, updated_at=?
		 WHERE id=?`,
		sl.Name, nullStr(sl.ContactPerson), nullStr(sl.Email), nullStr(sl.Phone), nullStr(sl.Address),
		boolToInt(sl.IsActive), sl.UpdatedAt.Format(time.RFC3339), sl.ID,
	)
	if err != nil {
		return err
	}
	return checkRowsAffected(result, "seller")
}

// DeleteSeller removes a seller. Fails with market.ErrConflict while the
// seller still has products.
func (s *Store) DeleteSeller(ctx context.Context, id int64) error {
	result, err := s.write.ExecContext(ctx, `DELETE FROM sellers WHERE id=?`, id)
	if err != nil {
		return conflictErr(err)
	}
	return checkRowsAffected(result, "seller")
}

func scanSeller(sc scanner) (*market.Seller, error) {
	var sl market.Seller
	var contact, email, phone, address sql.NullString
	var active int
	var createdAt, updatedAt string

	err := sc.Scan(&sl.ID, &sl.Name, &contact, &email, &phone, &address, &active, &createdAt, &updatedAt)
	if err != nil {
		return nil, notFoundErr(err)
	}

	sl.ContactPerson = contact.String
	sl.Email = email.String
	sl.Phone = phone.String
	sl.Address = address.String
	sl.IsActive = active != 0
	sl.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	sl.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &sl, nil
}

// --- Shared scan helpers ---

type scanner interface {
	Scan(dest ...any) error
}

// notFoundErr translates sql.ErrNoRows to market.ErrNotFound.
func notFoundErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return market.ErrNotFound
	}
	return err
}

// conflictErr translates SQLite constraint violations (unique, foreign key)
// to market.ErrConflict so handlers can answer 409 instead of 500.
func conflictErr(err error) error {
	var se *sqlite.Error
	if errors.As(err, &se) && se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
		return fmt.Errorf("%v: %w", err, market.ErrConflict)
	}
	return err
}

func nullStr(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func checkRowsAffected(result sql.Result, entity string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", entity, market.ErrNotFound)
	}
	return nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/sweetify/sweets-api/internal/core/domain"
	"github.com/sweetify/sweets-api/internal/core/ports"
)

type SweetRepository struct {
	db DB
}

func NewSweetRepository(db DB) *SweetRepository {
	return &SweetRepository{db: db}
}

func (r *SweetRepository) List(ctx context.Context) ([]domain.Sweet, error) {
	return r.query(ctx, `SELECT `+sweetColumns+` FROM sweets ORDER BY created_at DESC`)
}

func (r *SweetRepository) Search(ctx context.Context, filter ports.SearchFilter) ([]domain.Sweet, error) {
	q, args := buildSearchQuery(filter)
	return r.query(ctx, q, args...)
}

func (r *SweetRepository) FindByID(ctx context.Context, id string) (*domain.Sweet, error) {
	row := r.db.QueryRow(ctx, `SELECT `+sweetColumns+` FROM sweets WHERE id = $1`, id)
	return scanOne(row, "find sweet")
}

func (r *SweetRepository) Create(ctx context.Context, s *domain.Sweet) (*domain.Sweet, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO sweets (id, name, category, price, quantity, description, image_url, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING `+sweetColumns,
		s.ID, s.Name, s.Category, s.Price, s.Quantity, s.Description, s.ImageURL, s.CreatedAt, s.UpdatedAt,
	)
	created, err := scanSweet(row)
	if err != nil {
		if ve := rangeError(err); ve != nil {
			return nil, ve
		}
		return nil, fmt.Errorf("insert sweet: %w", err)
	}
	return created, nil
}

func (r *SweetRepository) CreateIfAbsent(ctx context.Context, s *domain.Sweet) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`INSERT INTO sweets (id, name, category, price, quantity, description, image_url, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (id) DO NOTHING`,
		s.ID, s.Name, s.Category, s.Price, s.Quantity, s.Description, s.ImageURL, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("seed sweet: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *SweetRepository) Update(ctx context.Context, id string, patch ports.UpdateSweetInput) (*domain.Sweet, error) {
	q, args := buildUpdateQuery(id, patch)
	updated, err := scanOne(r.db.QueryRow(ctx, q, args...), "update sweet")
	if ve := rangeError(err); ve != nil {
		return nil, ve
	}
	return updated, err
}

func (r *SweetRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM sweets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete sweet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Decrement applies the stock guard inside the UPDATE itself. When no row
// comes back, a follow-up existence check tells a missing sweet apart from
// insufficient stock.
func (r *SweetRepository) Decrement(ctx context.Context, id string, k int) (*domain.Sweet, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE sweets SET quantity = quantity - $2, updated_at = NOW()
		 WHERE id = $1 AND quantity >= $2
		 RETURNING `+sweetColumns,
		id, k,
	)
	s, err := scanSweet(row)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("purchase: %w", err)
	}
	return nil, r.missOr(ctx, id, domain.ErrInsufficientStock, "purchase")
}

// Increment refuses to push quantity past domain.MaxQuantity, the INTEGER
// column's ceiling, using the same guarded UPDATE as Decrement.
func (r *SweetRepository) Increment(ctx context.Context, id string, k int) (*domain.Sweet, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE sweets SET quantity = quantity + $2, updated_at = NOW()
		 WHERE id = $1 AND quantity <= $3 - $2
		 RETURNING `+sweetColumns,
		id, k, domain.MaxQuantity,
	)
	s, err := scanSweet(row)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("restock: %w", err)
	}
	return nil, r.missOr(ctx, id, domain.ErrStockLimit, "restock")
}

// missOr explains a guarded UPDATE that matched no row: ErrNotFound when the
// sweet is gone, otherwise the guard's own error.
func (r *SweetRepository) missOr(ctx context.Context, id string, guard error, op string) error {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM sweets WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	return guard
}

func (r *SweetRepository) query(ctx context.Context, q string, args ...any) ([]domain.Sweet, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query sweets: %w", err)
	}
	defer rows.Close()

	sweets := make([]domain.Sweet, 0)
	for rows.Next() {
		s, err := scanSweet(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sweet: %w", err)
		}
		sweets = append(sweets, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sweets: %w", err)
	}
	return sweets, nil
}

func scanOne(row pgx.Row, op string) (*domain.Sweet, error) {
	s, err := scanSweet(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}

func scanSweet(row pgx.Row) (*domain.Sweet, error) {
	var s domain.Sweet
	err := row.Scan(&s.ID, &s.Name, &s.Category, &s.Price, &s.Quantity, &s.Description, &s.ImageURL, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

const (
	checkViolation    = "23514"
	numericOutOfRange = "22003"
)

// rangeError turns a column CHECK or numeric overflow into a validation
// error. It returns nil for anything else.
func rangeError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil
	}
	switch {
	case pgErr.Code == checkViolation && pgErr.ConstraintName == "sweets_price_check":
		return domain.NewValidationError("price", "Price must be positive")
	case pgErr.Code == checkViolation && pgErr.ConstraintName == "sweets_quantity_check":
		return domain.NewValidationError("quantity", "Quantity cannot be negative")
	case pgErr.Code == numericOutOfRange:
		return domain.NewValidationError("body", "Value out of range")
	}
	return nil
}

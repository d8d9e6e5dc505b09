package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/sweetify/sweets-api/internal/core/domain"
)

type fakeDB struct {
	ExecFn     func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryFn    func(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRowFn func(ctx context.Context, sql string, args ...any) pgx.Row
}

func (f *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if f.ExecFn != nil {
		return f.ExecFn(ctx, sql, args...)
	}
	panic("unexpected Exec")
}

func (f *fakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if f.QueryFn != nil {
		return f.QueryFn(ctx, sql, args...)
	}
	panic("unexpected Query")
}

func (f *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if f.QueryRowFn != nil {
		return f.QueryRowFn(ctx, sql, args...)
	}
	panic("unexpected QueryRow")
}

func (f *fakeDB) Ping(context.Context) error { return nil }
func (f *fakeDB) Close()                     {}

// fakeRow scans either a sweet, a user, or a single scalar.
type fakeRow struct {
	err    error
	sweet  *domain.Sweet
	user   *domain.User
	scalar any
}

func (r *fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	switch {
	case r.sweet != nil:
		s := r.sweet
		*dest[0].(*string) = s.ID
		*dest[1].(*string) = s.Name
		*dest[2].(*string) = s.Category
		*dest[3].(*float64) = s.Price
		*dest[4].(*int) = s.Quantity
		*dest[5].(**string) = s.Description
		*dest[6].(**string) = s.ImageURL
		*dest[7].(*time.Time) = s.CreatedAt
		*dest[8].(*time.Time) = s.UpdatedAt
	case r.user != nil:
		u := r.user
		*dest[0].(*string) = u.ID
		*dest[1].(*string) = u.Email
		*dest[2].(*string) = u.PasswordHash
		*dest[3].(**string) = u.Name
		*dest[4].(*string) = string(u.Role)
		*dest[5].(*time.Time) = u.CreatedAt
		*dest[6].(*time.Time) = u.UpdatedAt
	default:
		*dest[0].(*bool) = r.scalar.(bool)
	}
	return nil
}

type fakeRows struct {
	sweets []domain.Sweet
	idx    int
	err    error
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Values() ([]any, error)                       { return nil, nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.idx >= len(r.sweets) {
		return false
	}
	r.idx++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	s := r.sweets[r.idx-1]
	return (&fakeRow{sweet: &s}).Scan(dest...)
}

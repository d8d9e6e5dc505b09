package ports

import (
	"context"

	"github.com/sweetify/sweets-api/internal/core/domain"
)

// SweetRepository persists catalog entries. Every method that targets a
// single id returns domain.ErrNotFound when the row does not exist.
type SweetRepository interface {
	List(ctx context.Context) ([]domain.Sweet, error)
	Search(ctx context.Context, filter SearchFilter) ([]domain.Sweet, error)
	FindByID(ctx context.Context, id string) (*domain.Sweet, error)
	Create(ctx context.Context, sweet *domain.Sweet) (*domain.Sweet, error)
	// CreateIfAbsent inserts sweet unless its id already exists. Reports whether a row was written.
	CreateIfAbsent(ctx context.Context, sweet *domain.Sweet) (bool, error)
	Update(ctx context.Context, id string, patch UpdateSweetInput) (*domain.Sweet, error)
	Delete(ctx context.Context, id string) error

	// Decrement subtracts k from the stock in a single conditional write.
	// It returns domain.ErrInsufficientStock, leaving the row untouched,
	// when fewer than k units are on hand.
	Decrement(ctx context.Context, id string, k int) (*domain.Sweet, error)
	Increment(ctx context.Context, id string, k int) (*domain.Sweet, error)
}

// IdempotencyStore reserves request keys so a replayed purchase is rejected.
type IdempotencyStore interface {
	// Reserve returns false when key was already reserved.
	Reserve(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

package ports

import (
	"context"

	"github.com/sweetify/sweets-api/internal/core/domain"
)

type CreateSweetInput struct {
	Name        string
	Category    string
	Price       float64
	Quantity    int
	Description *string
	ImageURL    *string
}

// UpdateSweetInput carries a partial update. A nil field keeps its stored value.
type UpdateSweetInput struct {
	Name        *string
	Category    *string
	Price       *float64
	Quantity    *int
	Description *string
	ImageURL    *string
}

func (in UpdateSweetInput) Empty() bool {
	return in.Name == nil && in.Category == nil && in.Price == nil &&
		in.Quantity == nil && in.Description == nil && in.ImageURL == nil
}

// SearchFilter holds optional, conjunctive catalog filters.
// Name is a case-insensitive substring; Category matches exactly;
// price bounds are inclusive.
type SearchFilter struct {
	Name     string
	Category string
	MinPrice *float64
	MaxPrice *float64
}

type StockChangeInput struct {
	Quantity int
	// IdempotencyKey is optional; only purchases honour it.
	IdempotencyKey string
}

type SweetService interface {
	List(ctx context.Context) ([]domain.Sweet, error)
	Search(ctx context.Context, filter SearchFilter) ([]domain.Sweet, error)
	Get(ctx context.Context, id string) (*domain.Sweet, error)
	Create(ctx context.Context, input CreateSweetInput) (*domain.Sweet, error)
	Update(ctx context.Context, id string, input UpdateSweetInput) (*domain.Sweet, error)
	Delete(ctx context.Context, id string) error
	Purchase(ctx context.Context, id string, input StockChangeInput) (*domain.Sweet, error)
	Restock(ctx context.Context, id string, input StockChangeInput) (*domain.Sweet, error)
}

package domain

import (
	"errors"
	"math"
	"time"
)

// MaxQuantity is the most units a single sweet can hold. It matches the
// INTEGER stock column.
const MaxQuantity = math.MaxInt32

var (
	ErrNotFound          = errors.New("sweet not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrStockLimit is returned when a restock would push quantity past MaxQuantity.
	ErrStockLimit = errors.New("stock limit exceeded")
	// ErrDuplicateRequest is returned when an idempotency key has already been used.
	ErrDuplicateRequest = errors.New("duplicate request")
)

// Sweet is a catalog product with on-hand stock.
// Quantity stays within [0, MaxQuantity].
type Sweet struct {
	ID          string    `json:"id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Category    string    `json:"category" bson:"category"`
	Price       float64   `json:"price" bson:"price"`
	Quantity    int       `json:"quantity" bson:"quantity"`
	Description *string   `json:"description" bson:"description"`
	ImageURL    *string   `json:"imageUrl" bson:"image_url"`
	CreatedAt   time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updated_at"`
}

// InStock reports whether at least k units are available.
func (s *Sweet) InStock(k int) bool {
	return k > 0 && s.Quantity >= k
}

package service

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sweetify/sweets-api/internal/core/domain"
	"github.com/sweetify/sweets-api/internal/core/ports"
)

// SweetService owns the catalog and its stock arithmetic. Callers are
// expected to have been authorized already; the service does not check roles.
type SweetService struct {
	repo   ports.SweetRepository
	keys   ports.IdempotencyStore
	logger zerolog.Logger
}

// NewSweetService wires the catalog service. keys may be nil, in which case
// purchase idempotency keys are ignored.
func NewSweetService(repo ports.SweetRepository, keys ports.IdempotencyStore, logger zerolog.Logger) *SweetService {
	return &SweetService{repo: repo, keys: keys, logger: logger}
}

func (s *SweetService) List(ctx context.Context) ([]domain.Sweet, error) {
	return s.repo.List(ctx)
}

func (s *SweetService) Search(ctx context.Context, filter ports.SearchFilter) ([]domain.Sweet, error) {
	return s.repo.Search(ctx, filter)
}

func (s *SweetService) Get(ctx context.Context, id string) (*domain.Sweet, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *SweetService) Create(ctx context.Context, input ports.CreateSweetInput) (*domain.Sweet, error) {
	if err := validateSweetFields(&input.Name, &input.Category, &input.Price, &input.Quantity, input.ImageURL); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	sweet, err := s.repo.Create(ctx, &domain.Sweet{
		ID:          uuid.NewString(),
		Name:        input.Name,
		Category:    input.Category,
		Price:       input.Price,
		Quantity:    input.Quantity,
		Description: input.Description,
		ImageURL:    input.ImageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("sweet_id", sweet.ID).Str("name", sweet.Name).Msg("sweet created")
	return sweet, nil
}

func (s *SweetService) Update(ctx context.Context, id string, input ports.UpdateSweetInput) (*domain.Sweet, error) {
	if err := validateSweetFields(input.Name, input.Category, input.Price, input.Quantity, input.ImageURL); err != nil {
		return nil, err
	}
	if input.Empty() {
		// Nothing to write; still report a missing id.
		return s.repo.FindByID(ctx, id)
	}
	return s.repo.Update(ctx, id, input)
}

func (s *SweetService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("sweet_id", id).Msg("sweet deleted")
	return nil
}

// Purchase removes input.Quantity units. The stock check and the decrement
// happen in one conditional write, so concurrent purchases cannot overdraw.
func (s *SweetService) Purchase(ctx context.Context, id string, input ports.StockChangeInput) (*domain.Sweet, error) {
	if err := validateStockChange(input.Quantity); err != nil {
		return nil, err
	}

	reserved := false
	if input.IdempotencyKey != "" && s.keys != nil {
		ok, err := s.keys.Reserve(ctx, purchaseKey(id, input.IdempotencyKey))
		switch {
		case err != nil:
			s.logger.Warn().Err(err).Str("sweet_id", id).Msg("idempotency store unavailable, purchasing without key")
		case !ok:
			return nil, domain.ErrDuplicateRequest
		default:
			reserved = true
		}
	}

	sweet, err := s.repo.Decrement(ctx, id, input.Quantity)
	if err != nil {
		if reserved {
			if rerr := s.keys.Release(ctx, purchaseKey(id, input.IdempotencyKey)); rerr != nil {
				s.logger.Warn().Err(rerr).Str("sweet_id", id).Msg("release idempotency key")
			}
		}
		if !errors.Is(err, domain.ErrNotFound) && !errors.Is(err, domain.ErrInsufficientStock) {
			s.logger.Error().Err(err).Str("sweet_id", id).Msg("purchase failed")
		}
		return nil, err
	}

	s.logger.Info().Str("sweet_id", id).Int("quantity", input.Quantity).Int("remaining", sweet.Quantity).Msg("purchase")
	return sweet, nil
}

func (s *SweetService) Restock(ctx context.Context, id string, input ports.StockChangeInput) (*domain.Sweet, error) {
	if err := validateStockChange(input.Quantity); err != nil {
		return nil, err
	}

	// The store refuses increments past MaxQuantity with ErrStockLimit.
	sweet, err := s.repo.Increment(ctx, id, input.Quantity)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("sweet_id", id).Int("quantity", input.Quantity).Int("on_hand", sweet.Quantity).Msg("restock")
	return sweet, nil
}

func purchaseKey(id, key string) string {
	return "purchase:" + id + ":" + key
}

// validateSweetFields checks whichever fields are present, in declaration order.
func validateSweetFields(name, category *string, price *float64, quantity *int, imageURL *string) error {
	if name != nil && strings.TrimSpace(*name) == "" {
		return domain.NewValidationError("name", "Name is required")
	}
	if category != nil && strings.TrimSpace(*category) == "" {
		return domain.NewValidationError("category", "Category is required")
	}
	if price != nil && *price <= 0 {
		return domain.NewValidationError("price", "Price must be positive")
	}
	if quantity != nil && *quantity < 0 {
		return domain.NewValidationError("quantity", "Quantity cannot be negative")
	}
	if quantity != nil && *quantity > domain.MaxQuantity {
		return domain.NewValidationError("quantity", "Quantity is too large")
	}
	if imageURL != nil && *imageURL != "" && !isURL(*imageURL) {
		return domain.NewValidationError("imageUrl", "Invalid image URL")
	}
	return nil
}

func validateStockChange(k int) error {
	if k <= 0 {
		return domain.NewValidationError("quantity", "Quantity must be positive")
	}
	if k > domain.MaxQuantity {
		return domain.NewValidationError("quantity", "Quantity is too large")
	}
	return nil
}

func isURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Scheme != "" && (u.Host != "" || u.Opaque != "")
}

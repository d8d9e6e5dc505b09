// Package memory holds process-local repositories for development runs and
// HTTP-level tests. Data is lost on restart.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sweetify/sweets-api/internal/core/domain"
	"github.com/sweetify/sweets-api/internal/core/ports"
)

type sweetEntry struct {
	sweet domain.Sweet
	seq   uint64
}

type SweetRepository struct {
	mu     sync.RWMutex
	sweets map[string]*sweetEntry
	seq    uint64
}

func NewSweetRepository() *SweetRepository {
	return &SweetRepository{sweets: make(map[string]*sweetEntry)}
}

func (r *SweetRepository) List(ctx context.Context) ([]domain.Sweet, error) {
	return r.Search(ctx, ports.SearchFilter{})
}

func (r *SweetRepository) Search(ctx context.Context, f ports.SearchFilter) ([]domain.Sweet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	name := strings.ToLower(f.Name)
	matched := make([]*sweetEntry, 0, len(r.sweets))
	for _, e := range r.sweets {
		s := &e.sweet
		if (name == "" || strings.Contains(strings.ToLower(s.Name), name)) &&
			(f.Category == "" || s.Category == f.Category) &&
			(f.MinPrice == nil || s.Price >= *f.MinPrice) &&
			(f.MaxPrice == nil || s.Price <= *f.MaxPrice) {
			matched = append(matched, e)
		}
	}

	// newest first; insertion order breaks timestamp ties
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.sweet.CreatedAt.Equal(b.sweet.CreatedAt) {
			return a.sweet.CreatedAt.After(b.sweet.CreatedAt)
		}
		return a.seq > b.seq
	})

	out := make([]domain.Sweet, len(matched))
	for i, e := range matched {
		out[i] = e.sweet
	}
	return out, nil
}

func (r *SweetRepository) FindByID(ctx context.Context, id string) (*domain.Sweet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.sweets[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := e.sweet
	return &out, nil
}

func (r *SweetRepository) Create(ctx context.Context, s *domain.Sweet) (*domain.Sweet, error) {
	created, err := r.CreateIfAbsent(ctx, s)
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, fmt.Errorf("sweet %s already exists", s.ID)
	}
	out := *s
	return &out, nil
}

func (r *SweetRepository) CreateIfAbsent(ctx context.Context, s *domain.Sweet) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sweets[s.ID]; ok {
		return false, nil
	}
	r.seq++
	r.sweets[s.ID] = &sweetEntry{sweet: *s, seq: r.seq}
	return true, nil
}

func (r *SweetRepository) Update(ctx context.Context, id string, p ports.UpdateSweetInput) (*domain.Sweet, error) {
	return r.mutate(ctx, id, func(s *domain.Sweet) error {
		if p.Name != nil {
			s.Name = *p.Name
		}
		if p.Category != nil {
			s.Category = *p.Category
		}
		if p.Price != nil {
			s.Price = *p.Price
		}
		if p.Quantity != nil {
			s.Quantity = *p.Quantity
		}
		if p.Description != nil {
			s.Description = cloneString(p.Description)
		}
		if p.ImageURL != nil {
			s.ImageURL = cloneString(p.ImageURL)
		}
		return nil
	})
}

func (r *SweetRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sweets[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.sweets, id)
	return nil
}

func (r *SweetRepository) Decrement(ctx context.Context, id string, k int) (*domain.Sweet, error) {
	return r.mutate(ctx, id, func(s *domain.Sweet) error {
		if s.Quantity < k {
			return domain.ErrInsufficientStock
		}
		s.Quantity -= k
		return nil
	})
}

func (r *SweetRepository) Increment(ctx context.Context, id string, k int) (*domain.Sweet, error) {
	return r.mutate(ctx, id, func(s *domain.Sweet) error {
		if s.Quantity > domain.MaxQuantity-k {
			return domain.ErrStockLimit
		}
		s.Quantity += k
		return nil
	})
}

// mutate applies fn to a copy under the write lock and stores it only when fn succeeds.
func (r *SweetRepository) mutate(ctx context.Context, id string, fn func(*domain.Sweet) error) (*domain.Sweet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sweets[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	next := e.sweet
	if err := fn(&next); err != nil {
		return nil, err
	}
	next.UpdatedAt = time.Now().UTC()
	e.sweet = next
	out := next
	return &out, nil
}

func cloneString(s *string) *string {
	v := *s
	return &v
}

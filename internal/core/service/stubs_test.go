package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sweetify/sweets-api/internal/core/domain"
	"github.com/sweetify/sweets-api/internal/core/ports"
)

type stubUserRepo struct {
	users   map[string]*domain.User
	findErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrDuplicateEmail
		}
	}
	r.users[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

// stubSweetRepo serialises stock changes behind a mutex, standing in for the
// row-level conditional update a real store performs.
type stubSweetRepo struct {
	mu     sync.Mutex
	sweets map[string]*domain.Sweet
	err    error
}

func newStubSweetRepo(seed ...domain.Sweet) *stubSweetRepo {
	r := &stubSweetRepo{sweets: make(map[string]*domain.Sweet)}
	for i := range seed {
		s := seed[i]
		r.sweets[s.ID] = &s
	}
	return r
}

func (r *stubSweetRepo) List(_ context.Context) ([]domain.Sweet, error) {
	out := make([]domain.Sweet, 0, len(r.sweets))
	for _, s := range r.sweets {
		out = append(out, *s)
	}
	return out, r.err
}

func (r *stubSweetRepo) Search(ctx context.Context, _ ports.SearchFilter) ([]domain.Sweet, error) {
	return r.List(ctx)
}

func (r *stubSweetRepo) FindByID(_ context.Context, id string) (*domain.Sweet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sweets[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *s
	return &out, nil
}

func (r *stubSweetRepo) Create(_ context.Context, sweet *domain.Sweet) (*domain.Sweet, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s := *sweet
	r.sweets[s.ID] = &s
	out := s
	return &out, nil
}

func (r *stubSweetRepo) CreateIfAbsent(ctx context.Context, sweet *domain.Sweet) (bool, error) {
	if _, ok := r.sweets[sweet.ID]; ok {
		return false, nil
	}
	_, err := r.Create(ctx, sweet)
	return err == nil, err
}

func (r *stubSweetRepo) Update(_ context.Context, id string, patch ports.UpdateSweetInput) (*domain.Sweet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sweets[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if patch.Name != nil {
		s.Name = *patch.Name
	}
	if patch.Category != nil {
		s.Category = *patch.Category
	}
	if patch.Price != nil {
		s.Price = *patch.Price
	}
	if patch.Quantity != nil {
		s.Quantity = *patch.Quantity
	}
	s.UpdatedAt = time.Now().UTC()
	out := *s
	return &out, nil
}

func (r *stubSweetRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.sweets[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.sweets, id)
	return nil
}

func (r *stubSweetRepo) Decrement(_ context.Context, id string, k int) (*domain.Sweet, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sweets[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if !s.InStock(k) {
		return nil, domain.ErrInsufficientStock
	}
	s.Quantity -= k
	out := *s
	return &out, nil
}

func (r *stubSweetRepo) Increment(_ context.Context, id string, k int) (*domain.Sweet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sweets[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if s.Quantity > domain.MaxQuantity-k {
		return nil, domain.ErrStockLimit
	}
	s.Quantity += k
	out := *s
	return &out, nil
}

type stubKeys struct {
	seen     map[string]bool
	err      error
	released []string
}

func (k *stubKeys) Reserve(_ context.Context, key string) (bool, error) {
	if k.err != nil {
		return false, k.err
	}
	if k.seen[key] {
		return false, nil
	}
	k.seen[key] = true
	return true, nil
}

func (k *stubKeys) Release(_ context.Context, key string) error {
	delete(k.seen, key)
	k.released = append(k.released, key)
	return nil
}

type stubTokens struct{}

func (stubTokens) Issue(subject string) (string, error) { return "token-" + subject, nil }

var errStore = errors.New("store unavailable")

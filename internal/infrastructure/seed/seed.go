// Package seed loads the admin account and sample catalog. Every step is
// idempotent so the command can be rerun against a populated store.
package seed

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sweetify/sweets-api/internal/core/domain"
	"github.com/sweetify/sweets-api/internal/core/ports"
)

const adminName = "Admin User"

var whitespace = regexp.MustCompile(`\s+`)

type Admin struct {
	Email    string
	Password string
}

// Result reports what a run actually wrote.
type Result struct {
	AdminCreated  bool
	SweetsCreated int
	SweetsSkipped int
}

type Seeder struct {
	users  ports.UserRepository
	sweets ports.SweetRepository
	hasher ports.PasswordHasher
	logger zerolog.Logger
}

func New(users ports.UserRepository, sweets ports.SweetRepository, hasher ports.PasswordHasher, logger zerolog.Logger) *Seeder {
	return &Seeder{users: users, sweets: sweets, hasher: hasher, logger: logger}
}

func (s *Seeder) Run(ctx context.Context, admin Admin) (Result, error) {
	var res Result

	created, err := s.ensureAdmin(ctx, admin)
	if err != nil {
		return res, err
	}
	res.AdminCreated = created

	now := time.Now().UTC()
	for i, item := range catalog {
		desc, img := item.Description, item.ImageURL
		ok, err := s.sweets.CreateIfAbsent(ctx, &domain.Sweet{
			ID:          SweetID(item.Name),
			Name:        item.Name,
			Category:    item.Category,
			Price:       item.Price,
			Quantity:    item.Quantity,
			Description: &desc,
			ImageURL:    &img,
			// first catalog entry lists first
			CreatedAt: now.Add(-time.Duration(i) * time.Second),
			UpdatedAt: now,
		})
		if err != nil {
			return res, fmt.Errorf("seed %q: %w", item.Name, err)
		}
		if ok {
			res.SweetsCreated++
		} else {
			res.SweetsSkipped++
		}
	}

	s.logger.Info().
		Bool("admin_created", res.AdminCreated).
		Int("sweets_created", res.SweetsCreated).
		Int("sweets_skipped", res.SweetsSkipped).
		Msg("seed complete")
	return res, nil
}

// ensureAdmin leaves an existing account with the same email untouched.
func (s *Seeder) ensureAdmin(ctx context.Context, admin Admin) (bool, error) {
	_, err := s.users.FindByEmail(ctx, admin.Email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return false, fmt.Errorf("lookup admin: %w", err)
	}

	hash, err := s.hasher.Hash(admin.Password)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}

	name := adminName
	now := time.Now().UTC()
	_, err = s.users.Create(ctx, &domain.User{
		ID:           uuid.NewString(),
		Email:        admin.Email,
		PasswordHash: hash,
		Name:         &name,
		Role:         domain.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if errors.Is(err, domain.ErrDuplicateEmail) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("create admin: %w", err)
	}
	return true, nil
}

// SweetID derives the stable seed id for a catalog name, e.g. "Gulab Jamun" -> "gulab-jamun".
func SweetID(name string) string {
	return whitespace.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
}

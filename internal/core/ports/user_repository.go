package ports

import (
	"context"

	"github.com/msk-clinic/clinic-portal/internal/core/domain"
)

// UserRepository defines persistence operations for accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	Delete(ctx context.Context, id string) error
	// CountByRole returns the number of accounts per role. Roles without
	// accounts may be absent from the map.
	CountByRole(ctx context.Context) (map[domain.Role]int64, error)
}

package ports

import (
	"context"

	"github.com/msk-clinic/clinic-portal/internal/core/domain"
)

// CreateUserInput carries the fields an administrator provides for a new account.
type CreateUserInput struct {
	Email     string
	FirstName string
	LastName  string
	Role      string
}

// UpdateUserInput carries optional changes; nil fields are left untouched.
type UpdateUserInput struct {
	Email     *string
	FirstName *string
	LastName  *string
	Role      *string
}

// UserService defines the user-management use cases. Every method takes the
// acting user, whose permissions are checked against the user policy.
type UserService interface {
	List(ctx context.Context, actor *domain.User) ([]*domain.User, error)
	Get(ctx context.Context, actor *domain.User, id string) (*domain.User, error)
	Create(ctx context.Context, actor *domain.User, input CreateUserInput) (*domain.User, error)
	Update(ctx context.Context, actor *domain.User, id string, input UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, actor *domain.User, id string) error
	Stats(ctx context.Context, actor *domain.User) (*domain.Stats, error)
}

package ports

import (
	"context"

	"github.com/msk-clinic/clinic-portal/internal/core/domain"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/msk-clinic/clinic-portal/internal/core/domain"
	"github.com/msk-clinic/clinic-portal/internal/core/policy"
	"github.com/msk-clinic/clinic-portal/internal/core/ports"
)

// SetupLinkSender sends the password setup email to a newly created account.
type SetupLinkSender interface {
	SendSetupLink(ctx context.Context, user *domain.User) error
}

// UserService implements user management guarded by policy.UserPolicy. The
// acting user is reloaded from the repository on every call, so a demoted or
// deleted account loses its rights before its token expires.
type UserService struct {
	users  ports.UserRepository
	quotes ports.QuoteRepository
	setup  SetupLinkSender
	policy policy.UserPolicy
	logger zerolog.Logger
}

func NewUserService(users ports.UserRepository, quotes ports.QuoteRepository, setup SetupLinkSender, logger zerolog.Logger) *UserService {
	return &UserService{users: users, quotes: quotes, setup: setup, logger: logger}
}

func (s *UserService) List(ctx context.Context, actor *domain.User) ([]*domain.User, error) {
	actor, err := s.currentActor(ctx, actor)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(policy.ActionViewAny, actor, nil); err != nil {
		return nil, err
	}
	return s.users.List(ctx)
}

// Get returns the account with the given id. Administrators may read any
// account; everybody else only their own.
func (s *UserService) Get(ctx context.Context, actor *domain.User, id string) (*domain.User, error) {
	actor, err := s.currentActor(ctx, actor)
	if err != nil {
		return nil, err
	}
	if actor == nil || (!s.policy.CanViewAny(actor) && actor.ID != id) {
		return nil, s.deny(actor, policy.ActionViewAny)
	}
	return s.users.FindByID(ctx, id)
}

// Create provisions an account without a password and mails the holder a
// setup link.
func (s *UserService) Create(ctx context.Context, actor *domain.User, input ports.CreateUserInput) (*domain.User, error) {
	actor, err := s.currentActor(ctx, actor)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(policy.ActionCreate, actor, nil); err != nil {
		return nil, err
	}

	role, err := domain.ParseRole(input.Role)
	if err != nil {
		return nil, err
	}
	email := normalizeEmail(input.Email)
	if email == "" {
		return nil, fmt.Errorf("create user: %w", domain.ErrInvalidCredentials)
	}

	now := time.Now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Email:     email,
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", created.ID).
		Str("role", string(created.Role)).
		Str("actor_id", actor.ID).
		Msg("user created")

	if s.setup != nil {
		if err := s.setup.SendSetupLink(ctx, created); err != nil {
			s.logger.Warn().Err(err).Str("user_id", created.ID).Msg("failed to send password setup link")
		}
	}

	return created, nil
}

// Update applies input to the target account. Only administrators may change
// a role, including their own.
func (s *UserService) Update(ctx context.Context, actor *domain.User, id string, input ports.UpdateUserInput) (*domain.User, error) {
	actor, err := s.currentActor(ctx, actor)
	if err != nil {
		return nil, err
	}
	target, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(policy.ActionUpdate, actor, target); err != nil {
		return nil, err
	}

	if input.Role != nil {
		role, err := domain.ParseRole(*input.Role)
		if err != nil {
			return nil, err
		}
		if role != target.Role {
			if actor.Role != domain.RoleAdmin {
				return nil, s.deny(actor, policy.ActionUpdate)
			}
			target.Role = role
		}
	}
	if input.Email != nil {
		email := normalizeEmail(*input.Email)
		if email == "" {
			return nil, fmt.Errorf("update user: %w", domain.ErrInvalidCredentials)
		}
		target.Email = email
	}
	if input.FirstName != nil {
		target.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		target.LastName = strings.TrimSpace(*input.LastName)
	}
	target.UpdatedAt = time.Now().UTC()

	if err := s.users.Update(ctx, target); err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", target.ID).Str("actor_id", actor.ID).Msg("user updated")
	return target, nil
}

func (s *UserService) Delete(ctx context.Context, actor *domain.User, id string) error {
	actor, err := s.currentActor(ctx, actor)
	if err != nil {
		return err
	}
	target, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorize(policy.ActionDelete, actor, target); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("user_id", id).Str("actor_id", actor.ID).Msg("user deleted")
	return nil
}

// Stats aggregates account and quote figures for the admin dashboard.
func (s *UserService) Stats(ctx context.Context, actor *domain.User) (*domain.Stats, error) {
	actor, err := s.currentActor(ctx, actor)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(policy.ActionViewStats, actor, nil); err != nil {
		return nil, err
	}

	counts, err := s.users.CountByRole(ctx)
	if err != nil {
		return nil, fmt.Errorf("stats: count users: %w", err)
	}
	totals, err := s.quotes.Totals(ctx)
	if err != nil {
		return nil, fmt.Errorf("stats: quote totals: %w", err)
	}

	stats := &domain.Stats{
		UsersByRole:        make(map[domain.Role]int64, len(domain.Roles())),
		Quotes:             totals.Count,
		TotalAssistanceSum: totals.TotalAssistance,
		TotalCliniqueSum:   totals.TotalClinique,
		TotalQuoteSum:      totals.TotalQuote,
	}
	for _, r := range domain.Roles() {
		stats.UsersByRole[r] = counts[r]
		stats.TotalUsers += counts[r]
	}
	return stats, nil
}

// currentActor returns the stored account behind actor. An account that no
// longer exists is reported as ErrInvalidCredentials.
func (s *UserService) currentActor(ctx context.Context, actor *domain.User) (*domain.User, error) {
	if actor == nil {
		return nil, nil
	}
	stored, err := s.users.FindByID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("actor %s: %w", actor.ID, domain.ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("load actor: %w", err)
	}
	return stored, nil
}

// authorize returns a wrapped domain.ErrForbidden when the policy refuses action.
func (s *UserService) authorize(action policy.Action, actor, target *domain.User) error {
	if s.policy.Allows(action, actor, target) {
		return nil
	}
	return s.deny(actor, action)
}

func (s *UserService) deny(actor *domain.User, action policy.Action) error {
	ev := s.logger.Warn().Str("action", string(action))
	if actor != nil {
		ev = ev.Str("actor_id", actor.ID).Str("role", string(actor.Role))
	}
	ev.Msg("policy denied")
	return fmt.Errorf("%s: %w", action, domain.ErrForbidden)
}

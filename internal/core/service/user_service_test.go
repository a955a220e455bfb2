package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/msk-clinic/clinic-portal/internal/core/domain"
	"github.com/msk-clinic/clinic-portal/internal/core/ports"
)

type recordingSetup struct {
	users []*domain.User
	err   error
}

func (r *recordingSetup) SendSetupLink(_ context.Context, u *domain.User) error {
	r.users = append(r.users, u)
	return r.err
}

var (
	admin = &domain.User{ID: "admin", Email: "admin@msk.example", Role: domain.RoleAdmin}
	agent = &domain.User{ID: "agent", Email: "agent@msk.example", Role: domain.RoleAgent}
	other = &domain.User{ID: "other", Email: "other@msk.example", Role: domain.RoleConfirmateur}
)

func newUserFixture() (*UserService, *stubUserRepo, *stubQuoteRepo, *recordingSetup) {
	users := newStubUserRepo(admin, agent, other)
	quotes := newStubQuoteRepo()
	setup := &recordingSetup{}
	return NewUserService(users, quotes, setup, zerolog.Nop()), users, quotes, setup
}

func TestUserService_List(t *testing.T) {
	svc, _, _, _ := newUserFixture()

	list, err := svc.List(context.Background(), admin)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 users, got %d", len(list))
	}

	if _, err := svc.List(context.Background(), agent); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for agent, got %v", err)
	}
}

func TestUserService_Get(t *testing.T) {
	svc, _, _, _ := newUserFixture()

	if _, err := svc.Get(context.Background(), agent, "agent"); err != nil {
		t.Fatalf("self read should be allowed: %v", err)
	}
	if _, err := svc.Get(context.Background(), agent, "other"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Get(context.Background(), admin, "missing"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_Create(t *testing.T) {
	svc, users, _, setup := newUserFixture()

	created, err := svc.Create(context.Background(), admin, ports.CreateUserInput{
		Email:     " New.Patient@Example.com ",
		FirstName: "Nora",
		LastName:  "Ben Ali",
		Role:      "patient",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.Email != "new.patient@example.com" {
		t.Fatalf("email not normalized: %q", created.Email)
	}
	if created.Role != domain.RolePatient {
		t.Fatalf("unexpected role: %s", created.Role)
	}
	if created.PasswordHash != "" {
		t.Fatalf("new account must not have a password yet")
	}
	if _, ok := users.users[created.ID]; !ok {
		t.Fatalf("user not persisted")
	}
	if len(setup.users) != 1 || setup.users[0].ID != created.ID {
		t.Fatalf("expected setup link for new user, got %+v", setup.users)
	}
}

func TestUserService_Create_SetupFailureIsNotFatal(t *testing.T) {
	svc, _, _, setup := newUserFixture()
	setup.err = errors.New("redis down")

	if _, err := svc.Create(context.Background(), admin, ports.CreateUserInput{Email: "x@y.z", Role: "agent"}); err != nil {
		t.Fatalf("expected user to be created despite setup failure, got %v", err)
	}
}

func TestUserService_Create_Rejections(t *testing.T) {
	svc, _, _, setup := newUserFixture()

	if _, err := svc.Create(context.Background(), agent, ports.CreateUserInput{Email: "x@y.z", Role: "agent"}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Create(context.Background(), admin, ports.CreateUserInput{Email: "x@y.z", Role: "root"}); !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
	if _, err := svc.Create(context.Background(), admin, ports.CreateUserInput{Email: "agent@msk.example", Role: "agent"}); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	if len(setup.users) != 0 {
		t.Fatalf("no setup link expected, got %d", len(setup.users))
	}
}

func TestUserService_Update_Self(t *testing.T) {
	svc, users, _, _ := newUserFixture()
	name := "Amine"

	updated, err := svc.Update(context.Background(), agent, "agent", ports.UpdateUserInput{FirstName: &name})
	if err != nil {
		t.Fatalf("self update should be allowed: %v", err)
	}
	if updated.FirstName != "Amine" || users.users["agent"].FirstName != "Amine" {
		t.Fatalf("first name not updated")
	}
	if updated.UpdatedAt.IsZero() || time.Since(updated.UpdatedAt) > time.Minute {
		t.Fatalf("updated_at not refreshed: %v", updated.UpdatedAt)
	}
}

func TestUserService_Update_SameRoleIsNotElevation(t *testing.T) {
	svc, _, _, _ := newUserFixture()
	role := "agent"

	if _, err := svc.Update(context.Background(), agent, "agent", ports.UpdateUserInput{Role: &role}); err != nil {
		t.Fatalf("resubmitting the current role should be allowed: %v", err)
	}
}

func TestUserService_Update_CannotElevateSelf(t *testing.T) {
	svc, users, _, _ := newUserFixture()
	role := "admin"

	if _, err := svc.Update(context.Background(), agent, "agent", ports.UpdateUserInput{Role: &role}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if users.users["agent"].Role != domain.RoleAgent {
		t.Fatalf("role must not change")
	}
}

func TestUserService_Update_Others(t *testing.T) {
	svc, users, _, _ := newUserFixture()
	role := "superviseur"

	if _, err := svc.Update(context.Background(), agent, "other", ports.UpdateUserInput{Role: &role}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	if _, err := svc.Update(context.Background(), admin, "other", ports.UpdateUserInput{Role: &role}); err != nil {
		t.Fatalf("admin update failed: %v", err)
	}
	if users.users["other"].Role != domain.RoleSuperviseur {
		t.Fatalf("role not updated by admin")
	}
}

func TestUserService_Delete(t *testing.T) {
	svc, users, _, _ := newUserFixture()

	if err := svc.Delete(context.Background(), agent, "agent"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("non-admin must not delete, even self: %v", err)
	}
	if err := svc.Delete(context.Background(), admin, "other"); err != nil {
		t.Fatalf("admin delete failed: %v", err)
	}
	if _, ok := users.users["other"]; ok {
		t.Fatalf("user still present after delete")
	}
	if err := svc.Delete(context.Background(), admin, "other"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_Stats(t *testing.T) {
	svc, _, quotes, _ := newUserFixture()
	quotes.quotes[1] = &domain.Quote{ID: 1, TotalAssistance: domain.Amount(100), TotalClinique: domain.Amount(50), TotalQuote: domain.Amount(150)}
	quotes.quotes[2] = &domain.Quote{ID: 2, TotalAssistance: domain.Amount(10), TotalClinique: domain.Amount(5), TotalQuote: domain.Amount(15)}

	stats, err := svc.Stats(context.Background(), admin)
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}
	if stats.TotalUsers != 3 {
		t.Fatalf("expected 3 users, got %d", stats.TotalUsers)
	}
	if stats.UsersByRole[domain.RoleAdmin] != 1 || stats.UsersByRole[domain.RolePatient] != 0 {
		t.Fatalf("unexpected role counts: %+v", stats.UsersByRole)
	}
	if len(stats.UsersByRole) != len(domain.Roles()) {
		t.Fatalf("every role should be reported, got %d", len(stats.UsersByRole))
	}
	if stats.Quotes != 2 || stats.TotalQuoteSum != 165 {
		t.Fatalf("unexpected quote totals: %+v", stats)
	}

	if _, err := svc.Stats(context.Background(), agent); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUserService_DemotedActorLosesAdminRights(t *testing.T) {
	svc, users, _, _ := newUserFixture()
	users.users["admin"].Role = domain.RoleAgent

	// The caller still presents the admin role it was issued with.
	if _, err := svc.List(context.Background(), admin); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for demoted admin, got %v", err)
	}
	if err := svc.Delete(context.Background(), admin, "other"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for demoted admin, got %v", err)
	}
	if _, ok := users.users["other"]; !ok {
		t.Fatalf("user must not be deleted by a demoted admin")
	}
}

func TestUserService_DeletedActorIsRejected(t *testing.T) {
	svc, users, _, _ := newUserFixture()
	delete(users.users, "admin")

	if _, err := svc.Stats(context.Background(), admin); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for deleted actor, got %v", err)
	}
	if _, err := svc.Get(context.Background(), admin, "admin"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for deleted actor, got %v", err)
	}
}

func TestUserService_PromotedActorGainsRights(t *testing.T) {
	svc, users, _, _ := newUserFixture()
	users.users["agent"].Role = domain.RoleAdmin

	if _, err := svc.List(context.Background(), agent); err != nil {
		t.Fatalf("stored role should be used, got %v", err)
	}
}

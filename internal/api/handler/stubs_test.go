package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/msk-clinic/clinic-portal/internal/api/middleware"
	"github.com/msk-clinic/clinic-portal/internal/core/domain"
	"github.com/msk-clinic/clinic-portal/internal/core/ports"
)

func newTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func withActor(c echo.Context, id string, role domain.Role) {
	c.Set(middleware.ContextUserID, id)
	c.Set(middleware.ContextRole, string(role))
	c.Set(middleware.ContextEmail, id+"@example.com")
}

func expectHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %T (%v)", err, err)
	}
	if he.Code != code {
		t.Fatalf("expected status %d, got %d", code, he.Code)
	}
}

// --- service stubs ---

type stubAuthService struct {
	loginFn func(ctx context.Context, email, password string) (string, *domain.User, error)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

type stubResetService struct {
	requested  []string
	requestErr error
	resetErr   error
	resetArgs  [3]string
}

func (s *stubResetService) RequestReset(_ context.Context, email string) error {
	s.requested = append(s.requested, email)
	return s.requestErr
}

func (s *stubResetService) SendSetupLink(context.Context, *domain.User) error { return nil }

func (s *stubResetService) ResetPassword(_ context.Context, token, email, password string) error {
	s.resetArgs = [3]string{token, email, password}
	return s.resetErr
}

type stubUserService struct {
	listFn   func(ctx context.Context, actor *domain.User) ([]*domain.User, error)
	getFn    func(ctx context.Context, actor *domain.User, id string) (*domain.User, error)
	createFn func(ctx context.Context, actor *domain.User, in ports.CreateUserInput) (*domain.User, error)
	updateFn func(ctx context.Context, actor *domain.User, id string, in ports.UpdateUserInput) (*domain.User, error)
	deleteFn func(ctx context.Context, actor *domain.User, id string) error
	statsFn  func(ctx context.Context, actor *domain.User) (*domain.Stats, error)
}

func (s *stubUserService) List(ctx context.Context, actor *domain.User) ([]*domain.User, error) {
	return s.listFn(ctx, actor)
}

func (s *stubUserService) Get(ctx context.Context, actor *domain.User, id string) (*domain.User, error) {
	return s.getFn(ctx, actor, id)
}

func (s *stubUserService) Create(ctx context.Context, actor *domain.User, in ports.CreateUserInput) (*domain.User, error) {
	return s.createFn(ctx, actor, in)
}

func (s *stubUserService) Update(ctx context.Context, actor *domain.User, id string, in ports.UpdateUserInput) (*domain.User, error) {
	return s.updateFn(ctx, actor, id, in)
}

func (s *stubUserService) Delete(ctx context.Context, actor *domain.User, id string) error {
	return s.deleteFn(ctx, actor, id)
}

func (s *stubUserService) Stats(ctx context.Context, actor *domain.User) (*domain.Stats, error) {
	return s.statsFn(ctx, actor)
}

type stubQuoteService struct {
	createFn  func(ctx context.Context, in ports.CreateQuoteInput) (*domain.Quote, error)
	getFn     func(ctx context.Context, id int64) (*domain.Quote, error)
	renderFn  func(ctx context.Context, id int64) (string, error)
	archiveFn func(ctx context.Context, id int64) (*ports.ArchivedDocument, error)
}

func (s *stubQuoteService) Create(ctx context.Context, in ports.CreateQuoteInput) (*domain.Quote, error) {
	return s.createFn(ctx, in)
}

func (s *stubQuoteService) Get(ctx context.Context, id int64) (*domain.Quote, error) {
	return s.getFn(ctx, id)
}

func (s *stubQuoteService) RenderDocument(ctx context.Context, id int64) (string, error) {
	return s.renderFn(ctx, id)
}

func (s *stubQuoteService) ArchiveDocument(ctx context.Context, id int64) (*ports.ArchivedDocument, error) {
	return s.archiveFn(ctx, id)
}

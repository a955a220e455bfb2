package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/msk-clinic/clinic-portal/internal/api/metrics"
	"github.com/msk-clinic/clinic-portal/internal/core/domain"
	"github.com/msk-clinic/clinic-portal/internal/core/policy"
	"github.com/msk-clinic/clinic-portal/internal/core/ports"
)

// UserHandler handles HTTP requests for account management. Every decision is
// delegated to the user service, which consults the user policy.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// Me handles GET /v1/me.
//
// @Summary      Current account
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      401  {object}  map[string]string
// @Router       /v1/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	user, err := h.service.Get(c.Request().Context(), actor, actor.ID)
	if err != nil {
		return countDenial(policy.ActionViewAny, err)
	}
	return c.JSON(http.StatusOK, user)
}

// List handles GET /v1/users.
//
// @Summary      List accounts
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  userListResponse
// @Failure      403  {object}  map[string]string
// @Router       /v1/users [get]
func (h *UserHandler) List(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	users, err := h.service.List(c.Request().Context(), actor)
	if err != nil {
		return countDenial(policy.ActionViewAny, err)
	}
	if users == nil {
		users = []*domain.User{}
	}
	return c.JSON(http.StatusOK, userListResponse{Users: users, Total: len(users)})
}

// Create handles POST /v1/users. The new account receives a password setup
// email.
//
// @Summary      Create an account
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "Account details"
// @Success      201   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /v1/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	var req createUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.service.Create(c.Request().Context(), actor, toCreateUserInput(req))
	if err != nil {
		return countDenial(policy.ActionCreate, err)
	}
	metrics.UsersCreatedTotal.WithLabelValues(string(user.Role)).Inc()
	return c.JSON(http.StatusCreated, user)
}

// Get handles GET /v1/users/:id.
//
// @Summary      Get an account
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Account id"
// @Success      200  {object}  domain.User
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	user, err := h.service.Get(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return countDenial(policy.ActionViewAny, err)
	}
	return c.JSON(http.StatusOK, user)
}

// Update handles PUT /v1/users/:id. Only administrators may change roles.
//
// @Summary      Update an account
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Account id"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.service.Update(c.Request().Context(), actor, c.Param("id"), toUpdateUserInput(req))
	if err != nil {
		return countDenial(policy.ActionUpdate, err)
	}
	return c.JSON(http.StatusOK, user)
}

// Delete handles DELETE /v1/users/:id.
//
// @Summary      Delete an account
// @Tags         users
// @Security     BearerAuth
// @Param        id   path  string  true  "Account id"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return countDenial(policy.ActionDelete, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Stats handles GET /v1/stats.
//
// @Summary      Dashboard statistics
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Stats
// @Failure      403  {object}  map[string]string
// @Router       /v1/stats [get]
func (h *UserHandler) Stats(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}

	stats, err := h.service.Stats(c.Request().Context(), actor)
	if err != nil {
		return countDenial(policy.ActionViewStats, err)
	}
	return c.JSON(http.StatusOK, stats)
}

// countDenial records a policy refusal for action and passes err through.
func countDenial(action policy.Action, err error) error {
	if errors.Is(err, domain.ErrForbidden) {
		metrics.PolicyDenialsTotal.WithLabelValues(string(action)).Inc()
	}
	return err
}

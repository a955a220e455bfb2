package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/msk-clinic/clinic-portal/internal/api/metrics"
	"github.com/msk-clinic/clinic-portal/internal/core/domain"
	"github.com/msk-clinic/clinic-portal/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	resets      ports.PasswordResetService
	log         zerolog.Logger
}

func NewAuthHandler(authService ports.AuthService, resets ports.PasswordResetService, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, resets: resets, log: log}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string       `json:"token,omitempty"`
	User  *domain.User `json:"user,omitempty"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Login authenticates a user and returns a JWT token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{Token: token, User: user})
}

// ForgotPassword sends a password reset link when the email belongs to an
// account. The response is the same whether or not it does.
//
// @Summary      Request a password reset link
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      forgotPasswordRequest  true  "Account email"
// @Success      202   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Router       /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result := "ok"
	if err := h.resets.RequestReset(c.Request().Context(), req.Email); err != nil {
		result = "error"
		h.log.Error().Err(err).Msg("password reset request failed")
	}
	metrics.PasswordResetsTotal.WithLabelValues("requested", result).Inc()

	return c.JSON(http.StatusAccepted, messageResponse{
		Message: "if an account exists for this email, a reset link has been sent",
	})
}

// ResetPassword redeems a reset token and sets a new password.
//
// @Summary      Set a new password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      resetPasswordRequest  true  "Token, email and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.resets.ResetPassword(c.Request().Context(), req.Token, req.Email, req.Password); err != nil {
		metrics.PasswordResetsTotal.WithLabelValues("completed", "error").Inc()
		return err
	}
	metrics.PasswordResetsTotal.WithLabelValues("completed", "ok").Inc()

	return c.JSON(http.StatusOK, messageResponse{Message: "password updated"})
}

package auth

import (
	"errors"
	"net/http"

	dto "github.com/dropDatabas3/gatejohn/internal/http/dto/auth"
	httperrors "github.com/dropDatabas3/gatejohn/internal/http/errors"
	"github.com/dropDatabas3/gatejohn/internal/http/helpers"
	mw "github.com/dropDatabas3/gatejohn/internal/http/middlewares"
	svc "github.com/dropDatabas3/gatejohn/internal/http/services/auth"
	"github.com/dropDatabas3/gatejohn/internal/observability/logger"
)

// PasswordController maneja los tres flujos de contraseña: solicitud de
// reset, reset con token y cambio autenticado.
type PasswordController struct {
	deps Deps
}

func NewPasswordController(deps Deps) *PasswordController {
	return &PasswordController{deps: deps}
}

// resetAckMessage se devuelve siempre, exista o no la cuenta, para no
// permitir enumeración por esta vía.
const resetAckMessage = "Password reset email sent if account exists"

// Forgot maneja POST /api/auth/request-password-reset.
func (c *PasswordController) Forgot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Forgot"))

	var in dto.ForgotPasswordRequest
	if !helpers.ReadJSON(w, r, &in) {
		return
	}
	if in.Email == "" {
		httperrors.WriteErrorStatus(w, http.StatusBadRequest,
			errors.New("Email is required"), c.deps.Prod)
		return
	}

	// El error del provider se loguea y se tapa: la respuesta es la misma
	// exista o no la cuenta.
	if err := c.deps.Services.Password.RequestReset(ctx, in.Email); err != nil {
		log.Warn("password reset request failed",
			logger.Email(in.Email), logger.Err(err))
	}

	helpers.WriteMessage(w, http.StatusOK, resetAckMessage)
}

// Reset maneja POST /api/auth/reset-password.
func (c *PasswordController) Reset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Reset"))

	var in dto.ResetPasswordRequest
	if !helpers.ReadJSON(w, r, &in) {
		return
	}
	if in.Token == "" || in.NewPassword == "" {
		httperrors.WriteErrorStatus(w, http.StatusBadRequest,
			errors.New("Token and new password are required"), c.deps.Prod)
		return
	}
	if len(in.NewPassword) < minPasswordLen {
		httperrors.WriteErrorStatus(w, http.StatusBadRequest,
			errors.New("Password must be at least 8 characters"), c.deps.Prod)
		return
	}

	if err := c.deps.Services.Password.CompleteReset(ctx, in.Token, in.NewPassword); err != nil {
		httperrors.WriteError(w, err, c.deps.Prod)
		return
	}

	log.Info("password reset completed")
	helpers.WriteMessage(w, http.StatusOK, "Password has been reset successfully")
}

// Update maneja PUT /api/auth/update-password (requiere sesión).
func (c *PasswordController) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("UpdatePassword"))

	var in dto.UpdatePasswordRequest
	if !helpers.ReadJSON(w, r, &in) {
		return
	}
	if in.CurrentPassword == "" || in.NewPassword == "" {
		httperrors.WriteErrorStatus(w, http.StatusBadRequest,
			errors.New("Current password and new password are required"), c.deps.Prod)
		return
	}
	if len(in.NewPassword) < minPasswordLen {
		httperrors.WriteErrorStatus(w, http.StatusBadRequest,
			errors.New("Password must be at least 8 characters"), c.deps.Prod)
		return
	}

	user := mw.GetUser(ctx)
	token := mw.GetAccessToken(ctx)
	if user == nil || token == "" {
		httperrors.WriteErrorStatus(w, http.StatusUnauthorized,
			errors.New("Not authorized, token failed"), c.deps.Prod)
		return
	}

	err := c.deps.Services.Password.Update(ctx, token, user.Email, in.CurrentPassword, in.NewPassword)
	if err != nil {
		// 401 explícito, no pasa por el clasificador de texto
		if errors.Is(err, svc.ErrCurrentPasswordIncorrect) {
			httperrors.WriteErrorStatus(w, http.StatusUnauthorized, err, c.deps.Prod)
			return
		}
		httperrors.WriteError(w, err, c.deps.Prod)
		return
	}

	log.Info("password updated", logger.UserID(user.ID))
	helpers.WriteMessage(w, http.StatusOK, "Password updated successfully")
}

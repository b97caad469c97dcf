package auth

import (
	"errors"
	"net/http"

	dto "github.com/dropDatabas3/gatejohn/internal/http/dto/auth"
	httperrors "github.com/dropDatabas3/gatejohn/internal/http/errors"
	"github.com/dropDatabas3/gatejohn/internal/http/helpers"
	"github.com/dropDatabas3/gatejohn/internal/observability/logger"
)

// RegisterController maneja POST /api/auth/register.
type RegisterController struct {
	deps Deps
}

func NewRegisterController(deps Deps) *RegisterController {
	return &RegisterController{deps: deps}
}

func (c *RegisterController) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Register"))

	var in dto.RegisterRequest
	if !helpers.ReadJSON(w, r, &in) {
		return
	}

	if in.Email == "" || in.Password == "" || in.Name == "" {
		httperrors.WriteErrorStatus(w, http.StatusBadRequest,
			errors.New("Email, password and name are required"), c.deps.Prod)
		return
	}
	if len(in.Password) < minPasswordLen {
		httperrors.WriteErrorStatus(w, http.StatusBadRequest,
			errors.New("Password must be at least 8 characters"), c.deps.Prod)
		return
	}

	result, err := c.deps.Services.Register.Register(ctx, in)
	if err != nil {
		httperrors.WriteError(w, err, c.deps.Prod)
		return
	}

	if result.Session != nil && result.Session.RefreshToken != "" {
		c.deps.Cookies.SetRefreshCookie(w, result.Session.RefreshToken)
	}

	log.Info("user registered", logger.UserID(result.User.ID))
	helpers.WriteData(w, http.StatusCreated, result)
}

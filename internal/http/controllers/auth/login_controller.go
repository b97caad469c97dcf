package auth

import (
	"errors"
	"net/http"

	dto "github.com/dropDatabas3/gatejohn/internal/http/dto/auth"
	httperrors "github.com/dropDatabas3/gatejohn/internal/http/errors"
	"github.com/dropDatabas3/gatejohn/internal/http/helpers"
	"github.com/dropDatabas3/gatejohn/internal/observability/logger"
)

// LoginController maneja POST /api/auth/login.
type LoginController struct {
	deps Deps
}

func NewLoginController(deps Deps) *LoginController {
	return &LoginController{deps: deps}
}

func (c *LoginController) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Login"))

	var in dto.LoginRequest
	if !helpers.ReadJSON(w, r, &in) {
		return
	}

	if in.Email == "" || in.Password == "" {
		httperrors.WriteErrorStatus(w, http.StatusBadRequest,
			errors.New("Email and password are required"), c.deps.Prod)
		return
	}

	outcome, err := c.deps.Services.Login.Login(ctx, in)
	if err != nil {
		httperrors.WriteError(w, err, c.deps.Prod)
		return
	}

	sess := outcome.Session
	if sess.RefreshToken != "" {
		c.deps.Cookies.SetRefreshCookie(w, sess.RefreshToken)
	}

	var user *dto.LoginUser
	if sess.User != nil {
		log = log.With(logger.UserID(sess.User.ID))
		user = &dto.LoginUser{User: *sess.User, Profile: outcome.Profile}
	}
	log.Info("user logged in")

	helpers.WriteData(w, http.StatusOK, dto.LoginResult{
		AccessToken: sess.AccessToken,
		User:        user,
	})
}

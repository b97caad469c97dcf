package auth

import (
	"errors"
	"net/http"

	dto "github.com/dropDatabas3/gatejohn/internal/http/dto/auth"
	httperrors "github.com/dropDatabas3/gatejohn/internal/http/errors"
	"github.com/dropDatabas3/gatejohn/internal/http/helpers"
	mw "github.com/dropDatabas3/gatejohn/internal/http/middlewares"
	"github.com/dropDatabas3/gatejohn/internal/observability/logger"
)

// SessionController maneja /me, /logout y /refresh-token.
type SessionController struct {
	deps Deps
}

func NewSessionController(deps Deps) *SessionController {
	return &SessionController{deps: deps}
}

// Me devuelve la identidad ya resuelta por el middleware de sesión.
// GET /api/auth/me
func (c *SessionController) Me(w http.ResponseWriter, r *http.Request) {
	user := mw.GetUser(r.Context())
	if user == nil {
		httperrors.WriteErrorStatus(w, http.StatusUnauthorized,
			errors.New("Not authorized, token failed"), c.deps.Prod)
		return
	}
	helpers.WriteData(w, http.StatusOK, user)
}

// Logout revoca la sesión y limpia la cookie de refresh.
// POST /api/auth/logout
func (c *SessionController) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Logout"))

	// la cookie se limpia antes de hablar con el provider: aunque el
	// sign-out remoto falle, el cliente no debe quedar con una cookie vieja
	c.deps.Cookies.ClearRefreshCookie(w)

	token := mw.GetAccessToken(ctx)
	if err := c.deps.Services.Session.Logout(ctx, token); err != nil {
		httperrors.WriteError(w, err, c.deps.Prod)
		return
	}

	log.Info("user logged out")
	helpers.WriteMessage(w, http.StatusOK, "Logged out successfully")
}

// Refresh canjea el refresh token (cookie o body) por una sesión nueva y
// rota la cookie. POST /api/auth/refresh-token
func (c *SessionController) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Refresh"))

	var in dto.RefreshRequest
	if r.Body != nil && r.ContentLength != 0 {
		if !helpers.ReadJSON(w, r, &in) {
			return
		}
	}

	token := c.deps.Cookies.RefreshTokenFrom(r, in.RefreshToken)
	if token == "" {
		httperrors.WriteErrorStatus(w, http.StatusUnauthorized,
			errors.New("No refresh token provided"), c.deps.Prod)
		return
	}

	sess, err := c.deps.Services.Session.Refresh(ctx, token)
	if err != nil {
		httperrors.WriteError(w, err, c.deps.Prod)
		return
	}

	if sess.RefreshToken != "" {
		c.deps.Cookies.SetRefreshCookie(w, sess.RefreshToken)
	}

	log.Debug("session refreshed")
	helpers.WriteData(w, http.StatusOK, dto.RefreshResult{
		AccessToken: sess.AccessToken,
		User:        sess.User,
	})
}

package middlewares

import (
	"context"
	"errors"
	"net/http"
	"strings"

	httperrors "github.com/dropDatabas3/gatejohn/internal/http/errors"
	"github.com/dropDatabas3/gatejohn/internal/identity"
	"github.com/dropDatabas3/gatejohn/internal/observability/logger"
)

// TokenVerifier resuelve un access token a su identidad.
type TokenVerifier interface {
	GetUser(ctx context.Context, accessToken string) (*identity.User, error)
}

// fallbackCookie: algunos clientes viejos mandan el access token en una
// cookie en vez del header. Se mantiene por compatibilidad.
const fallbackCookie = "access_token"

// Los mensajes de 401 son contrato: los clientes los muestran tal cual.
var (
	errNoToken     = errors.New("Not authorized, no token provided")
	errTokenFailed = errors.New("Not authorized, token failed")
)

// RequireSession valida el access token contra el provider y deja la
// identidad y el token crudo en el contexto. Header Bearer primero,
// cookie como fallback.
func RequireSession(verifier TokenVerifier, prod bool) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ""
			if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
				token = strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
			}
			if token == "" {
				if c, err := r.Cookie(fallbackCookie); err == nil {
					token = c.Value
				}
			}
			if token == "" {
				httperrors.WriteErrorStatus(w, http.StatusUnauthorized, errNoToken, prod)
				return
			}

			user, err := verifier.GetUser(r.Context(), token)
			if err != nil || user == nil || user.ID == "" {
				logger.From(r.Context()).Debug("session verification failed", logger.Err(err))
				httperrors.WriteErrorStatus(w, http.StatusUnauthorized, errTokenFailed, prod)
				return
			}

			ctx := WithUser(r.Context(), user)
			ctx = WithAccessToken(ctx, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

package middlewares

import (
	"context"

	"github.com/dropDatabas3/gatejohn/internal/identity"
)

type ctxKey string

const (
	// ctxUserKey guarda la identidad resuelta por el middleware de sesión
	ctxUserKey ctxKey = "user"
	// ctxTokenKey guarda el access token crudo con el que entró el request
	ctxTokenKey ctxKey = "access_token"
	// ctxRequestIDKey guarda el request ID
	ctxRequestIDKey ctxKey = "request_id"
)

// WithUser inyecta la identidad resuelta en el contexto
func WithUser(ctx context.Context, u *identity.User) context.Context {
	return context.WithValue(ctx, ctxUserKey, u)
}

// WithAccessToken inyecta el token crudo en el contexto
func WithAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, ctxTokenKey, token)
}

// setRequestID inyecta el request ID en el contexto (interno)
func setRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxRequestIDKey, requestID)
}

// GetUser obtiene la identidad del contexto.
// Retorna nil si el middleware de sesión no corrió.
func GetUser(ctx context.Context) *identity.User {
	if v := ctx.Value(ctxUserKey); v != nil {
		if u, ok := v.(*identity.User); ok {
			return u
		}
	}
	return nil
}

// GetAccessToken obtiene el token crudo del contexto.
func GetAccessToken(ctx context.Context) string {
	if v := ctx.Value(ctxTokenKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetRequestID obtiene el request ID del contexto.
func GetRequestID(ctx context.Context) string {
	if v := ctx.Value(ctxRequestIDKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

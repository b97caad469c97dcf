package auth

import (
	"context"

	"github.com/dropDatabas3/gatejohn/internal/identity"
	"github.com/dropDatabas3/gatejohn/internal/observability/logger"
)

type SessionService interface {
	// Me resuelve el access token a su identidad.
	Me(ctx context.Context, accessToken string) (*identity.User, error)
	// Logout revoca la sesión en el provider.
	Logout(ctx context.Context, accessToken string) error
	// Refresh canjea el refresh token por una sesión nueva.
	Refresh(ctx context.Context, refreshToken string) (*identity.Session, error)
}

type sessionService struct {
	deps Deps
}

func NewSessionService(deps Deps) SessionService {
	return &sessionService{deps: deps}
}

func (s *sessionService) Me(ctx context.Context, accessToken string) (*identity.User, error) {
	return s.deps.Provider.GetUser(ctx, accessToken)
}

func (s *sessionService) Logout(ctx context.Context, accessToken string) error {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.session"),
		logger.Op("Logout"),
	)
	if err := s.deps.Provider.SignOut(ctx, accessToken); err != nil {
		log.Debug("provider signout failed", logger.Err(err))
		return err
	}
	return nil
}

func (s *sessionService) Refresh(ctx context.Context, refreshToken string) (*identity.Session, error) {
	return s.deps.Provider.RefreshSession(ctx, refreshToken)
}

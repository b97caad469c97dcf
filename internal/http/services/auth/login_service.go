package auth

import (
	"context"
	"strings"

	dto "github.com/dropDatabas3/gatejohn/internal/http/dto/auth"
	"github.com/dropDatabas3/gatejohn/internal/identity"
	"github.com/dropDatabas3/gatejohn/internal/observability/logger"
	"github.com/dropDatabas3/gatejohn/internal/store/core"
)

type LoginService interface {
	Login(ctx context.Context, in dto.LoginRequest) (*LoginOutcome, error)
}

// LoginOutcome carga la sesión completa: el controller decide qué va al
// body y qué a la cookie.
type LoginOutcome struct {
	Session *identity.Session
	Profile *core.Profile
}

type loginService struct {
	deps Deps
}

func NewLoginService(deps Deps) LoginService {
	return &loginService{deps: deps}
}

func (s *loginService) Login(ctx context.Context, in dto.LoginRequest) (*LoginOutcome, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.login"),
		logger.Op("Login"),
	)

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	sess, err := s.deps.Provider.SignInWithPassword(ctx, in.Email, in.Password)
	if err != nil {
		log.Debug("provider login failed", logger.Err(err))
		return nil, err
	}

	out := &LoginOutcome{Session: sess}

	// El perfil puede faltar (registro viejo, tabla limpiada): login igual
	// funciona, el perfil va como nil.
	if sess.User != nil && sess.User.ID != "" {
		p, err := s.deps.Profiles.GetByID(ctx, sess.User.ID)
		switch {
		case err == nil:
			out.Profile = p
		case err == core.ErrNotFound:
			log.Debug("profile missing for identity", logger.UserID(sess.User.ID))
		default:
			return nil, err
		}
	}
	return out, nil
}

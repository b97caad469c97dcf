package auth

import (
	"context"
	"errors"
	"strings"

	dto "github.com/dropDatabas3/gatejohn/internal/http/dto/auth"
	"github.com/dropDatabas3/gatejohn/internal/observability/logger"
	"github.com/dropDatabas3/gatejohn/internal/store/core"
)

type RegisterService interface {
	Register(ctx context.Context, in dto.RegisterRequest) (*dto.RegisterResult, error)
}

type registerService struct {
	deps Deps
}

func NewRegisterService(deps Deps) RegisterService {
	return &registerService{deps: deps}
}

// Register crea la identidad en el provider y el perfil local en ese orden.
// Si el perfil falla, borra la identidad recién creada (compensación best
// effort) y re-lanza el error original del perfil.
func (s *registerService) Register(ctx context.Context, in dto.RegisterRequest) (*dto.RegisterResult, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.register"),
		logger.Op("Register"),
	)

	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)

	sess, err := s.deps.Provider.SignUp(ctx, in.Email, in.Password, map[string]any{
		"name": in.Name,
	})
	if err != nil {
		log.Debug("provider signup failed", logger.Err(err))
		return nil, err
	}
	if sess.User == nil || sess.User.ID == "" {
		return nil, errors.New("provider returned no user")
	}

	log = log.With(logger.UserID(sess.User.ID))

	profile := &core.Profile{
		ID:    sess.User.ID,
		Email: in.Email,
		Name:  in.Name,
		Phone: in.Phone,
	}
	if err := s.deps.Profiles.Create(ctx, profile); err != nil {
		// compensación: la identidad no debe quedar huérfana de perfil
		if delErr := s.deps.Provider.AdminDeleteUser(ctx, sess.User.ID); delErr != nil {
			// sin rollback del rollback: queda la identidad huérfana y
			// un log para limpieza manual
			log.Error("compensating identity delete failed",
				logger.Err(delErr),
				logger.Provider("identity"),
			)
		} else {
			log.Info("identity rolled back after profile failure")
		}
		return nil, err
	}

	out := &dto.RegisterResult{
		User:    sess.User,
		Profile: profile,
	}
	if sess.AccessToken != "" {
		out.Session = sess
	}
	return out, nil
}

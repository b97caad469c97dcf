package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/dropDatabas3/gatejohn/internal/observability/logger"
)

// ErrCurrentPasswordIncorrect se devuelve como 401 explícito, no pasa por
// el clasificador de texto.
var ErrCurrentPasswordIncorrect = errors.New("Current password is incorrect")

type PasswordService interface {
	// RequestReset pide al provider el email de recuperación. El error se
	// propaga, taparlo con el mensaje genérico es decisión del controller.
	RequestReset(ctx context.Context, email string) error
	// CompleteReset valida el token del email y aplica la contraseña nueva.
	CompleteReset(ctx context.Context, token, newPassword string) error
	// Update re-verifica la contraseña actual antes de aplicar la nueva.
	Update(ctx context.Context, accessToken, email, currentPassword, newPassword string) error
}

type passwordService struct {
	deps Deps
}

func NewPasswordService(deps Deps) PasswordService {
	return &passwordService{deps: deps}
}

func (s *passwordService) RequestReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	return s.deps.Provider.ResetPasswordForEmail(ctx, email, s.deps.ResetRedirectURL)
}

func (s *passwordService) CompleteReset(ctx context.Context, token, newPassword string) error {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.password"),
		logger.Op("CompleteReset"),
	)

	sess, err := s.deps.Provider.VerifyRecoveryToken(ctx, token)
	if err != nil {
		log.Debug("recovery token rejected", logger.Err(err))
		return err
	}
	if _, err := s.deps.Provider.UpdateUserPassword(ctx, sess.AccessToken, newPassword); err != nil {
		return err
	}
	return nil
}

func (s *passwordService) Update(ctx context.Context, accessToken, email, currentPassword, newPassword string) error {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.password"),
		logger.Op("Update"),
	)

	// re-verificación: un login con la contraseña actual
	if _, err := s.deps.Provider.SignInWithPassword(ctx, email, currentPassword); err != nil {
		log.Debug("current password check failed", logger.Err(err))
		return ErrCurrentPasswordIncorrect
	}
	if _, err := s.deps.Provider.UpdateUserPassword(ctx, accessToken, newPassword); err != nil {
		return err
	}
	return nil
}

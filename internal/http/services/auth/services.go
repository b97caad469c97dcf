// Package auth contiene los services de orquestación auth: secuencian
// llamadas al identity provider y a la tabla de perfiles. Los errores del
// provider se propagan con el mensaje intacto, el mapeo a status HTTP lo
// hace la capa de errores por texto.
package auth

import (
	"context"

	"github.com/dropDatabas3/gatejohn/internal/identity"
	"github.com/dropDatabas3/gatejohn/internal/store/core"
)

// Provider es la porción del cliente de identity que usan los services.
// Interfaz propia para poder fakear el provider en tests.
type Provider interface {
	SignUp(ctx context.Context, email, password string, metadata map[string]any) (*identity.Session, error)
	SignInWithPassword(ctx context.Context, email, password string) (*identity.Session, error)
	RefreshSession(ctx context.Context, refreshToken string) (*identity.Session, error)
	GetUser(ctx context.Context, accessToken string) (*identity.User, error)
	SignOut(ctx context.Context, accessToken string) error
	ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error
	VerifyRecoveryToken(ctx context.Context, token string) (*identity.Session, error)
	UpdateUserPassword(ctx context.Context, accessToken, newPassword string) (*identity.User, error)
	AdminDeleteUser(ctx context.Context, userID string) error
}

// Deps contiene las dependencias para crear los services auth.
type Deps struct {
	Provider Provider
	Profiles core.ProfileRepository
	// ResetRedirectURL es el destino del link en el email de recuperación.
	ResetRedirectURL string
}

// Services agrupa todos los services del dominio auth.
type Services struct {
	Register RegisterService
	Login    LoginService
	Session  SessionService
	Password PasswordService
	Profile  ProfileService
}

// NewServices crea el agregador de services auth.
func NewServices(d Deps) Services {
	return Services{
		Register: NewRegisterService(d),
		Login:    NewLoginService(d),
		Session:  NewSessionService(d),
		Password: NewPasswordService(d),
		Profile:  NewProfileService(d),
	}
}

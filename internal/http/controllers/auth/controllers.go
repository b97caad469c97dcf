// Package auth contiene los controllers HTTP del dominio auth: validación
// de presencia/forma, llamada al service y armado de la respuesta (sobre
// JSON + cookie de refresh donde corresponde).
package auth

import (
	"github.com/dropDatabas3/gatejohn/internal/http/helpers"
	svc "github.com/dropDatabas3/gatejohn/internal/http/services/auth"
)

// Deps contiene las dependencias compartidas por los controllers.
type Deps struct {
	Services svc.Services
	Cookies  helpers.CookiePolicy
	// Prod controla la exposición de stack traces en los errores.
	Prod bool
}

// Controllers agrupa todos los controllers del dominio auth.
type Controllers struct {
	Register *RegisterController
	Login    *LoginController
	Session  *SessionController
	Password *PasswordController
	Profile  *ProfileController
}

// NewControllers crea el agregador de controllers auth.
func NewControllers(d Deps) *Controllers {
	return &Controllers{
		Register: NewRegisterController(d),
		Login:    NewLoginController(d),
		Session:  NewSessionController(d),
		Password: NewPasswordController(d),
		Profile:  NewProfileController(d),
	}
}

// minPasswordLen es el único requisito de forma que este servicio impone
// sobre contraseñas; la política real vive en el provider.
const minPasswordLen = 8

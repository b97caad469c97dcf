// Package auth contiene los DTOs del dominio auth.
package auth

import (
	"github.com/dropDatabas3/gatejohn/internal/identity"
	"github.com/dropDatabas3/gatejohn/internal/store/core"
)

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Phone    string `json:"phone,omitempty"`
}

type RegisterResult struct {
	User    *identity.User    `json:"user"`
	Profile *core.Profile     `json:"profile"`
	Session *identity.Session `json:"session,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginUser es la identidad del provider con el perfil local anidado
// adentro, la misma forma que consume el frontend.
type LoginUser struct {
	identity.User
	Profile *core.Profile `json:"profile,omitempty"`
}

// LoginResult es el payload de data en login. El refresh token viaja solo
// en la cookie, nunca en el body.
type LoginResult struct {
	AccessToken string     `json:"access_token"`
	User        *LoginUser `json:"user"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token,omitempty"`
}

type RefreshResult struct {
	AccessToken string         `json:"access_token"`
	User        *identity.User `json:"user"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type UpdateProfileRequest struct {
	Name  *string `json:"name,omitempty"`
	Phone *string `json:"phone,omitempty"`
}

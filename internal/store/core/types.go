// Package core define el modelo de perfiles y el contrato de persistencia.
// La identidad (email, password, tokens) vive en el provider externo; acá
// solo se guarda el perfil de aplicación, con el mismo id que la identidad.
package core

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound: el texto importa, el mapeo de errores lo lee para decidir
// el status de la respuesta.
var ErrNotFound = errors.New("profile does not exist")

type Profile struct {
	// ID es el UUID de la identidad en el provider.
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProfileUpdate es un parche parcial: nil deja la columna como está.
type ProfileUpdate struct {
	Name  *string
	Phone *string
}

type ProfileRepository interface {
	Create(ctx context.Context, p *Profile) error
	GetByID(ctx context.Context, id string) (*Profile, error)
	Update(ctx context.Context, id string, upd ProfileUpdate) (*Profile, error)
	// Delete se usa solo como compensación del registro.
	Delete(ctx context.Context, id string) error
}

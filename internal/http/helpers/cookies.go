package helpers

import (
	"net/http"
	"strings"
	"time"
)

// CookiePolicy centraliza los atributos de la cookie del refresh token,
// que antes vivían dispersos en cada handler.
type CookiePolicy struct {
	Name   string
	Domain string
	// Secure solo en prod. Nota: el comportamiento histórico era
	// inconsistente entre login y refresh; se unificó acá.
	Secure   bool
	SameSite http.SameSite
	TTL      time.Duration
}

func ParseSameSite(s string) http.SameSite {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lax":
		return http.SameSiteLaxMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteStrictMode
	}
}

// SetRefreshCookie instala el refresh token como cookie HttpOnly.
func (p CookiePolicy) SetRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     p.Name,
		Value:    token,
		Path:     "/",
		Domain:   p.Domain,
		MaxAge:   int(p.TTL.Seconds()),
		HttpOnly: true,
		Secure:   p.Secure,
		SameSite: p.SameSite,
	})
}

// ClearRefreshCookie expira la cookie inmediatamente.
func (p CookiePolicy) ClearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     p.Name,
		Value:    "",
		Path:     "/",
		Domain:   p.Domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   p.Secure,
		SameSite: p.SameSite,
	})
}

// RefreshTokenFrom busca el refresh token primero en la cookie y si no
// en el body ya parseado.
func (p CookiePolicy) RefreshTokenFrom(r *http.Request, bodyToken string) string {
	if c, err := r.Cookie(p.Name); err == nil && c.Value != "" {
		return c.Value
	}
	return bodyToken
}

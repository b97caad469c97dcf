// Package router arma la tabla de rutas del servicio.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	authctrl "github.com/dropDatabas3/gatejohn/internal/http/controllers/auth"
	healthctrl "github.com/dropDatabas3/gatejohn/internal/http/controllers/health"
	"github.com/dropDatabas3/gatejohn/internal/http/metrics"
	mw "github.com/dropDatabas3/gatejohn/internal/http/middlewares"
	"github.com/dropDatabas3/gatejohn/internal/rate"
)

// Deps contiene las dependencias del router.
type Deps struct {
	Auth   *authctrl.Controllers
	Health *healthctrl.Controller

	// Verifier valida access tokens en las rutas protegidas.
	Verifier mw.TokenVerifier

	// Limiters opcionales (nil = sin límite).
	LoginLimiter  rate.Limiter
	ForgotLimiter rate.Limiter

	CORSAllowedOrigin string
	Prod              bool
}

// New construye el handler raíz con la cadena global de middlewares y
// todas las rutas bajo /api.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	// cadena global, la más externa primero
	r.Use(mw.WithRecover(d.Prod))
	r.Use(mw.WithRequestID())
	r.Use(mw.WithSecurityHeaders())
	r.Use(mw.WithCORS(d.CORSAllowedOrigin))
	r.Use(mw.WithLogging())
	r.Use(metrics.WithMetrics)

	r.Get("/api/health", d.Health.Health)

	r.Route("/api/auth", func(r chi.Router) {
		r.Use(mw.WithNoStore())

		// públicas
		r.Post("/register", d.Auth.Register.Register)
		r.With(mw.WithRateLimit(d.LoginLimiter, mw.IPOnlyRateKey)).
			Post("/login", d.Auth.Login.Login)
		r.Post("/refresh-token", d.Auth.Session.Refresh)
		r.With(mw.WithRateLimit(d.ForgotLimiter, mw.IPOnlyRateKey)).
			Post("/request-password-reset", d.Auth.Password.Forgot)
		r.Post("/reset-password", d.Auth.Password.Reset)

		// protegidas
		r.Group(func(r chi.Router) {
			r.Use(mw.RequireSession(d.Verifier, d.Prod))
			r.Get("/me", d.Auth.Session.Me)
			r.Post("/logout", d.Auth.Session.Logout)
			r.Put("/update-profile", d.Auth.Profile.Update)
			r.Put("/update-password", d.Auth.Password.Update)
		})
	})

	return r
}

// Package health expone el endpoint de salud del servicio.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/dropDatabas3/gatejohn/internal/http/helpers"
)

// Pinger cubre los chequeos opcionales de readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Controller struct {
	// chequeos para /readyz; /api/health no depende de nada por contrato
	DB       Pinger
	Provider Pinger
}

func NewController(db, provider Pinger) *Controller {
	return &Controller{DB: db, Provider: provider}
}

// Health maneja GET /api/health. Responde fijo, sin tocar dependencias:
// los clientes lo usan como liveness barato.
func (c *Controller) Health(w http.ResponseWriter, _ *http.Request) {
	helpers.WriteJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

// Ready maneja GET /readyz en el mux operacional: verifica Postgres y el
// identity provider antes de declararse listo.
func (c *Controller) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := map[string]string{}
	status := http.StatusOK

	if c.DB != nil {
		if err := c.DB.Ping(ctx); err != nil {
			checks["db"] = err.Error()
			status = http.StatusServiceUnavailable
		} else {
			checks["db"] = "ok"
		}
	}
	if c.Provider != nil {
		if err := c.Provider.Ping(ctx); err != nil {
			checks["provider"] = err.Error()
			status = http.StatusServiceUnavailable
		} else {
			checks["provider"] = "ok"
		}
	}

	helpers.WriteJSON(w, status, checks)
}

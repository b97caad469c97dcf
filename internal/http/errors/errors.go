// Package errors traduce fallos de capas inferiores a respuestas HTTP.
// El contrato de salida es el sobre {"success":false,"error":...} que los
// clientes existentes ya parsean, así que no se toca.
package errors

import (
	"encoding/json"
	"net/http"
	"runtime/debug"
	"strings"
)

// errorResponse estructura interna para la serialización JSON.
type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Stack   string `json:"stack,omitempty"`
}

// StatusFor clasifica un error por el texto del mensaje, en este orden
// fijo y case-sensitive:
//
//	contiene "Invalid"      -> 401
//	contiene "Unauthorized" -> 403
//	contiene "exist"        -> 404
//	cualquier otro          -> 400
//
// Es frágil a propósito: los clientes actuales dependen de este mapeo
// exacto, cambiarlo rompe compatibilidad. Ver DESIGN.md.
func StatusFor(err error) int {
	if err == nil {
		return http.StatusOK
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "Invalid"):
		return http.StatusUnauthorized
	case strings.Contains(msg, "Unauthorized"):
		return http.StatusForbidden
	case strings.Contains(msg, "exist"):
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}

// Exposer permite a un ErrorWriter decidir si incluye stack traces.
type Exposer interface {
	IsProd() bool
}

// WriteError emite el sobre de error con el status de StatusFor.
// Fuera de prod agrega el stack del punto de escritura, igual que el
// comportamiento histórico del servicio.
func WriteError(w http.ResponseWriter, err error, prod bool) {
	WriteErrorStatus(w, StatusFor(err), err, prod)
}

// WriteErrorStatus emite el sobre de error con un status explícito.
// Lo usan los handlers que validan antes de llamar al service (400 con
// mensaje puntual) y el middleware de sesión (401 fijos).
func WriteErrorStatus(w http.ResponseWriter, status int, err error, prod bool) {
	resp := errorResponse{Success: false, Error: err.Error()}
	if !prod {
		resp.Stack = string(debug.Stack())
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

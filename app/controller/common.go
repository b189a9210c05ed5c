package controller

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"distrimaxi-api/pricing"
	"distrimaxi-api/service"
)

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("❌ Failed to encode response: %v", err)
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// writeError maps business errors to HTTP status codes. Validation problems
// are 400 except the stale-client case, which gets 422 so the app knows to
// resync; authorization failures are 403; anything unexpected is a 500.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrClienteNoSincronizado):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: err.Error()})
	case errors.Is(err, service.ErrPedidoSinItems),
		errors.Is(err, service.ErrClienteRequerido),
		errors.Is(err, service.ErrCantidadInvalida),
		errors.Is(err, service.ErrNombreRequerido),
		errors.Is(err, service.ErrNotasRequeridas),
		errors.Is(err, service.ErrEstadoInvalido),
		errors.Is(err, service.ErrCandidatoInvalido),
		errors.Is(err, service.ErrPedidosInsuficientes),
		errors.Is(err, pricing.ErrProductoNoEncontrado),
		errors.Is(err, pricing.ErrProductoSinPrecio):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	case errors.Is(err, service.ErrSinPermiso),
		errors.Is(err, service.ErrVentanaEdicionExpirada),
		errors.Is(err, service.ErrTransicionNoPermitida):
		writeJSON(w, http.StatusForbidden, errorBody{Error: err.Error()})
	case errors.Is(err, service.ErrPedidoNoEncontrado),
		errors.Is(err, pricing.ErrListaNoEncontrada),
		errors.Is(err, service.ErrImagenNoDisponible):
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	case errors.Is(err, service.ErrClientesDistintos),
		errors.Is(err, service.ErrNoArchivado):
		writeJSON(w, http.StatusConflict, errorBody{Error: err.Error()})
	default:
		log.Printf("❌ Internal error: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "error interno del servidor"})
	}
}

// decodeBody parses the JSON request body into dst, rejecting unknown fields
// so malformed clients fail loudly instead of half-working.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

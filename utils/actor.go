package utils

import (
	"fmt"
	"net/http"
	"strconv"

	"distrimaxi-api/models"
)

// Headers injected by the upstream auth gateway after validating the JWT.
// Token issuance and verification live outside this service.
const (
	HeaderUsuarioID     = "X-Usuario-Id"
	HeaderUsuarioNombre = "X-Usuario-Nombre"
	HeaderUsuarioRol    = "X-Usuario-Rol"
)

// ActorFromRequest reads the authenticated user identity from the request
// headers. Requests that reach the API without an identity are rejected.
func ActorFromRequest(r *http.Request) (models.Actor, error) {
	idStr := r.Header.Get(HeaderUsuarioID)
	nombre := r.Header.Get(HeaderUsuarioNombre)
	rol := r.Header.Get(HeaderUsuarioRol)

	if idStr == "" || rol == "" {
		return models.Actor{}, fmt.Errorf("missing user identity headers")
	}

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return models.Actor{}, fmt.Errorf("invalid %s header: %q", HeaderUsuarioID, idStr)
	}

	return models.Actor{ID: id, Nombre: nombre, Rol: models.Rol(rol)}, nil
}

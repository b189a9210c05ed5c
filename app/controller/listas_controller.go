package controller

import (
	"net/http"
	"strconv"
	"strings"

	"distrimaxi-api/models"
	"distrimaxi-api/service"
	"distrimaxi-api/utils"
)

// ListasController handles HTTP requests for price lists
type ListasController struct {
	listas *service.ListasService
}

// NewListasController creates a new ListasController
func NewListasController(listas *service.ListasService) *ListasController {
	return &ListasController{listas: listas}
}

func listaIDFromPath(path string) (int64, bool) {
	rest := strings.TrimPrefix(path, "/api/listas-precios/")
	segment := rest
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		segment = rest[:i]
	}
	id, err := strconv.ParseInt(segment, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// Listar handles GET /api/listas-precios
func (c *ListasController) Listar(w http.ResponseWriter, r *http.Request) {
	if _, err := utils.ActorFromRequest(r); err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	listas, err := c.listas.Listar(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if listas == nil {
		listas = []models.ListaDePrecios{}
	}
	writeJSON(w, http.StatusOK, listas)
}

// Obtener handles GET /api/listas-precios/{id}
func (c *ListasController) Obtener(w http.ResponseWriter, r *http.Request) {
	if _, err := utils.ActorFromRequest(r); err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, ok := listaIDFromPath(r.URL.Path)
	if !ok {
		http.Error(w, "Invalid lista id", http.StatusBadRequest)
		return
	}

	lista, err := c.listas.Obtener(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lista)
}

// Crear handles POST /api/listas-precios
func (c *ListasController) Crear(w http.ResponseWriter, r *http.Request) {
	actor, err := utils.ActorFromRequest(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req models.CrearListaRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	listaID, err := c.listas.Crear(r.Context(), actor, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": listaID, "nombre": req.Nombre, "activa": false})
}

// Activar handles POST /api/listas-precios/{id}/activar
func (c *ListasController) Activar(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	actor, err := utils.ActorFromRequest(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, ok := listaIDFromPath(r.URL.Path)
	if !ok {
		http.Error(w, "Invalid lista id", http.StatusBadRequest)
		return
	}

	if err := c.listas.Activar(r.Context(), actor, id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "activa": true})
}

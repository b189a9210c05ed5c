package controller

import (
	"net/http"

	"distrimaxi-api/models"
	"distrimaxi-api/service"
	"distrimaxi-api/utils"
)

// RegistroController handles HTTP requests for the activity log and reports
type RegistroController struct {
	registros *service.RegistroService
}

// NewRegistroController creates a new RegistroController
func NewRegistroController(registros *service.RegistroService) *RegistroController {
	return &RegistroController{registros: registros}
}

// Actividad handles GET /api/logs
func (c *RegistroController) Actividad(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	actor, err := utils.ActorFromRequest(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if !actor.EsAdmin() {
		writeError(w, service.ErrSinPermiso)
		return
	}

	entradas, err := c.registros.ActividadReciente(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if entradas == nil {
		entradas = []models.Actividad{}
	}
	writeJSON(w, http.StatusOK, entradas)
}

// Faltantes handles GET /api/reportes/faltantes
func (c *RegistroController) Faltantes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if _, err := utils.ActorFromRequest(r); err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	reporte, err := c.registros.ReporteFaltantes(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if reporte == nil {
		reporte = []models.FaltanteAgregado{}
	}
	writeJSON(w, http.StatusOK, reporte)
}

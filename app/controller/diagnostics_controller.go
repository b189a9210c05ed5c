package controller

import (
	"net/http"

	"distrimaxi-api/models"
	"distrimaxi-api/service"
	"distrimaxi-api/utils"
)

// DiagnosticsController handles HTTP requests for the orphaned-line analysis
type DiagnosticsController struct {
	diagnostics *service.DiagnosticsService
}

// NewDiagnosticsController creates a new DiagnosticsController
func NewDiagnosticsController(diagnostics *service.DiagnosticsService) *DiagnosticsController {
	return &DiagnosticsController{diagnostics: diagnostics}
}

// Analizar handles GET /api/diagnostico/huerfanos
func (c *DiagnosticsController) Analizar(w http.ResponseWriter, r *http.Request) {
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

	resultado, err := c.diagnostics.Analizar(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resultado)
}

// Corregir handles POST /api/diagnostico/huerfanos/corregir
func (c *DiagnosticsController) Corregir(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	actor, err := utils.ActorFromRequest(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req models.CorregirHuerfanosRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	reparados, err := c.diagnostics.EjecutarCorreccion(r.Context(), actor, req.Candidatos)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reparados": reparados})
}

// CorregirUno handles POST /api/diagnostico/huerfanos/corregir-uno
func (c *DiagnosticsController) CorregirUno(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	actor, err := utils.ActorFromRequest(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var candidato models.CandidatoCorreccion
	if err := decodeBody(r, &candidato); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := c.diagnostics.CorregirUno(r.Context(), actor, candidato); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"item_id": candidato.ItemID, "producto_id_nuevo": candidato.ProductoNuevoID})
}

package controller

import (
	"net/http"
	"strconv"
	"strings"

	"distrimaxi-api/models"
	"distrimaxi-api/service"
	"distrimaxi-api/utils"
)

// PedidoController handles HTTP requests for the order lifecycle
type PedidoController struct {
	pedidos *service.PedidoService
	hojas   *service.HojaService
}

// NewPedidoController creates a new PedidoController
func NewPedidoController(pedidos *service.PedidoService, hojas *service.HojaService) *PedidoController {
	return &PedidoController{pedidos: pedidos, hojas: hojas}
}

// pedidoIDFromPath extracts the numeric id segment from a path like
// /api/pedidos/{id}/... .
func pedidoIDFromPath(path string) (int64, bool) {
	rest := strings.TrimPrefix(path, "/api/pedidos/")
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

// Crear handles POST /api/pedidos
func (c *PedidoController) Crear(w http.ResponseWriter, r *http.Request) {
	actor, err := utils.ActorFromRequest(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req models.CrearPedidoRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	pedido, err := c.pedidos.Crear(r.Context(), actor, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, pedido)
}

// Listar handles GET /api/pedidos
func (c *PedidoController) Listar(w http.ResponseWriter, r *http.Request) {
	actor, err := utils.ActorFromRequest(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	pedidos, err := c.pedidos.Listar(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}
	if pedidos == nil {
		pedidos = []models.Pedido{}
	}
	writeJSON(w, http.StatusOK, pedidos)
}

// MisPedidos handles GET /api/pedidos/mios
func (c *PedidoController) MisPedidos(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	actor, err := utils.ActorFromRequest(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	pedidos, err := c.pedidos.MisPedidos(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}
	if pedidos == nil {
		pedidos = []models.Pedido{}
	}
	writeJSON(w, http.StatusOK, pedidos)
}

// Obtener handles GET /api/pedidos/{id}
func (c *PedidoController) Obtener(w http.ResponseWriter, r *http.Request) {
	if _, err := utils.ActorFromRequest(r); err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, ok := pedidoIDFromPath(r.URL.Path)
	if !ok {
		http.Error(w, "Invalid pedido id", http.StatusBadRequest)
		return
	}

	pedido, err := c.pedidos.Obtener(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pedido)
}

// Actualizar handles PUT /api/pedidos/{id}
func (c *PedidoController) Actualizar(w http.ResponseWriter, r *http.Request) {
	actor, err := utils.ActorFromRequest(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, ok := pedidoIDFromPath(r.URL.Path)
	if !ok {
		http.Error(w, "Invalid pedido id", http.StatusBadRequest)
		return
	}

	var req models.ActualizarPedidoRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	pedido, err := c.pedidos.Actualizar(r.Context(), actor, id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pedido)
}

// CambiarEstado handles PATCH /api/pedidos/{id}/estado
func (c *PedidoController) CambiarEstado(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	actor, err := utils.ActorFromRequest(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, ok := pedidoIDFromPath(r.URL.Path)
	if !ok {
		http.Error(w, "Invalid pedido id", http.StatusBadRequest)
		return
	}

	var req models.CambiarEstadoRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := c.pedidos.CambiarEstado(r.Context(), actor, id, models.Estado(req.Estado)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "estado": req.Estado})
}

// ActualizarNotas handles PATCH /api/pedidos/{id}/notas
func (c *PedidoController) ActualizarNotas(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	actor, err := utils.ActorFromRequest(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, ok := pedidoIDFromPath(r.URL.Path)
	if !ok {
		http.Error(w, "Invalid pedido id", http.StatusBadRequest)
		return
	}

	var req models.ActualizarNotasRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.NotasEntrega == nil {
		writeError(w, service.ErrNotasRequeridas)
		return
	}

	if err := c.pedidos.ActualizarNotas(r.Context(), actor, id, *req.NotasEntrega); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "notas_entrega": *req.NotasEntrega})
}

// Combinar handles POST /api/pedidos/combinar
func (c *PedidoController) Combinar(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	actor, err := utils.ActorFromRequest(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req models.CombinarPedidosRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	maestroID, err := c.pedidos.Combinar(r.Context(), actor, req.PedidoIDs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"pedido_maestro_id": maestroID})
}

// Desarchivar handles POST /api/pedidos/{id}/desarchivar
func (c *PedidoController) Desarchivar(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	actor, err := utils.ActorFromRequest(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, ok := pedidoIDFromPath(r.URL.Path)
	if !ok {
		http.Error(w, "Invalid pedido id", http.StatusBadRequest)
		return
	}

	if err := c.pedidos.Desarchivar(r.Context(), actor, id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "estado": string(models.EstadoPendiente)})
}

// LimpiarArchivados handles DELETE /api/pedidos/archivados
func (c *PedidoController) LimpiarArchivados(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	actor, err := utils.ActorFromRequest(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	eliminados, err := c.pedidos.LimpiarArchivados(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"eliminados": eliminados})
}

// Hoja handles GET /api/pedidos/{id}/hoja, returning the printable PDF.
func (c *PedidoController) Hoja(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if _, err := utils.ActorFromRequest(r); err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, ok := pedidoIDFromPath(r.URL.Path)
	if !ok {
		http.Error(w, "Invalid pedido id", http.StatusBadRequest)
		return
	}

	pdf, err := c.hojas.GenerarPDF(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

// HojaRender handles GET /api/pedidos/{id}/hoja/render, the HTML form the PDF
// printer navigates to. Served without identity headers because headless
// Chrome fetches it directly.
func (c *PedidoController) HojaRender(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id, ok := pedidoIDFromPath(r.URL.Path)
	if !ok {
		http.Error(w, "Invalid pedido id", http.StatusBadRequest)
		return
	}

	html, err := c.hojas.RenderHTML(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(html)
}

package controller

import (
	"net/http"
	"strconv"
	"strings"

	"distrimaxi-api/service"
)

// ImagenController serves optimized product images
type ImagenController struct {
	imagenes *service.ImagenService
}

// NewImagenController creates a new ImagenController
func NewImagenController(imagenes *service.ImagenService) *ImagenController {
	return &ImagenController{imagenes: imagenes}
}

// Obtener handles GET /api/productos/{id}/imagen?size=thumb|medium
func (c *ImagenController) Obtener(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/productos/")
	segment := rest
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		segment = rest[:i]
	}
	id, err := strconv.ParseInt(segment, 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "Invalid producto id", http.StatusBadRequest)
		return
	}

	tamano := r.URL.Query().Get("size")
	if tamano == "" {
		tamano = "thumb"
	}

	data, err := c.imagenes.Obtener(r.Context(), id, tamano)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

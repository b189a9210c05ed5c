package router

import (
	"net/http"
	"strings"

	"distrimaxi-api/app/controller"
)

type Controllers struct {
	Pedido      *controller.PedidoController
	Listas      *controller.ListasController
	Diagnostics *controller.DiagnosticsController
	Registro    *controller.RegistroController
	Imagen      *controller.ImagenController
}

// pingHandler handles GET /ping
func pingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func SetupRoutes(controllers *Controllers) {
	// Ping endpoint
	http.HandleFunc("/ping", pingHandler)

	// Pedido collection - POST creates, GET lists
	http.HandleFunc("/api/pedidos", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			controllers.Pedido.Crear(w, r)
		} else if r.Method == http.MethodGet {
			controllers.Pedido.Listar(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// Pedido actions and detail (specific suffixes first, then /:id)
	http.HandleFunc("/api/pedidos/", func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/api/pedidos/")

		if path == "mios" {
			controllers.Pedido.MisPedidos(w, r)
			return
		}
		if path == "combinar" {
			controllers.Pedido.Combinar(w, r)
			return
		}
		if path == "archivados" {
			controllers.Pedido.LimpiarArchivados(w, r)
			return
		}
		if strings.HasSuffix(path, "/estado") {
			controllers.Pedido.CambiarEstado(w, r)
			return
		}
		if strings.HasSuffix(path, "/notas") {
			controllers.Pedido.ActualizarNotas(w, r)
			return
		}
		if strings.HasSuffix(path, "/desarchivar") {
			controllers.Pedido.Desarchivar(w, r)
			return
		}
		if strings.HasSuffix(path, "/hoja/render") {
			controllers.Pedido.HojaRender(w, r)
			return
		}
		if strings.HasSuffix(path, "/hoja") {
			controllers.Pedido.Hoja(w, r)
			return
		}

		// Pedido by id - GET detail, PUT full edit
		if r.Method == http.MethodGet {
			controllers.Pedido.Obtener(w, r)
		} else if r.Method == http.MethodPut {
			controllers.Pedido.Actualizar(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// Price list collection - POST creates, GET lists
	http.HandleFunc("/api/listas-precios", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			controllers.Listas.Crear(w, r)
		} else if r.Method == http.MethodGet {
			controllers.Listas.Listar(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	// Price list activation and detail
	http.HandleFunc("/api/listas-precios/", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/activar") {
			controllers.Listas.Activar(w, r)
			return
		}
		if r.Method == http.MethodGet {
			controllers.Listas.Obtener(w, r)
			return
		}
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	})

	// Orphaned line diagnostics
	http.HandleFunc("/api/diagnostico/huerfanos", controllers.Diagnostics.Analizar)
	http.HandleFunc("/api/diagnostico/huerfanos/corregir", controllers.Diagnostics.Corregir)
	http.HandleFunc("/api/diagnostico/huerfanos/corregir-uno", controllers.Diagnostics.CorregirUno)

	// Activity log and shortage report
	http.HandleFunc("/api/logs", controllers.Registro.Actividad)
	http.HandleFunc("/api/reportes/faltantes", controllers.Registro.Faltantes)

	// Optimized product images
	http.HandleFunc("/api/productos/", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/imagen") {
			controllers.Imagen.Obtener(w, r)
			return
		}
		http.Error(w, "Not found", http.StatusNotFound)
	})
}

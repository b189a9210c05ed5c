package app

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"distrimaxi-api/app/controller"
	"distrimaxi-api/app/router"
	"distrimaxi-api/db"
	"distrimaxi-api/pricing"
	"distrimaxi-api/repository"
	"distrimaxi-api/service"
)

// Initialize initializes the application
func Initialize() error {
	// Initialize database connection
	if err := db.InitDB(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := service.EnsureCacheDir(); err != nil {
		return err
	}

	txManager := db.NewTxManager(db.DB)

	// Repositories
	pedidoRepo := repository.NewPedidoRepository()
	clienteRepo := repository.NewClienteRepository()
	productoRepo := repository.NewProductoRepository()
	listaRepo := repository.NewListaPreciosRepository()
	actividadRepo := repository.NewActividadRepository()
	faltantesRepo := repository.NewFaltantesRepository()

	resolver := pricing.NewResolver(productoRepo, listaRepo)

	// Services
	pedidoService := service.NewPedidoService(
		db.DB, txManager,
		pedidoRepo, clienteRepo, productoRepo, actividadRepo, faltantesRepo,
		resolver,
	)
	listasService := service.NewListasService(db.DB, txManager, listaRepo, actividadRepo)
	diagnosticsService := service.NewDiagnosticsService(db.DB, txManager, pedidoRepo, productoRepo, actividadRepo)
	registroService := service.NewRegistroService(db.DB, actividadRepo, faltantesRepo)
	imagenService := service.NewImagenService(db.DB, productoRepo)

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		baseURL = "http://localhost:" + port
	}
	hojaService := service.NewHojaService(pedidoService, baseURL)

	// Post-commit hooks: local backup always, Drive mirror when configured
	backupDir := os.Getenv("BACKUP_DIR")
	if backupDir == "" {
		backupDir = "backups"
	}
	maxBackups := 0
	if v := os.Getenv("BACKUP_MAX_FILES"); v != "" {
		maxBackups, _ = strconv.Atoi(v)
	}
	backupWriter, err := service.NewBackupWriter(backupDir, maxBackups)
	if err != nil {
		return err
	}
	pedidoService.AgregarHook(backupWriter.Hook())

	credentialsPath := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	driveFolderID := os.Getenv("DRIVE_BACKUP_FOLDER_ID")
	if credentialsPath != "" && driveFolderID != "" {
		driveBackup, err := service.NewDriveBackup(credentialsPath, driveFolderID)
		if err != nil {
			return err
		}
		pedidoService.AgregarHook(driveBackup.Hook())
	} else {
		log.Printf("⚠️  Respaldo en Drive deshabilitado (faltan GOOGLE_APPLICATION_CREDENTIALS o DRIVE_BACKUP_FOLDER_ID)")
	}

	// Create controllers
	controllers := &router.Controllers{
		Pedido:      controller.NewPedidoController(pedidoService, hojaService),
		Listas:      controller.NewListasController(listasService),
		Diagnostics: controller.NewDiagnosticsController(diagnosticsService),
		Registro:    controller.NewRegistroController(registroService),
		Imagen:      controller.NewImagenController(imagenService),
	}

	// Setup routes using standard http router
	router.SetupRoutes(controllers)

	return nil
}

package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"distrimaxi-api/models"
)

// MaxRespaldosPorDefecto caps the backup directory when BACKUP_MAX_FILES is
// not set.
const MaxRespaldosPorDefecto = 30

// BackupWriter persists one plain-text file per created pedido. It is
// advisory storage: the database row is the authority, so every failure here
// is logged by the caller and never fails the request.
type BackupWriter struct {
	dir         string
	maxArchivos int
}

// NewBackupWriter creates a BackupWriter over dir, creating it if needed.
func NewBackupWriter(dir string, maxArchivos int) (*BackupWriter, error) {
	if maxArchivos <= 0 {
		maxArchivos = MaxRespaldosPorDefecto
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory %s: %w", dir, err)
	}
	return &BackupWriter{dir: dir, maxArchivos: maxArchivos}, nil
}

// Escribir writes the backup document. When the directory is at capacity the
// oldest file by modification time is evicted first, so the directory never
// grows past maxArchivos.
func (w *BackupWriter) Escribir(respaldo *models.RespaldoPedido) (string, error) {
	if err := w.evictarSiLleno(); err != nil {
		return "", err
	}

	nombre := fmt.Sprintf("pedido_%d_%d.txt", respaldo.PedidoID, time.Now().UnixMilli())
	ruta := filepath.Join(w.dir, nombre)
	if err := os.WriteFile(ruta, []byte(respaldo.Contenido()), 0o644); err != nil {
		return "", fmt.Errorf("failed to write backup %s: %w", ruta, err)
	}

	log.Printf("💾 Respaldo del pedido #%d escrito en %s", respaldo.PedidoID, ruta)
	return ruta, nil
}

func (w *BackupWriter) evictarSiLleno() error {
	entradas, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("failed to read backup directory %s: %w", w.dir, err)
	}

	var masAntigua string
	var masAntiguaMod time.Time
	archivos := 0
	for _, entrada := range entradas {
		if entrada.IsDir() {
			continue
		}
		info, err := entrada.Info()
		if err != nil {
			return fmt.Errorf("failed to stat backup %s: %w", entrada.Name(), err)
		}
		archivos++
		if masAntigua == "" || info.ModTime().Before(masAntiguaMod) {
			masAntigua = entrada.Name()
			masAntiguaMod = info.ModTime()
		}
	}

	if archivos < w.maxArchivos {
		return nil
	}

	ruta := filepath.Join(w.dir, masAntigua)
	if err := os.Remove(ruta); err != nil {
		return fmt.Errorf("failed to evict oldest backup %s: %w", ruta, err)
	}
	log.Printf("🗑️  Respaldo más antiguo eliminado: %s", masAntigua)
	return nil
}

// Hook adapts the writer to the pedido creation post-commit hook list.
func (w *BackupWriter) Hook() PostCommitHook {
	return PostCommitHook{
		Nombre: "respaldo-local",
		Run: func(_ context.Context, respaldo *models.RespaldoPedido) error {
			_, err := w.Escribir(respaldo)
			return err
		},
	}
}

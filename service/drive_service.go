package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"distrimaxi-api/models"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// DriveBackup mirrors newly created order backups into a Google Drive folder.
// Like the local writer it is best effort only.
type DriveBackup struct {
	client   *drive.Service
	folderID string
}

// NewDriveBackup creates a DriveBackup instance.
// credentialsPath should be the path to the Service Account JSON file.
func NewDriveBackup(credentialsPath, folderID string) (*DriveBackup, error) {
	ctx := context.Background()

	// option.WithCredentialsFile automatically handles Service Account authentication
	client, err := drive.NewService(ctx, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	return &DriveBackup{
		client:   client,
		folderID: folderID,
	}, nil
}

// Subir uploads one backup document as a plain-text file into the configured
// folder. Returns the Drive file id.
func (d *DriveBackup) Subir(ctx context.Context, respaldo *models.RespaldoPedido) (string, error) {
	meta := &drive.File{
		Name:     fmt.Sprintf("pedido_%d.txt", respaldo.PedidoID),
		MimeType: "text/plain",
		Parents:  []string{d.folderID},
	}

	file, err := d.client.Files.Create(meta).
		Media(strings.NewReader(respaldo.Contenido())).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("failed to upload backup for pedido %d: %w", respaldo.PedidoID, err)
	}

	log.Printf("☁️  Respaldo del pedido #%d subido a Drive (file id %s)", respaldo.PedidoID, file.Id)
	return file.Id, nil
}

// Hook adapts the upload to the pedido creation post-commit hook list.
func (d *DriveBackup) Hook() PostCommitHook {
	return PostCommitHook{
		Nombre: "respaldo-drive",
		Run: func(ctx context.Context, respaldo *models.RespaldoPedido) error {
			_, err := d.Subir(ctx, respaldo)
			return err
		},
	}
}

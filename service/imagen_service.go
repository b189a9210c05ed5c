package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"distrimaxi-api/db"
	"distrimaxi-api/repository"

	"github.com/disintegration/imaging"
)

const (
	imagenCacheDir = "cache/images"
	// Quality settings
	calidadThumb  = 60
	calidadMedium = 75
	// Size settings (max dimension)
	maxLadoThumb  = 300
	maxLadoMedium = 800
)

// ErrImagenNoDisponible means the producto has no image URL on record.
var ErrImagenNoDisponible = fmt.Errorf("el producto no tiene imagen")

// ImagenService serves resized product images for the catalog views, fetching
// the original from the producto's stored URL and caching the optimized JPEG
// on disk.
type ImagenService struct {
	database  db.Querier
	productos repository.ProductoRepositoryInterface
	http      *http.Client
}

// NewImagenService creates a new ImagenService
func NewImagenService(database db.Querier, productos repository.ProductoRepositoryInterface) *ImagenService {
	return &ImagenService{
		database:  database,
		productos: productos,
		http:      &http.Client{Timeout: 30 * time.Second},
	}
}

// EnsureCacheDir ensures the image cache directory exists
func EnsureCacheDir() error {
	if err := os.MkdirAll(imagenCacheDir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	return nil
}

func rutaCache(productoID int64, tamano string) string {
	return filepath.Join(imagenCacheDir, fmt.Sprintf("producto_%d_%s.jpg", productoID, tamano))
}

// Obtener returns the optimized JPEG for a producto at the given size ("thumb"
// or "medium"), serving from the on-disk cache when possible.
func (s *ImagenService) Obtener(ctx context.Context, productoID int64, tamano string) ([]byte, error) {
	ruta := rutaCache(productoID, tamano)
	if data, err := os.ReadFile(ruta); err == nil {
		return data, nil
	}

	url, ok, err := s.productos.ImagenURL(ctx, s.database, productoID)
	if err != nil {
		return nil, err
	}
	if !ok || url == "" {
		return nil, fmt.Errorf("%w: id=%d", ErrImagenNoDisponible, productoID)
	}

	original, err := s.descargar(ctx, url)
	if err != nil {
		return nil, err
	}

	optimizada, err := OptimizarImagen(original, tamano)
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(ruta, optimizada, 0644); err != nil {
		// Serving still works without the cache entry.
		log.Printf("⚠️  No se pudo cachear la imagen del producto %d: %v", productoID, err)
	}
	return optimizada, nil
}

func (s *ImagenService) descargar(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build image request: %w", err)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image body: %w", err)
	}
	return data, nil
}

// OptimizarImagen converts raw image bytes (PNG, JPEG, etc.) to a resized
// JPEG. tamano is "thumb" or "medium"; anything else falls back to medium.
// Note: Using JPEG instead of WebP to avoid CGO dependency.
func OptimizarImagen(imageData []byte, tamano string) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	log.Printf("📸 Image decoded: format=%s, bounds=%v", format, img.Bounds())

	var maxLado int
	var calidad int
	switch tamano {
	case "thumb":
		maxLado = maxLadoThumb
		calidad = calidadThumb
	case "medium":
		maxLado = maxLadoMedium
		calidad = calidadMedium
	default:
		maxLado = maxLadoMedium
		calidad = calidadMedium
		log.Printf("⚠️  Unknown size '%s', defaulting to medium", tamano)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	var resized image.Image = img
	if width > maxLado || height > maxLado {
		// Keep the aspect ratio while capping the longest side.
		var newWidth, newHeight int
		if width > height {
			newWidth = maxLado
			newHeight = int(float64(height) * float64(maxLado) / float64(width))
		} else {
			newHeight = maxLado
			newWidth = int(float64(width) * float64(maxLado) / float64(height))
		}

		log.Printf("🔄 Resizing image: %dx%d -> %dx%d", width, height, newWidth, newHeight)
		resized = imaging.Resize(img, newWidth, newHeight, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: calidad}); err != nil {
		return nil, fmt.Errorf("failed to encode to JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

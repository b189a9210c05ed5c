package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"distrimaxi-api/models"
	"distrimaxi-api/utils"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// HojaService renders the printable order sheet the warehouse works from: an
// HTML view of one pedido, and its PDF form printed through headless Chrome.
type HojaService struct {
	pedidos PedidoLector
	baseURL string // Base URL for the render endpoint (e.g., "http://localhost:8080")
}

// PedidoLector is the read side of the pedido service the sheet needs.
type PedidoLector interface {
	Obtener(ctx context.Context, pedidoID int64) (*models.Pedido, error)
}

// NewHojaService creates a new HojaService
func NewHojaService(pedidos PedidoLector, baseURL string) *HojaService {
	return &HojaService{pedidos: pedidos, baseURL: baseURL}
}

// detectChromePath detects the path to Chrome/Chromium executable
// Checks CHROME_PATH env var first, then common installation paths
func detectChromePath() string {
	if chromePath := os.Getenv("CHROME_PATH"); chromePath != "" {
		if _, err := os.Stat(chromePath); err == nil {
			return chromePath
		}
	}

	paths := []string{
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

type hojaItem struct {
	Cantidad int
	Nombre   string
	SKU      string
	Precio   string
	Subtotal string
	Faltante bool
}

type hojaData struct {
	PedidoID       int64
	Fecha          string
	NombreComercio string
	NombreVendedor string
	Estado         string
	Notas          string
	Items          []hojaItem
	Total          string
}

// RenderHTML renders the order sheet HTML for one pedido. Totals come from
// the frozen line prices, never from the current catalog.
func (s *HojaService) RenderHTML(ctx context.Context, pedidoID int64) ([]byte, error) {
	pedido, err := s.pedidos.Obtener(ctx, pedidoID)
	if err != nil {
		return nil, err
	}

	data := hojaData{
		PedidoID:       pedido.ID,
		Fecha:          pedido.FechaCreacion.Format("02/01/2006 15:04"),
		NombreComercio: pedido.NombreComercio,
		NombreVendedor: pedido.NombreVendedor,
		Estado:         string(pedido.Estado),
		Notas:          pedido.NotasEntrega,
	}

	var total int64
	for _, item := range pedido.Items {
		subtotal := item.PrecioCongelado * int64(item.Cantidad)
		total += subtotal
		data.Items = append(data.Items, hojaItem{
			Cantidad: item.Cantidad,
			Nombre:   item.NombreProducto,
			SKU:      item.CodigoSKU,
			Precio:   utils.FormatPesos(item.PrecioCongelado),
			Subtotal: utils.FormatPesos(subtotal),
			Faltante: item.AvisoFaltante,
		})
	}
	data.Total = utils.FormatPesos(total)

	templatePath := filepath.Join("templates", "pedido.html")
	tmpl, err := template.ParseFiles(templatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.Bytes(), nil
}

// GenerarPDF prints the order sheet to an A4 PDF using chromedp. The sheet is
// fetched from the service's own render endpoint so Chrome resolves styles the
// same way a browser would.
func (s *HojaService) GenerarPDF(ctx context.Context, pedidoID int64) ([]byte, error) {
	// Validate the pedido before spinning up Chrome.
	if _, err := s.pedidos.Obtener(ctx, pedidoID); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	// Detect Chrome/Chromium path and configure chromedp
	chromePath := detectChromePath()
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox, // Required for running in Docker/containers
	)
	if chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	chromedpCtx, chromedpCancel := chromedp.NewContext(allocCtx)
	defer chromedpCancel()

	renderURL := fmt.Sprintf("%s/api/pedidos/%d/hoja/render", s.baseURL, pedidoID)

	var pdfBuf []byte
	err := chromedp.Run(chromedpCtx,
		chromedp.Navigate(renderURL),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// A4: 210mm x 297mm = 8.27" x 11.69"
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithMarginTop(0.4).
				WithMarginBottom(0.4).
				WithMarginLeft(0.4).
				WithMarginRight(0.4).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return pdfBuf, nil
}

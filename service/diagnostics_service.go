package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"distrimaxi-api/db"
	"distrimaxi-api/models"
	"distrimaxi-api/repository"
	"distrimaxi-api/utils"
)

// DiagnosticsService finds order lines whose producto reference no longer
// resolves to an active product and classifies each one into a repair bucket
// using SKU and name heuristics over the frozen snapshot.
type DiagnosticsService struct {
	database  db.Querier
	tx        db.TxManager
	pedidos   repository.PedidoRepositoryInterface
	productos repository.ProductoRepositoryInterface
	actividad repository.ActividadRepositoryInterface
}

// NewDiagnosticsService creates a new DiagnosticsService
func NewDiagnosticsService(
	database db.Querier,
	tx db.TxManager,
	pedidos repository.PedidoRepositoryInterface,
	productos repository.ProductoRepositoryInterface,
	actividad repository.ActividadRepositoryInterface,
) *DiagnosticsService {
	return &DiagnosticsService{
		database:  database,
		tx:        tx,
		pedidos:   pedidos,
		productos: productos,
		actividad: actividad,
	}
}

// Analizar loads every orphaned line and the active catalog, then classifies
// each orphan into exactly one bucket. Read-only.
func (s *DiagnosticsService) Analizar(ctx context.Context) (*models.ResultadoDiagnostico, error) {
	huerfanos, err := s.pedidos.ItemsHuerfanos(ctx, s.database)
	if err != nil {
		return nil, err
	}

	activos, err := s.productos.Activos(ctx, s.database)
	if err != nil {
		return nil, err
	}

	resultado := Clasificar(huerfanos, activos)
	log.Printf("🔎 Diagnóstico: %d automáticos, %d manuales, %d requieren intervención",
		len(resultado.CorreccionAutomatica), len(resultado.CorreccionManual), len(resultado.RequiereIntervencion))
	return resultado, nil
}

// indiceCatalogo holds the active catalog keyed the ways the classifier
// matches: by normalized SKU, by normalized name, and as a flat list for the
// partial-name scan.
type indiceCatalogo struct {
	porSKU    map[string][]models.ProductoResumen
	porNombre map[string][]models.ProductoResumen
	nombres   []nombreActivo
}

type nombreActivo struct {
	normalizado string
	producto    models.ProductoResumen
}

func indexarCatalogo(activos []models.ProductoResumen) *indiceCatalogo {
	indice := &indiceCatalogo{
		porSKU:    make(map[string][]models.ProductoResumen),
		porNombre: make(map[string][]models.ProductoResumen),
	}
	for _, producto := range activos {
		if sku := utils.NormalizarSKU(producto.CodigoSKU); sku != "" {
			indice.porSKU[sku] = append(indice.porSKU[sku], producto)
		}
		if nombre := utils.NormalizarNombre(producto.Nombre); nombre != "" {
			indice.porNombre[nombre] = append(indice.porNombre[nombre], producto)
			indice.nombres = append(indice.nombres, nombreActivo{normalizado: nombre, producto: producto})
		}
	}
	return indice
}

// coincidenciasParciales returns the active products whose normalized name
// contains the orphan's stored name or vice versa. They are attached to
// no-match classifications so a human has somewhere to start looking.
func (i *indiceCatalogo) coincidenciasParciales(nombre string) []models.ProductoResumen {
	if nombre == "" {
		return nil
	}
	var parciales []models.ProductoResumen
	for _, activo := range i.nombres {
		if strings.Contains(activo.normalizado, nombre) || strings.Contains(nombre, activo.normalizado) {
			parciales = append(parciales, activo.producto)
		}
	}
	return parciales
}

// Clasificar buckets orphaned lines against the active catalog. First match
// wins: a unique normalized-SKU match goes to the automatic bucket, then a
// unique normalized-name match goes to the manual bucket, everything else
// needs intervention with a motivo and any partial name matches attached.
func Clasificar(huerfanos []models.ItemHuerfano, activos []models.ProductoResumen) *models.ResultadoDiagnostico {
	indice := indexarCatalogo(activos)

	resultado := &models.ResultadoDiagnostico{}
	for _, huerfano := range huerfanos {
		clasificado, dst := clasificarUno(huerfano, indice)
		switch dst {
		case destinoAutomatico:
			resultado.CorreccionAutomatica = append(resultado.CorreccionAutomatica, clasificado)
		case destinoManual:
			resultado.CorreccionManual = append(resultado.CorreccionManual, clasificado)
		case destinoIntervencion:
			resultado.RequiereIntervencion = append(resultado.RequiereIntervencion, clasificado)
		}
	}
	return resultado
}

func clasificarUno(huerfano models.ItemHuerfano, indice *indiceCatalogo) (models.HuerfanoClasificado, destino) {
	clasificado := models.HuerfanoClasificado{Item: huerfano}

	if sku := utils.NormalizarSKU(huerfano.CodigoSKU); sku != "" {
		switch coincidencias := indice.porSKU[sku]; len(coincidencias) {
		case 0:
			// fall through to the name heuristic
		case 1:
			producto := coincidencias[0]
			clasificado.ProductoSugerido = &producto
			return clasificado, destinoAutomatico
		default:
			clasificado.Motivo = models.MotivoSKUDuplicado
			clasificado.Coincidencias = coincidencias
			return clasificado, destinoIntervencion
		}
	}

	nombre := utils.NormalizarNombre(huerfano.NombreProducto)
	switch coincidencias := indice.porNombre[nombre]; len(coincidencias) {
	case 0:
		clasificado.Motivo = models.MotivoSinCoincidencia
		clasificado.Coincidencias = indice.coincidenciasParciales(nombre)
		return clasificado, destinoIntervencion
	case 1:
		producto := coincidencias[0]
		clasificado.ProductoSugerido = &producto
		return clasificado, destinoManual
	default:
		clasificado.Motivo = models.MotivoNombreDuplicado
		clasificado.Coincidencias = coincidencias
		return clasificado, destinoIntervencion
	}
}

type destino int

const (
	destinoAutomatico destino = iota
	destinoManual
	destinoIntervencion
)

// EjecutarCorreccion repoints a batch of orphaned lines in one transaction.
// All-or-nothing: an incomplete candidate or a line that no longer exists
// aborts the whole batch. One consolidated activity record carries the count.
func (s *DiagnosticsService) EjecutarCorreccion(ctx context.Context, actor models.Actor, candidatos []models.CandidatoCorreccion) (int, error) {
	if !actor.EsAdmin() {
		return 0, ErrSinPermiso
	}
	if len(candidatos) == 0 {
		return 0, fmt.Errorf("%w: lote vacío", ErrCandidatoInvalido)
	}
	for _, candidato := range candidatos {
		if candidato.ItemID <= 0 || candidato.ProductoNuevoID <= 0 {
			return 0, fmt.Errorf("%w: item_id=%d producto_id_nuevo=%d", ErrCandidatoInvalido, candidato.ItemID, candidato.ProductoNuevoID)
		}
	}

	var reparados int
	err := s.tx.WithTransaction(ctx, func(ctx context.Context, q db.Querier) error {
		reparados = 0
		for _, candidato := range candidatos {
			ok, err := s.pedidos.RepuntarItem(ctx, q, candidato.ItemID, candidato.ProductoNuevoID)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: el item %d no existe", ErrCandidatoInvalido, candidato.ItemID)
			}
			reparados++
		}

		detalle := fmt.Sprintf("Corrigió %d items huérfanos", reparados)
		return s.actividad.Registrar(ctx, q, actor, models.AccionCorregirHuerfanos, detalle)
	})
	if err != nil {
		return 0, err
	}

	log.Printf("✅ Corrección de huérfanos aplicada: %d items repuntados por %s", reparados, actor.Nombre)
	return reparados, nil
}

// CorregirUno is the single-candidate convenience over EjecutarCorreccion.
func (s *DiagnosticsService) CorregirUno(ctx context.Context, actor models.Actor, candidato models.CandidatoCorreccion) error {
	_, err := s.EjecutarCorreccion(ctx, actor, []models.CandidatoCorreccion{candidato})
	return err
}

package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"distrimaxi-api/db"
	"distrimaxi-api/models"
	"distrimaxi-api/pricing"
	"distrimaxi-api/repository"
	"distrimaxi-api/utils"
)

// VentanaEdicion is how long a vendedor may keep editing their own pedido
// after creating it. Admins are not bound by it.
const VentanaEdicion = 12 * time.Hour

// PostCommitHook is a best-effort side effect that runs after a pedido
// creation commits. A hook failure is logged and never surfaced to the caller;
// the pedido already exists.
type PostCommitHook struct {
	Nombre string
	Run    func(ctx context.Context, respaldo *models.RespaldoPedido) error
}

// PedidoService implements the pedido lifecycle: creation with frozen prices,
// edits inside the ownership/time window, status transitions with their stock
// side effect, merging, and the archive paths.
type PedidoService struct {
	database  db.Querier
	tx        db.TxManager
	pedidos   repository.PedidoRepositoryInterface
	clientes  repository.ClienteRepositoryInterface
	productos repository.ProductoRepositoryInterface
	actividad repository.ActividadRepositoryInterface
	faltantes repository.FaltantesRepositoryInterface
	resolver  *pricing.Resolver
	hooks     []PostCommitHook
	ahora     func() time.Time
}

// NewPedidoService creates a new PedidoService
func NewPedidoService(
	database db.Querier,
	tx db.TxManager,
	pedidos repository.PedidoRepositoryInterface,
	clientes repository.ClienteRepositoryInterface,
	productos repository.ProductoRepositoryInterface,
	actividad repository.ActividadRepositoryInterface,
	faltantes repository.FaltantesRepositoryInterface,
	resolver *pricing.Resolver,
) *PedidoService {
	return &PedidoService{
		database:  database,
		tx:        tx,
		pedidos:   pedidos,
		clientes:  clientes,
		productos: productos,
		actividad: actividad,
		faltantes: faltantes,
		resolver:  resolver,
		ahora:     time.Now,
	}
}

// AgregarHook appends a post-commit hook. Hooks run in registration order.
func (s *PedidoService) AgregarHook(hook PostCommitHook) {
	s.hooks = append(s.hooks, hook)
}

// Crear builds a pedido in one transaction: validates the client, resolves the
// effective price list, freezes every line through the price resolver and
// records the activity. After commit the post-commit hooks get the backup
// document; their failures are logged only.
func (s *PedidoService) Crear(ctx context.Context, actor models.Actor, req models.CrearPedidoRequest) (*models.Pedido, error) {
	if req.ClienteID <= 0 {
		return nil, ErrClienteRequerido
	}
	if len(req.Items) == 0 {
		return nil, ErrPedidoSinItems
	}
	for _, item := range req.Items {
		if item.Cantidad <= 0 {
			return nil, fmt.Errorf("%w: producto %d", ErrCantidadInvalida, item.ProductoID)
		}
	}

	var pedido *models.Pedido
	var respaldo *models.RespaldoPedido

	err := s.tx.WithTransaction(ctx, func(ctx context.Context, q db.Querier) error {
		existe, err := s.clientes.Existe(ctx, q, req.ClienteID)
		if err != nil {
			return err
		}
		if !existe {
			return fmt.Errorf("%w: id=%d", ErrClienteNoSincronizado, req.ClienteID)
		}

		listaID, err := s.resolver.ListaEfectiva(ctx, q, req.ListaID)
		if err != nil {
			return err
		}

		pedido = &models.Pedido{
			ClienteID:    req.ClienteID,
			UsuarioID:    actor.ID,
			Estado:       models.EstadoPendiente,
			NotasEntrega: req.NotasEntrega,
			ListaID:      listaID,
		}
		if err := s.pedidos.Insertar(ctx, q, pedido); err != nil {
			return err
		}

		respaldo = models.NuevoRespaldo(pedido.ID, pedido.FechaCreacion, pedido.ClienteID, pedido.NotasEntrega)

		for _, input := range req.Items {
			linea, err := s.resolver.Resolve(ctx, q, input.ProductoID, listaID)
			if err != nil {
				return err
			}
			item := models.PedidoItem{
				PedidoID:        pedido.ID,
				ProductoID:      linea.ProductoID,
				Cantidad:        input.Cantidad,
				PrecioCongelado: linea.PrecioUnitario,
				NombreProducto:  linea.NombreProducto,
				CodigoSKU:       linea.CodigoSKU,
				AvisoFaltante:   linea.AvisoFaltante,
			}
			if err := s.pedidos.InsertarItem(ctx, q, &item); err != nil {
				return err
			}
			pedido.Items = append(pedido.Items, item)
			respaldo.AgregarLinea(item.Cantidad, item.NombreProducto, item.CodigoSKU, utils.FormatPesos(item.PrecioCongelado))
		}

		detalle := fmt.Sprintf("Creó el pedido #%d para el cliente %d (%d items)", pedido.ID, pedido.ClienteID, len(pedido.Items))
		return s.actividad.Registrar(ctx, q, actor, models.AccionCrearPedido, detalle)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Pedido #%d creado por %s (%d items)", pedido.ID, actor.Nombre, len(pedido.Items))
	s.ejecutarHooks(ctx, respaldo)
	return pedido, nil
}

func (s *PedidoService) ejecutarHooks(ctx context.Context, respaldo *models.RespaldoPedido) {
	for _, hook := range s.hooks {
		if err := hook.Run(ctx, respaldo); err != nil {
			log.Printf("⚠️  Hook %s falló para el pedido #%d: %v", hook.Nombre, respaldo.PedidoID, err)
		}
	}
}

// Actualizar replaces a pedido's lines and notes. Only the creator or an
// admin may edit; a non-admin only while the pedido is pendiente and within
// the edit window. Lines are fully replaced, re-freezing each price against
// the pedido's stored lista. A quantity dropping from >0 to 0 records a
// faltante; activity is written only when some quantity actually changed.
func (s *PedidoService) Actualizar(ctx context.Context, actor models.Actor, pedidoID int64, req models.ActualizarPedidoRequest) (*models.Pedido, error) {
	for _, item := range req.Items {
		if item.Cantidad < 0 {
			return nil, fmt.Errorf("%w: producto %d", ErrCantidadInvalida, item.ProductoID)
		}
	}

	nuevos := make([]models.ItemPedidoInput, 0, len(req.Items))
	for _, item := range req.Items {
		if item.Cantidad > 0 {
			nuevos = append(nuevos, item)
		}
	}
	if len(nuevos) == 0 {
		return nil, ErrPedidoSinItems
	}

	var actualizado *models.Pedido

	err := s.tx.WithTransaction(ctx, func(ctx context.Context, q db.Querier) error {
		pedido, err := s.pedidos.PorIDParaActualizar(ctx, q, pedidoID)
		if err != nil {
			return err
		}
		if pedido == nil {
			return ErrPedidoNoEncontrado
		}

		if !actor.EsAdmin() {
			if pedido.UsuarioID != actor.ID {
				return ErrSinPermiso
			}
			if pedido.Estado != models.EstadoPendiente {
				return ErrSinPermiso
			}
			if s.ahora().Sub(pedido.FechaCreacion) > VentanaEdicion {
				return ErrVentanaEdicionExpirada
			}
		}

		viejos, err := s.pedidos.ItemsDePedido(ctx, q, pedidoID)
		if err != nil {
			return err
		}

		cambios, eliminados := diffCantidades(viejos, req.Items)
		viejosPorProducto := make(map[int64]bool, len(viejos))
		for _, viejo := range viejos {
			viejosPorProducto[viejo.ProductoID] = true
		}

		if err := s.pedidos.BorrarItems(ctx, q, pedidoID); err != nil {
			return err
		}
		for _, input := range nuevos {
			linea, err := s.resolver.Resolve(ctx, q, input.ProductoID, pedido.ListaID)
			if err != nil {
				return err
			}
			if !viejosPorProducto[input.ProductoID] {
				cambios = append(cambios, fmt.Sprintf("%s: 0 → %d", linea.NombreProducto, input.Cantidad))
			}
			item := models.PedidoItem{
				PedidoID:        pedidoID,
				ProductoID:      linea.ProductoID,
				Cantidad:        input.Cantidad,
				PrecioCongelado: linea.PrecioUnitario,
				NombreProducto:  linea.NombreProducto,
				CodigoSKU:       linea.CodigoSKU,
				AvisoFaltante:   linea.AvisoFaltante,
			}
			if err := s.pedidos.InsertarItem(ctx, q, &item); err != nil {
				return err
			}
		}

		if _, err := s.pedidos.ActualizarNotas(ctx, q, pedidoID, req.NotasEntrega); err != nil {
			return err
		}

		for _, eliminado := range eliminados {
			faltante := models.RegistroFaltante{
				PedidoID:         pedidoID,
				ProductoID:       eliminado.ProductoID,
				NombreProducto:   eliminado.NombreProducto,
				CantidadOriginal: eliminado.Cantidad,
				IDUsuario:        actor.ID,
				NombreUsuario:    actor.Nombre,
			}
			if err := s.faltantes.Registrar(ctx, q, &faltante); err != nil {
				return err
			}
		}

		if len(cambios) > 0 {
			detalle := fmt.Sprintf("Modificó el pedido #%d. Cambios: %s", pedidoID, strings.Join(cambios, "; "))
			if err := s.actividad.Registrar(ctx, q, actor, models.AccionModificarPedido, detalle); err != nil {
				return err
			}
		}

		actualizado, err = s.pedidos.DetallePorID(ctx, q, pedidoID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return actualizado, nil
}

// diffCantidades compares the persisted lines against the requested quantities
// and returns the change narrative for existing lines plus the lines whose
// quantity dropped from >0 to 0. Added products are narrated by the caller
// once their snapshot is resolved. Old lines are walked in insertion order so
// the narrative is deterministic.
func diffCantidades(viejos []models.PedidoItem, solicitados []models.ItemPedidoInput) (cambios []string, eliminados []models.PedidoItem) {
	nuevasCantidades := make(map[int64]int, len(solicitados))
	for _, input := range solicitados {
		nuevasCantidades[input.ProductoID] = input.Cantidad
	}

	for _, viejo := range viejos {
		nueva := nuevasCantidades[viejo.ProductoID]
		if nueva == viejo.Cantidad {
			continue
		}
		if nueva == 0 {
			cambios = append(cambios, fmt.Sprintf("%s: %d → 0 (faltante)", viejo.NombreProducto, viejo.Cantidad))
			eliminados = append(eliminados, viejo)
			continue
		}
		cambios = append(cambios, fmt.Sprintf("%s: %d → %d", viejo.NombreProducto, viejo.Cantidad, nueva))
	}
	return cambios, eliminados
}

// ActualizarNotas updates only the delivery notes. Creator or admin.
func (s *PedidoService) ActualizarNotas(ctx context.Context, actor models.Actor, pedidoID int64, notas string) error {
	return s.tx.WithTransaction(ctx, func(ctx context.Context, q db.Querier) error {
		pedido, err := s.pedidos.PorID(ctx, q, pedidoID)
		if err != nil {
			return err
		}
		if pedido == nil {
			return ErrPedidoNoEncontrado
		}
		if !actor.EsAdmin() && pedido.UsuarioID != actor.ID {
			return ErrSinPermiso
		}

		if _, err := s.pedidos.ActualizarNotas(ctx, q, pedidoID, notas); err != nil {
			return err
		}

		detalle := fmt.Sprintf("Modificó las notas del pedido #%d", pedidoID)
		return s.actividad.Registrar(ctx, q, actor, models.AccionModificarNotas, detalle)
	})
}

// CambiarEstado moves a pedido through the status machine. Vendedores cannot
// change estados at all; deposito is limited to its allow-list; admins may
// target anything the transition table permits. Reaching entregado decrements
// stock for stock-tracked products in the same transaction.
func (s *PedidoService) CambiarEstado(ctx context.Context, actor models.Actor, pedidoID int64, hacia models.Estado) error {
	if !hacia.Valido() {
		return fmt.Errorf("%w: %q", ErrEstadoInvalido, hacia)
	}
	if actor.Rol == models.RolVendedor {
		return ErrSinPermiso
	}

	return s.tx.WithTransaction(ctx, func(ctx context.Context, q db.Querier) error {
		pedido, err := s.pedidos.PorIDParaActualizar(ctx, q, pedidoID)
		if err != nil {
			return err
		}
		if pedido == nil {
			return ErrPedidoNoEncontrado
		}

		desde := pedido.Estado
		if !models.TransicionPermitida(desde, hacia, actor.Rol) {
			return fmt.Errorf("%w: %s → %s", ErrTransicionNoPermitida, desde, hacia)
		}

		if _, err := s.pedidos.ActualizarEstado(ctx, q, pedidoID, hacia); err != nil {
			return err
		}

		// The table never allows entregado → entregado, so the decrement runs
		// at most once per pedido lifetime. The guard keeps that true even if
		// the table changes.
		if hacia == models.EstadoEntregado && desde != models.EstadoEntregado {
			items, err := s.pedidos.ItemsDePedido(ctx, q, pedidoID)
			if err != nil {
				return err
			}
			for _, item := range items {
				if err := s.productos.DescontarStock(ctx, q, item.ProductoID, item.Cantidad); err != nil {
					return err
				}
			}
		}

		accion := models.AccionCambiarEstado
		detalle := fmt.Sprintf("Cambió el pedido #%d de %s a %s", pedidoID, desde, hacia)
		if hacia == models.EstadoArchivado {
			accion = models.AccionArchivarPedido
			detalle = fmt.Sprintf("Archivó el pedido #%d", pedidoID)
		}
		return s.actividad.Registrar(ctx, q, actor, accion, detalle)
	})
}

// Desarchivar moves an archived pedido back to pendiente. Admin only.
func (s *PedidoService) Desarchivar(ctx context.Context, actor models.Actor, pedidoID int64) error {
	if !actor.EsAdmin() {
		return ErrSinPermiso
	}

	return s.tx.WithTransaction(ctx, func(ctx context.Context, q db.Querier) error {
		ok, err := s.pedidos.Desarchivar(ctx, q, pedidoID)
		if err != nil {
			return err
		}
		if !ok {
			pedido, err := s.pedidos.PorID(ctx, q, pedidoID)
			if err != nil {
				return err
			}
			if pedido == nil {
				return ErrPedidoNoEncontrado
			}
			return ErrNoArchivado
		}

		detalle := fmt.Sprintf("Desarchivó el pedido #%d", pedidoID)
		return s.actividad.Registrar(ctx, q, actor, models.AccionDesarchivarPedido, detalle)
	})
}

// LimpiarArchivados hard-deletes every archived pedido and its lines. Admin
// only. Returns how many pedidos were removed.
func (s *PedidoService) LimpiarArchivados(ctx context.Context, actor models.Actor) (int64, error) {
	if !actor.EsAdmin() {
		return 0, ErrSinPermiso
	}

	var eliminados int64
	err := s.tx.WithTransaction(ctx, func(ctx context.Context, q db.Querier) error {
		ids, err := s.pedidos.IDsArchivados(ctx, q)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}

		eliminados, err = s.pedidos.EliminarConItems(ctx, q, ids)
		if err != nil {
			return err
		}

		detalle := fmt.Sprintf("Eliminó %d pedidos archivados", eliminados)
		return s.actividad.Registrar(ctx, q, actor, models.AccionLimpiarArchivados, detalle)
	})
	if err != nil {
		return 0, err
	}
	return eliminados, nil
}

// Combinar merges two or more pedidos of the same client into a new master
// pedido, summing duplicate product quantities. The earliest line's frozen
// price, name and SKU win for a consolidated product. Sources end up in
// combinado pointing at the master. One transaction, one activity record.
func (s *PedidoService) Combinar(ctx context.Context, actor models.Actor, pedidoIDs []int64) (int64, error) {
	if len(pedidoIDs) < 2 {
		return 0, ErrPedidosInsuficientes
	}

	var maestroID int64
	err := s.tx.WithTransaction(ctx, func(ctx context.Context, q db.Querier) error {
		fuentes, err := s.pedidos.PorIDs(ctx, q, pedidoIDs)
		if err != nil {
			return err
		}
		if len(fuentes) != len(pedidoIDs) {
			return fmt.Errorf("%w: se encontraron %d de %d", ErrPedidoNoEncontrado, len(fuentes), len(pedidoIDs))
		}

		clienteID := fuentes[0].ClienteID
		for _, fuente := range fuentes[1:] {
			if fuente.ClienteID != clienteID {
				return ErrClientesDistintos
			}
		}

		items, err := s.pedidos.ItemsDePedidos(ctx, q, pedidoIDs)
		if err != nil {
			return err
		}
		consolidados := consolidarItems(items)

		referencias := make([]string, len(fuentes))
		for i, fuente := range fuentes {
			referencias[i] = fmt.Sprintf("#%d", fuente.ID)
		}

		maestro := &models.Pedido{
			ClienteID:    clienteID,
			UsuarioID:    actor.ID,
			Estado:       models.EstadoPendiente,
			NotasEntrega: fmt.Sprintf("Combinación de pedidos: %s", strings.Join(referencias, ", ")),
			ListaID:      fuentes[0].ListaID,
		}
		if err := s.pedidos.Insertar(ctx, q, maestro); err != nil {
			return err
		}
		maestroID = maestro.ID

		for _, item := range consolidados {
			item.PedidoID = maestro.ID
			if err := s.pedidos.InsertarItem(ctx, q, &item); err != nil {
				return err
			}
		}

		if err := s.pedidos.MarcarCombinados(ctx, q, pedidoIDs, maestro.ID); err != nil {
			return err
		}

		detalle := fmt.Sprintf("Combinó los pedidos %s en el pedido maestro #%d", strings.Join(referencias, ", "), maestro.ID)
		return s.actividad.Registrar(ctx, q, actor, models.AccionCombinarPedidos, detalle)
	})
	if err != nil {
		return 0, err
	}

	log.Printf("✅ Pedidos %v combinados en el maestro #%d por %s", pedidoIDs, maestroID, actor.Nombre)
	return maestroID, nil
}

// consolidarItems collapses lines by product, summing quantities. The first
// line seen for a product keeps its frozen snapshot; the shortage flag sticks
// if any source line carried it. Input order decides ties, so callers must
// hand in lines in a deterministic order.
func consolidarItems(items []models.PedidoItem) []models.PedidoItem {
	indicePorProducto := make(map[int64]int, len(items))
	var consolidados []models.PedidoItem

	for _, item := range items {
		if i, visto := indicePorProducto[item.ProductoID]; visto {
			consolidados[i].Cantidad += item.Cantidad
			consolidados[i].AvisoFaltante = consolidados[i].AvisoFaltante || item.AvisoFaltante
			continue
		}
		indicePorProducto[item.ProductoID] = len(consolidados)
		consolidado := item
		consolidado.ID = 0
		consolidado.PedidoID = 0
		consolidados = append(consolidados, consolidado)
	}
	return consolidados
}

// Listar returns the pedidos visible to the actor.
func (s *PedidoService) Listar(ctx context.Context, actor models.Actor) ([]models.Pedido, error) {
	return s.pedidos.Listar(ctx, s.database, actor)
}

// MisPedidos returns the actor's own order history.
func (s *PedidoService) MisPedidos(ctx context.Context, actor models.Actor) ([]models.Pedido, error) {
	return s.pedidos.ListarDeUsuario(ctx, s.database, actor.ID)
}

// Obtener returns a pedido with its items and joined names.
func (s *PedidoService) Obtener(ctx context.Context, pedidoID int64) (*models.Pedido, error) {
	pedido, err := s.pedidos.DetallePorID(ctx, s.database, pedidoID)
	if err != nil {
		return nil, err
	}
	if pedido == nil {
		return nil, ErrPedidoNoEncontrado
	}
	return pedido, nil
}

package service_test

import (
	"context"
	"sort"
	"time"

	"distrimaxi-api/db"
	"distrimaxi-api/models"
)

// In-memory fakes for the repository interfaces. The tx fake just runs the
// function; rollback is not simulated, so tests assert that business checks
// run before any write.

type txFake struct{}

func (txFake) WithTransaction(ctx context.Context, fn db.TxFunc) error {
	return fn(ctx, nil)
}

type pedidoRepoFake struct {
	pedidos   map[int64]*models.Pedido
	items     map[int64][]models.PedidoItem
	huerfanos []models.ItemHuerfano

	nextPedidoID int64
	nextItemID   int64
}

func nuevoPedidoRepoFake() *pedidoRepoFake {
	return &pedidoRepoFake{
		pedidos: map[int64]*models.Pedido{},
		items:   map[int64][]models.PedidoItem{},
	}
}

func (f *pedidoRepoFake) Insertar(_ context.Context, _ db.Querier, pedido *models.Pedido) error {
	f.nextPedidoID++
	pedido.ID = f.nextPedidoID
	if pedido.FechaCreacion.IsZero() {
		pedido.FechaCreacion = time.Now()
	}
	copia := *pedido
	copia.Items = nil
	f.pedidos[pedido.ID] = &copia
	return nil
}

func (f *pedidoRepoFake) InsertarItem(_ context.Context, _ db.Querier, item *models.PedidoItem) error {
	f.nextItemID++
	item.ID = f.nextItemID
	f.items[item.PedidoID] = append(f.items[item.PedidoID], *item)
	return nil
}

func (f *pedidoRepoFake) PorID(_ context.Context, _ db.Querier, pedidoID int64) (*models.Pedido, error) {
	pedido, ok := f.pedidos[pedidoID]
	if !ok {
		return nil, nil
	}
	copia := *pedido
	return &copia, nil
}

func (f *pedidoRepoFake) PorIDParaActualizar(ctx context.Context, q db.Querier, pedidoID int64) (*models.Pedido, error) {
	return f.PorID(ctx, q, pedidoID)
}

func (f *pedidoRepoFake) PorIDs(_ context.Context, _ db.Querier, pedidoIDs []int64) ([]models.Pedido, error) {
	ordenados := append([]int64(nil), pedidoIDs...)
	sort.Slice(ordenados, func(i, j int) bool { return ordenados[i] < ordenados[j] })

	var encontrados []models.Pedido
	for _, id := range ordenados {
		if pedido, ok := f.pedidos[id]; ok {
			encontrados = append(encontrados, *pedido)
		}
	}
	return encontrados, nil
}

func (f *pedidoRepoFake) DetallePorID(ctx context.Context, q db.Querier, pedidoID int64) (*models.Pedido, error) {
	pedido, err := f.PorID(ctx, q, pedidoID)
	if err != nil || pedido == nil {
		return pedido, err
	}
	pedido.Items = append([]models.PedidoItem(nil), f.items[pedidoID]...)
	return pedido, nil
}

func (f *pedidoRepoFake) Listar(_ context.Context, _ db.Querier, actor models.Actor) ([]models.Pedido, error) {
	var pedidos []models.Pedido
	for _, pedido := range f.pedidos {
		if actor.Rol == models.RolVendedor && pedido.UsuarioID != actor.ID {
			continue
		}
		pedidos = append(pedidos, *pedido)
	}
	return pedidos, nil
}

func (f *pedidoRepoFake) ListarDeUsuario(_ context.Context, _ db.Querier, usuarioID int64) ([]models.Pedido, error) {
	var pedidos []models.Pedido
	for _, pedido := range f.pedidos {
		if pedido.UsuarioID == usuarioID {
			pedidos = append(pedidos, *pedido)
		}
	}
	return pedidos, nil
}

func (f *pedidoRepoFake) ItemsDePedido(_ context.Context, _ db.Querier, pedidoID int64) ([]models.PedidoItem, error) {
	return append([]models.PedidoItem(nil), f.items[pedidoID]...), nil
}

func (f *pedidoRepoFake) ItemsDePedidos(_ context.Context, _ db.Querier, pedidoIDs []int64) ([]models.PedidoItem, error) {
	ordenados := append([]int64(nil), pedidoIDs...)
	sort.Slice(ordenados, func(i, j int) bool { return ordenados[i] < ordenados[j] })

	var items []models.PedidoItem
	for _, id := range ordenados {
		items = append(items, f.items[id]...)
	}
	return items, nil
}

func (f *pedidoRepoFake) BorrarItems(_ context.Context, _ db.Querier, pedidoID int64) error {
	delete(f.items, pedidoID)
	return nil
}

func (f *pedidoRepoFake) ActualizarNotas(_ context.Context, _ db.Querier, pedidoID int64, notas string) (bool, error) {
	pedido, ok := f.pedidos[pedidoID]
	if !ok {
		return false, nil
	}
	pedido.NotasEntrega = notas
	return true, nil
}

func (f *pedidoRepoFake) ActualizarEstado(_ context.Context, _ db.Querier, pedidoID int64, estado models.Estado) (bool, error) {
	pedido, ok := f.pedidos[pedidoID]
	if !ok {
		return false, nil
	}
	pedido.Estado = estado
	return true, nil
}

func (f *pedidoRepoFake) MarcarCombinados(_ context.Context, _ db.Querier, pedidoIDs []int64, maestroID int64) error {
	for _, id := range pedidoIDs {
		if pedido, ok := f.pedidos[id]; ok {
			pedido.Estado = models.EstadoCombinado
			m := maestroID
			pedido.PedidoMaestroID = &m
		}
	}
	return nil
}

func (f *pedidoRepoFake) Desarchivar(_ context.Context, _ db.Querier, pedidoID int64) (bool, error) {
	pedido, ok := f.pedidos[pedidoID]
	if !ok || pedido.Estado != models.EstadoArchivado {
		return false, nil
	}
	pedido.Estado = models.EstadoPendiente
	return true, nil
}

func (f *pedidoRepoFake) IDsArchivados(_ context.Context, _ db.Querier) ([]int64, error) {
	var ids []int64
	for id, pedido := range f.pedidos {
		if pedido.Estado == models.EstadoArchivado {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *pedidoRepoFake) EliminarConItems(_ context.Context, _ db.Querier, pedidoIDs []int64) (int64, error) {
	var eliminados int64
	for _, id := range pedidoIDs {
		if _, ok := f.pedidos[id]; ok {
			delete(f.pedidos, id)
			delete(f.items, id)
			eliminados++
		}
	}
	return eliminados, nil
}

func (f *pedidoRepoFake) ItemsHuerfanos(_ context.Context, _ db.Querier) ([]models.ItemHuerfano, error) {
	return f.huerfanos, nil
}

func (f *pedidoRepoFake) RepuntarItem(_ context.Context, _ db.Querier, itemID, productoNuevoID int64) (bool, error) {
	for pedidoID, items := range f.items {
		for i := range items {
			if items[i].ID == itemID {
				f.items[pedidoID][i].ProductoID = productoNuevoID
				return true, nil
			}
		}
	}
	return false, nil
}

type clienteRepoFake struct {
	existentes map[int64]bool
}

func (f *clienteRepoFake) Existe(_ context.Context, _ db.Querier, clienteID int64) (bool, error) {
	return f.existentes[clienteID], nil
}

type productoFake struct {
	models.ProductoSnapshot
	ManejaStock bool
	StockActual int64
	ImagenURL   string
}

type productoRepoFake struct {
	productos map[int64]*productoFake
}

func (f *productoRepoFake) SnapshotParaPedido(_ context.Context, _ db.Querier, productoID int64) (*models.ProductoSnapshot, error) {
	producto, ok := f.productos[productoID]
	if !ok {
		return nil, nil
	}
	snap := producto.ProductoSnapshot
	return &snap, nil
}

func (f *productoRepoFake) Activos(_ context.Context, _ db.Querier) ([]models.ProductoResumen, error) {
	var ids []int64
	for id := range f.productos {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var resumenes []models.ProductoResumen
	for _, id := range ids {
		p := f.productos[id]
		resumenes = append(resumenes, models.ProductoResumen{ID: p.ID, Nombre: p.Nombre, CodigoSKU: p.CodigoSKU})
	}
	return resumenes, nil
}

func (f *productoRepoFake) DescontarStock(_ context.Context, _ db.Querier, productoID int64, cantidad int) error {
	if producto, ok := f.productos[productoID]; ok && producto.ManejaStock {
		producto.StockActual -= int64(cantidad)
	}
	return nil
}

func (f *productoRepoFake) ImagenURL(_ context.Context, _ db.Querier, productoID int64) (string, bool, error) {
	producto, ok := f.productos[productoID]
	if !ok || producto.ImagenURL == "" {
		return "", false, nil
	}
	return producto.ImagenURL, true, nil
}

type listaRepoFake struct {
	listas  map[int64]*models.ListaDePrecios
	precios map[[2]int64]int64 // (listaID, productoID) → precio
}

func nuevoListaRepoFake() *listaRepoFake {
	return &listaRepoFake{
		listas:  map[int64]*models.ListaDePrecios{},
		precios: map[[2]int64]int64{},
	}
}

func (f *listaRepoFake) Existe(_ context.Context, _ db.Querier, listaID int64) (bool, error) {
	_, ok := f.listas[listaID]
	return ok, nil
}

func (f *listaRepoFake) IDPorNombre(_ context.Context, _ db.Querier, nombre string) (int64, bool, error) {
	var id int64
	for listaID, lista := range f.listas {
		if lista.Nombre == nombre && (id == 0 || listaID < id) {
			id = listaID
		}
	}
	return id, id != 0, nil
}

func (f *listaRepoFake) MenorID(_ context.Context, _ db.Querier) (int64, bool, error) {
	var id int64
	for listaID := range f.listas {
		if id == 0 || listaID < id {
			id = listaID
		}
	}
	return id, id != 0, nil
}

func (f *listaRepoFake) PrecioDeProducto(_ context.Context, _ db.Querier, listaID, productoID int64) (int64, bool, error) {
	precio, ok := f.precios[[2]int64{listaID, productoID}]
	return precio, ok, nil
}

func (f *listaRepoFake) Listar(_ context.Context, _ db.Querier) ([]models.ListaDePrecios, error) {
	var listas []models.ListaDePrecios
	for _, lista := range f.listas {
		listas = append(listas, *lista)
	}
	return listas, nil
}

func (f *listaRepoFake) PorID(_ context.Context, _ db.Querier, listaID int64) (*models.ListaDePrecios, error) {
	lista, ok := f.listas[listaID]
	if !ok {
		return nil, nil
	}
	copia := *lista
	return &copia, nil
}

func (f *listaRepoFake) Items(_ context.Context, _ db.Querier, listaID int64) ([]models.ListaPrecioItem, error) {
	var items []models.ListaPrecioItem
	for clave, precio := range f.precios {
		if clave[0] == listaID {
			items = append(items, models.ListaPrecioItem{ProductoID: clave[1], Precio: precio})
		}
	}
	return items, nil
}

func (f *listaRepoFake) Crear(_ context.Context, _ db.Querier, nombre string) (int64, error) {
	id := int64(len(f.listas) + 1)
	f.listas[id] = &models.ListaDePrecios{ID: id, Nombre: nombre, FechaCreacion: time.Now()}
	return id, nil
}

func (f *listaRepoFake) DuplicarItems(_ context.Context, _ db.Querier, destinoID, origenID int64) (int64, error) {
	var copiados int64
	for clave, precio := range f.precios {
		if clave[0] == origenID {
			f.precios[[2]int64{destinoID, clave[1]}] = precio
			copiados++
		}
	}
	return copiados, nil
}

func (f *listaRepoFake) DesactivarTodas(_ context.Context, _ db.Querier) error {
	for _, lista := range f.listas {
		lista.Activa = false
	}
	return nil
}

func (f *listaRepoFake) Activar(_ context.Context, _ db.Querier, listaID int64) (string, bool, error) {
	lista, ok := f.listas[listaID]
	if !ok {
		return "", false, nil
	}
	lista.Activa = true
	return lista.Nombre, true, nil
}

type registroActividad struct {
	Accion  string
	Detalle string
}

type actividadRepoFake struct {
	registros []registroActividad
}

func (f *actividadRepoFake) Registrar(_ context.Context, _ db.Querier, _ models.Actor, accion, detalle string) error {
	f.registros = append(f.registros, registroActividad{Accion: accion, Detalle: detalle})
	return nil
}

func (f *actividadRepoFake) Ultimas(_ context.Context, _ db.Querier, limite int) ([]models.Actividad, error) {
	var entradas []models.Actividad
	for i := len(f.registros) - 1; i >= 0 && len(entradas) < limite; i-- {
		entradas = append(entradas, models.Actividad{Accion: f.registros[i].Accion, Detalle: f.registros[i].Detalle})
	}
	return entradas, nil
}

type faltantesRepoFake struct {
	registros []models.RegistroFaltante
}

func (f *faltantesRepoFake) Registrar(_ context.Context, _ db.Querier, faltante *models.RegistroFaltante) error {
	faltante.ID = int64(len(f.registros) + 1)
	f.registros = append(f.registros, *faltante)
	return nil
}

func (f *faltantesRepoFake) ReporteUltimas24h(_ context.Context, _ db.Querier) ([]models.FaltanteAgregado, error) {
	totales := map[string]int{}
	for _, registro := range f.registros {
		totales[registro.NombreProducto] += registro.CantidadOriginal
	}
	var reporte []models.FaltanteAgregado
	for nombre, total := range totales {
		reporte = append(reporte, models.FaltanteAgregado{NombreProducto: nombre, TotalFaltante: total})
	}
	return reporte, nil
}

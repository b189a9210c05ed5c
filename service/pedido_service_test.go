package service_test

import (
	"context"
	"testing"
	"time"

	"distrimaxi-api/models"
	"distrimaxi-api/pricing"
	"distrimaxi-api/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	admin    = models.Actor{ID: 1, Nombre: "Ana", Rol: models.RolAdmin}
	vendedor = models.Actor{ID: 2, Nombre: "Víctor", Rol: models.RolVendedor}
	deposito = models.Actor{ID: 3, Nombre: "Darío", Rol: models.RolDeposito}
)

type entorno struct {
	svc       *service.PedidoService
	pedidos   *pedidoRepoFake
	clientes  *clienteRepoFake
	productos *productoRepoFake
	listas    *listaRepoFake
	actividad *actividadRepoFake
	faltantes *faltantesRepoFake
}

func nuevoEntorno() *entorno {
	e := &entorno{
		pedidos:  nuevoPedidoRepoFake(),
		clientes: &clienteRepoFake{existentes: map[int64]bool{1: true, 2: true}},
		productos: &productoRepoFake{productos: map[int64]*productoFake{
			10: {ProductoSnapshot: models.ProductoSnapshot{ID: 10, Nombre: "Harina 000 x1kg", CodigoSKU: "0042", PrecioUnitario: 900, Disponible: true}, ManejaStock: true, StockActual: 100},
			11: {ProductoSnapshot: models.ProductoSnapshot{ID: 11, Nombre: "Azúcar x1kg", CodigoSKU: "0050", PrecioUnitario: 1200, Disponible: true}},
			12: {ProductoSnapshot: models.ProductoSnapshot{ID: 12, Nombre: "Yerba x500g", CodigoSKU: "0060", PrecioUnitario: 2100, Disponible: false}},
		}},
		listas:    nuevoListaRepoFake(),
		actividad: &actividadRepoFake{},
		faltantes: &faltantesRepoFake{},
	}
	resolver := pricing.NewResolver(e.productos, e.listas)
	e.svc = service.NewPedidoService(nil, txFake{}, e.pedidos, e.clientes, e.productos, e.actividad, e.faltantes, resolver)
	return e
}

func (e *entorno) acciones() []string {
	var acciones []string
	for _, registro := range e.actividad.registros {
		acciones = append(acciones, registro.Accion)
	}
	return acciones
}

func crearPedidoBase(t *testing.T, e *entorno, items []models.ItemPedidoInput) *models.Pedido {
	t.Helper()
	pedido, err := e.svc.Crear(context.Background(), vendedor, models.CrearPedidoRequest{
		ClienteID: 1,
		Items:     items,
	})
	require.NoError(t, err)
	return pedido
}

func TestCrear(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("rejects an empty line list and persists nothing", func(t *testing.T) {
		t.Parallel()
		e := nuevoEntorno()

		_, err := e.svc.Crear(ctx, vendedor, models.CrearPedidoRequest{ClienteID: 1})
		assert.ErrorIs(t, err, service.ErrPedidoSinItems)
		assert.Empty(t, e.pedidos.pedidos)
		assert.Empty(t, e.actividad.registros)
	})

	t.Run("rejects an unknown client with the stale-client error", func(t *testing.T) {
		t.Parallel()
		e := nuevoEntorno()

		_, err := e.svc.Crear(ctx, vendedor, models.CrearPedidoRequest{
			ClienteID: 99,
			Items:     []models.ItemPedidoInput{{ProductoID: 10, Cantidad: 1}},
		})
		assert.ErrorIs(t, err, service.ErrClienteNoSincronizado)
		assert.Empty(t, e.pedidos.pedidos)
	})

	t.Run("rejects non-positive quantities", func(t *testing.T) {
		t.Parallel()
		e := nuevoEntorno()

		_, err := e.svc.Crear(ctx, vendedor, models.CrearPedidoRequest{
			ClienteID: 1,
			Items:     []models.ItemPedidoInput{{ProductoID: 10, Cantidad: 0}},
		})
		assert.ErrorIs(t, err, service.ErrCantidadInvalida)
	})

	t.Run("freezes catalog facts into the lines", func(t *testing.T) {
		t.Parallel()
		e := nuevoEntorno()

		pedido := crearPedidoBase(t, e, []models.ItemPedidoInput{
			{ProductoID: 10, Cantidad: 3},
			{ProductoID: 12, Cantidad: 1},
		})

		require.Len(t, pedido.Items, 2)
		assert.Equal(t, models.EstadoPendiente, pedido.Estado)
		assert.Equal(t, int64(900), pedido.Items[0].PrecioCongelado)
		assert.Equal(t, "Harina 000 x1kg", pedido.Items[0].NombreProducto)
		assert.False(t, pedido.Items[0].AvisoFaltante)
		assert.True(t, pedido.Items[1].AvisoFaltante, "unavailable producto marks its line")

		// A later catalog change never touches the frozen snapshot.
		e.productos.productos[10].PrecioUnitario = 9999
		guardados, err := e.pedidos.ItemsDePedido(ctx, nil, pedido.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(900), guardados[0].PrecioCongelado)

		assert.Equal(t, []string{models.AccionCrearPedido}, e.acciones())
	})

	t.Run("prices from the General lista when none is requested", func(t *testing.T) {
		t.Parallel()
		e := nuevoEntorno()
		e.listas.listas[1] = &models.ListaDePrecios{ID: 1, Nombre: "General"}
		e.listas.precios[[2]int64{1, 10}] = 850

		pedido := crearPedidoBase(t, e, []models.ItemPedidoInput{{ProductoID: 10, Cantidad: 2}})

		require.NotNil(t, pedido.ListaID)
		assert.Equal(t, int64(1), *pedido.ListaID)
		assert.Equal(t, int64(850), pedido.Items[0].PrecioCongelado)
	})

	t.Run("aborts when a lista has no price for a producto", func(t *testing.T) {
		t.Parallel()
		e := nuevoEntorno()
		e.listas.listas[1] = &models.ListaDePrecios{ID: 1, Nombre: "General"}

		_, err := e.svc.Crear(ctx, vendedor, models.CrearPedidoRequest{
			ClienteID: 1,
			Items:     []models.ItemPedidoInput{{ProductoID: 10, Cantidad: 2}},
		})
		assert.ErrorIs(t, err, pricing.ErrProductoSinPrecio)
	})

	t.Run("runs post-commit hooks with the backup narrative", func(t *testing.T) {
		t.Parallel()
		e := nuevoEntorno()

		var recibido *models.RespaldoPedido
		e.svc.AgregarHook(service.PostCommitHook{
			Nombre: "captura",
			Run: func(_ context.Context, respaldo *models.RespaldoPedido) error {
				recibido = respaldo
				return nil
			},
		})

		pedido := crearPedidoBase(t, e, []models.ItemPedidoInput{{ProductoID: 10, Cantidad: 3}})

		require.NotNil(t, recibido)
		assert.Equal(t, pedido.ID, recibido.PedidoID)
		assert.Contains(t, recibido.Contenido(), "Cliente ID: 1")
		assert.Contains(t, recibido.Contenido(), "- (3x) Harina 000 x1kg (SKU: 0042) @ $900")
	})
}

func TestActualizar(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("edit window expires after 12 hours for non-admins", func(t *testing.T) {
		t.Parallel()
		e := nuevoEntorno()
		pedido := crearPedidoBase(t, e, []models.ItemPedidoInput{{ProductoID: 10, Cantidad: 3}})
		e.pedidos.pedidos[pedido.ID].FechaCreacion = time.Now().Add(-13 * time.Hour)

		_, err := e.svc.Actualizar(ctx, vendedor, pedido.ID, models.ActualizarPedidoRequest{
			Items: []models.ItemPedidoInput{{ProductoID: 10, Cantidad: 1}},
		})
		assert.ErrorIs(t, err, service.ErrVentanaEdicionExpirada)

		guardados, err := e.pedidos.ItemsDePedido(ctx, nil, pedido.ID)
		require.NoError(t, err)
		require.Len(t, guardados, 1)
		assert.Equal(t, 3, guardados[0].Cantidad, "lines stay untouched")
	})

	t.Run("only the creator or an admin may edit", func(t *testing.T) {
		t.Parallel()
		e := nuevoEntorno()
		pedido := crearPedidoBase(t, e, []models.ItemPedidoInput{{ProductoID: 10, Cantidad: 3}})

		otro := models.Actor{ID: 9, Nombre: "Otro", Rol: models.RolVendedor}
		_, err := e.svc.Actualizar(ctx, otro, pedido.ID, models.ActualizarPedidoRequest{
			Items: []models.ItemPedidoInput{{ProductoID: 10, Cantidad: 1}},
		})
		assert.ErrorIs(t, err, service.ErrSinPermiso)

		_, err = e.svc.Actualizar(ctx, admin, pedido.ID, models.ActualizarPedidoRequest{
			Items: []models.ItemPedidoInput{{ProductoID: 10, Cantidad: 1}},
		})
		assert.NoError(t, err)
	})

	t.Run("non-admins cannot edit once the pedido left pendiente", func(t *testing.T) {
		t.Parallel()
		e := nuevoEntorno()
		pedido := crearPedidoBase(t, e, []models.ItemPedidoInput{{ProductoID: 10, Cantidad: 3}})
		e.pedidos.pedidos[pedido.ID].Estado = models.EstadoVisto

		_, err := e.svc.Actualizar(ctx, vendedor, pedido.ID, models.ActualizarPedidoRequest{
			Items: []models.ItemPedidoInput{{ProductoID: 10, Cantidad: 1}},
		})
		assert.ErrorIs(t, err, service.ErrSinPermiso)
	})

	t.Run("dropping a line to zero records exactly one faltante", func(t *testing.T) {
		t.Parallel()
		e := nuevoEntorno()
		pedido := crearPedidoBase(t, e, []models.ItemPedidoInput{
			{ProductoID: 10, Cantidad: 5},
			{ProductoID: 11, Cantidad: 2},
		})

		actualizado, err := e.svc.Actualizar(ctx, vendedor, pedido.ID, models.ActualizarPedidoRequest{
			Items: []models.ItemPedidoInput{
				{ProductoID: 10, Cantidad: 0},
				{ProductoID: 11, Cantidad: 1},
			},
		})
		require.NoError(t, err)

		require.Len(t, e.faltantes.registros, 1)
		assert.Equal(t, "Harina 000 x1kg", e.faltantes.registros[0].NombreProducto)
		assert.Equal(t, 5, e.faltantes.registros[0].CantidadOriginal)

		require.Len(t, actualizado.Items, 1)
		assert.Equal(t, int64(11), actualizado.Items[0].ProductoID)
		assert.Equal(t, []string{models.AccionCrearPedido, models.AccionModificarPedido}, e.acciones())
	})

	t.Run("reducing above zero records no faltante", func(t *testing.T) {
		t.Parallel()
		e := nuevoEntorno()
		pedido := crearPedidoBase(t, e, []models.ItemPedidoInput{{ProductoID: 10, Cantidad: 5}})

		_, err := e.svc.Actualizar(ctx, vendedor, pedido.ID, models.ActualizarPedidoRequest{
			Items: []models.ItemPedidoInput{{ProductoID: 10, Cantidad: 1}},
		})
		require.NoError(t, err)
		assert.Empty(t, e.faltantes.registros)
	})

	t.Run("a no-op edit writes no activity", func(t *testing.T) {
		t.Parallel()
		e := nuevoEntorno()
		pedido := crearPedidoBase(t, e, []models.ItemPedidoInput{{ProductoID: 10, Cantidad: 5}})

		_, err := e.svc.Actualizar(ctx, vendedor, pedido.ID, models.ActualizarPedidoRequest{
			Items: []models.ItemPedidoInput{{ProductoID: 10, Cantidad: 5}},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{models.AccionCrearPedido}, e.acciones())
	})

	t.Run("dropping every line is rejected", func(t *testing.T) {
		t.Parallel()
		e := nuevoEntorno()
		pedido := crearPedidoBase(t, e, []models.ItemPedidoInput{{ProductoID: 10, Cantidad: 5}})

		_, err := e.svc.Actualizar(ctx, vendedor, pedido.ID, models.ActualizarPedidoRequest{
			Items: []models.ItemPedidoInput{{ProductoID: 10, Cantidad: 0}},
		})
		assert.ErrorIs(t, err, service.ErrPedidoSinItems)
	})
}

func TestCambiarEstado(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("vendedores cannot change estados", func(t *testing.T) {
		t.Parallel()
		e := nuevoEntorno()
		pedido := crearPedidoBase(t, e, []models.ItemPedidoInput{{ProductoID: 10, Cantidad: 1}})

		err := e.svc.CambiarEstado(ctx, vendedor, pedido.ID, models.EstadoVisto)
		assert.ErrorIs(t, err, service.ErrSinPermiso)
	})

	t.Run("deposito may only target its allow-list", func(t *testing.T) {
		t.Parallel()
		e := nuevoEntorno()
		pedido := crearPedidoBase(t, e, []models.ItemPedidoInput{{ProductoID: 10, Cantidad: 1}})

		require.NoError(t, e.svc.CambiarEstado(ctx, deposito, pedido.ID, models.EstadoVisto))
		assert.Equal(t, models.EstadoVisto, e.pedidos.pedidos[pedido.ID].Estado)

		err := e.svc.CambiarEstado(ctx, deposito, pedido.ID, models.EstadoArchivado)
		assert.ErrorIs(t, err, service.ErrTransicionNoPermitida)
	})

	t.Run("unknown estados are rejected", func(t *testing.T) {
		t.Parallel()
		e := nuevoEntorno()
		pedido := crearPedidoBase(t, e, []models.ItemPedidoInput{{ProductoID: 10, Cantidad: 1}})

		err := e.svc.CambiarEstado(ctx, admin, pedido.ID, models.Estado("enviado"))
		assert.ErrorIs(t, err, service.ErrEstadoInvalido)
	})

	t.Run("entregado decrements stock once, only for tracked products", func(t *testing.T) {
		t.Parallel()
		e := nuevoEntorno()
		pedido := crearPedidoBase(t, e, []models.ItemPedidoInput{
			{ProductoID: 10, Cantidad: 4},
			{ProductoID: 11, Cantidad: 2},
		})

		require.NoError(t, e.svc.CambiarEstado(ctx, admin, pedido.ID, models.EstadoEntregado))
		assert.Equal(t, int64(96), e.productos.productos[10].StockActual)
		assert.Equal(t, int64(0), e.productos.productos[11].StockActual, "untracked producto unaffected")

		// Re-delivering is rejected by the transition table and must not
		// decrement again.
		err := e.svc.CambiarEstado(ctx, admin, pedido.ID, models.EstadoEntregado)
		assert.ErrorIs(t, err, service.ErrTransicionNoPermitida)
		assert.Equal(t, int64(96), e.productos.productos[10].StockActual)
	})

	t.Run("missing pedido", func(t *testing.T) {
		t.Parallel()
		e := nuevoEntorno()

		err := e.svc.CambiarEstado(ctx, admin, 99, models.EstadoVisto)
		assert.ErrorIs(t, err, service.ErrPedidoNoEncontrado)
	})
}

func TestCombinar(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	sembrarPedido := func(e *entorno, clienteID int64, items []models.PedidoItem) int64 {
		pedido := &models.Pedido{ClienteID: clienteID, UsuarioID: vendedor.ID, Estado: models.EstadoPendiente}
		_ = e.pedidos.Insertar(ctx, nil, pedido)
		for i := range items {
			items[i].PedidoID = pedido.ID
			_ = e.pedidos.InsertarItem(ctx, nil, &items[i])
		}
		return pedido.ID
	}

	t.Run("requires at least two pedidos", func(t *testing.T) {
		t.Parallel()
		e := nuevoEntorno()

		_, err := e.svc.Combinar(ctx, admin, []int64{1})
		assert.ErrorIs(t, err, service.ErrPedidosInsuficientes)
	})

	t.Run("cross-client merges fail before any write", func(t *testing.T) {
		t.Parallel()
		e := nuevoEntorno()
		a := sembrarPedido(e, 1, []models.PedidoItem{{ProductoID: 10, Cantidad: 1, PrecioCongelado: 900, NombreProducto: "Harina 000 x1kg"}})
		b := sembrarPedido(e, 2, []models.PedidoItem{{ProductoID: 10, Cantidad: 2, PrecioCongelado: 900, NombreProducto: "Harina 000 x1kg"}})

		_, err := e.svc.Combinar(ctx, admin, []int64{a, b})
		assert.ErrorIs(t, err, service.ErrClientesDistintos)
		assert.Len(t, e.pedidos.pedidos, 2, "no master pedido created")
		assert.Equal(t, models.EstadoPendiente, e.pedidos.pedidos[a].Estado)
	})

	t.Run("missing pedido aborts the merge", func(t *testing.T) {
		t.Parallel()
		e := nuevoEntorno()
		a := sembrarPedido(e, 1, []models.PedidoItem{{ProductoID: 10, Cantidad: 1, PrecioCongelado: 900, NombreProducto: "Harina 000 x1kg"}})

		_, err := e.svc.Combinar(ctx, admin, []int64{a, 99})
		assert.ErrorIs(t, err, service.ErrPedidoNoEncontrado)
	})

	t.Run("sums shared products, earliest frozen snapshot wins", func(t *testing.T) {
		t.Parallel()
		e := nuevoEntorno()
		a := sembrarPedido(e, 1, []models.PedidoItem{
			{ProductoID: 10, Cantidad: 2, PrecioCongelado: 900, NombreProducto: "Harina 000 x1kg", CodigoSKU: "0042"},
			{ProductoID: 11, Cantidad: 1, PrecioCongelado: 1200, NombreProducto: "Azúcar x1kg"},
		})
		b := sembrarPedido(e, 1, []models.PedidoItem{
			{ProductoID: 10, Cantidad: 3, PrecioCongelado: 850, NombreProducto: "Harina 000 x1kg", CodigoSKU: "0042"},
			{ProductoID: 12, Cantidad: 5, PrecioCongelado: 2100, NombreProducto: "Yerba x500g"},
		})

		maestroID, err := e.svc.Combinar(ctx, admin, []int64{b, a})
		require.NoError(t, err)

		consolidados, err := e.pedidos.ItemsDePedido(ctx, nil, maestroID)
		require.NoError(t, err)
		require.Len(t, consolidados, 3)

		porProducto := map[int64]models.PedidoItem{}
		for _, item := range consolidados {
			porProducto[item.ProductoID] = item
		}
		assert.Equal(t, 5, porProducto[10].Cantidad, "2 + 3")
		assert.Equal(t, int64(900), porProducto[10].PrecioCongelado, "pedido A was created first, its price wins")
		assert.Equal(t, 1, porProducto[11].Cantidad)
		assert.Equal(t, 5, porProducto[12].Cantidad)

		for _, id := range []int64{a, b} {
			fuente := e.pedidos.pedidos[id]
			assert.Equal(t, models.EstadoCombinado, fuente.Estado)
			require.NotNil(t, fuente.PedidoMaestroID)
			assert.Equal(t, maestroID, *fuente.PedidoMaestroID)
		}

		maestro := e.pedidos.pedidos[maestroID]
		assert.Equal(t, models.EstadoPendiente, maestro.Estado)
		assert.Contains(t, maestro.NotasEntrega, "Combinación de pedidos")
		assert.Equal(t, []string{models.AccionCombinarPedidos}, e.acciones())
	})
}

func TestArchivo(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("archive, unarchive and cleanup", func(t *testing.T) {
		t.Parallel()
		e := nuevoEntorno()
		pedido := crearPedidoBase(t, e, []models.ItemPedidoInput{{ProductoID: 10, Cantidad: 1}})

		require.NoError(t, e.svc.CambiarEstado(ctx, admin, pedido.ID, models.EstadoArchivado))
		assert.Equal(t, models.EstadoArchivado, e.pedidos.pedidos[pedido.ID].Estado)

		require.NoError(t, e.svc.Desarchivar(ctx, admin, pedido.ID))
		assert.Equal(t, models.EstadoPendiente, e.pedidos.pedidos[pedido.ID].Estado)

		// A pedido that is not archived cannot be unarchived.
		assert.ErrorIs(t, e.svc.Desarchivar(ctx, admin, pedido.ID), service.ErrNoArchivado)

		require.NoError(t, e.svc.CambiarEstado(ctx, admin, pedido.ID, models.EstadoArchivado))
		eliminados, err := e.svc.LimpiarArchivados(ctx, admin)
		require.NoError(t, err)
		assert.Equal(t, int64(1), eliminados)
		assert.Empty(t, e.pedidos.pedidos)
		assert.Empty(t, e.pedidos.items)
	})

	t.Run("archive paths are admin only", func(t *testing.T) {
		t.Parallel()
		e := nuevoEntorno()
		pedido := crearPedidoBase(t, e, []models.ItemPedidoInput{{ProductoID: 10, Cantidad: 1}})

		assert.ErrorIs(t, e.svc.Desarchivar(ctx, vendedor, pedido.ID), service.ErrSinPermiso)
		_, err := e.svc.LimpiarArchivados(ctx, deposito)
		assert.ErrorIs(t, err, service.ErrSinPermiso)
	})
}

func TestActualizarNotas(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	e := nuevoEntorno()
	pedido := crearPedidoBase(t, e, []models.ItemPedidoInput{{ProductoID: 10, Cantidad: 1}})

	require.NoError(t, e.svc.ActualizarNotas(ctx, vendedor, pedido.ID, "dejar en portería"))
	assert.Equal(t, "dejar en portería", e.pedidos.pedidos[pedido.ID].NotasEntrega)
	assert.Equal(t, []string{models.AccionCrearPedido, models.AccionModificarNotas}, e.acciones())

	otro := models.Actor{ID: 9, Nombre: "Otro", Rol: models.RolVendedor}
	assert.ErrorIs(t, e.svc.ActualizarNotas(ctx, otro, pedido.ID, "x"), service.ErrSinPermiso)
}

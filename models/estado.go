package models

// Estado is the lifecycle status of a pedido.
type Estado string

const (
	EstadoPendiente        Estado = "pendiente"
	EstadoVisto            Estado = "visto"
	EstadoEnPreparacion    Estado = "en_preparacion"
	EstadoListoParaEntrega Estado = "listo_para_entrega"
	EstadoEntregado        Estado = "entregado"
	EstadoCombinado        Estado = "combinado"
	EstadoArchivado        Estado = "archivado"
)

// Valido reports whether e is a known estado.
func (e Estado) Valido() bool {
	switch e {
	case EstadoPendiente, EstadoVisto, EstadoEnPreparacion, EstadoListoParaEntrega,
		EstadoEntregado, EstadoCombinado, EstadoArchivado:
		return true
	}
	return false
}

// siguientesPorEstado lists every estado reachable from a given estado through
// a direct status update. combinado is only ever set by the merge operation and
// is terminal; archivado is left only through the unarchive path back to
// pendiente. entregado is not reachable from itself, so re-delivering an
// already delivered pedido is rejected instead of decrementing stock twice.
var siguientesPorEstado = map[Estado][]Estado{
	EstadoPendiente:        {EstadoVisto, EstadoEnPreparacion, EstadoListoParaEntrega, EstadoEntregado, EstadoArchivado},
	EstadoVisto:            {EstadoPendiente, EstadoEnPreparacion, EstadoListoParaEntrega, EstadoEntregado, EstadoArchivado},
	EstadoEnPreparacion:    {EstadoPendiente, EstadoVisto, EstadoListoParaEntrega, EstadoEntregado, EstadoArchivado},
	EstadoListoParaEntrega: {EstadoPendiente, EstadoVisto, EstadoEnPreparacion, EstadoEntregado, EstadoArchivado},
	EstadoEntregado:        {EstadoPendiente, EstadoVisto, EstadoEnPreparacion, EstadoListoParaEntrega, EstadoArchivado},
	EstadoArchivado:        {EstadoPendiente},
	EstadoCombinado:        {},
}

// estadosPermitidosDeposito is the allow-list of target estados for the
// warehouse role. Any other target is forbidden for deposito.
var estadosPermitidosDeposito = map[Estado]bool{
	EstadoVisto:            true,
	EstadoEnPreparacion:    true,
	EstadoListoParaEntrega: true,
	EstadoEntregado:        true,
}

// TransicionPermitida reports whether rol may move a pedido from desde to
// hacia via a direct status update.
func TransicionPermitida(desde, hacia Estado, rol Rol) bool {
	if rol == RolDeposito && !estadosPermitidosDeposito[hacia] {
		return false
	}
	for _, siguiente := range siguientesPorEstado[desde] {
		if siguiente == hacia {
			return true
		}
	}
	return false
}

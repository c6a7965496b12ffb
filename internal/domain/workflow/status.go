package workflow

type Status string

const (
	StatusPendiente             Status = "pendiente"
	StatusPendienteValidacion   Status = "pendiente_validacion"
	StatusEnRevision            Status = "en_revision"
	StatusAprobadaRevisor       Status = "aprobada_revisor"
	StatusPendienteAutorizacion Status = "pendiente_autorizacion"
	StatusAutorizado            Status = "autorizado"
	StatusAprobadaGerencia      Status = "aprobada_gerencia"
	StatusEnCotizacion          Status = "en_cotizacion"
	StatusCotizada              Status = "cotizada"
	StatusEnOrdenCompra         Status = "en_orden_compra"
	StatusPendienteRecepcion    Status = "pendiente_recepcion"
	StatusEnRecepcion           Status = "en_recepcion"
	StatusRecepcionCompleta     Status = "recepcion_completa"

	StatusRechazadaValidador   Status = "rechazada_validador"
	StatusRechazadaRevisor     Status = "rechazada_revisor"
	StatusRechazadaAutorizador Status = "rechazada_autorizador"
	StatusRechazadaGerencia    Status = "rechazada_gerencia"
)

// AllStatuses lists every status in lifecycle order.
var AllStatuses = []Status{
	StatusPendienteValidacion,
	StatusPendiente,
	StatusEnRevision,
	StatusAprobadaRevisor,
	StatusPendienteAutorizacion,
	StatusAutorizado,
	StatusAprobadaGerencia,
	StatusEnCotizacion,
	StatusCotizada,
	StatusEnOrdenCompra,
	StatusPendienteRecepcion,
	StatusEnRecepcion,
	StatusRecepcionCompleta,
	StatusRechazadaValidador,
	StatusRechazadaRevisor,
	StatusRechazadaAutorizador,
	StatusRechazadaGerencia,
}

func (s Status) Valid() bool {
	for _, v := range AllStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// IsRejection reports whether s is one of the rechazada_* statuses.
func (s Status) IsRejection() bool {
	_, ok := rejectedBy[s]
	return ok
}

func (s Status) Terminal() bool { return s == StatusRecepcionCompleta }

// downstream holds the single steps external subsystems may write once
// management approval is done.
var downstream = map[Status][]Status{
	StatusAprobadaGerencia:   {StatusEnCotizacion},
	StatusEnCotizacion:       {StatusCotizada},
	StatusCotizada:           {StatusEnOrdenCompra},
	StatusEnOrdenCompra:      {StatusPendienteRecepcion},
	StatusPendienteRecepcion: {StatusEnRecepcion},
	StatusEnRecepcion:        {StatusRecepcionCompleta, StatusPendienteRecepcion},
}

// CanAdvanceDownstream reports whether an external subsystem may move a
// requisition from `from` to `to`.
func CanAdvanceDownstream(from, to Status) bool {
	for _, next := range downstream[from] {
		if next == to {
			return true
		}
	}
	return false
}

package workflow

// Gate is one human approval stage.
type Gate string

const (
	GateValidate          Gate = "validate"
	GateReview            Gate = "review"
	GateAuthorize         Gate = "authorize"
	GateApproveManagement Gate = "approve_management"
)

var AllGates = []Gate{GateValidate, GateReview, GateAuthorize, GateApproveManagement}

func ParseGate(s string) (Gate, bool) {
	for _, g := range AllGates {
		if string(g) == s {
			return g, true
		}
	}
	return "", false
}

// GateType is the delegation kind stored on an authorization edge.
type GateType string

const (
	GateTypeRevision     GateType = "revision"
	GateTypeAutorizacion GateType = "autorizacion"
	GateTypeAprobacion   GateType = "aprobacion"
)

func (t GateType) Valid() bool {
	switch t {
	case GateTypeRevision, GateTypeAutorizacion, GateTypeAprobacion:
		return true
	}
	return false
}

// Action tags every approval log entry.
type Action string

const (
	ActionCrear             Action = "crear"
	ActionEnviarValidacion  Action = "enviar_validacion"
	ActionIniciarRevision   Action = "iniciar_revision"
	ActionValidarAprobar    Action = "validar_aprobar"
	ActionRevisarAprobar    Action = "revisar_aprobar"
	ActionAutorizarAprobar  Action = "autorizar_aprobar"
	ActionAprobarGerencia   Action = "aprobar_gerencia"
	ActionRechazarValidador Action = "rechazar_validador"
	ActionRechazarRevisor   Action = "rechazar_revisor"
	ActionRechazarAutoriz   Action = "rechazar_autorizador"
	ActionRechazarGerencia  Action = "rechazar_gerencia"
	ActionEditarReenviar    Action = "editar_reenviar"
	ActionEstadoExterno     Action = "estado_externo"
)

// Decision is an item-level verdict.
type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionRejected Decision = "rejected"
)

func (d Decision) Valid() bool { return d == DecisionApproved || d == DecisionRejected }

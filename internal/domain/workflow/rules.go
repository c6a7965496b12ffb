package workflow

// Rule is one row of the gate transition table.
type Rule struct {
	Gate Gate
	From []Status
	// Approve is the status reached when every item is approved.
	Approve Status
	// ApproveRouted, when set, replaces Approve once the next gate already
	// has a known actor (review -> pendiente_autorizacion).
	ApproveRouted Status
	Reject        Status
	// EntryStatus is the canonical status a resubmitted requisition returns
	// to when its history does not say otherwise.
	EntryStatus   Status
	GateType      GateType // empty for role-only gates
	ApproveAction Action
	RejectAction  Action
}

// Rules is the single source of truth for gate transitions.
var Rules = map[Gate]Rule{
	GateValidate: {
		Gate:          GateValidate,
		From:          []Status{StatusPendienteValidacion},
		Approve:       StatusPendiente,
		Reject:        StatusRechazadaValidador,
		EntryStatus:   StatusPendienteValidacion,
		ApproveAction: ActionValidarAprobar,
		RejectAction:  ActionRechazarValidador,
	},
	GateReview: {
		Gate:          GateReview,
		From:          []Status{StatusPendiente, StatusEnRevision},
		Approve:       StatusAprobadaRevisor,
		ApproveRouted: StatusPendienteAutorizacion,
		Reject:        StatusRechazadaRevisor,
		EntryStatus:   StatusPendiente,
		GateType:      GateTypeRevision,
		ApproveAction: ActionRevisarAprobar,
		RejectAction:  ActionRechazarRevisor,
	},
	GateAuthorize: {
		Gate:          GateAuthorize,
		From:          []Status{StatusAprobadaRevisor, StatusPendienteAutorizacion},
		Approve:       StatusAutorizado,
		Reject:        StatusRechazadaAutorizador,
		EntryStatus:   StatusAprobadaRevisor,
		GateType:      GateTypeAutorizacion,
		ApproveAction: ActionAutorizarAprobar,
		RejectAction:  ActionRechazarAutoriz,
	},
	GateApproveManagement: {
		Gate:          GateApproveManagement,
		From:          []Status{StatusAutorizado},
		Approve:       StatusAprobadaGerencia,
		Reject:        StatusRechazadaGerencia,
		EntryStatus:   StatusAutorizado,
		GateType:      GateTypeAprobacion,
		ApproveAction: ActionAprobarGerencia,
		RejectAction:  ActionRechazarGerencia,
	},
}

var rejectedBy = func() map[Status]Gate {
	m := make(map[Status]Gate, len(Rules))
	for g, r := range Rules {
		m[r.Reject] = g
	}
	return m
}()

func RuleFor(g Gate) (Rule, bool) {
	r, ok := Rules[g]
	return r, ok
}

func (r Rule) Accepts(s Status) bool {
	for _, f := range r.From {
		if f == s {
			return true
		}
	}
	return false
}

// Target returns the status reached on an aggregated outcome.
func (r Rule) Target(approved, routed bool) Status {
	switch {
	case !approved:
		return r.Reject
	case routed && r.ApproveRouted != "":
		return r.ApproveRouted
	default:
		return r.Approve
	}
}

// GateRejectedBy returns the gate whose rejection produced status s.
func GateRejectedBy(s Status) (Gate, bool) {
	g, ok := rejectedBy[s]
	return g, ok
}

// PendingGate returns the gate a requisition in status s is waiting on.
func PendingGate(s Status) (Gate, bool) {
	for _, g := range AllGates {
		if Rules[g].Accepts(s) {
			return g, true
		}
	}
	return "", false
}

// Editable reports whether the creator may edit and resubmit.
func Editable(s Status) bool { return s.IsRejection() }

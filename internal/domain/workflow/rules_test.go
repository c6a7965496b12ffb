package workflow

import (
	"errors"
	"strings"
	"testing"
)

func TestRules_CoverEveryGate(t *testing.T) {
	for _, g := range AllGates {
		r, ok := RuleFor(g)
		if !ok {
			t.Fatalf("gate %s has no rule", g)
		}
		if r.Gate != g {
			t.Fatalf("rule for %s is keyed as %s", g, r.Gate)
		}
		if len(r.From) == 0 || r.Approve == "" || r.Reject == "" || r.EntryStatus == "" {
			t.Fatalf("rule for %s is incomplete: %+v", g, r)
		}
		if !r.Reject.IsRejection() {
			t.Fatalf("reject status %s of %s is not a rejection", r.Reject, g)
		}
		if !r.Accepts(r.EntryStatus) {
			t.Fatalf("entry status %s not accepted by %s", r.EntryStatus, g)
		}
	}
	if len(Rules) != len(AllGates) {
		t.Fatalf("rules=%d gates=%d", len(Rules), len(AllGates))
	}
}

func TestRejectionStatuses_MapBackToGate(t *testing.T) {
	n := 0
	for _, s := range AllStatuses {
		if !strings.HasPrefix(string(s), "rechazada_") {
			continue
		}
		n++
		g, ok := GateRejectedBy(s)
		if !ok {
			t.Fatalf("%s has no rejecting gate", s)
		}
		if Rules[g].Reject != s {
			t.Fatalf("%s maps to %s which rejects to %s", s, g, Rules[g].Reject)
		}
		if !Editable(s) {
			t.Fatalf("%s must be editable", s)
		}
	}
	if n != 4 {
		t.Fatalf("want 4 rejection statuses, got %d", n)
	}
}

func TestTransitionTable(t *testing.T) {
	tests := []struct {
		gate     Gate
		from     Status
		approved bool
		routed   bool
		want     Status
	}{
		{GateValidate, StatusPendienteValidacion, true, false, StatusPendiente},
		{GateValidate, StatusPendienteValidacion, false, false, StatusRechazadaValidador},
		{GateReview, StatusPendiente, true, false, StatusAprobadaRevisor},
		{GateReview, StatusEnRevision, true, true, StatusPendienteAutorizacion},
		{GateReview, StatusEnRevision, false, true, StatusRechazadaRevisor},
		{GateAuthorize, StatusAprobadaRevisor, true, false, StatusAutorizado},
		{GateAuthorize, StatusPendienteAutorizacion, true, true, StatusAutorizado},
		{GateAuthorize, StatusPendienteAutorizacion, false, false, StatusRechazadaAutorizador},
		{GateApproveManagement, StatusAutorizado, true, false, StatusAprobadaGerencia},
		{GateApproveManagement, StatusAutorizado, false, false, StatusRechazadaGerencia},
	}
	for _, tt := range tests {
		r := Rules[tt.gate]
		if !r.Accepts(tt.from) {
			t.Fatalf("%s should accept %s", tt.gate, tt.from)
		}
		if got := r.Target(tt.approved, tt.routed); got != tt.want {
			t.Fatalf("%s from %s approved=%v routed=%v: got %s want %s", tt.gate, tt.from, tt.approved, tt.routed, got, tt.want)
		}
	}
}

func TestAccepts_RejectsEverythingOutsideTable(t *testing.T) {
	legal := map[Gate]map[Status]bool{
		GateValidate:          {StatusPendienteValidacion: true},
		GateReview:            {StatusPendiente: true, StatusEnRevision: true},
		GateAuthorize:         {StatusAprobadaRevisor: true, StatusPendienteAutorizacion: true},
		GateApproveManagement: {StatusAutorizado: true},
	}
	for _, g := range AllGates {
		for _, s := range AllStatuses {
			if got := Rules[g].Accepts(s); got != legal[g][s] {
				t.Fatalf("Accepts(%s, %s) = %v", g, s, got)
			}
		}
	}
}

func TestPendingGate(t *testing.T) {
	cases := map[Status]Gate{
		StatusPendienteValidacion:   GateValidate,
		StatusPendiente:             GateReview,
		StatusEnRevision:            GateReview,
		StatusAprobadaRevisor:       GateAuthorize,
		StatusPendienteAutorizacion: GateAuthorize,
		StatusAutorizado:            GateApproveManagement,
	}
	for s, want := range cases {
		got, ok := PendingGate(s)
		if !ok || got != want {
			t.Fatalf("PendingGate(%s) = %s,%v want %s", s, got, ok, want)
		}
	}
	for _, s := range []Status{StatusAprobadaGerencia, StatusRechazadaRevisor, StatusRecepcionCompleta} {
		if _, ok := PendingGate(s); ok {
			t.Fatalf("%s should not wait on a gate", s)
		}
	}
}

func TestCanAdvanceDownstream(t *testing.T) {
	if !CanAdvanceDownstream(StatusAprobadaGerencia, StatusEnCotizacion) {
		t.Fatal("aprobada_gerencia -> en_cotizacion must be allowed")
	}
	if !CanAdvanceDownstream(StatusEnRecepcion, StatusPendienteRecepcion) {
		t.Fatal("partial receipt must be allowed")
	}
	if CanAdvanceDownstream(StatusAprobadaGerencia, StatusRecepcionCompleta) {
		t.Fatal("skipping steps must not be allowed")
	}
	if CanAdvanceDownstream(StatusAutorizado, StatusEnCotizacion) {
		t.Fatal("approval gates are not downstream steps")
	}
	if !StatusRecepcionCompleta.Terminal() {
		t.Fatal("recepcion_completa is terminal")
	}
}

func TestDecisionError_IsKind(t *testing.T) {
	err := &DecisionError{Kind: ErrValidation, Issues: []ItemIssue{{ItemNumber: 3, MaterialID: "m3", Reason: "comments required"}}}
	if !errors.Is(err, ErrValidation) {
		t.Fatal("errors.Is must match Kind")
	}
	if !strings.Contains(err.Error(), "item 3 (m3): comments required") {
		t.Fatalf("message = %q", err.Error())
	}
}

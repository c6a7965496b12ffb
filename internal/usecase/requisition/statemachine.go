package requisition

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"procurement-approval/internal/domain/approval"
	domain "procurement-approval/internal/domain/requisition"
	"procurement-approval/internal/domain/sla"
	"procurement-approval/internal/domain/uow"
	"procurement-approval/internal/domain/workflow"
	"procurement-approval/internal/usecase/authz"
	"procurement-approval/internal/usecase/ledger"
	"procurement-approval/pkg/id"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RoleChecker opens the role based gates (validate, approve_management) and
// admits the external subsystems that report downstream progress.
type RoleChecker interface {
	Allowed(actor string, gate workflow.Gate) (bool, error)
	CanAdvanceDownstream(actor string) (bool, error)
}

// StateMachine applies transitions to a requisition that is already locked
// inside a transaction. It never commits; the caller's unit of work does.
type StateMachine struct {
	clock *sla.Clock
	roles RoleChecker
	now   func() time.Time
}

func NewStateMachine(clock *sla.Clock, roles RoleChecker, now func() time.Time) *StateMachine {
	if now == nil {
		now = time.Now
	}
	return &StateMachine{clock: clock, roles: roles, now: now}
}

// Outcome is what a transition left behind.
type Outcome struct {
	Previous   workflow.Status
	Status     workflow.Status
	Generation int
	Rejected   []workflow.ItemIssue
	At         time.Time
}

// ApplyGateDecision runs one gate round. Checks run in a fixed order:
// authorization, legality, completeness, validity. Nothing is written
// unless all of them pass.
func (m *StateMachine) ApplyGateDecision(ctx context.Context, r uow.Repos, req *domain.Requisition, in GateDecisionInput, codes map[string]string) (*Outcome, error) {
	rule, ok := workflow.RuleFor(in.Gate)
	if !ok {
		return nil, fmt.Errorf("%w: unknown gate %q", workflow.ErrValidation, in.Gate)
	}
	graph := authz.NewGraph(r.Edges, nil)

	if err := m.authorize(ctx, graph, rule, in.ActorID, req.CreatorID); err != nil {
		return nil, err
	}
	if !rule.Accepts(req.Status) {
		return nil, workflow.Illegal(req.Status, string(in.Gate))
	}
	decisions, err := checkDecisions(req.Items, in.Decisions)
	if err != nil {
		return nil, err
	}

	approved := true
	var rejected []workflow.ItemIssue
	for _, d := range decisions {
		if d.Status == workflow.DecisionRejected {
			approved = false
			rejected = append(rejected, workflow.ItemIssue{ItemNumber: d.ItemNumber, MaterialID: d.MaterialID, Reason: d.Comments})
		}
	}

	routed := false
	if approved && rule.ApproveRouted != "" {
		if routed, err = graph.HasAuthorizer(ctx, req.CreatorID, workflow.GateTypeAutorizacion); err != nil {
			return nil, err
		}
	}

	now := m.now().UTC()
	gen, err := ledger.New(r.ItemApprovals).RecordDecisions(ctx, req.ID, in.Gate, decisions, in.ActorID, now)
	if err != nil {
		return nil, err
	}

	action, comments := rule.ApproveAction, strings.TrimSpace(in.Comments)
	if !approved {
		action, comments = rule.RejectAction, rejectionComments(comments, rejected, codes)
	}
	meta := approval.LogMetadata{Gate: in.Gate, Generation: gen, RejectedItems: rejected, Items: len(decisions)}

	out, err := m.transition(ctx, r, req, rule.Target(approved, routed), action, in.ActorID, comments, meta, false)
	if err != nil {
		return nil, err
	}
	out.Generation = gen
	out.Rejected = rejected
	return out, nil
}

// ApplyResubmit applies the creator's edits to a rejected requisition and
// sends it back to the gate that rejected it. Only that gate's ledger rows
// are invalidated.
func (m *StateMachine) ApplyResubmit(ctx context.Context, r uow.Repos, req *domain.Requisition, in EditInput) (*Outcome, error) {
	if in.ActorID != req.CreatorID {
		return nil, fmt.Errorf("%w: only the creator may edit requisition %s", workflow.ErrForbidden, req.RequisitionNumber)
	}
	if !workflow.Editable(req.Status) {
		return nil, workflow.Illegal(req.Status, "edit and resubmit")
	}
	gate, _ := workflow.GateRejectedBy(req.Status)
	rule, _ := workflow.RuleFor(gate)

	items, err := mergeItems(req, in.Items)
	if err != nil {
		return nil, err
	}
	if in.Priority != nil {
		if !in.Priority.Valid() {
			return nil, fmt.Errorf("%w: unknown priority %q", workflow.ErrValidation, *in.Priority)
		}
		req.Priority = *in.Priority
	}
	if in.Justification != nil {
		req.Justification = *in.Justification
	}

	if err := r.Requisitions.ReplaceItems(ctx, req.ID, items); err != nil {
		return nil, err
	}
	req.Items = items
	if _, err := ledger.New(r.ItemApprovals).Invalidate(ctx, req.ID, gate); err != nil {
		return nil, err
	}

	target := rule.EntryStatus
	entry, err := r.Logs.LastByNewStatus(ctx, req.ID, req.Status)
	switch {
	case err == nil && rule.Accepts(entry.PreviousStatus):
		target = entry.PreviousStatus
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	meta := approval.LogMetadata{Gate: gate, Items: len(items)}
	return m.transition(ctx, r, req, target, workflow.ActionEditarReenviar, in.ActorID, strings.TrimSpace(in.Comments), meta, false)
}

// SubmitForValidation stamps the validation deadline once; the status does
// not change.
func (m *StateMachine) SubmitForValidation(ctx context.Context, r uow.Repos, req *domain.Requisition, actor string) (*Outcome, error) {
	if actor != req.CreatorID {
		return nil, fmt.Errorf("%w: only the creator may submit requisition %s", workflow.ErrForbidden, req.RequisitionNumber)
	}
	if req.Status != workflow.StatusPendienteValidacion {
		return nil, workflow.Illegal(req.Status, "submit for validation")
	}
	if req.SubmittedAt != nil {
		return nil, fmt.Errorf("%w: requisition %s already submitted", workflow.ErrIllegalTransition, req.RequisitionNumber)
	}
	now := m.now().UTC()
	req.SubmittedAt = &now
	return m.transition(ctx, r, req, workflow.StatusPendienteValidacion, workflow.ActionEnviarValidacion, actor, "", approval.LogMetadata{Gate: workflow.GateValidate}, false)
}

// StartReview marks that a reviewer picked the requisition up. The review
// deadline keeps running.
func (m *StateMachine) StartReview(ctx context.Context, r uow.Repos, req *domain.Requisition, actor string) (*Outcome, error) {
	rule, _ := workflow.RuleFor(workflow.GateReview)
	if err := m.authorize(ctx, authz.NewGraph(r.Edges, nil), rule, actor, req.CreatorID); err != nil {
		return nil, err
	}
	if req.Status != workflow.StatusPendiente {
		return nil, workflow.Illegal(req.Status, "start review")
	}
	return m.transition(ctx, r, req, workflow.StatusEnRevision, workflow.ActionIniciarRevision, actor, "", approval.LogMetadata{Gate: workflow.GateReview}, true)
}

// AdvanceDownstream records one step reported by the quotation, purchasing
// or receiving subsystems.
func (m *StateMachine) AdvanceDownstream(ctx context.Context, r uow.Repos, req *domain.Requisition, in AdvanceInput) (*Outcome, error) {
	allowed := false
	if m.roles != nil {
		var err error
		if allowed, err = m.roles.CanAdvanceDownstream(in.ActorID); err != nil {
			return nil, err
		}
	}
	if !allowed {
		return nil, fmt.Errorf("%w: %s is not a downstream subsystem", workflow.ErrForbidden, in.ActorID)
	}
	if !workflow.CanAdvanceDownstream(req.Status, in.Target) {
		return nil, workflow.Illegal(req.Status, "move to "+string(in.Target))
	}
	return m.transition(ctx, r, req, in.Target, workflow.ActionEstadoExterno, in.ActorID, strings.TrimSpace(in.Comments), approval.LogMetadata{}, false)
}

func (m *StateMachine) authorize(ctx context.Context, graph *authz.Graph, rule workflow.Rule, actor, creator string) error {
	if m.roles != nil {
		ok, err := m.roles.Allowed(actor, rule.Gate)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	if rule.GateType != "" {
		ok, err := graph.CanAct(ctx, actor, creator, rule.GateType)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	return fmt.Errorf("%w: %s may not act at %s on requisitions of %s", workflow.ErrForbidden, actor, rule.Gate, creator)
}

// transition persists the header with a version check and appends the log
// entry. keepDeadline leaves sla_deadline untouched.
func (m *StateMachine) transition(ctx context.Context, r uow.Repos, req *domain.Requisition, to workflow.Status, action workflow.Action, actor, comments string, meta approval.LogMetadata, keepDeadline bool) (*Outcome, error) {
	now := m.now().UTC()
	prev := req.Status

	req.Status = to
	req.StatusUpdatedAt = now
	if !keepDeadline {
		req.SLADeadline = m.clock.DeadlineFor(to, now)
	}
	if err := r.Requisitions.UpdateHeader(ctx, req); err != nil {
		return nil, err
	}

	raw, err := json.Marshal(meta)
	if err != nil {
		return nil, err
	}
	entry := &approval.LogEntry{
		LogID:          id.NewID32(),
		RequisitionID:  req.ID,
		Action:         action,
		PreviousStatus: prev,
		NewStatus:      to,
		ActingUser:     actor,
		Comments:       comments,
		Metadata:       datatypes.JSON(raw),
		CreatedAt:      now,
	}
	if err := r.Logs.Append(ctx, entry); err != nil {
		return nil, err
	}
	return &Outcome{Previous: prev, Status: to, At: now}, nil
}

// checkDecisions matches decisions to the current items. Missing items make
// the round incomplete; unknown, duplicate or uncommented rejections make it
// invalid. Returned decisions are sorted by item number.
func checkDecisions(items []domain.Item, decisions []approval.ItemDecision) ([]approval.ItemDecision, error) {
	current := make(map[domain.ItemKey]struct{}, len(items))
	for _, it := range items {
		current[it.Key()] = struct{}{}
	}

	seen := make(map[domain.ItemKey]int, len(decisions))
	var invalid []workflow.ItemIssue
	for _, d := range decisions {
		k := domain.ItemKey{ItemNumber: d.ItemNumber, MaterialID: d.MaterialID}
		seen[k]++
		switch {
		case seen[k] == 2:
			invalid = append(invalid, workflow.ItemIssue{ItemNumber: d.ItemNumber, MaterialID: d.MaterialID, Reason: "duplicate decision"})
		case seen[k] > 2:
		case !hasKey(current, k):
			invalid = append(invalid, workflow.ItemIssue{ItemNumber: d.ItemNumber, MaterialID: d.MaterialID, Reason: "not an item of this requisition"})
		case !d.Status.Valid():
			invalid = append(invalid, workflow.ItemIssue{ItemNumber: d.ItemNumber, MaterialID: d.MaterialID, Reason: fmt.Sprintf("unknown decision %q", d.Status)})
		case d.Status == workflow.DecisionRejected && strings.TrimSpace(d.Comments) == "":
			invalid = append(invalid, workflow.ItemIssue{ItemNumber: d.ItemNumber, MaterialID: d.MaterialID, Reason: "rejection requires a comment"})
		}
	}

	var missing []workflow.ItemIssue
	for _, it := range items {
		if seen[it.Key()] == 0 {
			missing = append(missing, workflow.ItemIssue{ItemNumber: it.ItemNumber, MaterialID: it.MaterialID, Reason: "no decision"})
		}
	}
	if len(missing) > 0 {
		return nil, &workflow.DecisionError{Kind: workflow.ErrIncompleteDecision, Issues: missing}
	}
	if len(invalid) > 0 {
		sortIssues(invalid)
		return nil, &workflow.DecisionError{Kind: workflow.ErrValidation, Issues: invalid}
	}

	out := make([]approval.ItemDecision, len(decisions))
	copy(out, decisions)
	for i := range out {
		out[i].Comments = strings.TrimSpace(out[i].Comments)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ItemNumber < out[j].ItemNumber })
	return out, nil
}

func hasKey(m map[domain.ItemKey]struct{}, k domain.ItemKey) bool {
	_, ok := m[k]
	return ok
}

func sortIssues(is []workflow.ItemIssue) {
	sort.SliceStable(is, func(i, j int) bool { return is[i].ItemNumber < is[j].ItemNumber })
}

// rejectionComments renders "Item <n> (<code>): <comment>" per rejected item,
// joined by "; ", after the general comment when there is one.
func rejectionComments(general string, rejected []workflow.ItemIssue, codes map[string]string) string {
	parts := make([]string, 0, len(rejected)+1)
	if general != "" {
		parts = append(parts, general)
	}
	for _, is := range rejected {
		code := codes[is.MaterialID]
		if code == "" {
			code = is.MaterialID
		}
		parts = append(parts, fmt.Sprintf("Item %d (%s): %s", is.ItemNumber, code, is.Reason))
	}
	return strings.Join(parts, "; ")
}

// mergeItems builds the item set after an edit. Existing numbers are updated
// in place, number 0 appends, and lines left out are removed.
func mergeItems(req *domain.Requisition, inputs []ItemInput) ([]domain.Item, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: a requisition needs at least one item", workflow.ErrValidation)
	}
	existing := make(map[int]domain.Item, len(req.Items))
	for _, it := range req.Items {
		existing[it.ItemNumber] = it
	}

	next := req.NextItemNumber()
	used := make(map[int]struct{}, len(inputs))
	var issues []workflow.ItemIssue
	out := make([]domain.Item, 0, len(inputs))
	for _, in := range inputs {
		n := in.ItemNumber
		switch {
		case n == 0:
			n = next
			next++
		case n < 0:
			issues = append(issues, workflow.ItemIssue{ItemNumber: n, MaterialID: in.MaterialID, Reason: "invalid item number"})
			continue
		default:
			if _, ok := existing[n]; !ok {
				issues = append(issues, workflow.ItemIssue{ItemNumber: n, MaterialID: in.MaterialID, Reason: "not an item of this requisition"})
				continue
			}
			if _, dup := used[n]; dup {
				issues = append(issues, workflow.ItemIssue{ItemNumber: n, MaterialID: in.MaterialID, Reason: "item listed twice"})
				continue
			}
		}
		used[n] = struct{}{}
		if issue := checkLine(in); issue != "" {
			issues = append(issues, workflow.ItemIssue{ItemNumber: n, MaterialID: in.MaterialID, Reason: issue})
			continue
		}
		out = append(out, domain.Item{
			RequisitionID: req.ID,
			ItemNumber:    n,
			MaterialID:    in.MaterialID,
			Quantity:      in.Quantity,
			Observation:   strings.TrimSpace(in.Observation),
		})
	}
	if len(issues) > 0 {
		sortIssues(issues)
		return nil, &workflow.DecisionError{Kind: workflow.ErrValidation, Issues: issues}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ItemNumber < out[j].ItemNumber })
	return out, nil
}

// newItems numbers the lines of a new requisition from 1.
func newItems(inputs []ItemInput) ([]domain.Item, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: a requisition needs at least one item", workflow.ErrValidation)
	}
	var issues []workflow.ItemIssue
	out := make([]domain.Item, 0, len(inputs))
	for i, in := range inputs {
		if issue := checkLine(in); issue != "" {
			issues = append(issues, workflow.ItemIssue{ItemNumber: i + 1, MaterialID: in.MaterialID, Reason: issue})
			continue
		}
		out = append(out, domain.Item{
			ItemNumber:  i + 1,
			MaterialID:  in.MaterialID,
			Quantity:    in.Quantity,
			Observation: strings.TrimSpace(in.Observation),
		})
	}
	if len(issues) > 0 {
		return nil, &workflow.DecisionError{Kind: workflow.ErrValidation, Issues: issues}
	}
	return out, nil
}

func checkLine(in ItemInput) string {
	switch {
	case strings.TrimSpace(in.MaterialID) == "":
		return "material is required"
	case !in.Quantity.GreaterThan(decimal.Zero):
		return "quantity must be greater than zero"
	}
	return ""
}

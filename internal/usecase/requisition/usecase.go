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
	authzDomain "procurement-approval/internal/domain/authz"
	"procurement-approval/internal/domain/masterdata"
	domain "procurement-approval/internal/domain/requisition"
	"procurement-approval/internal/domain/sla"
	"procurement-approval/internal/domain/uow"
	"procurement-approval/internal/domain/workflow"
	"procurement-approval/internal/usecase/authz"
	"procurement-approval/internal/usecase/ledger"
	"procurement-approval/pkg/id"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Deps groups what the orchestrator talks to. Requisitions, ItemApprovals,
// Logs and Edges serve reads outside transactions.
type Deps struct {
	UoW           uow.UnitOfWork
	Requisitions  domain.Repository
	ItemApprovals approval.ItemApprovalRepository
	Logs          approval.LogRepository
	Edges         authzDomain.Repository
	MasterData    masterdata.Resolver
	Roles         RoleChecker
	Clock         *sla.Clock
	Publisher     domain.Publisher
	Logger        zerolog.Logger
	Now           func() time.Time
}

type Usecase struct {
	uow   uow.UnitOfWork
	reqs  domain.Repository
	items approval.ItemApprovalRepository
	logs  approval.LogRepository
	edges authzDomain.Repository
	md    masterdata.Resolver
	roles RoleChecker
	clock *sla.Clock
	pub   domain.Publisher
	log   zerolog.Logger
	now   func() time.Time
	sm    *StateMachine
}

func NewUsecase(d Deps) *Usecase {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Clock == nil {
		d.Clock = sla.NewClock(nil, nil, nil)
	}
	return &Usecase{
		uow:   d.UoW,
		reqs:  d.Requisitions,
		items: d.ItemApprovals,
		logs:  d.Logs,
		edges: d.Edges,
		md:    d.MasterData,
		roles: d.Roles,
		clock: d.Clock,
		pub:   d.Publisher,
		log:   d.Logger,
		now:   d.Now,
		sm:    NewStateMachine(d.Clock, d.Roles, d.Now),
	}
}

func (u *Usecase) Create(ctx context.Context, in CreateInput) (*RequisitionDTO, error) {
	if strings.TrimSpace(in.CreatorID) == "" {
		return nil, fmt.Errorf("%w: creator is required", workflow.ErrValidation)
	}
	if in.Priority == "" {
		in.Priority = domain.PriorityNormal
	}
	if !in.Priority.Valid() {
		return nil, fmt.Errorf("%w: unknown priority %q", workflow.ErrValidation, in.Priority)
	}
	items, err := newItems(in.Items)
	if err != nil {
		return nil, err
	}
	if err := u.resolveHeader(ctx, in.CompanyID, in.ProjectID, in.OperationCenterID); err != nil {
		return nil, err
	}
	if _, err := u.resolveMaterials(ctx, in.Items, true); err != nil {
		return nil, err
	}

	now := u.now().UTC()
	req := &domain.Requisition{
		RequisitionID:     id.NewID32(),
		CreatorID:         in.CreatorID,
		CompanyID:         in.CompanyID,
		ProjectID:         in.ProjectID,
		OperationCenterID: in.OperationCenterID,
		Priority:          in.Priority,
		Justification:     strings.TrimSpace(in.Justification),
		Status:            workflow.StatusPendiente,
		StatusUpdatedAt:   now,
		Version:           1,
		Items:             items,
	}
	if in.WorkReference != nil && strings.TrimSpace(*in.WorkReference) != "" {
		ref := strings.TrimSpace(*in.WorkReference)
		req.WorkReference = &ref
	}
	if req.NeedsValidation() {
		// the validation clock starts on submit
		req.Status = workflow.StatusPendienteValidacion
	} else {
		req.SLADeadline = u.clock.DeadlineFor(req.Status, now)
	}

	// The count takes no lock: a concurrent create can claim the same
	// number, which the unique index reports as a conflict.
	for attempt := 1; attempt <= 2; attempt++ {
		err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
			return u.insert(ctx, r, req, in.CreatorID, now)
		})
		if !errors.Is(err, workflow.ErrConcurrencyConflict) {
			break
		}
		u.log.Warn().Str("requisition_number", req.RequisitionNumber).Int("attempt", attempt).Msg("requisition number taken")
		req.ID = 0
		for i := range req.Items {
			req.Items[i].ID = 0
			req.Items[i].RequisitionID = 0
		}
	}
	if err != nil {
		return nil, err
	}

	u.log.Info().
		Str("requisition_id", req.RequisitionID).
		Str("requisition_number", req.RequisitionNumber).
		Str("status", string(req.Status)).
		Msg("requisition created")
	return u.toDTO(req, nil), nil
}

func (u *Usecase) insert(ctx context.Context, r uow.Repos, req *domain.Requisition, actor string, now time.Time) error {
	n, err := r.Requisitions.CountAll(ctx)
	if err != nil {
		return err
	}
	req.RequisitionNumber = id.RequisitionNumber(n + 1)
	if err := r.Requisitions.Create(ctx, req); err != nil {
		return err
	}
	raw, _ := json.Marshal(approval.LogMetadata{Items: len(req.Items)})
	return r.Logs.Append(ctx, &approval.LogEntry{
		LogID:         id.NewID32(),
		RequisitionID: req.ID,
		Action:        workflow.ActionCrear,
		NewStatus:     req.Status,
		ActingUser:    actor,
		Metadata:      datatypes.JSON(raw),
		CreatedAt:     now,
	})
}

func (u *Usecase) SubmitForValidation(ctx context.Context, requisitionID, actor string) (*TransitionDTO, error) {
	return u.apply(ctx, requisitionID, func(r uow.Repos, req *domain.Requisition) (*Outcome, error) {
		return u.sm.SubmitForValidation(ctx, r, req, actor)
	})
}

func (u *Usecase) StartReview(ctx context.Context, requisitionID, actor string) (*TransitionDTO, error) {
	return u.apply(ctx, requisitionID, func(r uow.Repos, req *domain.Requisition) (*Outcome, error) {
		return u.sm.StartReview(ctx, r, req, actor)
	})
}

// GateDecision records one actor's per-item verdicts at a gate and moves the
// requisition accordingly.
func (u *Usecase) GateDecision(ctx context.Context, in GateDecisionInput) (*TransitionDTO, error) {
	if _, ok := workflow.RuleFor(in.Gate); !ok {
		return nil, fmt.Errorf("%w: unknown gate %q", workflow.ErrValidation, in.Gate)
	}
	codes := u.materialCodes(ctx, in.Decisions)

	var approved *domain.Requisition
	dto, err := u.apply(ctx, in.RequisitionID, func(r uow.Repos, req *domain.Requisition) (*Outcome, error) {
		out, err := u.sm.ApplyGateDecision(ctx, r, req, in, codes)
		if err == nil && out.Status == workflow.StatusAprobadaGerencia {
			approved = req
		}
		return out, err
	})
	if err != nil {
		return nil, err
	}
	if approved != nil {
		u.publishReady(ctx, approved, in.ActorID)
	}
	return dto, nil
}

func (u *Usecase) Validate(ctx context.Context, in GateDecisionInput) (*TransitionDTO, error) {
	in.Gate = workflow.GateValidate
	return u.GateDecision(ctx, in)
}

func (u *Usecase) Review(ctx context.Context, in GateDecisionInput) (*TransitionDTO, error) {
	in.Gate = workflow.GateReview
	return u.GateDecision(ctx, in)
}

func (u *Usecase) Authorize(ctx context.Context, in GateDecisionInput) (*TransitionDTO, error) {
	in.Gate = workflow.GateAuthorize
	return u.GateDecision(ctx, in)
}

func (u *Usecase) ApproveManagement(ctx context.Context, in GateDecisionInput) (*TransitionDTO, error) {
	in.Gate = workflow.GateApproveManagement
	return u.GateDecision(ctx, in)
}

func (u *Usecase) EditAndResubmit(ctx context.Context, in EditInput) (*TransitionDTO, error) {
	if _, err := u.resolveMaterials(ctx, in.Items, true); err != nil {
		return nil, err
	}
	return u.apply(ctx, in.RequisitionID, func(r uow.Repos, req *domain.Requisition) (*Outcome, error) {
		return u.sm.ApplyResubmit(ctx, r, req, in)
	})
}

func (u *Usecase) AdvanceDownstream(ctx context.Context, in AdvanceInput) (*TransitionDTO, error) {
	return u.apply(ctx, in.RequisitionID, func(r uow.Repos, req *domain.Requisition) (*Outcome, error) {
		return u.sm.AdvanceDownstream(ctx, r, req, in)
	})
}

func (u *Usecase) GetStatus(ctx context.Context, requisitionID string) (*StatusDTO, error) {
	req, err := u.load(ctx, requisitionID)
	if err != nil {
		return nil, err
	}
	s := u.statusOf(req)
	return &s, nil
}

func (u *Usecase) Get(ctx context.Context, requisitionID string) (*RequisitionDTO, error) {
	req, err := u.load(ctx, requisitionID)
	if err != nil {
		return nil, err
	}
	byGate, err := ledger.New(u.items).ValidByGate(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	return u.toDTO(req, byGate), nil
}

func (u *Usecase) History(ctx context.Context, requisitionID string) ([]LogEntryDTO, error) {
	req, err := u.load(ctx, requisitionID)
	if err != nil {
		return nil, err
	}
	entries, err := u.logs.ListByRequisition(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	out := make([]LogEntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, LogEntryDTO{
			LogID:          e.LogID,
			Action:         e.Action,
			PreviousStatus: e.PreviousStatus,
			NewStatus:      e.NewStatus,
			ActingUser:     e.ActingUser,
			Comments:       e.Comments,
			Metadata:       json.RawMessage(e.Metadata),
			CreatedAt:      e.CreatedAt,
		})
	}
	return out, nil
}

// ItemDecisions returns the valid verdicts of one gate in item order.
func (u *Usecase) ItemDecisions(ctx context.Context, requisitionID string, gate workflow.Gate) ([]ledger.GateItem, error) {
	if _, ok := workflow.RuleFor(gate); !ok {
		return nil, fmt.Errorf("%w: unknown gate %q", workflow.ErrValidation, gate)
	}
	req, err := u.load(ctx, requisitionID)
	if err != nil {
		return nil, err
	}
	verdicts, err := ledger.New(u.items).LatestValid(ctx, req.ID, gate)
	if err != nil {
		return nil, err
	}
	out := make([]ledger.GateItem, 0, len(verdicts))
	for k, v := range verdicts {
		out = append(out, ledger.GateItem{ItemNumber: k.ItemNumber, MaterialID: k.MaterialID, Verdict: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ItemNumber != out[j].ItemNumber {
			return out[i].ItemNumber < out[j].ItemNumber
		}
		return out[i].MaterialID < out[j].MaterialID
	})
	return out, nil
}

// Inbox lists requisitions waiting at gate that actor may decide, earliest
// deadline first.
func (u *Usecase) Inbox(ctx context.Context, actor string, gate workflow.Gate) ([]StatusDTO, error) {
	rule, ok := workflow.RuleFor(gate)
	if !ok {
		return nil, fmt.Errorf("%w: unknown gate %q", workflow.ErrValidation, gate)
	}
	reqs, err := u.reqs.ListByStatuses(ctx, rule.From)
	if err != nil {
		return nil, err
	}

	byRole := false
	if u.roles != nil {
		if byRole, err = u.roles.Allowed(actor, gate); err != nil {
			return nil, err
		}
	}
	graph := authz.NewGraph(u.edges, u.md)
	allowed := map[string]bool{}
	out := make([]StatusDTO, 0)
	for i := range reqs {
		req := &reqs[i]
		ok := byRole
		if !ok && rule.GateType != "" {
			seen, cached := allowed[req.CreatorID]
			if !cached {
				if seen, err = graph.CanAct(ctx, actor, req.CreatorID, rule.GateType); err != nil {
					return nil, err
				}
				allowed[req.CreatorID] = seen
			}
			ok = seen
		}
		if ok {
			out = append(out, u.statusOf(req))
		}
	}
	return out, nil
}

// apply runs fn under the requisition lock, retrying once when a concurrent
// writer bumped the version first.
func (u *Usecase) apply(ctx context.Context, requisitionID string, fn func(r uow.Repos, req *domain.Requisition) (*Outcome, error)) (*TransitionDTO, error) {
	var dto *TransitionDTO
	var err error
	for attempt := 1; attempt <= 2; attempt++ {
		err = u.uow.WithinRequisitionTx(ctx, requisitionID, func(r uow.Repos, req *domain.Requisition) error {
			out, err := fn(r, req)
			if err != nil {
				return err
			}
			dto = &TransitionDTO{
				RequisitionID:  req.RequisitionID,
				PreviousStatus: out.Previous,
				Status:         out.Status,
				Version:        req.Version,
				SLADeadline:    req.SLADeadline,
				Generation:     out.Generation,
				RejectedItems:  out.Rejected,
			}
			return nil
		})
		if !errors.Is(err, workflow.ErrConcurrencyConflict) {
			break
		}
		u.log.Warn().Str("requisition_id", requisitionID).Int("attempt", attempt).Msg("version conflict")
	}
	if err != nil {
		return nil, notFound(err, requisitionID)
	}

	u.log.Info().
		Str("requisition_id", dto.RequisitionID).
		Str("from", string(dto.PreviousStatus)).
		Str("to", string(dto.Status)).
		Msg("requisition transition")
	return dto, nil
}

func (u *Usecase) publishReady(ctx context.Context, req *domain.Requisition, actor string) {
	if u.pub == nil {
		return
	}
	ev := domain.ReadyForQuotation{
		EventID:           uuid.NewString(),
		RequisitionID:     req.RequisitionID,
		RequisitionNumber: req.RequisitionNumber,
		CreatorID:         req.CreatorID,
		ApprovedBy:        actor,
		Priority:          req.Priority,
		Items:             len(req.Items),
		ApprovedAt:        req.StatusUpdatedAt,
	}
	// the transition is committed; a caller hanging up must not drop the event
	if err := u.pub.PublishReadyForQuotation(context.WithoutCancel(ctx), ev); err != nil {
		u.log.Warn().Err(err).Str("requisition_id", req.RequisitionID).Msg("ready for quotation: publish failed")
	}
}

func (u *Usecase) load(ctx context.Context, requisitionID string) (*domain.Requisition, error) {
	req, err := u.reqs.GetByRequisitionID(ctx, requisitionID)
	if err != nil {
		return nil, notFound(err, requisitionID)
	}
	return req, nil
}

func (u *Usecase) resolveHeader(ctx context.Context, companyID, projectID, operationCenterID string) error {
	if err := u.md.ResolveCompany(ctx, companyID); err != nil {
		return err
	}
	if err := u.md.ResolveProject(ctx, projectID); err != nil {
		return err
	}
	return u.md.ResolveOperationCenter(ctx, operationCenterID)
}

// resolveMaterials maps material ids to codes. With strict set, an unknown
// material fails the call.
func (u *Usecase) resolveMaterials(ctx context.Context, items []ItemInput, strict bool) (map[string]string, error) {
	codes := make(map[string]string, len(items))
	for _, it := range items {
		if _, done := codes[it.MaterialID]; done || it.MaterialID == "" {
			continue
		}
		m, err := u.md.ResolveMaterial(ctx, it.MaterialID)
		if err != nil {
			if strict {
				return nil, err
			}
			continue
		}
		codes[it.MaterialID] = m.Code
	}
	return codes, nil
}

// materialCodes is best effort: decisions naming unknown materials are
// rejected later as validation errors.
func (u *Usecase) materialCodes(ctx context.Context, decisions []approval.ItemDecision) map[string]string {
	items := make([]ItemInput, 0, len(decisions))
	for _, d := range decisions {
		items = append(items, ItemInput{MaterialID: d.MaterialID})
	}
	codes, _ := u.resolveMaterials(ctx, items, false)
	return codes
}

func (u *Usecase) slaOf(req *domain.Requisition) sla.Status {
	if req.SLADeadline == nil {
		return sla.Status{}
	}
	return u.clock.Status(*req.SLADeadline, u.now())
}

func (u *Usecase) statusOf(req *domain.Requisition) StatusDTO {
	s := u.slaOf(req)
	pending, _ := workflow.PendingGate(req.Status)
	return StatusDTO{
		RequisitionID:     req.RequisitionID,
		RequisitionNumber: req.RequisitionNumber,
		CreatorID:         req.CreatorID,
		Priority:          req.Priority,
		Status:            req.Status,
		PendingGate:       pending,
		SLADeadline:       req.SLADeadline,
		IsOverdue:         s.IsOverdue,
		DaysOverdue:       s.DaysOverdue,
		DaysRemaining:     s.DaysRemaining,
	}
}

func (u *Usecase) toDTO(req *domain.Requisition, byGate map[workflow.Gate][]ledger.GateItem) *RequisitionDTO {
	s := u.slaOf(req)
	pending, _ := workflow.PendingGate(req.Status)
	items := make([]ItemDTO, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, ItemDTO{ItemNumber: it.ItemNumber, MaterialID: it.MaterialID, Quantity: it.Quantity, Observation: it.Observation})
	}
	return &RequisitionDTO{
		RequisitionID:     req.RequisitionID,
		RequisitionNumber: req.RequisitionNumber,
		CreatorID:         req.CreatorID,
		CompanyID:         req.CompanyID,
		ProjectID:         req.ProjectID,
		OperationCenterID: req.OperationCenterID,
		WorkReference:     req.WorkReference,
		Priority:          req.Priority,
		Justification:     req.Justification,
		Status:            req.Status,
		PendingGate:       pending,
		SubmittedAt:       req.SubmittedAt,
		SLADeadline:       req.SLADeadline,
		IsOverdue:         s.IsOverdue,
		DaysOverdue:       s.DaysOverdue,
		DaysRemaining:     s.DaysRemaining,
		Version:           req.Version,
		CreatedAt:         req.CreatedAt,
		UpdatedAt:         req.UpdatedAt,
		Items:             items,
		Approvals:         byGate,
	}
}

func notFound(err error, requisitionID string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: requisition %s", workflow.ErrNotFound, requisitionID)
	}
	return err
}

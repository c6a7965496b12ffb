package authz

import (
	"context"
	"errors"
	"fmt"

	domain "procurement-approval/internal/domain/authz"
	"procurement-approval/internal/domain/masterdata"
	"procurement-approval/internal/domain/uow"
	"procurement-approval/internal/domain/workflow"

	"github.com/rs/zerolog"
)

// EdgeAdmin decides who may change the authorization graph.
type EdgeAdmin interface {
	CanAdministerEdges(actor string) (bool, error)
}

// Usecase administers authorization edges. Each change runs in its own
// transaction so the existence check and the write see the same state.
type Usecase struct {
	uow    uow.UnitOfWork
	edges  domain.Repository
	users  masterdata.Resolver
	admins EdgeAdmin
	log    zerolog.Logger
}

func NewUsecase(tx uow.UnitOfWork, edges domain.Repository, users masterdata.Resolver, admins EdgeAdmin, log zerolog.Logger) *Usecase {
	return &Usecase{uow: tx, edges: edges, users: users, admins: admins, log: log}
}

func (u *Usecase) requireAdmin(actor string) error {
	if u.admins != nil {
		ok, err := u.admins.CanAdministerEdges(actor)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	return fmt.Errorf("%w: %s may not change authorization edges", workflow.ErrForbidden, actor)
}

// AddEdge is admin only. When a concurrent add of the same pair commits
// first, the add is retried once and resolves against the stored edge.
func (u *Usecase) AddEdge(ctx context.Context, actor string, in EdgeInput) (*EdgeDTO, error) {
	if err := u.requireAdmin(actor); err != nil {
		return nil, err
	}
	dto, err := u.addEdge(ctx, in)
	if errors.Is(err, workflow.ErrConcurrencyConflict) {
		u.log.Warn().
			Str("authorizer_id", in.AuthorizerID).
			Str("subordinate_id", in.SubordinateID).
			Msg("authorization edge added concurrently")
		dto, err = u.addEdge(ctx, in)
	}
	if err != nil {
		return nil, err
	}
	if dto.Created {
		u.log.Info().
			Str("actor_id", actor).
			Str("authorizer_id", dto.AuthorizerID).
			Str("subordinate_id", dto.SubordinateID).
			Str("gate_type", string(dto.GateType)).
			Msg("authorization edge added")
	}
	return dto, nil
}

func (u *Usecase) addEdge(ctx context.Context, in EdgeInput) (*EdgeDTO, error) {
	var dto *EdgeDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		e, created, err := NewGraph(r.Edges, u.users).AddEdge(ctx, in)
		if err != nil {
			return err
		}
		dto = &EdgeDTO{
			AuthorizerID:  e.AuthorizerID,
			SubordinateID: e.SubordinateID,
			GateType:      e.GateType,
			Level:         e.Level,
			Created:       created,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// RemoveEdge is admin only. Removing a missing edge reports false.
func (u *Usecase) RemoveEdge(ctx context.Context, actor string, in EdgeInput) (bool, error) {
	if err := u.requireAdmin(actor); err != nil {
		return false, err
	}
	var removed bool
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		var err error
		removed, err = NewGraph(r.Edges, u.users).RemoveEdge(ctx, in)
		return err
	})
	if err == nil && removed {
		u.log.Info().
			Str("actor_id", actor).
			Str("authorizer_id", in.AuthorizerID).
			Str("subordinate_id", in.SubordinateID).
			Msg("authorization edge removed")
	}
	return removed, err
}

func (u *Usecase) ListEdges(ctx context.Context, authorizerID string) ([]EdgeDTO, error) {
	edges, err := NewGraph(u.edges, u.users).ListEdges(ctx, authorizerID)
	if err != nil {
		return nil, err
	}
	out := make([]EdgeDTO, 0, len(edges))
	for _, e := range edges {
		out = append(out, EdgeDTO{AuthorizerID: e.AuthorizerID, SubordinateID: e.SubordinateID, GateType: e.GateType, Level: e.Level})
	}
	return out, nil
}

func (u *Usecase) AvailableSubordinates(ctx context.Context, actor string) ([]string, error) {
	return NewGraph(u.edges, u.users).AvailableSubordinates(ctx, actor)
}

package authz

import (
	"context"
	"errors"
	"fmt"
	"sort"

	domain "procurement-approval/internal/domain/authz"
	"procurement-approval/internal/domain/masterdata"
	"procurement-approval/internal/domain/workflow"

	"gorm.io/gorm"
)

// Graph answers who may act on whose requisitions. Edges are single hop:
// A over B and B over C never lets A act for C.
type Graph struct {
	edges domain.Repository
	users masterdata.Resolver
}

func NewGraph(edges domain.Repository, users masterdata.Resolver) *Graph {
	return &Graph{edges: edges, users: users}
}

func (g *Graph) CanAct(ctx context.Context, actor, creator string, t workflow.GateType) (bool, error) {
	e, err := g.edges.GetPair(ctx, actor, creator)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return e.GateType == t, nil
}

// HasAuthorizer reports whether anyone holds an edge of type t over creator.
func (g *Graph) HasAuthorizer(ctx context.Context, creator string, t workflow.GateType) (bool, error) {
	n, err := g.edges.CountBySubordinate(ctx, creator, t)
	return n > 0, err
}

// AddEdge is idempotent for an identical edge. The pair is unique, so the
// same pair with another gate type is rejected.
func (g *Graph) AddEdge(ctx context.Context, in EdgeInput) (*domain.Edge, bool, error) {
	if err := in.validate(); err != nil {
		return nil, false, err
	}
	existing, err := g.edges.GetPair(ctx, in.AuthorizerID, in.SubordinateID)
	switch {
	case err == nil:
		if existing.GateType != in.GateType {
			return nil, false, fmt.Errorf("%w: %s already holds a %s edge over %s",
				workflow.ErrValidation, in.AuthorizerID, existing.GateType, in.SubordinateID)
		}
		return existing, false, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, false, err
	}

	e := &domain.Edge{
		AuthorizerID:  in.AuthorizerID,
		SubordinateID: in.SubordinateID,
		GateType:      in.GateType,
		Level:         in.Level,
	}
	if e.Level == 0 {
		e.Level = 1
	}
	if err := g.edges.Create(ctx, e); err != nil {
		return nil, false, err
	}
	return e, true, nil
}

// RemoveEdge deletes the edge if present; a missing edge is not an error.
func (g *Graph) RemoveEdge(ctx context.Context, in EdgeInput) (bool, error) {
	if err := in.validate(); err != nil {
		return false, err
	}
	n, err := g.edges.Delete(ctx, in.AuthorizerID, in.SubordinateID, in.GateType)
	return n > 0, err
}

func (g *Graph) ListEdges(ctx context.Context, authorizerID string) ([]domain.Edge, error) {
	return g.edges.ListByAuthorizer(ctx, authorizerID)
}

// AvailableSubordinates lists directory users the actor could still be
// linked to: everyone except the actor and those already linked.
func (g *Graph) AvailableSubordinates(ctx context.Context, actor string) ([]string, error) {
	users, err := g.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	linked, err := g.edges.ListByAuthorizer(ctx, actor)
	if err != nil {
		return nil, err
	}
	skip := make(map[string]struct{}, len(linked)+1)
	skip[actor] = struct{}{}
	for _, e := range linked {
		skip[e.SubordinateID] = struct{}{}
	}
	out := make([]string, 0, len(users))
	for _, u := range users {
		if _, ok := skip[u]; !ok {
			out = append(out, u)
		}
	}
	sort.Strings(out)
	return out, nil
}

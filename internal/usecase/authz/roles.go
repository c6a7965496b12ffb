package authz

import (
	"fmt"

	"procurement-approval/internal/domain/workflow"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const (
	RoleValidator  = "validador"
	RoleManagement = "gerencia"
	RoleAdmin      = "administrador"
	RoleExternal   = "sistema_externo"

	objRequisition = "requisition"
	objEdges       = "authorization_edges"

	actWrite      = "write"
	actDownstream = "downstream"
)

const roleModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// Members lists who holds each role at startup.
type Members struct {
	Validators []string
	Management []string
	Admins     []string
	Systems    []string
}

// Roles grants access by role rather than by edge: validators act on the
// validate gate, management on approve_management, admins maintain the
// authorization edges and external systems report downstream progress.
type Roles struct {
	enforcer *casbin.Enforcer
}

func NewRoles(members Members) (*Roles, error) {
	m, err := model.NewModelFromString(roleModel)
	if err != nil {
		return nil, fmt.Errorf("casbin model: %w", err)
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("casbin enforcer: %w", err)
	}
	r := &Roles{enforcer: e}
	policies := [][]string{
		{RoleValidator, objRequisition, string(workflow.GateValidate)},
		{RoleManagement, objRequisition, string(workflow.GateApproveManagement)},
		{RoleAdmin, objEdges, actWrite},
		{RoleExternal, objRequisition, actDownstream},
	}
	if _, err := e.AddPolicies(policies); err != nil {
		return nil, err
	}
	grants := []struct {
		role  string
		users []string
	}{
		{RoleValidator, members.Validators},
		{RoleManagement, members.Management},
		{RoleAdmin, members.Admins},
		{RoleExternal, members.Systems},
	}
	for _, g := range grants {
		for _, u := range g.users {
			if err := r.Grant(u, g.role); err != nil {
				return nil, err
			}
		}
	}
	return r, nil
}

func (r *Roles) Grant(user, role string) error {
	_, err := r.enforcer.AddRoleForUser(user, role)
	return err
}

func (r *Roles) Revoke(user, role string) error {
	_, err := r.enforcer.DeleteRoleForUser(user, role)
	return err
}

// Allowed reports whether actor holds a role that opens gate.
func (r *Roles) Allowed(actor string, gate workflow.Gate) (bool, error) {
	return r.enforcer.Enforce(actor, objRequisition, string(gate))
}

// CanAdministerEdges reports whether actor may add or remove authorization edges.
func (r *Roles) CanAdministerEdges(actor string) (bool, error) {
	return r.enforcer.Enforce(actor, objEdges, actWrite)
}

// CanAdvanceDownstream reports whether actor may record quotation,
// purchasing or receiving progress.
func (r *Roles) CanAdvanceDownstream(actor string) (bool, error) {
	return r.enforcer.Enforce(actor, objRequisition, actDownstream)
}

// Members lists the users holding role.
func (r *Roles) Members(role string) ([]string, error) {
	return r.enforcer.GetUsersForRole(role)
}

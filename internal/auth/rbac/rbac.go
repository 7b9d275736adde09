// Package rbac gates REST routes by role with a Casbin enforcer. The
// workflow's own actor rules live in the state machine; this layer only
// decides which endpoints a role may call at all.
package rbac

import (
	"log/slog"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"github.com/signoffhq/signoff/internal/ports"
)

const defaultModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && keyMatch2(r.obj, p.obj) && (r.act == p.act || p.act == "*")
`

// defaultRules are the shipped route permissions. The grouping rules
// form the EMPLOYEE < MANAGER < ADMIN < OWNER chain, so a grant to
// EMPLOYEE reaches every role above it.
var defaultRules = [][3]string{
	{"EMPLOYEE", "/api/auth/me", "GET"},
	{"EMPLOYEE", "/api/approvals", "GET"},
	{"EMPLOYEE", "/api/approvals", "POST"},
	{"EMPLOYEE", "/api/approvals/stats", "GET"},
	{"EMPLOYEE", "/api/approvals/reference/:ref", "GET"},
	{"EMPLOYEE", "/api/approvals/:id", "GET"},
	{"EMPLOYEE", "/api/approvals/:id", "PUT"},
	{"EMPLOYEE", "/api/approvals/:id/actions", "POST"},
	{"EMPLOYEE", "/api/approvals/:id/sign", "POST"},
	{"EMPLOYEE", "/api/approvals/:id/withdraw", "POST"},
	{"EMPLOYEE", "/api/approvals/:id/history", "GET"},
	{"EMPLOYEE", "/api/approvals/:id/signatures", "GET"},
	{"EMPLOYEE", "/api/approvals/:id/attachments", "POST"},
	{"EMPLOYEE", "/api/approvals/:id/attachments", "GET"},
	{"MANAGER", "/api/approvals/bulk", "POST"},
	{"ADMIN", "/api/approvals/:id", "DELETE"},
	{"ADMIN", "/api/approvals/:id/archive", "POST"},
	{"ADMIN", "/api/users", "GET"},
	{"ADMIN", "/api/users", "POST"},
}

var defaultGroups = [][2]string{
	{"SUPERVISOR", "EMPLOYEE"},
	{"MANAGER", "SUPERVISOR"},
	{"ADMIN", "MANAGER"},
	{"OWNER", "ADMIN"},
}

// Enforcer answers "may this role call this route".
type Enforcer struct {
	e *casbin.Enforcer
}

// New builds an enforcer from model and policy files, falling back to
// the built-in defaults when paths are empty.
func New(modelPath, policyPath string) (*Enforcer, error) {
	if modelPath == "" || policyPath == "" {
		return NewDefault()
	}
	e, err := casbin.NewEnforcer(modelPath, policyPath)
	if err != nil {
		return nil, err
	}
	return &Enforcer{e: e}, nil
}

// NewDefault builds an enforcer carrying the built-in model and rules.
func NewDefault() (*Enforcer, error) {
	m, err := model.NewModelFromString(defaultModel)
	if err != nil {
		return nil, err
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}
	for _, r := range defaultRules {
		if _, err := e.AddPolicy(r[0], r[1], r[2]); err != nil {
			return nil, err
		}
	}
	for _, g := range defaultGroups {
		if _, err := e.AddGroupingPolicy(g[0], g[1]); err != nil {
			return nil, err
		}
	}
	return &Enforcer{e: e}, nil
}

// Allow reports whether the role may perform method on path.
func (f *Enforcer) Allow(role ports.Role, path, method string) bool {
	ok, err := f.e.Enforce(string(role), path, method)
	if err != nil {
		slog.Warn("rbac enforce failed", "role", role, "path", path, "err", err)
		return false
	}
	return ok
}

// Grant appends a policy rule at runtime.
func (f *Enforcer) Grant(role ports.Role, path, method string) error {
	_, err := f.e.AddPolicy(string(role), path, method)
	return err
}

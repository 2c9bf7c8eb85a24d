package rbac

import (
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

type Permission string

const (
	PermCasesView         Permission = "cases.view"
	PermCasesCreate       Permission = "cases.create"
	PermEscalationsView   Permission = "escalations.view"
	PermEscalationsCreate Permission = "escalations.create"
	PermRemindersView     Permission = "reminders.view"
	PermRemindersCreate   Permission = "reminders.create"
	PermStatsView         Permission = "stats.view"
)

const modelText = `
[request_definition]
r = sub, perm

[policy_definition]
p = sub, perm

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.perm == p.perm
`

// The command-hierarchy permission matrix. DCP inherits ACP which
// inherits PI; Inspector and SubInspector share the PI grants.
var policyRules = [][]string{
	{"PI", string(PermCasesView)},
	{"PI", string(PermCasesCreate)},
	{"PI", string(PermEscalationsView)},
	{"PI", string(PermEscalationsCreate)},
	{"PI", string(PermRemindersView)},
	{"PI", string(PermRemindersCreate)},
	{"PI", string(PermStatsView)},
}

var roleInheritance = [][]string{
	{"DCP", "ACP"},
	{"ACP", "PI"},
	{"Inspector", "PI"},
	{"SubInspector", "PI"},
}

// Policy wraps a casbin enforcer over the in-memory role matrix.
type Policy struct {
	enforcer *casbin.Enforcer
}

func NewPolicy() (*Policy, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("rbac model: %w", err)
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("rbac enforcer: %w", err)
	}
	for _, rule := range policyRules {
		if _, err := e.AddPolicy(rule[0], rule[1]); err != nil {
			return nil, err
		}
	}
	for _, link := range roleInheritance {
		if _, err := e.AddGroupingPolicy(link[0], link[1]); err != nil {
			return nil, err
		}
	}
	return &Policy{enforcer: e}, nil
}

func (p *Policy) Allowed(role string, perm Permission) bool {
	if p == nil || p.enforcer == nil {
		return false
	}
	ok, err := p.enforcer.Enforce(strings.TrimSpace(role), string(perm))
	return err == nil && ok
}

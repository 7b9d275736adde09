package rbac

import (
	"testing"

	"github.com/signoffhq/signoff/internal/ports"
)

func TestRoleHierarchy(t *testing.T) {
	f, err := NewDefault()
	if err != nil {
		t.Fatal(err)
	}
	cases := []struct {
		role   ports.Role
		path   string
		method string
		want   bool
	}{
		{ports.RoleEmployee, "/api/approvals", "POST", true},
		{ports.RoleEmployee, "/api/approvals/abc-123", "GET", true},
		{ports.RoleEmployee, "/api/approvals/bulk", "POST", false},
		{ports.RoleEmployee, "/api/approvals/abc-123/archive", "POST", false},
		{ports.RoleManager, "/api/approvals/bulk", "POST", true},
		{ports.RoleManager, "/api/users", "POST", false},
		{ports.RoleAdmin, "/api/approvals/abc-123/archive", "POST", true},
		{ports.RoleAdmin, "/api/approvals", "GET", true},
		{ports.RoleOwner, "/api/users", "POST", true},
		{ports.RoleSupervisor, "/api/approvals", "POST", true},
		{ports.RoleSupervisor, "/api/approvals/bulk", "POST", false},
		{ports.Role("GUEST"), "/api/approvals", "GET", false},
	}
	for _, c := range cases {
		if got := f.Allow(c.role, c.path, c.method); got != c.want {
			t.Errorf("%s %s %s: got %v want %v", c.role, c.method, c.path, got, c.want)
		}
	}
}

func TestGrantExtendsPolicy(t *testing.T) {
	f, err := NewDefault()
	if err != nil {
		t.Fatal(err)
	}
	auditor := ports.Role("AUDITOR")
	if f.Allow(auditor, "/api/approvals", "GET") {
		t.Fatal("auditor allowed before grant")
	}
	if err := f.Grant(auditor, "/api/approvals", "GET"); err != nil {
		t.Fatal(err)
	}
	if !f.Allow(auditor, "/api/approvals", "GET") {
		t.Fatal("auditor denied after grant")
	}
}

package token

import (
	"testing"
	"time"

	"github.com/signoffhq/signoff/internal/ports"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	u := &ports.User{ID: "u1", Username: "alice", Role: ports.RoleManager, OrgID: "org1", BranchID: "b1"}
	tok, err := m.Sign(u)
	if err != nil {
		t.Fatal(err)
	}
	claims, err := m.Verify(tok)
	if err != nil {
		t.Fatal(err)
	}
	actor := claims.Actor()
	if actor.UserID != "u1" || actor.Role != ports.RoleManager || actor.OrgID != "org1" || actor.BranchID != "b1" {
		t.Fatalf("actor: %+v", actor)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	tok, err := NewManager("secret-a", time.Hour).Sign(&ports.User{ID: "u1"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewManager("secret-b", time.Hour).Verify(tok); err == nil {
		t.Fatal("accepted token signed with another secret")
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	m := NewManager("s", time.Hour)
	m.ttl = -time.Minute
	tok, err := m.Sign(&ports.User{ID: "u1"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Verify(tok); err == nil {
		t.Fatal("accepted expired token")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	if _, err := NewManager("s", time.Hour).Verify("not.a.token"); err == nil {
		t.Fatal("accepted garbage")
	}
}

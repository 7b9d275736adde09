package ports

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorPredicates(t *testing.T) {
	cases := []struct {
		err  error
		pred func(error) bool
	}{
		{Validationf("bad %s", "field"), IsValidation},
		{NotFound("approval", "a1"), IsNotFound},
		{Permissionf("nope"), IsPermission},
		{Conflictf("already decided"), IsConflict},
		{Infra("redis", errors.New("down")), IsInfra},
	}
	for _, c := range cases {
		if !c.pred(c.err) {
			t.Errorf("%v: predicate false", c.err)
		}
		if !c.pred(fmt.Errorf("wrap: %w", c.err)) {
			t.Errorf("%v: predicate false after wrapping", c.err)
		}
	}
}

func TestInfraWithoutCause(t *testing.T) {
	err := Infra("attachment storage not configured", nil)
	if got := err.Error(); got != "infrastructure: attachment storage not configured" {
		t.Fatalf("got %q", got)
	}
	if msg := fmt.Sprintf("%v", err); msg == "" {
		t.Fatal("empty message")
	}
	if !IsInfra(err) {
		t.Fatal("not recognized as infrastructure error")
	}
	if errors.Unwrap(err) != nil {
		t.Fatal("unexpected cause")
	}
}

func TestInfraWrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Infra("store attachment", cause)
	if !errors.Is(err, cause) {
		t.Fatal("cause not reachable via errors.Is")
	}
}

package validation

import (
	"testing"

	"github.com/signoffhq/signoff/internal/ports"
)

func mustSchemas(t *testing.T) *Schemas {
	t.Helper()
	s, err := NewSchemas()
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestCreateSchema(t *testing.T) {
	s := mustSchemas(t)
	ok := `{"type":"EXPENSE_CLAIM","title":"Taxi","amount":42.5,"priority":"HIGH"}`
	if err := s.Check("create", []byte(ok)); err != nil {
		t.Fatalf("valid body rejected: %v", err)
	}
	cases := map[string]string{
		"missing title":    `{"type":"EXPENSE_CLAIM"}`,
		"negative amount":  `{"type":"EXPENSE_CLAIM","title":"t","amount":-1}`,
		"bad priority":     `{"type":"EXPENSE_CLAIM","title":"t","priority":"WHENEVER"}`,
		"title wrong type": `{"type":"EXPENSE_CLAIM","title":7}`,
		"not json":         `{"type":`,
	}
	for name, body := range cases {
		err := s.Check("create", []byte(body))
		if !ports.IsValidation(err) {
			t.Errorf("%s: got %v", name, err)
		}
	}
}

func TestCreateSchemaAcceptsEveryDomainPriority(t *testing.T) {
	s := mustSchemas(t)
	for _, p := range []ports.Priority{
		ports.PriorityLow, ports.PriorityNormal, ports.PriorityHigh,
		ports.PriorityUrgent, ports.PriorityCritical,
	} {
		body := `{"type":"EXPENSE_CLAIM","title":"t","priority":"` + string(p) + `"}`
		if err := s.Check("create", []byte(body)); err != nil {
			t.Errorf("priority %s rejected: %v", p, err)
		}
	}
	if err := s.Check("create", []byte(`{"type":"EXPENSE_CLAIM","title":"t","priority":"MEDIUM"}`)); !ports.IsValidation(err) {
		t.Fatalf("MEDIUM is not a domain priority, got %v", err)
	}
}

func TestActionAndBulkSchemas(t *testing.T) {
	s := mustSchemas(t)
	if err := s.Check("action", []byte(`{"action":"APPROVE","comments":"ok"}`)); err != nil {
		t.Fatal(err)
	}
	if err := s.Check("action", []byte(`{}`)); !ports.IsValidation(err) {
		t.Fatalf("missing action: %v", err)
	}
	if err := s.Check("bulk", []byte(`{"ids":["a","b"],"action":"APPROVE"}`)); err != nil {
		t.Fatal(err)
	}
	if err := s.Check("bulk", []byte(`{"ids":[],"action":"APPROVE"}`)); !ports.IsValidation(err) {
		t.Fatalf("empty ids: %v", err)
	}
}

func TestUnknownSchemaName(t *testing.T) {
	if err := mustSchemas(t).Check("nope", []byte(`{}`)); err == nil {
		t.Fatal("unknown schema accepted")
	}
}

// Package notify hands workflow notifications to an external delivery
// service. Delivery is best-effort: the workflow never blocks on it and
// failures are only logged.
package notify

import (
	"context"
	"log/slog"

	"github.com/signoffhq/signoff/internal/events"
	"github.com/signoffhq/signoff/internal/ports"
)

// Template identifies the message rendered by the delivery service.
type Template string

const (
	TemplateAssigned     Template = "approval_assigned"
	TemplateActionTaken  Template = "approval_action"
	TemplateHighPriority Template = "approval_high_priority"
)

// Dispatcher is the delivery boundary. No return payload is consumed.
type Dispatcher interface {
	Send(ctx context.Context, tmpl Template, recipients []string, payload map[string]any) error
}

// LogDispatcher is the dev/no-op delivery backend.
type LogDispatcher struct{}

func (LogDispatcher) Send(_ context.Context, tmpl Template, recipients []string, _ map[string]any) error {
	slog.Info("notification", "template", tmpl, "recipients", len(recipients))
	return nil
}

// EventHandler subscribes to the domain-event bus and turns workflow
// events into notifications.
type EventHandler struct {
	d Dispatcher
}

func NewEventHandler(d Dispatcher) *EventHandler { return &EventHandler{d: d} }

func (h *EventHandler) Handle(ctx context.Context, e events.Event) error {
	switch ev := e.(type) {
	case events.ApprovalCreated:
		return h.send(ctx, TemplateAssigned, ev.Approval, recipients(ev.Approval))
	case events.ActionPerformed:
		return h.send(ctx, TemplateActionTaken, ev.Approval, recipients(ev.Approval))
	case events.HighPriorityAction:
		return h.send(ctx, TemplateHighPriority, ev.Approval, recipients(ev.Approval))
	}
	return nil
}

func (h *EventHandler) send(ctx context.Context, tmpl Template, a *ports.Approval, to []string) error {
	if len(to) == 0 {
		return nil
	}
	payload := map[string]any{
		"approval_id": a.ID,
		"reference":   a.Reference,
		"status":      a.Status,
		"type":        a.Type,
		"priority":    a.Priority,
	}
	return h.d.Send(ctx, tmpl, to, payload)
}

func recipients(a *ports.Approval) []string {
	seen := map[string]bool{}
	var out []string
	for _, id := range []string{a.RequesterID, a.ApproverID, a.DelegatedTo, a.EscalatedTo} {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

package usage

import (
	"context"
	"log/slog"

	"github.com/signoffhq/signoff/internal/events"
)

// Attach subscribes the queue to the event bus. Publish failures are
// logged and swallowed; usage export never blocks a mutation.
func Attach(bus *events.Bus, q Queue) {
	bus.Subscribe(events.KindApprovalCreated, events.HandlerFunc(func(_ context.Context, e events.Event) error {
		ev, ok := e.(events.ApprovalCreated)
		if !ok {
			return nil
		}
		publish(q, Record{
			Time:       ev.At,
			OrgID:      ev.Approval.OrgID,
			BranchID:   ev.Approval.BranchID,
			ApprovalID: ev.Approval.ID,
			Reference:  ev.Approval.Reference,
			Type:       string(ev.Approval.Type),
			Action:     "CREATE",
			ToStatus:   string(ev.Approval.Status),
			ActorID:    ev.Actor.UserID,
			ActorRole:  string(ev.Actor.Role),
			Amount:     ev.Approval.Amount,
			Currency:   ev.Approval.Currency,
		})
		return nil
	}))
	bus.Subscribe(events.KindActionPerformed, events.HandlerFunc(func(_ context.Context, e events.Event) error {
		ev, ok := e.(events.ActionPerformed)
		if !ok {
			return nil
		}
		publish(q, Record{
			Time:       ev.At,
			OrgID:      ev.Approval.OrgID,
			BranchID:   ev.Approval.BranchID,
			ApprovalID: ev.Approval.ID,
			Reference:  ev.Approval.Reference,
			Type:       string(ev.Approval.Type),
			Action:     string(ev.Action),
			FromStatus: string(ev.FromStatus),
			ToStatus:   string(ev.ToStatus),
			ActorID:    ev.Actor.UserID,
			ActorRole:  string(ev.Actor.Role),
			Amount:     ev.Approval.Amount,
			Currency:   ev.Approval.Currency,
		})
		return nil
	}))
}

func publish(q Queue, rec Record) {
	if err := q.Publish(rec); err != nil {
		slog.Warn("usage publish failed", "approval", rec.ApprovalID, "action", rec.Action, "err", err)
	}
}

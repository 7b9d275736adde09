package events

import (
    "context"
    "errors"
    "testing"

    "github.com/signoffhq/signoff/internal/ports"
)

func TestBusDispatchByKind(t *testing.T) {
    b := NewBus()
    var created, actions int
    b.Subscribe(KindApprovalCreated, HandlerFunc(func(_ context.Context, e Event) error {
        created++
        if _, ok := e.(ApprovalCreated); !ok {
            t.Fatalf("wrong payload type %T", e)
        }
        return nil
    }))
    b.Subscribe(KindActionPerformed, HandlerFunc(func(context.Context, Event) error {
        actions++
        return nil
    }))

    b.Publish(context.Background(), ApprovalCreated{Approval: &ports.Approval{ID: "a1"}})
    b.Publish(context.Background(), ActionPerformed{Approval: &ports.Approval{ID: "a1"}})
    if created != 1 || actions != 1 {
        t.Fatalf("created=%d actions=%d", created, actions)
    }
}

func TestBusCatchAllAndErrorSwallowing(t *testing.T) {
    b := NewBus()
    var all int
    b.SubscribeAll(HandlerFunc(func(context.Context, Event) error {
        all++
        return errors.New("boom")
    }))
    // a failing handler must not stop dispatch or panic
    b.Publish(context.Background(), ApprovalUpdated{Approval: &ports.Approval{ID: "a1"}})
    b.Publish(context.Background(), Broadcast{Event: "x"})
    if all != 2 {
        t.Fatalf("catch-all saw %d events", all)
    }
}

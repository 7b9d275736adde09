package cache

import (
    "context"
    "testing"
    "time"

    "github.com/signoffhq/signoff/internal/ports"
)

func TestMemoryGetSetDelete(t *testing.T) {
    ctx := context.Background()
    m := NewMemory()
    if _, ok, _ := m.Get(ctx, "k"); ok {
        t.Fatal("miss expected")
    }
    if err := m.Set(ctx, "k", []byte("v"), 0); err != nil {
        t.Fatal(err)
    }
    b, ok, _ := m.Get(ctx, "k")
    if !ok || string(b) != "v" {
        t.Fatalf("got %q ok=%v", b, ok)
    }
    if err := m.Delete(ctx, "k"); err != nil {
        t.Fatal(err)
    }
    if _, ok, _ := m.Get(ctx, "k"); ok {
        t.Fatal("delete did not remove key")
    }
}

func TestMemoryTTL(t *testing.T) {
    ctx := context.Background()
    m := NewMemory()
    m.Set(ctx, "k", []byte("v"), time.Millisecond)
    time.Sleep(5 * time.Millisecond)
    if _, ok, _ := m.Get(ctx, "k"); ok {
        t.Fatal("expired entry served")
    }
}

func TestDeletePrefix(t *testing.T) {
    ctx := context.Background()
    m := NewMemory()
    m.Set(ctx, "a:1", []byte("x"), 0)
    m.Set(ctx, "a:2", []byte("x"), 0)
    m.Set(ctx, "b:1", []byte("x"), 0)
    if err := m.DeletePrefix(ctx, "a:"); err != nil {
        t.Fatal(err)
    }
    if m.Len() != 1 {
        t.Fatalf("want 1 key left, got %d", m.Len())
    }
    if _, ok, _ := m.Get(ctx, "b:1"); !ok {
        t.Fatal("unrelated key removed")
    }
}

func TestListKeyVariesWithFilterAndActor(t *testing.T) {
    a1 := ports.Actor{UserID: "u1", OrgID: "o1"}
    a2 := ports.Actor{UserID: "u2", OrgID: "o1"}
    f := ports.Filter{Status: ports.StatusPending}
    p := ports.Page{Page: 1, Size: 20}
    if ListKey(a1, f, p) == ListKey(a2, f, p) {
        t.Fatal("list key not actor-scoped")
    }
    if ListKey(a1, f, p) == ListKey(a1, ports.Filter{}, p) {
        t.Fatal("list key ignores filter")
    }
}

func TestInvalidateRemovesAllDerivedKeys(t *testing.T) {
    ctx := context.Background()
    m := NewMemory()
    a := &ports.Approval{
        ID:          "a1",
        Reference:   "APR-1",
        RequesterID: "u-req",
        ApproverID:  "u-apr",
        OrgID:       "o1",
        BranchID:    "b1",
        Type:        ports.TypeExpenseClaim,
        Status:      ports.StatusPending,
        Priority:    ports.PriorityNormal,
    }
    actor := ports.Actor{UserID: "u-req", OrgID: "o1"}
    m.Set(ctx, IDKey(a.ID), []byte("x"), 0)
    m.Set(ctx, ReferenceKey(a.Reference), []byte("x"), 0)
    m.Set(ctx, ListKey(actor, ports.Filter{}, ports.Page{Page: 1, Size: 20}), []byte("x"), 0)
    m.Set(ctx, StatsKey(actor), []byte("x"), 0)

    if err := Invalidate(ctx, m, a); err != nil {
        t.Fatal(err)
    }
    if m.Len() != 0 {
        t.Fatalf("stale entries survived invalidation: %d", m.Len())
    }
}

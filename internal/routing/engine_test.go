package routing

import (
    "context"
    "testing"

    "github.com/signoffhq/signoff/internal/ports"
)

// fakeDirectory serves a fixed user set ordered by role rank descending.
type fakeDirectory struct {
    users []*ports.User
}

func (d *fakeDirectory) Get(_ context.Context, id string) (*ports.User, error) {
    for _, u := range d.users {
        if u.ID == id {
            return u, nil
        }
    }
    return nil, ports.NotFound("user", id)
}

func (d *fakeDirectory) ListByMinRole(_ context.Context, orgID string, min ports.Role) ([]*ports.User, error) {
    return d.filter(orgID, "", min), nil
}

func (d *fakeDirectory) ListBranchByMinRole(_ context.Context, orgID, branchID string, min ports.Role) ([]*ports.User, error) {
    return d.filter(orgID, branchID, min), nil
}

func (d *fakeDirectory) filter(orgID, branchID string, min ports.Role) []*ports.User {
    var out []*ports.User
    for rank := ports.RoleOwner.Rank(); rank >= min.Rank(); rank-- {
        for _, u := range d.users {
            if !u.Active || u.OrgID != orgID || u.Role.Rank() != rank {
                continue
            }
            if branchID != "" && u.BranchID != branchID {
                continue
            }
            out = append(out, u)
        }
    }
    return out
}

func testDir() *fakeDirectory {
    return &fakeDirectory{users: []*ports.User{
        {ID: "owner1", Role: ports.RoleOwner, OrgID: "orgA", Active: true},
        {ID: "admin1", Role: ports.RoleAdmin, OrgID: "orgA", Active: true},
        {ID: "mgr1", Role: ports.RoleManager, OrgID: "orgA", BranchID: "b1", Active: true},
        {ID: "mgr2", Role: ports.RoleManager, OrgID: "orgA", BranchID: "b2", Active: true},
        {ID: "emp1", Role: ports.RoleEmployee, OrgID: "orgA", BranchID: "b1", Active: true},
        {ID: "ownerB", Role: ports.RoleOwner, OrgID: "orgB", Active: true},
    }}
}

func TestExpenseClaimRoutesToManagerOrAbove(t *testing.T) {
    e := NewEngine(testDir(), DefaultThresholds)
    req := &ports.User{ID: "emp1", Role: ports.RoleEmployee, OrgID: "orgA", BranchID: "b1", Active: true}
    got, err := e.Route(context.Background(), ports.TypeExpenseClaim, 500, req)
    if err != nil {
        t.Fatal(err)
    }
    if len(got) == 0 {
        t.Fatal("empty candidate list")
    }
    first, err := e.dir.Get(context.Background(), got[0].UserID)
    if err != nil {
        t.Fatal(err)
    }
    if !first.Role.AtLeast(ports.RoleManager) {
        t.Fatalf("first candidate role %s below MANAGER", first.Role)
    }
    if first.OrgID != "orgA" {
        t.Fatalf("first candidate outside org: %s", first.OrgID)
    }
}

func TestAmountTiers(t *testing.T) {
    e := NewEngine(testDir(), DefaultThresholds)
    req := &ports.User{ID: "emp1", Role: ports.RoleEmployee, OrgID: "orgA", Active: true}

    // Above the admin tier only OWNER qualifies for the amount stage.
    got, err := e.Route(context.Background(), ports.TypeGeneric, 50000, req)
    if err != nil {
        t.Fatal(err)
    }
    if got[0].UserID != "owner1" || got[0].Reason != "amount tier" {
        t.Fatalf("want owner1 via amount tier first, got %+v", got[0])
    }

    // Mid tier: ADMIN-or-above, rank descending puts the owner first.
    got, err = e.Route(context.Background(), ports.TypeGeneric, 5000, req)
    if err != nil {
        t.Fatal(err)
    }
    ids := map[string]bool{}
    for _, c := range got {
        ids[c.UserID] = true
    }
    if !ids["admin1"] || !ids["owner1"] {
        t.Fatalf("admin tier candidates missing: %+v", got)
    }
}

func TestDedupKeepsFirstOccurrence(t *testing.T) {
    e := NewEngine(testDir(), DefaultThresholds)
    req := &ports.User{ID: "emp1", Role: ports.RoleEmployee, OrgID: "orgA", BranchID: "b1", Active: true}
    // HR type with amount: owner/admin/managers appear in both the HR
    // stage and the fallback stages; each user must appear once, with
    // its lowest (first) priority.
    got, err := e.Route(context.Background(), ports.TypeExpenseClaim, 500, req)
    if err != nil {
        t.Fatal(err)
    }
    seen := map[string]int{}
    for _, c := range got {
        seen[c.UserID]++
    }
    for id, n := range seen {
        if n > 1 {
            t.Fatalf("user %s appears %d times", id, n)
        }
    }
    for i := 1; i < len(got); i++ {
        if got[i].Priority < got[i-1].Priority {
            t.Fatalf("candidates not sorted: %+v", got)
        }
    }
}

func TestBranchManagerExcludesRequester(t *testing.T) {
    e := NewEngine(testDir(), DefaultThresholds)
    req := &ports.User{ID: "mgr1", Role: ports.RoleManager, OrgID: "orgA", BranchID: "b1", Active: true}
    got, err := e.Route(context.Background(), ports.TypeGeneric, 0, req)
    if err != nil {
        t.Fatal(err)
    }
    for _, c := range got {
        if c.UserID == "mgr1" && c.Reason != "fallback" {
            t.Fatalf("requester routed to itself: %+v", c)
        }
    }
}

func TestEmptyDirectoryYieldsEmptyList(t *testing.T) {
    e := NewEngine(&fakeDirectory{}, DefaultThresholds)
    req := &ports.User{ID: "u1", Role: ports.RoleEmployee, OrgID: "orgZ", Active: true}
    got, err := e.Route(context.Background(), ports.TypeGeneric, 100, req)
    if err != nil {
        t.Fatal(err)
    }
    if len(got) != 0 {
        t.Fatalf("want empty list, got %+v", got)
    }
}

func TestThresholdSwap(t *testing.T) {
    e := NewEngine(testDir(), DefaultThresholds)
    e.SetThresholds(Thresholds{Manager: 10, Admin: 100})
    req := &ports.User{ID: "emp1", Role: ports.RoleEmployee, OrgID: "orgA", Active: true}
    got, err := e.Route(context.Background(), ports.TypeGeneric, 50, req)
    if err != nil {
        t.Fatal(err)
    }
    // 50 now lands in the ADMIN tier.
    if got[0].Reason != "amount tier" {
        t.Fatalf("want amount tier first, got %+v", got[0])
    }
    first, _ := e.dir.Get(context.Background(), got[0].UserID)
    if !first.Role.AtLeast(ports.RoleAdmin) {
        t.Fatalf("tier swap not applied: %s", first.Role)
    }
}

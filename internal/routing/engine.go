// Package routing computes the ordered candidate-approver list for a new
// approval. Candidates are accumulated across stages, deduplicated by user
// keeping the first occurrence, and sorted ascending by priority.
package routing

import (
    "context"
    "sort"
    "sync"

    "github.com/signoffhq/signoff/internal/ports"
)

// Candidate is one eligible approver with its routing priority.
type Candidate struct {
    UserID   string
    Priority int
    Reason   string
}

// Thresholds are the amount tiers. Amounts at or below Manager route to
// MANAGER-or-above, at or below Admin to ADMIN-or-above, above that to
// OWNER. Amounts are compared in the approval's own currency; no
// normalization is applied.
type Thresholds struct {
    Manager float64 `yaml:"manager"`
    Admin   float64 `yaml:"admin"`
}

// DefaultThresholds mirror the shipped configuration.
var DefaultThresholds = Thresholds{Manager: 1000, Admin: 10000}

// hrTypes route through the HR chain regardless of amount.
var hrTypes = map[ports.ApprovalType]bool{
    ports.TypeLeaveRequest:       true,
    ports.TypeOvertime:           true,
    ports.TypeExpenseClaim:       true,
    ports.TypeReimbursement:      true,
    ports.TypeTravelRequest:      true,
    ports.TypeRoleChange:         true,
    ports.TypeDepartmentTransfer: true,
}

// Engine resolves approver candidates against the identity directory.
type Engine struct {
    dir ports.Directory

    mu sync.RWMutex
    th Thresholds
}

func NewEngine(dir ports.Directory, th Thresholds) *Engine {
    if th.Manager <= 0 {
        th = DefaultThresholds
    }
    return &Engine{dir: dir, th: th}
}

// SetThresholds swaps the amount tiers; used by the config watcher.
func (e *Engine) SetThresholds(th Thresholds) {
    e.mu.Lock()
    defer e.mu.Unlock()
    e.th = th
}

func (e *Engine) thresholds() Thresholds {
    e.mu.RLock()
    defer e.mu.RUnlock()
    return e.th
}

// Route returns the ordered candidate list. An empty list is a valid
// outcome; the caller decides what an approval without an approver means.
func (e *Engine) Route(ctx context.Context, typ ports.ApprovalType, amount float64, requester *ports.User) ([]Candidate, error) {
    var out []Candidate
    next := 1 // running priority across the HR and amount stages

    if hrTypes[typ] {
        users, err := e.dir.ListByMinRole(ctx, requester.OrgID, ports.RoleManager)
        if err != nil {
            return nil, ports.Infra("routing: list hr approvers", err)
        }
        for _, u := range users {
            out = append(out, Candidate{UserID: u.ID, Priority: next, Reason: "hr chain"})
            next++
        }
    }

    if amount > 0 {
        th := e.thresholds()
        min := ports.RoleOwner
        switch {
        case amount <= th.Manager:
            min = ports.RoleManager
        case amount <= th.Admin:
            min = ports.RoleAdmin
        }
        users, err := e.dir.ListByMinRole(ctx, requester.OrgID, min)
        if err != nil {
            return nil, ports.Infra("routing: list amount approvers", err)
        }
        for _, u := range users {
            out = append(out, Candidate{UserID: u.ID, Priority: next, Reason: "amount tier"})
            next++
        }
    }

    // Hierarchical fallback: branch managers then org admins, at fixed
    // priority offsets so they sort behind the primary stages.
    if requester.BranchID != "" {
        managers, err := e.dir.ListBranchByMinRole(ctx, requester.OrgID, requester.BranchID, ports.RoleManager)
        if err != nil {
            return nil, ports.Infra("routing: list branch managers", err)
        }
        for i, u := range managers {
            if u.ID == requester.ID {
                continue
            }
            out = append(out, Candidate{UserID: u.ID, Priority: 10 + i + 1, Reason: "branch manager"})
        }
    }
    admins, err := e.dir.ListByMinRole(ctx, requester.OrgID, ports.RoleAdmin)
    if err != nil {
        return nil, ports.Infra("routing: list org admins", err)
    }
    for i, u := range admins {
        if u.ID == requester.ID {
            continue
        }
        out = append(out, Candidate{UserID: u.ID, Priority: 20 + i + 1, Reason: "org admin"})
    }

    out = dedup(out)
    sort.SliceStable(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })

    if len(out) == 0 {
        users, err := e.dir.ListByMinRole(ctx, requester.OrgID, ports.RoleManager)
        if err != nil {
            return nil, ports.Infra("routing: fallback lookup", err)
        }
        if len(users) > 0 {
            out = append(out, Candidate{UserID: users[0].ID, Priority: 1, Reason: "fallback"})
        }
    }
    return out, nil
}

// dedup keeps the first occurrence of each user.
func dedup(in []Candidate) []Candidate {
    seen := make(map[string]bool, len(in))
    out := in[:0]
    for _, c := range in {
        if seen[c.UserID] {
            continue
        }
        seen[c.UserID] = true
        out = append(out, c)
    }
    return out
}

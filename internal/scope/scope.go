// Package scope computes the visibility predicate for an actor. The same
// predicate is applied to SQL queries and re-checked in memory after a
// single-entity load, so a tampered id parameter cannot bypass it.
package scope

import (
    "gorm.io/gorm"

    "github.com/signoffhq/signoff/internal/ports"
)

// Apply restricts a gorm approval query to what the actor may see.
// Everyone is confined to their organization. Actors below admin/owner
// are further confined to their branch (when assigned) and to rows where
// they are requester, approver, or delegate. Soft-deleted rows are
// excluded unless explicitly requested.
func Apply(tx *gorm.DB, actor ports.Actor, includeDeleted bool) *gorm.DB {
    tx = tx.Where("org_id = ?", actor.OrgID)
    if !includeDeleted {
        tx = tx.Where("lifecycle <> ?", ports.LifecycleDeleted)
    }
    if actor.Role.Elevated() {
        return tx
    }
    if actor.BranchID != "" {
        tx = tx.Where("branch_id = ?", actor.BranchID)
    }
    return tx.Where(
        "requester_id = ? OR approver_id = ? OR delegated_to = ?",
        actor.UserID, actor.UserID, actor.UserID,
    )
}

// Visible re-validates the predicate of Apply against a loaded approval.
func Visible(a *ports.Approval, actor ports.Actor, includeDeleted bool) bool {
    if a == nil || a.OrgID != actor.OrgID {
        return false
    }
    if !includeDeleted && a.Lifecycle == ports.LifecycleDeleted {
        return false
    }
    if actor.Role.Elevated() {
        return true
    }
    if actor.BranchID != "" && a.BranchID != actor.BranchID {
        return false
    }
    return a.RequesterID == actor.UserID || a.ApproverID == actor.UserID ||
        (a.DelegatedTo != "" && a.DelegatedTo == actor.UserID)
}

// Package workflow owns the approval status state machine: which actions
// are legal from which statuses, who may perform them, and the field
// mutations each transition applies. It never touches persistence.
package workflow

import (
    "time"

    "github.com/signoffhq/signoff/internal/ports"
)

// actorRule identifies who may perform a transition.
type actorRule int

const (
    byRequester actorRule = iota // requester only
    byApprover                   // approver, delegatedTo, or org admin/owner
    byRequesterOrAdmin
)

type transition struct {
    from   []ports.Status
    to     ports.Status // empty means status unchanged (DELEGATE)
    who    actorRule
}

var table = map[ports.Action]transition{
    ports.ActionSubmit: {
        from: []ports.Status{ports.StatusDraft},
        to:   ports.StatusPending,
        who:  byRequester,
    },
    ports.ActionApprove: {
        from: []ports.Status{ports.StatusPending, ports.StatusUnderReview},
        to:   ports.StatusApproved,
        who:  byApprover,
    },
    ports.ActionReject: {
        from: []ports.Status{ports.StatusPending, ports.StatusUnderReview},
        to:   ports.StatusRejected,
        who:  byApprover,
    },
    ports.ActionRequestInfo: {
        from: []ports.Status{ports.StatusPending, ports.StatusUnderReview},
        to:   ports.StatusAdditionalInfo,
        who:  byApprover,
    },
    ports.ActionDelegate: {
        from: []ports.Status{ports.StatusPending, ports.StatusUnderReview},
        to:   "", // status unchanged
        who:  byApprover,
    },
    ports.ActionEscalate: {
        from: []ports.Status{ports.StatusPending, ports.StatusUnderReview},
        to:   ports.StatusEscalated,
        who:  byApprover,
    },
    ports.ActionSign: {
        from: []ports.Status{ports.StatusApproved},
        to:   ports.StatusSigned,
        who:  byApprover,
    },
    ports.ActionWithdraw: {
        from: []ports.Status{ports.StatusPending, ports.StatusUnderReview, ports.StatusAdditionalInfo},
        to:   ports.StatusWithdrawn,
        who:  byRequesterOrAdmin,
    },
}

// Payload carries transition-specific inputs.
type Payload struct {
    Comments         string
    Reason           string
    DelegateTo       string
    EscalateTo       string
    EscalationReason string

    SignatureType string
    SignatureData string
    CertificateID string
    BiometricHash string
    LegalNotice   string
}

// Result reports the applied transition for history and event emission.
type Result struct {
    Action     ports.Action
    FromStatus ports.Status
    ToStatus   ports.Status
    Signature  *ports.Signature // non-nil for SIGN
}

// Allowed reports whether action is legal from the given status.
func Allowed(action ports.Action, from ports.Status) bool {
    t, ok := table[action]
    if !ok {
        return false
    }
    for _, s := range t.from {
        if s == from {
            return true
        }
    }
    return false
}

// Authorize checks the actor requirement for action against the approval.
// It returns a PermissionError when the actor lacks the required relation.
func Authorize(a *ports.Approval, action ports.Action, actor ports.Actor) error {
    t, ok := table[action]
    if !ok {
        return ports.Conflictf("unknown action %s", action)
    }
    if actor.OrgID != a.OrgID {
        return ports.Permissionf("actor outside organization")
    }
    switch t.who {
    case byRequester:
        if actor.UserID != a.RequesterID {
            return ports.Permissionf("only the requester may %s", action)
        }
    case byApprover:
        if !isApproverParty(a, actor) {
            return ports.Permissionf("actor is not approver, delegate, or org admin")
        }
    case byRequesterOrAdmin:
        if actor.UserID != a.RequesterID && !actor.Role.Elevated() {
            return ports.Permissionf("only the requester or an org admin may %s", action)
        }
    }
    return nil
}

func isApproverParty(a *ports.Approval, actor ports.Actor) bool {
    if actor.Role.Elevated() {
        return true
    }
    return actor.UserID == a.ApproverID || (a.DelegatedTo != "" && actor.UserID == a.DelegatedTo)
}

// Apply validates and performs a transition, mutating the approval in
// memory. Callers persist, append history, invalidate caches, and emit
// events afterwards. On any error the approval is left untouched.
func Apply(a *ports.Approval, action ports.Action, p Payload, actor ports.Actor, now time.Time) (*Result, error) {
    if err := Authorize(a, action, actor); err != nil {
        return nil, err
    }
    if !Allowed(action, a.Status) {
        return nil, ports.Conflictf("action %s not allowed from status %s", action, a.Status)
    }
    if action == ports.ActionSign && !a.RequiresSignature {
        return nil, ports.Conflictf("approval does not require a signature")
    }

    res := &Result{Action: action, FromStatus: a.Status}

    switch action {
    case ports.ActionSubmit:
        a.Status = ports.StatusPending
        a.SubmittedAt = &now
    case ports.ActionApprove:
        a.Status = ports.StatusApproved
        a.ApprovedAt = &now
        a.ApprovedCount++
        if a.CurrentStep < a.TotalSteps {
            a.CurrentStep++
        }
    case ports.ActionReject:
        a.Status = ports.StatusRejected
        a.RejectedAt = &now
        a.RejectionReason = p.Reason
        a.RejectedCount++
    case ports.ActionRequestInfo:
        a.Status = ports.StatusAdditionalInfo
    case ports.ActionDelegate:
        if p.DelegateTo == "" {
            return nil, ports.Validationf("delegate target required")
        }
        a.DelegatedFrom = a.ApproverID
        a.DelegatedTo = p.DelegateTo
    case ports.ActionEscalate:
        if p.EscalateTo == "" {
            return nil, ports.Validationf("escalation target required")
        }
        a.Status = ports.StatusEscalated
        a.IsEscalated = true
        a.EscalatedAt = &now
        a.EscalationLevel++
        a.EscalatedTo = p.EscalateTo
        a.EscalationReason = p.EscalationReason
    case ports.ActionSign:
        a.Status = ports.StatusSigned
        a.IsSigned = true
        a.SignatureType = p.SignatureType
        res.Signature = &ports.Signature{
            ApprovalID:    a.ID,
            SignerID:      actor.UserID,
            SignatureType: p.SignatureType,
            SignatureData: p.SignatureData,
            CertificateID: p.CertificateID,
            BiometricHash: p.BiometricHash,
            LegalNotice:   p.LegalNotice,
            ValidFrom:     &now,
            CreatedAt:     now,
        }
    case ports.ActionWithdraw:
        a.Status = ports.StatusWithdrawn
    }

    a.RefreshOverdue(now)
    res.ToStatus = a.Status
    return res, nil
}

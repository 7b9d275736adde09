package workflow

import (
    "testing"
    "time"

    "github.com/signoffhq/signoff/internal/ports"
)

func pendingApproval() *ports.Approval {
    return &ports.Approval{
        ID:          "a1",
        Status:      ports.StatusPending,
        RequesterID: "u-req",
        ApproverID:  "u-apr",
        OrgID:       "org1",
        Lifecycle:   ports.LifecycleActive,
    }
}

func approverActor() ports.Actor {
    return ports.Actor{UserID: "u-apr", Role: ports.RoleManager, OrgID: "org1"}
}

func TestApproveFromPending(t *testing.T) {
    a := pendingApproval()
    now := time.Now()
    res, err := Apply(a, ports.ActionApprove, Payload{}, approverActor(), now)
    if err != nil {
        t.Fatal(err)
    }
    if res.FromStatus != ports.StatusPending || res.ToStatus != ports.StatusApproved {
        t.Fatalf("transition %s -> %s", res.FromStatus, res.ToStatus)
    }
    if a.ApprovedCount != 1 || a.ApprovedAt == nil {
        t.Fatalf("approve side effects missing: count=%d at=%v", a.ApprovedCount, a.ApprovedAt)
    }
}

func TestIllegalTransitionLeavesStateUntouched(t *testing.T) {
    a := pendingApproval()
    a.Status = ports.StatusRejected
    _, err := Apply(a, ports.ActionApprove, Payload{}, approverActor(), time.Now())
    if !ports.IsConflict(err) {
        t.Fatalf("want ConflictError, got %v", err)
    }
    if a.Status != ports.StatusRejected || a.ApprovedCount != 0 || a.ApprovedAt != nil {
        t.Fatalf("approval mutated on illegal transition: %+v", a)
    }
}

func TestUnauthorizedActor(t *testing.T) {
    a := pendingApproval()
    stranger := ports.Actor{UserID: "u-x", Role: ports.RoleEmployee, OrgID: "org1"}
    _, err := Apply(a, ports.ActionApprove, Payload{}, stranger, time.Now())
    if !ports.IsPermission(err) {
        t.Fatalf("want PermissionError, got %v", err)
    }
    if a.Status != ports.StatusPending {
        t.Fatalf("status mutated: %s", a.Status)
    }
}

func TestCrossOrgActorDenied(t *testing.T) {
    a := pendingApproval()
    outsider := ports.Actor{UserID: "u-apr", Role: ports.RoleOwner, OrgID: "org2"}
    if _, err := Apply(a, ports.ActionApprove, Payload{}, outsider, time.Now()); !ports.IsPermission(err) {
        t.Fatalf("want PermissionError, got %v", err)
    }
}

func TestSubmitOnlyByRequester(t *testing.T) {
    a := pendingApproval()
    a.Status = ports.StatusDraft
    if _, err := Apply(a, ports.ActionSubmit, Payload{}, approverActor(), time.Now()); !ports.IsPermission(err) {
        t.Fatalf("want PermissionError, got %v", err)
    }
    req := ports.Actor{UserID: "u-req", Role: ports.RoleEmployee, OrgID: "org1"}
    res, err := Apply(a, ports.ActionSubmit, Payload{}, req, time.Now())
    if err != nil {
        t.Fatal(err)
    }
    if res.ToStatus != ports.StatusPending || a.SubmittedAt == nil {
        t.Fatalf("submit failed: %s", res.ToStatus)
    }
}

func TestDelegateKeepsStatus(t *testing.T) {
    a := pendingApproval()
    res, err := Apply(a, ports.ActionDelegate, Payload{DelegateTo: "u-del"}, approverActor(), time.Now())
    if err != nil {
        t.Fatal(err)
    }
    if res.ToStatus != ports.StatusPending {
        t.Fatalf("delegate changed status: %s", res.ToStatus)
    }
    if a.DelegatedFrom != "u-apr" || a.DelegatedTo != "u-del" {
        t.Fatalf("delegation fields: from=%s to=%s", a.DelegatedFrom, a.DelegatedTo)
    }
    // the delegate may now act
    del := ports.Actor{UserID: "u-del", Role: ports.RoleSupervisor, OrgID: "org1"}
    if _, err := Apply(a, ports.ActionApprove, Payload{}, del, time.Now()); err != nil {
        t.Fatalf("delegate approve: %v", err)
    }
}

func TestDelegateRequiresTarget(t *testing.T) {
    a := pendingApproval()
    if _, err := Apply(a, ports.ActionDelegate, Payload{}, approverActor(), time.Now()); !ports.IsValidation(err) {
        t.Fatalf("want ValidationError, got %v", err)
    }
}

func TestEscalateSetsFields(t *testing.T) {
    a := pendingApproval()
    res, err := Apply(a, ports.ActionEscalate, Payload{EscalateTo: "u-42", EscalationReason: "stuck"}, approverActor(), time.Now())
    if err != nil {
        t.Fatal(err)
    }
    if res.ToStatus != ports.StatusEscalated {
        t.Fatalf("to=%s", res.ToStatus)
    }
    if !a.IsEscalated || a.EscalationLevel != 1 || a.EscalatedTo != "u-42" || a.EscalatedAt == nil {
        t.Fatalf("escalation fields: %+v", a)
    }
}

func TestSignGuards(t *testing.T) {
    a := pendingApproval()
    a.Status = ports.StatusApproved
    a.RequiresSignature = false
    if _, err := Apply(a, ports.ActionSign, Payload{}, approverActor(), time.Now()); !ports.IsConflict(err) {
        t.Fatalf("sign without requirement: want ConflictError, got %v", err)
    }

    a.RequiresSignature = true
    a.Status = ports.StatusPending
    if _, err := Apply(a, ports.ActionSign, Payload{}, approverActor(), time.Now()); !ports.IsConflict(err) {
        t.Fatalf("sign from PENDING: want ConflictError, got %v", err)
    }

    a.Status = ports.StatusApproved
    res, err := Apply(a, ports.ActionSign, Payload{SignatureType: "digital", SignatureData: "sig"}, approverActor(), time.Now())
    if err != nil {
        t.Fatal(err)
    }
    if res.Signature == nil || res.Signature.SignerID != "u-apr" {
        t.Fatalf("signature record missing")
    }
    if a.Status != ports.StatusSigned || !a.IsSigned {
        t.Fatalf("sign did not finish: %s", a.Status)
    }
}

func TestWithdrawByRequesterAndAdmin(t *testing.T) {
    a := pendingApproval()
    req := ports.Actor{UserID: "u-req", Role: ports.RoleEmployee, OrgID: "org1"}
    if _, err := Apply(a, ports.ActionWithdraw, Payload{}, req, time.Now()); err != nil {
        t.Fatal(err)
    }
    if a.Status != ports.StatusWithdrawn {
        t.Fatalf("status=%s", a.Status)
    }

    b := pendingApproval()
    admin := ports.Actor{UserID: "u-adm", Role: ports.RoleAdmin, OrgID: "org1"}
    if _, err := Apply(b, ports.ActionWithdraw, Payload{}, admin, time.Now()); err != nil {
        t.Fatal(err)
    }
}

func TestOverdueFrozenAtTerminal(t *testing.T) {
    past := time.Now().Add(-time.Hour)
    a := pendingApproval()
    a.Deadline = &past
    a.RefreshOverdue(time.Now())
    if !a.IsOverdue {
        t.Fatalf("expected overdue while pending")
    }
    if _, err := Apply(a, ports.ActionReject, Payload{Reason: "no"}, approverActor(), time.Now()); err != nil {
        t.Fatal(err)
    }
    was := a.IsOverdue
    a.Deadline = nil
    a.RefreshOverdue(time.Now())
    if a.IsOverdue != was {
        t.Fatalf("overdue flag changed after terminal status")
    }
}

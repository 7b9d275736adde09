package approvals

import (
	"context"
	"strings"

	"github.com/signoffhq/signoff/internal/events"
	"github.com/signoffhq/signoff/internal/ports"
	"github.com/signoffhq/signoff/internal/telemetry"
	"github.com/signoffhq/signoff/internal/workflow"
)

// ActionRequest is the payload for PerformAction.
type ActionRequest struct {
	Action   ports.Action
	Comments string
	Source   string

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

// PerformAction runs one state-machine transition end to end: authorize,
// validate, mutate, persist with version+1, append history, invalidate
// caches, and emit events. Scope is checked before the machine runs, so
// an out-of-scope id reports NotFound rather than leaking existence.
func (s *Service) PerformAction(ctx context.Context, id string, req ActionRequest, actor ports.Actor) (_ *ports.Approval, err error) {
	ctx, span := telemetry.StartApprovalSpan(ctx, "action."+strings.ToLower(string(req.Action)), id, actor.OrgID)
	defer func() { telemetry.End(span, err) }()

	a, err := s.Get(ctx, id, actor)
	if err != nil {
		return nil, err
	}

	now := s.now()
	res, err := workflow.Apply(a, req.Action, workflow.Payload{
		Comments:         req.Comments,
		Reason:           req.Reason,
		DelegateTo:       req.DelegateTo,
		EscalateTo:       req.EscalateTo,
		EscalationReason: req.EscalationReason,
		SignatureType:    req.SignatureType,
		SignatureData:    req.SignatureData,
		CertificateID:    req.CertificateID,
		BiometricHash:    req.BiometricHash,
		LegalNotice:      req.LegalNotice,
	}, actor, now)
	if err != nil {
		return nil, err
	}

	a.UpdatedAt = now
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	if res.Signature != nil {
		if err := s.repo.CreateSignature(ctx, res.Signature); err != nil {
			return nil, err
		}
	}
	s.appendHistory(ctx, a, res, actor, req.Comments, req.Source)
	s.invalidate(ctx, a)

	s.bus.Publish(ctx, events.ActionPerformed{
		Approval:   a,
		Action:     req.Action,
		FromStatus: res.FromStatus,
		ToStatus:   res.ToStatus,
		Actor:      actor,
		At:         now,
	})
	if s.highPriority(a) {
		s.bus.Publish(ctx, events.HighPriorityAction{Approval: a, Action: req.Action, Actor: actor, At: now})
	}
	s.broadcast(ctx, "approval.action.performed", a)
	return a, nil
}

// Submit moves a DRAFT approval to PENDING.
func (s *Service) Submit(ctx context.Context, id string, actor ports.Actor) (*ports.Approval, error) {
	return s.PerformAction(ctx, id, ActionRequest{Action: ports.ActionSubmit}, actor)
}

// SignRequest carries the signature block for Sign.
type SignRequest struct {
	SignatureType string
	SignatureData string
	CertificateID string
	BiometricHash string
	LegalNotice   string
	Comments      string
}

// Sign completes a required sign-off on an APPROVED approval.
func (s *Service) Sign(ctx context.Context, id string, req SignRequest, actor ports.Actor) (*ports.Approval, error) {
	if req.SignatureData == "" {
		return nil, ports.Validationf("signature data required")
	}
	return s.PerformAction(ctx, id, ActionRequest{
		Action:        ports.ActionSign,
		Comments:      req.Comments,
		SignatureType: req.SignatureType,
		SignatureData: req.SignatureData,
		CertificateID: req.CertificateID,
		BiometricHash: req.BiometricHash,
		LegalNotice:   req.LegalNotice,
	}, actor)
}

// Withdraw retracts an in-flight approval.
func (s *Service) Withdraw(ctx context.Context, id string, actor ports.Actor) (*ports.Approval, error) {
	return s.PerformAction(ctx, id, ActionRequest{Action: ports.ActionWithdraw}, actor)
}

// Archive flips the lifecycle sub-state of a settled approval. It is
// housekeeping, not a workflow transition: the status table is not
// consulted, only the terminal check.
func (s *Service) Archive(ctx context.Context, id string, actor ports.Actor) (*ports.Approval, error) {
	a, err := s.Get(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	if !actor.Role.Elevated() {
		return nil, ports.Permissionf("only org admins may archive")
	}
	if !a.Terminal() {
		return nil, ports.Conflictf("only settled approvals can be archived, status is %s", a.Status)
	}
	if a.Lifecycle == ports.LifecycleArchived {
		return nil, ports.Conflictf("approval already archived")
	}

	now := s.now()
	a.Lifecycle = ports.LifecycleArchived
	a.ArchivedAt = &now
	a.ArchivedBy = actor.UserID
	a.UpdatedAt = now
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	s.invalidate(ctx, a)
	s.bus.Publish(ctx, events.ApprovalUpdated{Approval: a, Actor: actor, At: now})
	s.broadcast(ctx, "approval.archived", a)
	return a, nil
}

// Delete soft-deletes an approval. Rows are never physically removed.
func (s *Service) Delete(ctx context.Context, id string, actor ports.Actor) error {
	a, err := s.Get(ctx, id, actor)
	if err != nil {
		return err
	}
	if !actor.Role.Elevated() && a.RequesterID != actor.UserID {
		return ports.Permissionf("only the requester or an org admin may delete")
	}
	if a.RequesterID == actor.UserID && !actor.Role.Elevated() && a.Status != ports.StatusDraft {
		return ports.Conflictf("requesters may only delete drafts")
	}

	now := s.now()
	a.Lifecycle = ports.LifecycleDeleted
	a.UpdatedAt = now
	if err := s.repo.Update(ctx, a); err != nil {
		return err
	}
	s.invalidate(ctx, a)
	s.bus.Publish(ctx, events.ApprovalUpdated{Approval: a, Actor: actor, At: now})
	return nil
}

// BulkItemResult is the outcome of one item in a bulk call.
type BulkItemResult struct {
	ID    string `json:"id"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// BulkResult aggregates a bulk call.
type BulkResult struct {
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
	Items     []BulkItemResult `json:"items"`
}

// BulkAction applies the same action to each id sequentially. Items fail
// independently; one failure neither stops nor rolls back the rest.
func (s *Service) BulkAction(ctx context.Context, ids []string, req ActionRequest, actor ports.Actor) (*BulkResult, error) {
	if len(ids) == 0 {
		return nil, ports.Validationf("at least one id required")
	}
	res := &BulkResult{Items: make([]BulkItemResult, 0, len(ids))}
	for _, id := range ids {
		item := BulkItemResult{ID: id}
		if _, err := s.PerformAction(ctx, id, req, actor); err != nil {
			item.Error = err.Error()
			res.Failed++
		} else {
			item.OK = true
			res.Succeeded++
		}
		res.Items = append(res.Items, item)
	}
	return res, nil
}

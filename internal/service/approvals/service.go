// Package approvals orchestrates the workflow engine: routing on create,
// state-machine transitions, history, cache coherence, and event
// emission. Handlers stay thin; everything stateful happens here.
package approvals

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/signoffhq/signoff/internal/audit/chain"
	"github.com/signoffhq/signoff/internal/cache"
	"github.com/signoffhq/signoff/internal/events"
	"github.com/signoffhq/signoff/internal/objstore"
	"github.com/signoffhq/signoff/internal/ports"
	"github.com/signoffhq/signoff/internal/routing"
	"github.com/signoffhq/signoff/internal/scope"
	"github.com/signoffhq/signoff/internal/telemetry"
	"github.com/signoffhq/signoff/internal/workflow"
)

const defaultCacheTTL = 5 * time.Minute

// Options tune service behavior.
type Options struct {
	// HighPriorityAmount triggers approval.high.priority.action for
	// amounts above it, independent of the priority field.
	HighPriorityAmount float64
	// CacheTTL bounds staleness of cached reads. Zero means the default.
	CacheTTL time.Duration
	// Audit, when set, mirrors every transition into the hash chain.
	Audit *chain.Writer
	// Store, when set, enables attachment upload and download.
	Store objstore.Store
}

type Service struct {
	repo   ports.ApprovalRepository
	dir    ports.Directory
	cache  cache.Cache
	bus    *events.Bus
	router *routing.Engine
	store  objstore.Store
	opts   Options
	now    func() time.Time
}

func NewService(repo ports.ApprovalRepository, dir ports.Directory, c cache.Cache, bus *events.Bus, router *routing.Engine, opts Options) *Service {
	if opts.HighPriorityAmount <= 0 {
		opts.HighPriorityAmount = 10000
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = defaultCacheTTL
	}
	return &Service{
		repo:   repo,
		dir:    dir,
		cache:  c,
		bus:    bus,
		router: router,
		store:  opts.Store,
		opts:   opts,
		now:    time.Now,
	}
}

// CreateRequest is the input for a new approval.
type CreateRequest struct {
	Type        ports.ApprovalType
	Priority    ports.Priority
	FlowType    ports.FlowType
	Title       string
	Description string
	Amount      float64
	Currency    string
	Deadline    *time.Time
	BranchID    string

	DocumentURLs []string
	Attachments  []ports.Attachment

	RequiresSignature bool
	AutoSubmit        bool
}

// Create routes the request, assigns the top candidate as approver, and
// persists the approval in DRAFT (or PENDING when auto-submitting).
func (s *Service) Create(ctx context.Context, req CreateRequest, actor ports.Actor) (_ *ports.Approval, err error) {
	ctx, span := telemetry.StartApprovalSpan(ctx, "create", "", actor.OrgID)
	defer func() { telemetry.End(span, err) }()

	if err := validateCreate(req); err != nil {
		return nil, err
	}
	requester, err := s.dir.Get(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	a := &ports.Approval{
		ID:          uuid.NewString(),
		Reference:   s.newReference(now),
		Type:        req.Type,
		Priority:    defaultPriority(req.Priority),
		FlowType:    defaultFlow(req.FlowType),
		Status:      ports.StatusDraft,
		CurrentStep: 1,
		TotalSteps:  1,
		RequesterID: actor.UserID,
		OrgID:       actor.OrgID,
		BranchID:    firstNonEmpty(req.BranchID, actor.BranchID),
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Amount:      req.Amount,
		Currency:    firstNonEmpty(req.Currency, "USD"),
		Deadline:    req.Deadline,

		DocumentURLs:      req.DocumentURLs,
		Attachments:       req.Attachments,
		RequiresSignature: req.RequiresSignature,

		Lifecycle: ports.LifecycleActive,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	a.IsUrgent = a.Priority == ports.PriorityUrgent || a.Priority == ports.PriorityCritical
	a.RefreshOverdue(now)

	candidates, err := s.router.Route(ctx, a.Type, a.Amount, requester)
	if err != nil {
		return nil, err
	}
	if len(candidates) > 0 {
		a.ApproverID = candidates[0].UserID
	}
	// an approval without an approver is valid; callers handle it

	var submitted *workflow.Result
	if req.AutoSubmit {
		res, err := workflow.Apply(a, ports.ActionSubmit, workflow.Payload{}, actor, now)
		if err != nil {
			return nil, err
		}
		submitted = res
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	if submitted != nil {
		s.appendHistory(ctx, a, submitted, actor, "", "auto-submit")
	}
	s.invalidate(ctx, a)

	s.bus.Publish(ctx, events.ApprovalCreated{Approval: a, Actor: actor, At: now})
	if s.highPriority(a) {
		s.bus.Publish(ctx, events.HighPriorityAction{Approval: a, Action: ports.ActionSubmit, Actor: actor, At: now})
	}
	s.broadcast(ctx, "approval.created", a)
	return a, nil
}

// Get loads one approval through the cache and re-validates visibility
// after load, so a guessed id behaves exactly like a missing one.
func (s *Service) Get(ctx context.Context, id string, actor ports.Actor) (*ports.Approval, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ports.Validationf("id required")
	}
	if a, ok := s.cachedApproval(ctx, cache.IDKey(id)); ok {
		if !scope.Visible(a, actor, false) {
			return nil, ports.NotFound("approval", id)
		}
		return a, nil
	}
	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !scope.Visible(a, actor, false) {
		return nil, ports.NotFound("approval", id)
	}
	s.cacheApproval(ctx, cache.IDKey(id), a)
	return a, nil
}

// GetByReference is Get keyed by the immutable reference.
func (s *Service) GetByReference(ctx context.Context, ref string, actor ports.Actor) (*ports.Approval, error) {
	if strings.TrimSpace(ref) == "" {
		return nil, ports.Validationf("reference required")
	}
	if a, ok := s.cachedApproval(ctx, cache.ReferenceKey(ref)); ok {
		if !scope.Visible(a, actor, false) {
			return nil, ports.NotFound("approval", ref)
		}
		return a, nil
	}
	a, err := s.repo.GetByReference(ctx, ref)
	if err != nil {
		return nil, err
	}
	if !scope.Visible(a, actor, false) {
		return nil, ports.NotFound("approval", ref)
	}
	s.cacheApproval(ctx, cache.ReferenceKey(ref), a)
	return a, nil
}

// ListResult carries one page plus the unpaged total.
type ListResult struct {
	Items []*ports.Approval `json:"items"`
	Total int64             `json:"total"`
}

// List serves scoped listings through the cache.
func (s *Service) List(ctx context.Context, f ports.Filter, p ports.Page, actor ports.Actor) (_ *ListResult, err error) {
	ctx, span := telemetry.StartApprovalSpan(ctx, "list", "", actor.OrgID)
	defer func() { telemetry.End(span, err) }()

	key := cache.ListKey(actor, f, p)
	if b, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		var res ListResult
		if json.Unmarshal(b, &res) == nil {
			return &res, nil
		}
	}
	items, total, err := s.repo.List(ctx, actor, f, p)
	if err != nil {
		return nil, err
	}
	res := &ListResult{Items: items, Total: total}
	if b, err := json.Marshal(res); err == nil {
		if err := s.cache.Set(ctx, key, b, s.opts.CacheTTL); err != nil {
			slog.Warn("cache set failed", "key", key, "error", err)
		}
	}
	return res, nil
}

// Stats returns scoped aggregate counts, cached per actor.
func (s *Service) Stats(ctx context.Context, actor ports.Actor) (*ports.Stats, error) {
	key := cache.StatsKey(actor)
	if b, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		var st ports.Stats
		if json.Unmarshal(b, &st) == nil {
			return &st, nil
		}
	}
	st, err := s.repo.Stats(ctx, actor)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(st); err == nil {
		if err := s.cache.Set(ctx, key, b, s.opts.CacheTTL); err != nil {
			slog.Warn("cache set failed", "key", key, "error", err)
		}
	}
	return st, nil
}

// History lists the audit trail; the parent must be visible to the actor.
func (s *Service) History(ctx context.Context, id string, actor ports.Actor) ([]*ports.HistoryEntry, error) {
	if _, err := s.Get(ctx, id, actor); err != nil {
		return nil, err
	}
	return s.repo.History(ctx, id)
}

// Signatures lists signatures; the parent must be visible to the actor.
func (s *Service) Signatures(ctx context.Context, id string, actor ports.Actor) ([]*ports.Signature, error) {
	if _, err := s.Get(ctx, id, actor); err != nil {
		return nil, err
	}
	return s.repo.Signatures(ctx, id)
}

// UpdateRequest patches a DRAFT approval. Nil pointers leave the field
// unchanged.
type UpdateRequest struct {
	Title        *string
	Description  *string
	Amount       *float64
	Currency     *string
	Priority     *ports.Priority
	Deadline     *time.Time
	DocumentURLs *[]string

	RequiresSignature *bool
}

// Update mutates a DRAFT approval. Only the requester may edit it.
func (s *Service) Update(ctx context.Context, id string, patch UpdateRequest, actor ports.Actor) (*ports.Approval, error) {
	a, err := s.Get(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	if a.RequesterID != actor.UserID {
		return nil, ports.Permissionf("only the requester may edit a draft")
	}
	if a.Status != ports.StatusDraft {
		return nil, ports.Conflictf("only DRAFT approvals can be edited, status is %s", a.Status)
	}

	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return nil, ports.Validationf("title must not be empty")
		}
		a.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		a.Description = *patch.Description
	}
	if patch.Amount != nil {
		if *patch.Amount < 0 {
			return nil, ports.Validationf("amount must not be negative")
		}
		a.Amount = *patch.Amount
	}
	if patch.Currency != nil {
		a.Currency = *patch.Currency
	}
	if patch.Priority != nil {
		a.Priority = *patch.Priority
		a.IsUrgent = a.Priority == ports.PriorityUrgent || a.Priority == ports.PriorityCritical
	}
	if patch.Deadline != nil {
		a.Deadline = patch.Deadline
	}
	if patch.DocumentURLs != nil {
		a.DocumentURLs = *patch.DocumentURLs
	}
	if patch.RequiresSignature != nil {
		a.RequiresSignature = *patch.RequiresSignature
	}

	now := s.now()
	a.RefreshOverdue(now)
	a.UpdatedAt = now
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	s.invalidate(ctx, a)
	s.bus.Publish(ctx, events.ApprovalUpdated{Approval: a, Actor: actor, At: now})
	s.broadcast(ctx, "approval.updated", a)
	return a, nil
}

// ─── internal helpers ───

func validateCreate(req CreateRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return ports.Validationf("title required")
	}
	if req.Type == "" {
		return ports.Validationf("type required")
	}
	if req.Amount < 0 {
		return ports.Validationf("amount must not be negative")
	}
	return nil
}

func defaultPriority(p ports.Priority) ports.Priority {
	if p == "" {
		return ports.PriorityNormal
	}
	return p
}

func defaultFlow(f ports.FlowType) ports.FlowType {
	if f == "" {
		return ports.FlowSingle
	}
	return f
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// newReference builds the human-facing reference. Generated exactly once
// per approval, before first persist.
func (s *Service) newReference(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("APR-%s-%s", now.Format("20060102"), suffix)
}

func (s *Service) highPriority(a *ports.Approval) bool {
	return a.Priority == ports.PriorityUrgent || a.Priority == ports.PriorityCritical ||
		a.Amount > s.opts.HighPriorityAmount
}

// invalidate clears every cache entry the mutation could have staled.
// Cache trouble never fails the mutation; it is logged and swallowed.
func (s *Service) invalidate(ctx context.Context, a *ports.Approval) {
	if err := cache.Invalidate(ctx, s.cache, a); err != nil {
		slog.Warn("cache invalidation failed", "approval", a.ID, "error", err)
	}
}

func (s *Service) cachedApproval(ctx context.Context, key string) (*ports.Approval, bool) {
	b, ok, err := s.cache.Get(ctx, key)
	if err != nil || !ok {
		return nil, false
	}
	var a ports.Approval
	if json.Unmarshal(b, &a) != nil {
		return nil, false
	}
	return &a, true
}

func (s *Service) cacheApproval(ctx context.Context, key string, a *ports.Approval) {
	b, err := json.Marshal(a)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, b, s.opts.CacheTTL); err != nil {
		slog.Warn("cache set failed", "key", key, "error", err)
	}
}

func (s *Service) broadcast(ctx context.Context, event string, a *ports.Approval) {
	s.bus.Publish(ctx, events.Broadcast{
		Event: event,
		OrgID: a.OrgID,
		Payload: map[string]any{
			"approval_id": a.ID,
			"reference":   a.Reference,
			"status":      a.Status,
			"version":     a.Version,
		},
	})
}

func (s *Service) appendHistory(ctx context.Context, a *ports.Approval, res *workflow.Result, actor ports.Actor, comments, source string) {
	h := &ports.HistoryEntry{
		ApprovalID: a.ID,
		Action:     res.Action,
		FromStatus: res.FromStatus,
		ToStatus:   res.ToStatus,
		ActorID:    actor.UserID,
		Comments:   comments,
		Source:     firstNonEmpty(source, "api"),
		CreatedAt:  s.now(),
	}
	if err := s.repo.AppendHistory(ctx, h); err != nil {
		// history is part of the audit trail; surface loudly but the
		// transition is already durable
		slog.Error("history append failed", "approval", a.ID, "action", res.Action, "error", err)
	}
	if s.opts.Audit != nil {
		if err := s.opts.Audit.Append(a.ID, res.Action, res.FromStatus, res.ToStatus, actor.UserID); err != nil {
			slog.Warn("audit chain append failed", "approval", a.ID, "error", err)
		}
	}
}

package approvals

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"gorm.io/gorm"

	"github.com/signoffhq/signoff/internal/cache"
	"github.com/signoffhq/signoff/internal/events"
	"github.com/signoffhq/signoff/internal/objstore"
	"github.com/signoffhq/signoff/internal/ports"
	approvalsgorm "github.com/signoffhq/signoff/internal/repo/gorm/approvals"
	usersgorm "github.com/signoffhq/signoff/internal/repo/gorm/users"
	"github.com/signoffhq/signoff/internal/routing"
)

type fixture struct {
	svc   *Service
	mem   *cache.Memory
	bus   *events.Bus
	seen  map[events.Kind]int
	emp   ports.Actor
	mgr   ports.Actor
	admin ports.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := approvalsgorm.AutoMigrate(db); err != nil {
		t.Fatalf("migrate approvals: %v", err)
	}
	if err := usersgorm.AutoMigrate(db); err != nil {
		t.Fatalf("migrate users: %v", err)
	}

	users := usersgorm.New(db)
	ctx := context.Background()
	seed := []*ports.User{
		{ID: "admin1", Username: "admin1", Role: ports.RoleAdmin, OrgID: "org1", Active: true},
		{ID: "mgr1", Username: "mgr1", Role: ports.RoleManager, OrgID: "org1", BranchID: "b1", Active: true},
		{ID: "emp1", Username: "emp1", Role: ports.RoleEmployee, OrgID: "org1", BranchID: "b1", Active: true},
		{ID: "out1", Username: "out1", Role: ports.RoleOwner, OrgID: "org2", Active: true},
	}
	for _, u := range seed {
		if err := users.CreateUser(ctx, u, ""); err != nil {
			t.Fatalf("seed user %s: %v", u.ID, err)
		}
	}

	f := &fixture{
		mem:   cache.NewMemory(),
		bus:   events.NewBus(),
		seen:  map[events.Kind]int{},
		emp:   ports.Actor{UserID: "emp1", Role: ports.RoleEmployee, OrgID: "org1", BranchID: "b1"},
		mgr:   ports.Actor{UserID: "mgr1", Role: ports.RoleManager, OrgID: "org1", BranchID: "b1"},
		admin: ports.Actor{UserID: "admin1", Role: ports.RoleAdmin, OrgID: "org1"},
	}
	f.bus.SubscribeAll(events.HandlerFunc(func(_ context.Context, e events.Event) error {
		f.seen[e.EventKind()]++
		return nil
	}))

	engine := routing.NewEngine(users, routing.DefaultThresholds)
	repo := approvalsgorm.New(db)
	f.svc = NewService(repo, users, f.mem, f.bus, engine, Options{HighPriorityAmount: 10000})
	return f
}

func createDraft(t *testing.T, f *fixture) *ports.Approval {
	t.Helper()
	a, err := f.svc.Create(context.Background(), CreateRequest{
		Type:     ports.TypeExpenseClaim,
		Title:    "Conference travel",
		Amount:   500,
		Currency: "USD",
	}, f.emp)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return a
}

func TestEndToEndDraftSubmitApprove(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := createDraft(t, f)
	if a.Status != ports.StatusDraft {
		t.Fatalf("initial status %s", a.Status)
	}
	if a.Reference == "" || a.Version != 1 {
		t.Fatalf("create invariants: ref=%q version=%d", a.Reference, a.Version)
	}
	// routing assigned the highest-ranking org1 candidate
	if a.ApproverID != "admin1" {
		t.Fatalf("approver %s", a.ApproverID)
	}

	a, err := f.svc.Submit(ctx, a.ID, f.emp)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if a.Status != ports.StatusPending || a.Version != 2 {
		t.Fatalf("after submit: status=%s version=%d", a.Status, a.Version)
	}

	a, err = f.svc.PerformAction(ctx, a.ID, ActionRequest{Action: ports.ActionApprove}, f.admin)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if a.Status != ports.StatusApproved || a.Version != 3 {
		t.Fatalf("after approve: status=%s version=%d", a.Status, a.Version)
	}

	hist, err := f.svc.History(ctx, a.ID, f.emp)
	if err != nil {
		t.Fatal(err)
	}
	if len(hist) != 2 {
		t.Fatalf("history rows: %d", len(hist))
	}
	if hist[0].ToStatus != ports.StatusPending || hist[1].ToStatus != ports.StatusApproved {
		t.Fatalf("history order: %s then %s", hist[0].ToStatus, hist[1].ToStatus)
	}
}

func TestAutoSubmitCreatesPendingWithOneHistoryRow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, err := f.svc.Create(ctx, CreateRequest{
		Type:       ports.TypeLeaveRequest,
		Title:      "Two weeks off",
		AutoSubmit: true,
	}, f.emp)
	if err != nil {
		t.Fatal(err)
	}
	if a.Status != ports.StatusPending {
		t.Fatalf("status %s", a.Status)
	}
	hist, err := f.svc.History(ctx, a.ID, f.emp)
	if err != nil {
		t.Fatal(err)
	}
	if len(hist) != 1 || hist[0].ToStatus != ports.StatusPending {
		t.Fatalf("history: %+v", hist)
	}
}

func TestReferenceImmutableAcrossUpdates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := createDraft(t, f)
	ref := a.Reference

	title := "Renamed"
	a, err := f.svc.Update(ctx, a.ID, UpdateRequest{Title: &title}, f.emp)
	if err != nil {
		t.Fatal(err)
	}
	if a.Reference != ref {
		t.Fatalf("reference changed: %s -> %s", ref, a.Reference)
	}
	got, err := f.svc.GetByReference(ctx, ref, f.emp)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != a.ID || got.Title != "Renamed" {
		t.Fatalf("reference lookup after update: %+v", got)
	}
}

func TestVersionStrictlyIncrements(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := createDraft(t, f)
	want := int64(1)
	if a.Version != want {
		t.Fatalf("version %d", a.Version)
	}
	steps := []func() (*ports.Approval, error){
		func() (*ports.Approval, error) {
			title := "t2"
			return f.svc.Update(ctx, a.ID, UpdateRequest{Title: &title}, f.emp)
		},
		func() (*ports.Approval, error) { return f.svc.Submit(ctx, a.ID, f.emp) },
		func() (*ports.Approval, error) {
			return f.svc.PerformAction(ctx, a.ID, ActionRequest{Action: ports.ActionApprove}, f.admin)
		},
	}
	for i, step := range steps {
		got, err := step()
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		want++
		if got.Version != want {
			t.Fatalf("step %d: version %d want %d", i, got.Version, want)
		}
	}
}

func TestScopeHidesForeignApprovals(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := createDraft(t, f)

	// another org's owner: indistinguishable from missing
	out := ports.Actor{UserID: "out1", Role: ports.RoleOwner, OrgID: "org2"}
	if _, err := f.svc.Get(ctx, a.ID, out); !ports.IsNotFound(err) {
		t.Fatalf("cross-org get: %v", err)
	}
	// same org, not a party, not elevated
	stranger := ports.Actor{UserID: "mgr1", Role: ports.RoleManager, OrgID: "org1", BranchID: "b1"}
	if _, err := f.svc.Get(ctx, a.ID, stranger); !ports.IsNotFound(err) {
		t.Fatalf("non-party get: %v", err)
	}

	res, err := f.svc.List(ctx, ports.Filter{}, ports.Page{Page: 1, Size: 20}, stranger)
	if err != nil {
		t.Fatal(err)
	}
	for _, item := range res.Items {
		if item.RequesterID != stranger.UserID && item.ApproverID != stranger.UserID && item.DelegatedTo != stranger.UserID {
			t.Fatalf("leaked approval %s to non-party", item.ID)
		}
	}
}

func TestCacheCoherenceAfterMutation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := createDraft(t, f)

	// warm every cache family
	if _, err := f.svc.Get(ctx, a.ID, f.emp); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.GetByReference(ctx, a.Reference, f.emp); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.List(ctx, ports.Filter{}, ports.Page{Page: 1, Size: 20}, f.emp); err != nil {
		t.Fatal(err)
	}

	if _, err := f.svc.Submit(ctx, a.ID, f.emp); err != nil {
		t.Fatal(err)
	}

	got, err := f.svc.Get(ctx, a.ID, f.emp)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != ports.StatusPending {
		t.Fatalf("stale read by id: %s", got.Status)
	}
	byRef, err := f.svc.GetByReference(ctx, a.Reference, f.emp)
	if err != nil {
		t.Fatal(err)
	}
	if byRef.Status != ports.StatusPending {
		t.Fatalf("stale read by reference: %s", byRef.Status)
	}
	res, err := f.svc.List(ctx, ports.Filter{}, ports.Page{Page: 1, Size: 20}, f.emp)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Items) != 1 || res.Items[0].Status != ports.StatusPending {
		t.Fatalf("stale list: %+v", res.Items)
	}
}

func TestEscalateThroughService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := createDraft(t, f)
	if _, err := f.svc.Submit(ctx, a.ID, f.emp); err != nil {
		t.Fatal(err)
	}
	a, err := f.svc.PerformAction(ctx, a.ID, ActionRequest{
		Action:           ports.ActionEscalate,
		EscalateTo:       "42",
		EscalationReason: "no response",
	}, f.admin)
	if err != nil {
		t.Fatal(err)
	}
	if !a.IsEscalated || a.EscalationLevel != 1 || a.EscalatedTo != "42" || a.Status != ports.StatusEscalated {
		t.Fatalf("escalation state: %+v", a)
	}
	hist, err := f.svc.History(ctx, a.ID, f.emp)
	if err != nil {
		t.Fatal(err)
	}
	last := hist[len(hist)-1]
	if last.ToStatus != ports.StatusEscalated {
		t.Fatalf("history tail: %s", last.ToStatus)
	}
}

func TestSignFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, err := f.svc.Create(ctx, CreateRequest{
		Type:              ports.TypeContract,
		Title:             "Vendor contract",
		RequiresSignature: true,
		AutoSubmit:        true,
	}, f.emp)
	if err != nil {
		t.Fatal(err)
	}

	// sign before approval is a conflict
	if _, err := f.svc.Sign(ctx, a.ID, SignRequest{SignatureType: "digital", SignatureData: "s"}, f.admin); !ports.IsConflict(err) {
		t.Fatalf("sign from PENDING: %v", err)
	}

	if _, err := f.svc.PerformAction(ctx, a.ID, ActionRequest{Action: ports.ActionApprove}, f.admin); err != nil {
		t.Fatal(err)
	}
	a, err = f.svc.Sign(ctx, a.ID, SignRequest{SignatureType: "digital", SignatureData: "s"}, f.admin)
	if err != nil {
		t.Fatal(err)
	}
	if a.Status != ports.StatusSigned || !a.IsSigned {
		t.Fatalf("after sign: %s", a.Status)
	}
	sigs, err := f.svc.Signatures(ctx, a.ID, f.emp)
	if err != nil {
		t.Fatal(err)
	}
	if len(sigs) != 1 || sigs[0].SignerID != "admin1" {
		t.Fatalf("signatures: %+v", sigs)
	}

	// signing an approval that never required it is a conflict
	b := createDraft(t, f)
	if _, err := f.svc.Submit(ctx, b.ID, f.emp); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.PerformAction(ctx, b.ID, ActionRequest{Action: ports.ActionApprove}, f.admin); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Sign(ctx, b.ID, SignRequest{SignatureType: "digital", SignatureData: "s"}, f.admin); !ports.IsConflict(err) {
		t.Fatalf("sign without requirement: %v", err)
	}
}

func TestUpdateGuards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := createDraft(t, f)

	title := "hijack"
	if _, err := f.svc.Update(ctx, a.ID, UpdateRequest{Title: &title}, f.admin); !ports.IsPermission(err) {
		t.Fatalf("non-requester update: %v", err)
	}
	if _, err := f.svc.Submit(ctx, a.ID, f.emp); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Update(ctx, a.ID, UpdateRequest{Title: &title}, f.emp); !ports.IsConflict(err) {
		t.Fatalf("update after submit: %v", err)
	}
}

func TestBulkActionIsolatesFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := createDraft(t, f)
	if _, err := f.svc.Submit(ctx, a.ID, f.emp); err != nil {
		t.Fatal(err)
	}
	b := createDraft(t, f) // still DRAFT: approve will conflict

	res, err := f.svc.BulkAction(ctx, []string{a.ID, b.ID, "missing"}, ActionRequest{Action: ports.ActionApprove}, f.admin)
	if err != nil {
		t.Fatal(err)
	}
	if res.Succeeded != 1 || res.Failed != 2 {
		t.Fatalf("bulk counts: %+v", res)
	}
	if !res.Items[0].OK || res.Items[1].OK || res.Items[2].OK {
		t.Fatalf("bulk items: %+v", res.Items)
	}
	// the successful item really transitioned
	got, err := f.svc.Get(ctx, a.ID, f.emp)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != ports.StatusApproved {
		t.Fatalf("bulk approve missing: %s", got.Status)
	}
}

func TestArchiveLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := createDraft(t, f)
	if _, err := f.svc.Submit(ctx, a.ID, f.emp); err != nil {
		t.Fatal(err)
	}

	// in-flight approvals cannot be archived
	if _, err := f.svc.Archive(ctx, a.ID, f.admin); !ports.IsConflict(err) {
		t.Fatalf("archive pending: %v", err)
	}
	if _, err := f.svc.PerformAction(ctx, a.ID, ActionRequest{Action: ports.ActionReject, Reason: "over budget"}, f.admin); err != nil {
		t.Fatal(err)
	}
	// only elevated roles archive
	if _, err := f.svc.Archive(ctx, a.ID, f.emp); !ports.IsPermission(err) {
		t.Fatalf("employee archive: %v", err)
	}
	a, err := f.svc.Archive(ctx, a.ID, f.admin)
	if err != nil {
		t.Fatal(err)
	}
	if a.Lifecycle != ports.LifecycleArchived || a.ArchivedAt == nil || a.ArchivedBy != "admin1" {
		t.Fatalf("archive state: %+v", a)
	}
	if _, err := f.svc.Archive(ctx, a.ID, f.admin); !ports.IsConflict(err) {
		t.Fatalf("double archive: %v", err)
	}
}

func TestEventsEmitted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, err := f.svc.Create(ctx, CreateRequest{
		Type:     ports.TypePurchaseOrder,
		Title:    "New rack servers",
		Amount:   50000, // over the high-priority threshold
		Priority: ports.PriorityHigh,
	}, f.emp)
	if err != nil {
		t.Fatal(err)
	}
	if f.seen[events.KindApprovalCreated] != 1 {
		t.Fatalf("created events: %d", f.seen[events.KindApprovalCreated])
	}
	if f.seen[events.KindHighPriorityAction] != 1 {
		t.Fatalf("high priority events: %d", f.seen[events.KindHighPriorityAction])
	}
	if f.seen[events.KindBroadcast] == 0 {
		t.Fatal("no broadcast envelope")
	}

	if _, err := f.svc.Submit(ctx, a.ID, f.emp); err != nil {
		t.Fatal(err)
	}
	if f.seen[events.KindActionPerformed] != 1 {
		t.Fatalf("action events: %d", f.seen[events.KindActionPerformed])
	}
}

func TestStatsScopedAndCached(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := createDraft(t, f)
	if _, err := f.svc.Submit(ctx, a.ID, f.emp); err != nil {
		t.Fatal(err)
	}

	st, err := f.svc.Stats(ctx, f.admin)
	if err != nil {
		t.Fatal(err)
	}
	if st.Total != 1 || st.ByStatus[ports.StatusPending] != 1 {
		t.Fatalf("stats: %+v", st)
	}

	// mutation invalidates the cached stats
	if _, err := f.svc.PerformAction(ctx, a.ID, ActionRequest{Action: ports.ActionApprove}, f.admin); err != nil {
		t.Fatal(err)
	}
	st, err = f.svc.Stats(ctx, f.admin)
	if err != nil {
		t.Fatal(err)
	}
	if st.ByStatus[ports.StatusApproved] != 1 {
		t.Fatalf("stats after approve: %+v", st)
	}
}

func TestAttachments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	store, err := objstore.Open(ctx, objstore.Config{Driver: "file", BaseDir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	f.svc.store = store

	a := createDraft(t, f)
	a, err = f.svc.AddAttachment(ctx, a.ID, AttachmentUpload{
		Filename:    "receipt.pdf",
		ContentType: "application/pdf",
		Size:        7,
		Body:        strings.NewReader("content"),
	}, f.emp)
	if err != nil {
		t.Fatal(err)
	}
	if len(a.Attachments) != 1 || a.Attachments[0].Name != "receipt.pdf" {
		t.Fatalf("attachments: %+v", a.Attachments)
	}
	u, err := f.svc.AttachmentURL(ctx, a.ID, a.Attachments[0].Key, f.emp)
	if err != nil {
		t.Fatal(err)
	}
	if u == "" {
		t.Fatal("empty url")
	}
	// only the requester attaches
	if _, err := f.svc.AddAttachment(ctx, a.ID, AttachmentUpload{Filename: "x", Body: strings.NewReader("x")}, f.admin); !ports.IsPermission(err) {
		t.Fatalf("admin attach: %v", err)
	}
	if _, err := f.svc.AttachmentURL(ctx, a.ID, "org1/other/key", f.emp); !ports.IsNotFound(err) {
		t.Fatalf("unknown key: %v", err)
	}
}

func TestDeadlineOverdueOnCreate(t *testing.T) {
	f := newFixture(t)
	past := time.Now().Add(-time.Hour)
	a, err := f.svc.Create(context.Background(), CreateRequest{
		Type:     ports.TypeExpenseClaim,
		Title:    "Late claim",
		Deadline: &past,
	}, f.emp)
	if err != nil {
		t.Fatal(err)
	}
	if !a.IsOverdue {
		t.Fatal("expected overdue")
	}
}

func TestOperationsEmitSpans(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	old := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)))
	t.Cleanup(func() { otel.SetTracerProvider(old) })

	f := newFixture(t)
	ctx := context.Background()

	a := createDraft(t, f)
	if _, err := f.svc.Submit(ctx, a.ID, f.emp); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := f.svc.List(ctx, ports.Filter{}, ports.Page{Page: 1, Size: 10}, f.emp); err != nil {
		t.Fatalf("list: %v", err)
	}

	names := map[string]int{}
	for _, s := range rec.Ended() {
		names[s.Name()]++
	}
	for _, want := range []string{"approvals.create", "approvals.action.submit", "approvals.list"} {
		if names[want] == 0 {
			t.Errorf("no %s span, got %v", want, names)
		}
	}
}

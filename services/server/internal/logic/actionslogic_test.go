package logic

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/signoffhq/signoff/internal/cache"
	"github.com/signoffhq/signoff/internal/events"
	"github.com/signoffhq/signoff/internal/ports"
	approvalsgorm "github.com/signoffhq/signoff/internal/repo/gorm/approvals"
	usersgorm "github.com/signoffhq/signoff/internal/repo/gorm/users"
	"github.com/signoffhq/signoff/internal/routing"
	"github.com/signoffhq/signoff/internal/service/approvals"
	"github.com/signoffhq/signoff/services/server/internal/svc"
	"github.com/signoffhq/signoff/services/server/internal/types"
)

func newTestSvc(t *testing.T) *svc.ServiceContext {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := approvalsgorm.AutoMigrate(db); err != nil {
		t.Fatal(err)
	}
	if err := usersgorm.AutoMigrate(db); err != nil {
		t.Fatal(err)
	}
	users := usersgorm.New(db)
	ctx := context.Background()
	for _, u := range []*ports.User{
		{ID: "admin1", Username: "admin1", Role: ports.RoleAdmin, OrgID: "org1", Active: true},
		{ID: "emp1", Username: "emp1", Role: ports.RoleEmployee, OrgID: "org1", BranchID: "b1", Active: true},
	} {
		if err := users.CreateUser(ctx, u, ""); err != nil {
			t.Fatalf("seed %s: %v", u.ID, err)
		}
	}
	engine := routing.NewEngine(users, routing.DefaultThresholds)
	service := approvals.NewService(approvalsgorm.New(db), users, cache.NewMemory(), events.NewBus(), engine, approvals.Options{})
	return &svc.ServiceContext{Approvals: service, Users: users}
}

func TestSignLogicCarriesSignatureEvidence(t *testing.T) {
	sc := newTestSvc(t)
	emp := ports.Actor{UserID: "emp1", Role: ports.RoleEmployee, OrgID: "org1", BranchID: "b1"}
	admin := ports.Actor{UserID: "admin1", Role: ports.RoleAdmin, OrgID: "org1"}
	ctx := context.Background()

	a, err := sc.Approvals.Create(ctx, approvals.CreateRequest{
		Type:              ports.TypeContract,
		Title:             "Vendor contract",
		Amount:            500,
		RequiresSignature: true,
		AutoSubmit:        true,
	}, emp)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := sc.Approvals.PerformAction(ctx, a.ID, approvals.ActionRequest{Action: ports.ActionApprove}, admin); err != nil {
		t.Fatalf("approve: %v", err)
	}

	l := NewSignLogic(svc.WithActor(ctx, admin), sc)
	out, err := l.Sign(&types.SignRequest{
		Id:            a.ID,
		SignatureType: "DIGITAL",
		SignatureData: "sig-bytes",
		CertificateId: "cert-7",
		BiometricHash: "bio-hash",
		LegalNotice:   "I agree to be bound",
		Comments:      "final sign-off",
	})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if out.Status != string(ports.StatusSigned) {
		t.Fatalf("status %s", out.Status)
	}

	sigs, err := sc.Approvals.Signatures(ctx, a.ID, admin)
	if err != nil {
		t.Fatal(err)
	}
	if len(sigs) != 1 {
		t.Fatalf("got %d signatures", len(sigs))
	}
	s := sigs[0]
	if s.CertificateID != "cert-7" || s.BiometricHash != "bio-hash" || s.LegalNotice != "I agree to be bound" {
		t.Fatalf("signature evidence dropped: %+v", s)
	}

	hist, err := sc.Approvals.History(ctx, a.ID, admin)
	if err != nil {
		t.Fatal(err)
	}
	last := hist[len(hist)-1]
	if last.Comments != "final sign-off" {
		t.Fatalf("sign comments dropped: %q", last.Comments)
	}
}

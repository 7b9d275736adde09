package logic

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/signoffhq/signoff/internal/ports"
	"github.com/signoffhq/signoff/internal/service/approvals"
	"github.com/signoffhq/signoff/services/server/internal/svc"
	"github.com/signoffhq/signoff/services/server/internal/types"
)

type ActionLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewActionLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ActionLogic {
	return &ActionLogic{Logger: logx.WithContext(ctx), ctx: ctx, svcCtx: svcCtx}
}

func (l *ActionLogic) Action(req *types.ActionRequest) (*types.Approval, error) {
	actor, err := actorFrom(l.ctx)
	if err != nil {
		return nil, err
	}
	a, err := l.svcCtx.Approvals.PerformAction(l.ctx, req.Id, approvals.ActionRequest{
		Action:           ports.Action(req.Action),
		Comments:         req.Comments,
		Source:           "api",
		Reason:           req.Reason,
		DelegateTo:       req.DelegateTo,
		EscalateTo:       req.EscalateTo,
		EscalationReason: req.EscalationReason,
	}, actor)
	if err != nil {
		return nil, err
	}
	out := approvalView(a)
	return &out, nil
}

type SignLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewSignLogic(ctx context.Context, svcCtx *svc.ServiceContext) *SignLogic {
	return &SignLogic{Logger: logx.WithContext(ctx), ctx: ctx, svcCtx: svcCtx}
}

func (l *SignLogic) Sign(req *types.SignRequest) (*types.Approval, error) {
	actor, err := actorFrom(l.ctx)
	if err != nil {
		return nil, err
	}
	a, err := l.svcCtx.Approvals.Sign(l.ctx, req.Id, approvals.SignRequest{
		SignatureType: req.SignatureType,
		SignatureData: req.SignatureData,
		CertificateID: req.CertificateId,
		BiometricHash: req.BiometricHash,
		LegalNotice:   req.LegalNotice,
		Comments:      req.Comments,
	}, actor)
	if err != nil {
		return nil, err
	}
	out := approvalView(a)
	return &out, nil
}

type WithdrawLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewWithdrawLogic(ctx context.Context, svcCtx *svc.ServiceContext) *WithdrawLogic {
	return &WithdrawLogic{Logger: logx.WithContext(ctx), ctx: ctx, svcCtx: svcCtx}
}

func (l *WithdrawLogic) Withdraw(req *types.WithdrawRequest) (*types.Approval, error) {
	actor, err := actorFrom(l.ctx)
	if err != nil {
		return nil, err
	}
	a, err := l.svcCtx.Approvals.PerformAction(l.ctx, req.Id, approvals.ActionRequest{
		Action:   ports.ActionWithdraw,
		Comments: req.Comments,
		Source:   "api",
	}, actor)
	if err != nil {
		return nil, err
	}
	out := approvalView(a)
	return &out, nil
}

type BulkActionLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewBulkActionLogic(ctx context.Context, svcCtx *svc.ServiceContext) *BulkActionLogic {
	return &BulkActionLogic{Logger: logx.WithContext(ctx), ctx: ctx, svcCtx: svcCtx}
}

func (l *BulkActionLogic) BulkAction(req *types.BulkActionRequest) (*types.BulkActionResponse, error) {
	actor, err := actorFrom(l.ctx)
	if err != nil {
		return nil, err
	}
	res, err := l.svcCtx.Approvals.BulkAction(l.ctx, req.Ids, approvals.ActionRequest{
		Action:   ports.Action(req.Action),
		Comments: req.Comments,
		Source:   "api",
	}, actor)
	if err != nil {
		return nil, err
	}
	out := &types.BulkActionResponse{
		Succeeded: res.Succeeded,
		Failed:    res.Failed,
		Items:     make([]types.BulkActionItem, 0, len(res.Items)),
	}
	for _, it := range res.Items {
		out.Items = append(out.Items, types.BulkActionItem{Id: it.ID, Ok: it.OK, Error: it.Error})
	}
	return out, nil
}

type ArchiveLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewArchiveLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ArchiveLogic {
	return &ArchiveLogic{Logger: logx.WithContext(ctx), ctx: ctx, svcCtx: svcCtx}
}

func (l *ArchiveLogic) Archive(req *types.ApprovalGetRequest) (*types.Approval, error) {
	actor, err := actorFrom(l.ctx)
	if err != nil {
		return nil, err
	}
	a, err := l.svcCtx.Approvals.Archive(l.ctx, req.Id, actor)
	if err != nil {
		return nil, err
	}
	out := approvalView(a)
	return &out, nil
}

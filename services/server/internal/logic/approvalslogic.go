package logic

import (
	"context"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/signoffhq/signoff/internal/ports"
	"github.com/signoffhq/signoff/internal/service/approvals"
	"github.com/signoffhq/signoff/services/server/internal/svc"
	"github.com/signoffhq/signoff/services/server/internal/types"
)

type ApprovalCreateLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewApprovalCreateLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ApprovalCreateLogic {
	return &ApprovalCreateLogic{Logger: logx.WithContext(ctx), ctx: ctx, svcCtx: svcCtx}
}

func (l *ApprovalCreateLogic) ApprovalCreate(req *types.ApprovalCreateRequest) (*types.Approval, error) {
	actor, err := actorFrom(l.ctx)
	if err != nil {
		return nil, err
	}
	deadline, err := parseTimePtr(req.Deadline)
	if err != nil {
		return nil, err
	}
	in := approvals.CreateRequest{
		Type:              ports.ApprovalType(req.Type),
		Priority:          ports.Priority(req.Priority),
		FlowType:          ports.FlowType(req.FlowType),
		Title:             req.Title,
		Description:       req.Description,
		Amount:            req.Amount,
		Currency:          req.Currency,
		Deadline:          deadline,
		BranchID:          req.BranchId,
		DocumentURLs:      req.DocumentUrls,
		RequiresSignature: req.RequiresSignature,
		AutoSubmit:        req.AutoSubmit,
	}
	for _, att := range req.Attachments {
		in.Attachments = append(in.Attachments, ports.Attachment{
			Name:        att.Name,
			Key:         att.Key,
			ContentType: att.ContentType,
			Size:        att.Size,
		})
	}
	a, err := l.svcCtx.Approvals.Create(l.ctx, in, actor)
	if err != nil {
		return nil, err
	}
	out := approvalView(a)
	return &out, nil
}

type ApprovalsListLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewApprovalsListLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ApprovalsListLogic {
	return &ApprovalsListLogic{Logger: logx.WithContext(ctx), ctx: ctx, svcCtx: svcCtx}
}

func (l *ApprovalsListLogic) ApprovalsList(req *types.ApprovalsListRequest) (*types.ApprovalsListResponse, error) {
	actor, err := actorFrom(l.ctx)
	if err != nil {
		return nil, err
	}
	if req == nil {
		req = &types.ApprovalsListRequest{}
	}
	page := req.Page
	if page <= 0 {
		page = 1
	}
	size := req.Size
	if size <= 0 {
		size = 20
	}
	filter := ports.Filter{
		Status:         ports.Status(req.Status),
		Type:           ports.ApprovalType(req.Type),
		Priority:       ports.Priority(req.Priority),
		RequesterID:    strings.TrimSpace(req.RequesterId),
		ApproverID:     strings.TrimSpace(req.ApproverId),
		BranchID:       strings.TrimSpace(req.BranchId),
		Search:         strings.TrimSpace(req.Search),
		IncludeDeleted: req.IncludeDeleted,
	}
	if req.Overdue {
		t := true
		filter.Overdue = &t
	}
	res, err := l.svcCtx.Approvals.List(l.ctx, filter, ports.Page{Page: page, Size: size, Sort: req.Sort}, actor)
	if err != nil {
		return nil, err
	}
	resp := &types.ApprovalsListResponse{
		Items: make([]types.Approval, 0, len(res.Items)),
		Total: res.Total,
		Page:  page,
		Size:  size,
	}
	for _, a := range res.Items {
		resp.Items = append(resp.Items, approvalView(a))
	}
	return resp, nil
}

type ApprovalGetLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewApprovalGetLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ApprovalGetLogic {
	return &ApprovalGetLogic{Logger: logx.WithContext(ctx), ctx: ctx, svcCtx: svcCtx}
}

func (l *ApprovalGetLogic) ApprovalGet(req *types.ApprovalGetRequest) (*types.Approval, error) {
	actor, err := actorFrom(l.ctx)
	if err != nil {
		return nil, err
	}
	a, err := l.svcCtx.Approvals.Get(l.ctx, req.Id, actor)
	if err != nil {
		return nil, err
	}
	out := approvalView(a)
	return &out, nil
}

type ApprovalByReferenceLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewApprovalByReferenceLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ApprovalByReferenceLogic {
	return &ApprovalByReferenceLogic{Logger: logx.WithContext(ctx), ctx: ctx, svcCtx: svcCtx}
}

func (l *ApprovalByReferenceLogic) ApprovalByReference(req *types.ApprovalByReferenceRequest) (*types.Approval, error) {
	actor, err := actorFrom(l.ctx)
	if err != nil {
		return nil, err
	}
	a, err := l.svcCtx.Approvals.GetByReference(l.ctx, req.Reference, actor)
	if err != nil {
		return nil, err
	}
	out := approvalView(a)
	return &out, nil
}

type ApprovalUpdateLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewApprovalUpdateLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ApprovalUpdateLogic {
	return &ApprovalUpdateLogic{Logger: logx.WithContext(ctx), ctx: ctx, svcCtx: svcCtx}
}

func (l *ApprovalUpdateLogic) ApprovalUpdate(req *types.ApprovalUpdateRequest) (*types.Approval, error) {
	actor, err := actorFrom(l.ctx)
	if err != nil {
		return nil, err
	}
	patch := approvals.UpdateRequest{
		Title:       req.Title,
		Description: req.Description,
		Amount:      req.Amount,
		Currency:    req.Currency,
	}
	if req.DocumentUrls != nil {
		patch.DocumentURLs = &req.DocumentUrls
	}
	if req.Priority != nil {
		p := ports.Priority(*req.Priority)
		patch.Priority = &p
	}
	if req.Deadline != nil {
		deadline, err := parseTimePtr(*req.Deadline)
		if err != nil {
			return nil, err
		}
		patch.Deadline = deadline
	}
	if req.RequiresSignature != nil {
		patch.RequiresSignature = req.RequiresSignature
	}
	a, err := l.svcCtx.Approvals.Update(l.ctx, req.Id, patch, actor)
	if err != nil {
		return nil, err
	}
	out := approvalView(a)
	return &out, nil
}

type ApprovalDeleteLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewApprovalDeleteLogic(ctx context.Context, svcCtx *svc.ServiceContext) *ApprovalDeleteLogic {
	return &ApprovalDeleteLogic{Logger: logx.WithContext(ctx), ctx: ctx, svcCtx: svcCtx}
}

func (l *ApprovalDeleteLogic) ApprovalDelete(req *types.ApprovalGetRequest) error {
	actor, err := actorFrom(l.ctx)
	if err != nil {
		return err
	}
	return l.svcCtx.Approvals.Delete(l.ctx, req.Id, actor)
}

package logic

import (
	"context"
	"net/http"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/signoffhq/signoff/internal/ports"
	"github.com/signoffhq/signoff/internal/service/approvals"
	"github.com/signoffhq/signoff/services/server/internal/svc"
	"github.com/signoffhq/signoff/services/server/internal/types"
)

const maxAttachmentSize = 32 << 20 // 32 MiB

type AttachmentUploadLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewAttachmentUploadLogic(ctx context.Context, svcCtx *svc.ServiceContext) *AttachmentUploadLogic {
	return &AttachmentUploadLogic{Logger: logx.WithContext(ctx), ctx: ctx, svcCtx: svcCtx}
}

// Upload reads a multipart form with a single "file" part.
func (l *AttachmentUploadLogic) Upload(id string, r *http.Request) (*types.Approval, error) {
	actor, err := actorFrom(l.ctx)
	if err != nil {
		return nil, err
	}
	if err := r.ParseMultipartForm(maxAttachmentSize); err != nil {
		return nil, ports.Validationf("bad multipart form: %v", err)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, ports.Validationf("file part required")
	}
	defer file.Close()

	a, err := l.svcCtx.Approvals.AddAttachment(l.ctx, id, approvals.AttachmentUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}, actor)
	if err != nil {
		return nil, err
	}
	out := approvalView(a)
	return &out, nil
}

type AttachmentURLLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewAttachmentURLLogic(ctx context.Context, svcCtx *svc.ServiceContext) *AttachmentURLLogic {
	return &AttachmentURLLogic{Logger: logx.WithContext(ctx), ctx: ctx, svcCtx: svcCtx}
}

func (l *AttachmentURLLogic) URL(req *types.AttachmentURLRequest) (*types.AttachmentURLResponse, error) {
	actor, err := actorFrom(l.ctx)
	if err != nil {
		return nil, err
	}
	u, err := l.svcCtx.Approvals.AttachmentURL(l.ctx, req.Id, req.Key, actor)
	if err != nil {
		return nil, err
	}
	return &types.AttachmentURLResponse{Url: u}, nil
}

// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest"

	"github.com/signoffhq/signoff/services/server/internal/middleware"
	"github.com/signoffhq/signoff/services/server/internal/svc"
)

func RegisterHandlers(server *rest.Server, svcCtx *svc.ServiceContext) {
	auth := middleware.NewAuthMiddleware(svcCtx)

	server.AddRoutes([]rest.Route{
		{Method: http.MethodGet, Path: "/healthz", Handler: HealthzHandler()},
		{Method: http.MethodPost, Path: "/api/auth/login", Handler: LoginHandler(svcCtx)},
	})

	server.AddRoutes([]rest.Route{
		{Method: http.MethodGet, Path: "/api/auth/me", Handler: auth.Handle(MeHandler(svcCtx))},

		{Method: http.MethodPost, Path: "/api/approvals", Handler: auth.Handle(ApprovalCreateHandler(svcCtx))},
		{Method: http.MethodGet, Path: "/api/approvals", Handler: auth.Handle(ApprovalsListHandler(svcCtx))},
		{Method: http.MethodGet, Path: "/api/approvals/stats", Handler: auth.Handle(StatsHandler(svcCtx))},
		{Method: http.MethodPost, Path: "/api/approvals/bulk", Handler: auth.Handle(BulkActionHandler(svcCtx))},
		{Method: http.MethodGet, Path: "/api/approvals/reference/:ref", Handler: auth.Handle(ApprovalByReferenceHandler(svcCtx))},

		{Method: http.MethodGet, Path: "/api/approvals/:id", Handler: auth.Handle(ApprovalGetHandler(svcCtx))},
		{Method: http.MethodPut, Path: "/api/approvals/:id", Handler: auth.Handle(ApprovalUpdateHandler(svcCtx))},
		{Method: http.MethodDelete, Path: "/api/approvals/:id", Handler: auth.Handle(ApprovalDeleteHandler(svcCtx))},
		{Method: http.MethodPost, Path: "/api/approvals/:id/actions", Handler: auth.Handle(ActionHandler(svcCtx))},
		{Method: http.MethodPost, Path: "/api/approvals/:id/sign", Handler: auth.Handle(SignHandler(svcCtx))},
		{Method: http.MethodPost, Path: "/api/approvals/:id/withdraw", Handler: auth.Handle(WithdrawHandler(svcCtx))},
		{Method: http.MethodPost, Path: "/api/approvals/:id/archive", Handler: auth.Handle(ArchiveHandler(svcCtx))},
		{Method: http.MethodGet, Path: "/api/approvals/:id/history", Handler: auth.Handle(HistoryHandler(svcCtx))},
		{Method: http.MethodGet, Path: "/api/approvals/:id/signatures", Handler: auth.Handle(SignaturesHandler(svcCtx))},
		{Method: http.MethodPost, Path: "/api/approvals/:id/attachments", Handler: auth.Handle(AttachmentUploadHandler(svcCtx))},
		{Method: http.MethodGet, Path: "/api/approvals/:id/attachments", Handler: auth.Handle(AttachmentURLHandler(svcCtx))},
	})
}

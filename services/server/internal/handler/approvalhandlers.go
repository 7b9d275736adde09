// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package handler

import (
	"bytes"
	"io"
	"net/http"

	"github.com/zeromicro/go-zero/rest/httpx"

	"github.com/signoffhq/signoff/services/server/internal/logic"
	"github.com/signoffhq/signoff/services/server/internal/svc"
	"github.com/signoffhq/signoff/services/server/internal/types"
)

// checkBody validates the JSON body against a named schema, then
// restores r.Body so httpx.Parse can decode it.
func checkBody(svcCtx *svc.ServiceContext, r *http.Request, schema string) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		return err
	}
	r.Body = io.NopCloser(bytes.NewReader(body))
	return svcCtx.Schemas.Check(schema, body)
}

func ApprovalCreateHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := checkBody(svcCtx, r, "create"); err != nil {
			logic.WriteError(r.Context(), w, err)
			return
		}
		var req types.ApprovalCreateRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}
		l := logic.NewApprovalCreateLogic(r.Context(), svcCtx)
		resp, err := l.ApprovalCreate(&req)
		if err != nil {
			logic.WriteError(r.Context(), w, err)
			return
		}
		httpx.OkJsonCtx(r.Context(), w, resp)
	}
}

func ApprovalsListHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.ApprovalsListRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}
		l := logic.NewApprovalsListLogic(r.Context(), svcCtx)
		resp, err := l.ApprovalsList(&req)
		if err != nil {
			logic.WriteError(r.Context(), w, err)
			return
		}
		httpx.OkJsonCtx(r.Context(), w, resp)
	}
}

func ApprovalGetHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.ApprovalGetRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}
		l := logic.NewApprovalGetLogic(r.Context(), svcCtx)
		resp, err := l.ApprovalGet(&req)
		if err != nil {
			logic.WriteError(r.Context(), w, err)
			return
		}
		httpx.OkJsonCtx(r.Context(), w, resp)
	}
}

func ApprovalByReferenceHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.ApprovalByReferenceRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}
		l := logic.NewApprovalByReferenceLogic(r.Context(), svcCtx)
		resp, err := l.ApprovalByReference(&req)
		if err != nil {
			logic.WriteError(r.Context(), w, err)
			return
		}
		httpx.OkJsonCtx(r.Context(), w, resp)
	}
}

func ApprovalUpdateHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.ApprovalUpdateRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}
		l := logic.NewApprovalUpdateLogic(r.Context(), svcCtx)
		resp, err := l.ApprovalUpdate(&req)
		if err != nil {
			logic.WriteError(r.Context(), w, err)
			return
		}
		httpx.OkJsonCtx(r.Context(), w, resp)
	}
}

func ApprovalDeleteHandler(svcCtx *svc.ServiceContext) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.ApprovalGetRequest
		if err := httpx.Parse(r, &req); err != nil {
			httpx.ErrorCtx(r.Context(), w, err)
			return
		}
		l := logic.NewApprovalDeleteLogic(r.Context(), svcCtx)
		if err := l.ApprovalDelete(&req); err != nil {
			logic.WriteError(r.Context(), w, err)
			return
		}
		httpx.OkJsonCtx(r.Context(), w, map[string]bool{"deleted": true})
	}
}

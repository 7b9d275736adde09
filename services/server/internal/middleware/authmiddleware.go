package middleware

import (
	"net/http"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/rest/httpx"

	"github.com/signoffhq/signoff/services/server/internal/svc"
)

// AuthMiddleware authenticates the bearer token and enforces the route
// policy before any handler runs.
type AuthMiddleware struct {
	ctx *svc.ServiceContext
}

func NewAuthMiddleware(ctx *svc.ServiceContext) *AuthMiddleware {
	return &AuthMiddleware{ctx: ctx}
}

func (m *AuthMiddleware) Handle(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer"))
		if raw == "" {
			unauthorized(w, r)
			return
		}
		claims, err := m.ctx.Tokens.Verify(raw)
		if err != nil {
			unauthorized(w, r)
			return
		}
		actor := claims.Actor()
		if !m.ctx.Rbac.Allow(actor.Role, r.URL.Path, r.Method) {
			logx.WithContext(r.Context()).Infof("forbidden: user=%s role=%s %s %s",
				actor.UserID, actor.Role, r.Method, r.URL.Path)
			httpx.WriteJsonCtx(r.Context(), w, http.StatusForbidden, map[string]any{
				"code":    http.StatusForbidden,
				"message": "forbidden",
			})
			return
		}
		next(w, r.WithContext(svc.WithActor(r.Context(), actor)))
	}
}

func unauthorized(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJsonCtx(r.Context(), w, http.StatusUnauthorized, map[string]any{
		"code":    http.StatusUnauthorized,
		"message": "unauthorized",
	})
}

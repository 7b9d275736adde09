package logic

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/signoffhq/signoff/internal/ports"
	"github.com/signoffhq/signoff/services/server/internal/svc"
	"github.com/signoffhq/signoff/services/server/internal/types"
)

type LoginLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewLoginLogic(ctx context.Context, svcCtx *svc.ServiceContext) *LoginLogic {
	return &LoginLogic{Logger: logx.WithContext(ctx), ctx: ctx, svcCtx: svcCtx}
}

func (l *LoginLogic) Login(req *types.LoginRequest) (*types.LoginResponse, error) {
	u, err := l.svcCtx.Users.Verify(l.ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}
	tok, err := l.svcCtx.Tokens.Sign(u)
	if err != nil {
		return nil, ports.Infra("sign token", err)
	}
	return &types.LoginResponse{Token: tok, User: userView(u)}, nil
}

type MeLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewMeLogic(ctx context.Context, svcCtx *svc.ServiceContext) *MeLogic {
	return &MeLogic{Logger: logx.WithContext(ctx), ctx: ctx, svcCtx: svcCtx}
}

func (l *MeLogic) Me() (*types.User, error) {
	actor, err := actorFrom(l.ctx)
	if err != nil {
		return nil, err
	}
	u, err := l.svcCtx.Users.Get(l.ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	v := userView(u)
	return &v, nil
}

func userView(u *ports.User) types.User {
	return types.User{
		Id:       u.ID,
		Username: u.Username,
		Name:     u.DisplayName,
		Email:    u.Email,
		Role:     string(u.Role),
		OrgId:    u.OrgID,
		BranchId: u.BranchID,
	}
}

package logic

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/signoffhq/signoff/services/server/internal/svc"
	"github.com/signoffhq/signoff/services/server/internal/types"
)

type HistoryLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewHistoryLogic(ctx context.Context, svcCtx *svc.ServiceContext) *HistoryLogic {
	return &HistoryLogic{Logger: logx.WithContext(ctx), ctx: ctx, svcCtx: svcCtx}
}

func (l *HistoryLogic) History(req *types.HistoryRequest) ([]types.HistoryEntry, error) {
	actor, err := actorFrom(l.ctx)
	if err != nil {
		return nil, err
	}
	entries, err := l.svcCtx.Approvals.History(l.ctx, req.Id, actor)
	if err != nil {
		return nil, err
	}
	out := make([]types.HistoryEntry, 0, len(entries))
	for _, h := range entries {
		out = append(out, historyView(h))
	}
	return out, nil
}

type SignaturesLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewSignaturesLogic(ctx context.Context, svcCtx *svc.ServiceContext) *SignaturesLogic {
	return &SignaturesLogic{Logger: logx.WithContext(ctx), ctx: ctx, svcCtx: svcCtx}
}

func (l *SignaturesLogic) Signatures(req *types.HistoryRequest) ([]types.Signature, error) {
	actor, err := actorFrom(l.ctx)
	if err != nil {
		return nil, err
	}
	sigs, err := l.svcCtx.Approvals.Signatures(l.ctx, req.Id, actor)
	if err != nil {
		return nil, err
	}
	out := make([]types.Signature, 0, len(sigs))
	for _, s := range sigs {
		out = append(out, signatureView(s))
	}
	return out, nil
}

type StatsLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewStatsLogic(ctx context.Context, svcCtx *svc.ServiceContext) *StatsLogic {
	return &StatsLogic{Logger: logx.WithContext(ctx), ctx: ctx, svcCtx: svcCtx}
}

func (l *StatsLogic) Stats() (*types.StatsResponse, error) {
	actor, err := actorFrom(l.ctx)
	if err != nil {
		return nil, err
	}
	st, err := l.svcCtx.Approvals.Stats(l.ctx, actor)
	if err != nil {
		return nil, err
	}
	out := &types.StatsResponse{
		Total:      st.Total,
		ByStatus:   make(map[string]int64, len(st.ByStatus)),
		ByPriority: make(map[string]int64, len(st.ByPriority)),
		Overdue:    st.Overdue,
		Mine:       st.Mine,
		AwaitingMe: st.AwaitingMe,
	}
	for k, v := range st.ByStatus {
		out.ByStatus[string(k)] = v
	}
	for k, v := range st.ByPriority {
		out.ByPriority[string(k)] = v
	}
	return out, nil
}

package logic

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/zeromicro/go-zero/rest/httpx"

	"github.com/signoffhq/signoff/internal/ports"
	"github.com/signoffhq/signoff/services/server/internal/svc"
	"github.com/signoffhq/signoff/services/server/internal/types"
)

var errNoActor = errors.New("no authenticated actor")

func actorFrom(ctx context.Context) (ports.Actor, error) {
	a, ok := svc.ActorFrom(ctx)
	if !ok {
		return ports.Actor{}, errNoActor
	}
	return a, nil
}

// WriteError maps domain errors onto HTTP statuses. Anything untyped is
// a 500 with a generic message.
func WriteError(ctx context.Context, w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"
	switch {
	case ports.IsValidation(err):
		status, msg = http.StatusBadRequest, err.Error()
	case ports.IsNotFound(err):
		status, msg = http.StatusNotFound, err.Error()
	case ports.IsPermission(err):
		status, msg = http.StatusForbidden, err.Error()
	case ports.IsConflict(err):
		status, msg = http.StatusConflict, err.Error()
	case errors.Is(err, errNoActor):
		status, msg = http.StatusUnauthorized, "unauthorized"
	}
	httpx.WriteJsonCtx(ctx, w, status, map[string]any{"code": status, "message": msg})
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func fmtTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return fmtTime(*t)
}

func parseTimePtr(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, ports.Validationf("bad timestamp %q, want RFC3339", s)
	}
	return &t, nil
}

func approvalView(a *ports.Approval) types.Approval {
	out := types.Approval{
		Id:                a.ID,
		Reference:         a.Reference,
		Type:              string(a.Type),
		Priority:          string(a.Priority),
		FlowType:          string(a.FlowType),
		Status:            string(a.Status),
		Lifecycle:         string(a.Lifecycle),
		Title:             a.Title,
		Description:       a.Description,
		Amount:            a.Amount,
		Currency:          a.Currency,
		RequesterId:       a.RequesterID,
		ApproverId:        a.ApproverID,
		DelegatedTo:       a.DelegatedTo,
		OrgId:             a.OrgID,
		BranchId:          a.BranchID,
		CurrentStep:       a.CurrentStep,
		TotalSteps:        a.TotalSteps,
		ApprovedCount:     a.ApprovedCount,
		RejectedCount:     a.RejectedCount,
		RejectionReason:   a.RejectionReason,
		IsUrgent:          a.IsUrgent,
		IsOverdue:         a.IsOverdue,
		IsEscalated:       a.IsEscalated,
		EscalationLevel:   a.EscalationLevel,
		EscalatedTo:       a.EscalatedTo,
		RequiresSignature: a.RequiresSignature,
		IsSigned:          a.IsSigned,
		DocumentUrls:      a.DocumentURLs,
		Deadline:          fmtTimePtr(a.Deadline),
		ApprovedAt:        fmtTimePtr(a.ApprovedAt),
		RejectedAt:        fmtTimePtr(a.RejectedAt),
		Version:           a.Version,
		CreatedAt:         fmtTime(a.CreatedAt),
		UpdatedAt:         fmtTime(a.UpdatedAt),
	}
	for _, att := range a.Attachments {
		out.Attachments = append(out.Attachments, types.Attachment{
			Name:        att.Name,
			Key:         att.Key,
			ContentType: att.ContentType,
			Size:        att.Size,
		})
	}
	return out
}

func historyView(h *ports.HistoryEntry) types.HistoryEntry {
	return types.HistoryEntry{
		Id:         h.ID,
		Action:     string(h.Action),
		FromStatus: string(h.FromStatus),
		ToStatus:   string(h.ToStatus),
		ActorId:    h.ActorID,
		Comments:   h.Comments,
		Source:     h.Source,
		CreatedAt:  fmtTime(h.CreatedAt),
	}
}

func signatureView(s *ports.Signature) types.Signature {
	return types.Signature{
		Id:            s.ID,
		SignerId:      s.SignerID,
		SignatureType: s.SignatureType,
		SignedAt:      fmtTime(s.CreatedAt),
	}
}

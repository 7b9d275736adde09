package approvals

import (
	"context"
	"io"
	"strings"

	"github.com/signoffhq/signoff/internal/objstore"
	"github.com/signoffhq/signoff/internal/ports"
)

// AttachmentUpload carries one inbound supporting document.
type AttachmentUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// AddAttachment stores the document and records it on the approval.
// Only the requester may attach, and only while the record is mutable
// (before a terminal status).
func (s *Service) AddAttachment(ctx context.Context, id string, up AttachmentUpload, actor ports.Actor) (*ports.Approval, error) {
	if s.store == nil {
		return nil, ports.Infra("attachment storage not configured", nil)
	}
	if strings.TrimSpace(up.Filename) == "" || up.Body == nil {
		return nil, ports.Validationf("filename and body required")
	}
	a, err := s.Get(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	if a.RequesterID != actor.UserID {
		return nil, ports.Permissionf("only the requester may attach documents")
	}
	if a.Terminal() {
		return nil, ports.Conflictf("approval %s is closed", a.Reference)
	}

	key := objstore.AttachmentKey(a.OrgID, a.ID, up.Filename)
	if err := s.store.Put(ctx, key, up.Body, up.ContentType); err != nil {
		return nil, ports.Infra("store attachment", err)
	}
	a.Attachments = append(a.Attachments, ports.Attachment{
		Name:        up.Filename,
		Key:         key,
		ContentType: up.ContentType,
		Size:        up.Size,
	})
	a.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	s.invalidate(ctx, a)
	return a, nil
}

// AttachmentURL signs a download URL for a stored attachment.
func (s *Service) AttachmentURL(ctx context.Context, id, key string, actor ports.Actor) (string, error) {
	if s.store == nil {
		return "", ports.Infra("attachment storage not configured", nil)
	}
	a, err := s.Get(ctx, id, actor)
	if err != nil {
		return "", err
	}
	for _, att := range a.Attachments {
		if att.Key == key {
			u, err := s.store.SignedURL(ctx, key, "GET", 0)
			if err != nil {
				return "", ports.Infra("sign attachment url", err)
			}
			return u, nil
		}
	}
	return "", ports.NotFound("attachment", key)
}

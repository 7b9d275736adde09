// Package events is the typed domain-event bus. Each event kind is its
// own Go type, so handlers keep payload type safety and the workflow
// stays decoupled from transport and notification concerns.
package events

import (
    "time"

    "github.com/signoffhq/signoff/internal/ports"
)

type Kind string

const (
    KindApprovalCreated    Kind = "approval.created"
    KindApprovalUpdated    Kind = "approval.updated"
    KindActionPerformed    Kind = "approval.action.performed"
    KindHighPriorityAction Kind = "approval.high.priority.action"
    KindBroadcast          Kind = "websocket.broadcast"
)

// Event is implemented by every domain event variant.
type Event interface {
    EventKind() Kind
}

type ApprovalCreated struct {
    Approval *ports.Approval
    Actor    ports.Actor
    At       time.Time
}

func (ApprovalCreated) EventKind() Kind { return KindApprovalCreated }

type ApprovalUpdated struct {
    Approval *ports.Approval
    Actor    ports.Actor
    At       time.Time
}

func (ApprovalUpdated) EventKind() Kind { return KindApprovalUpdated }

// ActionPerformed carries the before/after status of a transition.
type ActionPerformed struct {
    Approval   *ports.Approval
    Action     ports.Action
    FromStatus ports.Status
    ToStatus   ports.Status
    Actor      ports.Actor
    At         time.Time
}

func (ActionPerformed) EventKind() Kind { return KindActionPerformed }

// HighPriorityAction fires for URGENT/CRITICAL approvals or amounts over
// the configured threshold.
type HighPriorityAction struct {
    Approval *ports.Approval
    Action   ports.Action
    Actor    ports.Actor
    At       time.Time
}

func (HighPriorityAction) EventKind() Kind { return KindHighPriorityAction }

// Broadcast is the transport-agnostic fan-out envelope. Listeners (the
// websocket layer, a shared-cache invalidator) consume it as-is.
type Broadcast struct {
    Event   string         `json:"event"`
    OrgID   string         `json:"org_id"`
    Payload map[string]any `json:"payload"`
}

func (Broadcast) EventKind() Kind { return KindBroadcast }

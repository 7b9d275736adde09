package events

import (
    "context"
    "encoding/json"
    "time"

    kafka "github.com/segmentio/kafka-go"

    "github.com/signoffhq/signoff/internal/ports"
)

// KafkaPublisher mirrors every domain event onto a kafka topic for
// downstream consumers (reporting, integrations).
type KafkaPublisher struct {
    w *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
    if topic == "" {
        topic = "signoff.approvals"
    }
    // Writers are safe for concurrent use
    w := &kafka.Writer{
        Addr:         kafka.TCP(brokers...),
        Topic:        topic,
        RequiredAcks: kafka.RequireOne,
        Balancer:     &kafka.LeastBytes{},
        BatchTimeout: 50 * time.Millisecond,
    }
    return &KafkaPublisher{w: w}
}

func (p *KafkaPublisher) Close() error { return p.w.Close() }

type wireEvent struct {
    Kind       Kind         `json:"kind"`
    ApprovalID string       `json:"approval_id,omitempty"`
    Reference  string       `json:"reference,omitempty"`
    OrgID      string       `json:"org_id,omitempty"`
    Action     ports.Action `json:"action,omitempty"`
    FromStatus ports.Status `json:"from_status,omitempty"`
    ToStatus   ports.Status `json:"to_status,omitempty"`
    Actor      string       `json:"actor,omitempty"`
    At         time.Time    `json:"at"`
}

func (p *KafkaPublisher) Handle(ctx context.Context, e Event) error {
    we := wireEvent{Kind: e.EventKind(), At: time.Now().UTC()}
    switch ev := e.(type) {
    case ApprovalCreated:
        we.ApprovalID, we.Reference, we.OrgID, we.Actor, we.At = ev.Approval.ID, ev.Approval.Reference, ev.Approval.OrgID, ev.Actor.UserID, ev.At
    case ApprovalUpdated:
        we.ApprovalID, we.Reference, we.OrgID, we.Actor, we.At = ev.Approval.ID, ev.Approval.Reference, ev.Approval.OrgID, ev.Actor.UserID, ev.At
    case ActionPerformed:
        we.ApprovalID, we.Reference, we.OrgID, we.Actor, we.At = ev.Approval.ID, ev.Approval.Reference, ev.Approval.OrgID, ev.Actor.UserID, ev.At
        we.Action, we.FromStatus, we.ToStatus = ev.Action, ev.FromStatus, ev.ToStatus
    case HighPriorityAction:
        we.ApprovalID, we.Reference, we.OrgID, we.Actor, we.At = ev.Approval.ID, ev.Approval.Reference, ev.Approval.OrgID, ev.Actor.UserID, ev.At
        we.Action = ev.Action
    case Broadcast:
        // broadcasts go through the redis channel, not kafka
        return nil
    }
    b, err := json.Marshal(we)
    if err != nil {
        return err
    }
    wctx, cancel := context.WithTimeout(ctx, 2*time.Second)
    defer cancel()
    return p.w.WriteMessages(wctx, kafka.Message{Key: []byte(we.ApprovalID), Value: b})
}

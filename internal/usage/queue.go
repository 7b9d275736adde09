// Package usage streams per-action usage records out of the process for
// offline reporting. Publishing is best effort; a broker outage must
// never fail an approval mutation.
package usage

import "time"

// Record is one performed action, flattened for the warehouse.
type Record struct {
	Time       time.Time `json:"ts"`
	OrgID      string    `json:"org_id"`
	BranchID   string    `json:"branch_id,omitempty"`
	ApprovalID string    `json:"approval_id"`
	Reference  string    `json:"reference"`
	Type       string    `json:"type"`
	Action     string    `json:"action"`
	FromStatus string    `json:"from_status,omitempty"`
	ToStatus   string    `json:"to_status"`
	ActorID    string    `json:"actor_id"`
	ActorRole  string    `json:"actor_role"`
	Amount     float64   `json:"amount"`
	Currency   string    `json:"currency"`
}

// Queue publishes usage records to a broker. Implementations are backed
// by Redis Streams, Kafka, or a no-op for dev.
type Queue interface {
	Publish(rec Record) error
	Close() error
}

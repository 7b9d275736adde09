// Package chain writes a tamper-evident mirror of the approval history:
// each JSONL record carries the SHA-256 of the previous record, so any
// edit to the file breaks the chain.
package chain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/signoffhq/signoff/internal/ports"
)

type Writer struct {
	mu   sync.Mutex
	f    *os.File
	prev []byte // previous hash
}

func NewWriter(path string) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return &Writer{f: f, prev: make([]byte, 32)}, nil
}

func (w *Writer) Close() error { return w.f.Close() }

// Record is one chained transition entry.
type Record struct {
	Time       time.Time    `json:"time"`
	ApprovalID string       `json:"approval_id"`
	Action     ports.Action `json:"action"`
	FromStatus ports.Status `json:"from_status"`
	ToStatus   ports.Status `json:"to_status"`
	Actor      string       `json:"actor"`
	Prev       string       `json:"prev"`
	Hash       string       `json:"hash"`
}

// Append writes one transition record to the chain.
func (w *Writer) Append(approvalID string, action ports.Action, from, to ports.Status, actor string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	rec := Record{
		Time:       time.Now().UTC(),
		ApprovalID: approvalID,
		Action:     action,
		FromStatus: from,
		ToStatus:   to,
		Actor:      actor,
		Prev:       hex.EncodeToString(w.prev),
	}
	b, _ := json.Marshal(rec)
	h := sha256.Sum256(append(w.prev, b...))
	rec.Hash = hex.EncodeToString(h[:])
	b, _ = json.Marshal(rec)
	if _, err := w.f.Write(append(b, '\n')); err != nil {
		return err
	}
	copy(w.prev, h[:])
	return nil
}

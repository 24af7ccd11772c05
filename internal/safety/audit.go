package safety

import (
	"encoding/json"
	"errors"
	"io"
	"sync"
	"time"
)

// ErrNilWriter is returned by AuditLogger.Log on a logger without a writer.
var ErrNilWriter = errors.New("audit logger: writer is nil")

// AuditEntry captures a single method-channel call for the audit log.
type AuditEntry struct {
	Timestamp time.Time      `json:"timestamp"`
	Method    string         `json:"method"`
	Params    map[string]any `json:"params,omitempty"`
	// Outcome is "success", "not_implemented" or "error".
	Outcome  string        `json:"outcome"`
	Detail   string        `json:"detail,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

// AuditLogger appends one JSON line per call. It is safe for concurrent use.
type AuditLogger struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewAuditLogger returns an AuditLogger writing to w, or nil when w is nil.
func NewAuditLogger(w io.Writer) *AuditLogger {
	if w == nil {
		return nil
	}
	return &AuditLogger{enc: json.NewEncoder(w)}
}

// Log writes entry as a single line.
func (l *AuditLogger) Log(entry AuditEntry) error {
	if l == nil || l.enc == nil {
		return ErrNilWriter
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enc.Encode(entry)
}

// Call records a call that started at start and finished now.
func (l *AuditLogger) Call(method string, params map[string]any, outcome, detail string, start time.Time) error {
	return l.Log(AuditEntry{
		Timestamp: start,
		Method:    method,
		Params:    params,
		Outcome:   outcome,
		Detail:    detail,
		Duration:  time.Since(start),
	})
}

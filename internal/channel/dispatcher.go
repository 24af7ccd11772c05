package channel

import (
	"context"
	"fmt"
	"time"

	"github.com/jamesprial/extstorage-mcp/internal/capability"
	"github.com/jamesprial/extstorage-mcp/internal/logging"
	"github.com/jamesprial/extstorage-mcp/internal/metrics"
	"github.com/jamesprial/extstorage-mcp/internal/platform"
	"github.com/jamesprial/extstorage-mcp/internal/safety"
	"github.com/jamesprial/extstorage-mcp/internal/tools"
)

// Dispatcher routes requests to the capability query and the volume
// inventory. It keeps no state between calls.
type Dispatcher struct {
	access  capability.Provider
	volumes VolumeLister
	version func() string
	audit   *safety.AuditLogger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithAudit records every dispatched call in audit. A nil logger disables
// auditing.
func WithAudit(audit *safety.AuditLogger) Option {
	return func(d *Dispatcher) { d.audit = audit }
}

// WithPlatformVersion overrides the getPlatformVersion source.
func WithPlatformVersion(fn func() string) Option {
	return func(d *Dispatcher) { d.version = fn }
}

// NewDispatcher returns a Dispatcher answering elevated-access queries from
// access and volume queries from volumes.
func NewDispatcher(access capability.Provider, volumes VolumeLister, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		access:  access,
		volumes: volumes,
		version: platform.Version,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Handle runs one call to completion. Unknown method names produce
// OutcomeNotImplemented; only a failing volume listing produces OutcomeError.
func (d *Dispatcher) Handle(ctx context.Context, req Request) Response {
	start := time.Now()
	resp := d.route(ctx, req)
	d.observe(req, resp, start)
	return resp
}

func (d *Dispatcher) route(ctx context.Context, req Request) Response {
	resp := Response{Method: req.Name}

	switch req.Method() {
	case MethodIsExternalStorageManager:
		granted := d.access.ElevatedAccess(ctx)
		metrics.SetElevatedAccess(granted)
		resp.Outcome, resp.Value = OutcomeSuccess, granted

	case MethodGetExtStorageData:
		records, err := d.volumes.List(ctx)
		if err != nil {
			resp.Outcome, resp.Err = OutcomeError, fmt.Errorf("%s: %w", req.Name, err)
			return resp
		}
		metrics.SetVolumesListed(len(records))
		resp.Outcome, resp.Value = OutcomeSuccess, records

	case MethodGetPlatformVersion:
		resp.Outcome, resp.Value = OutcomeSuccess, d.version()

	case MethodUnknown:
		resp.Outcome = OutcomeNotImplemented
	}

	return resp
}

func (d *Dispatcher) observe(req Request, resp Response, start time.Time) {
	elapsed := time.Since(start)
	outcome := resp.Outcome.String()

	// Unknown names are collapsed so arbitrary input cannot grow label sets.
	metrics.ObserveDispatch(req.Method().String(), outcome, elapsed)

	detail := ""
	if resp.Err != nil {
		detail = resp.Err.Error()
	}
	tools.LogAudit(d.audit, req.Name, req.Args, outcome, detail, start)

	ev := logging.Debug()
	if resp.Outcome == OutcomeError {
		ev = logging.Warn().Err(resp.Err)
	}
	ev.Str("method", req.Name).
		Str("outcome", outcome).
		Dur("elapsed", elapsed).
		Msg("method call")
}

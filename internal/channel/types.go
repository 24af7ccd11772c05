// Package channel implements the method-channel dispatcher: it routes named
// calls to the storage queries and reports one of three outcomes.
package channel

import (
	"context"

	"github.com/jamesprial/extstorage-mcp/internal/volume"
)

// Method is the closed set of calls the channel understands. Any other name
// parses to MethodUnknown.
type Method int

const (
	MethodUnknown Method = iota
	MethodIsExternalStorageManager
	MethodGetExtStorageData
	MethodGetPlatformVersion
)

var methodNames = map[Method]string{
	MethodIsExternalStorageManager: "isExternalStorageManager",
	MethodGetExtStorageData:        "getExtStorageData",
	MethodGetPlatformVersion:       "getPlatformVersion",
}

// ParseMethod maps a wire name to its Method. Matching is exact.
func ParseMethod(name string) Method {
	for m, n := range methodNames {
		if n == name {
			return m
		}
	}
	return MethodUnknown
}

// String returns the wire name, or "unknown".
func (m Method) String() string {
	if n, ok := methodNames[m]; ok {
		return n
	}
	return "unknown"
}

// Methods returns every known method in declaration order.
func Methods() []Method {
	return []Method{MethodIsExternalStorageManager, MethodGetExtStorageData, MethodGetPlatformVersion}
}

// Request is one incoming call. Args are accepted but no method uses them.
type Request struct {
	Name string
	Args map[string]any
}

// Method returns the parsed method of r.
func (r Request) Method() Method {
	return ParseMethod(r.Name)
}

// Outcome distinguishes the three ways a call can end.
type Outcome int

const (
	// OutcomeSuccess carries typed data in Response.Value.
	OutcomeSuccess Outcome = iota
	// OutcomeNotImplemented means the host does not offer the method. It is
	// neither a success nor a failure.
	OutcomeNotImplemented
	// OutcomeError means a valid call failed; Response.Err holds the cause.
	OutcomeError
)

// String returns the outcome label used in logs, audit entries and metrics.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeNotImplemented:
		return "not_implemented"
	case OutcomeError:
		return "error"
	default:
		return "invalid"
	}
}

// Response is the result of one dispatched call.
type Response struct {
	// Method is the name as received, so unknown names are echoed back.
	Method  string
	Outcome Outcome
	Value   any
	Err     error
}

// VolumeLister produces the current volume inventory.
type VolumeLister interface {
	List(ctx context.Context) ([]volume.Record, error)
}

// Package capability answers whether elevated ("manage all files") storage
// access is currently granted to the application.
package capability

import "context"

// ElevatedAccessAPILevel is the first host API level that models a distinct
// "manage all files" permission. Hosts below it have no such restriction.
const ElevatedAccessAPILevel = 30

// Oracle reports the host's live permission state. It is treated as a black
// box: no error path, no side effects.
type Oracle interface {
	Granted(ctx context.Context) bool
}

// OracleFunc adapts an ordinary function to the Oracle interface.
type OracleFunc func(ctx context.Context) bool

// Granted calls f(ctx).
func (f OracleFunc) Granted(ctx context.Context) bool { return f(ctx) }

// Provider answers the elevated-access query. Implementations never fail.
type Provider interface {
	ElevatedAccess(ctx context.Context) bool
}

// Legacy is the Provider for hosts that predate the permission. The absence
// of the restriction is reported as access granted.
type Legacy struct{}

// ElevatedAccess always returns true.
func (Legacy) ElevatedAccess(context.Context) bool { return true }

// Live is the Provider for hosts that model the permission. It returns the
// oracle's answer verbatim.
type Live struct {
	oracle Oracle
}

// NewLive returns a Live provider backed by oracle.
func NewLive(oracle Oracle) *Live {
	return &Live{oracle: oracle}
}

// ElevatedAccess returns the oracle's current answer. A nil oracle reports
// access denied.
func (l *Live) ElevatedAccess(ctx context.Context) bool {
	if l == nil || l.oracle == nil {
		return false
	}
	return l.oracle.Granted(ctx)
}

// NewProvider selects the Provider for a host at apiLevel. The choice is made
// once here so callers never branch on host version themselves.
func NewProvider(apiLevel int, oracle Oracle) Provider {
	if apiLevel < ElevatedAccessAPILevel {
		return Legacy{}
	}
	return NewLive(oracle)
}

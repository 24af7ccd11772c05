package capability

import (
	"context"

	"github.com/jamesprial/extstorage-mcp/internal/logging"
)

// AccessOracle grants elevated access when the process can both read and
// write every configured shared-storage root.
type AccessOracle struct {
	roots  []string
	access func(path string, mode uint32) error
}

// NewAccessOracle returns an AccessOracle checking the given roots. With no
// roots the oracle always reports denied.
func NewAccessOracle(roots []string) *AccessOracle {
	return &AccessOracle{
		roots:  append([]string(nil), roots...),
		access: checkAccess,
	}
}

// Granted reports whether every root passes a read+write access check.
func (o *AccessOracle) Granted(ctx context.Context) bool {
	if len(o.roots) == 0 {
		return false
	}
	for _, root := range o.roots {
		if err := ctx.Err(); err != nil {
			return false
		}
		if err := o.access(root, accessReadWrite); err != nil {
			logging.Debug().Str("root", root).Err(err).Msg("shared root not accessible")
			return false
		}
	}
	return true
}

package volume

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/jamesprial/extstorage-mcp/internal/logging"
)

// Inventory lists external storage volumes. It holds no state between calls.
type Inventory struct {
	dirs      DirProvider
	fs        StatFS
	rootDepth int
	filter    PathFilter
}

// Option configures an Inventory.
type Option func(*Inventory)

// WithRootDepth sets how many levels above each directory the mount root is
// derived from. Zero disables derivation.
func WithRootDepth(depth int) Option {
	return func(inv *Inventory) { inv.rootDepth = depth }
}

// WithFilter drops directories the filter does not allow before they are
// statted.
func WithFilter(f PathFilter) Option {
	return func(inv *Inventory) { inv.filter = f }
}

// NewInventory returns an Inventory reading directories from dirs and block
// metadata from fs.
func NewInventory(dirs DirProvider, fs StatFS, opts ...Option) *Inventory {
	inv := &Inventory{dirs: dirs, fs: fs}
	for _, opt := range opts {
		opt(inv)
	}
	return inv
}

// List returns one Record per directory reported by the host, in host order.
// An empty host set yields an empty, non-nil slice. Enumeration or statfs
// failures abort the call; root derivation failures only blank RootPath.
func (inv *Inventory) List(ctx context.Context) ([]Record, error) {
	dirs, err := inv.dirs.ExternalDirs(ctx)
	if err != nil {
		return nil, fmt.Errorf("enumerate external dirs: %w", err)
	}

	records := make([]Record, 0, len(dirs))
	for _, dir := range dirs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path, err := filepath.Abs(dir)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", dir, err)
		}
		if inv.filter != nil && !inv.filter.IsAllowed(path) {
			logging.Debug().Str("path", path).Msg("volume excluded by filter")
			continue
		}

		rec, err := inv.record(path)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// record stats an absolute path and builds its Record.
func (inv *Inventory) record(path string) (Record, error) {
	usage, err := inv.fs.Stat(path)
	if err != nil {
		return Record{}, fmt.Errorf("stat %s: %w", path, err)
	}

	root, ok := DeriveRoot(path, inv.rootDepth)
	if !ok && inv.rootDepth > 0 {
		logging.Debug().Str("path", path).Int("depth", inv.rootDepth).Msg("root path not derivable")
	}

	return Record{
		RootPath:       root,
		Path:           path,
		AvailableBytes: usage.AvailableBytes(),
	}, nil
}

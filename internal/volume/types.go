// Package volume enumerates the external storage volumes available to the
// application and reports the free space on each.
package volume

import (
	"context"
	"errors"
)

// ErrUnsupported is returned by UnixStatFS on platforms without statfs(2).
var ErrUnsupported = errors.New("statfs not supported on this platform")

// Record describes one external storage volume at query time. Records are
// built fresh on every query and never cached.
type Record struct {
	// RootPath is the volume's mount root derived from Path. Empty when the
	// derivation is disabled or the path is too shallow.
	RootPath string `json:"rootPath"`

	// Path is the absolute application-scoped directory on the volume.
	Path string `json:"path"`

	// AvailableBytes is the space available to an unprivileged writer.
	AvailableBytes uint64 `json:"availableBytes"`
}

// Usage is the block-level filesystem metadata for a path.
type Usage struct {
	BlockSize       uint64
	AvailableBlocks uint64
	TotalBlocks     uint64
}

// AvailableBytes returns AvailableBlocks * BlockSize.
func (u Usage) AvailableBytes() uint64 {
	return u.AvailableBlocks * u.BlockSize
}

// TotalBytes returns TotalBlocks * BlockSize.
func (u Usage) TotalBytes() uint64 {
	return u.TotalBlocks * u.BlockSize
}

// DirProvider is the host primitive that enumerates application-scoped
// external storage directories. An empty result is valid.
type DirProvider interface {
	ExternalDirs(ctx context.Context) ([]string, error)
}

// StatFS reads filesystem block metadata for a path.
type StatFS interface {
	Stat(path string) (Usage, error)
}

// PathFilter decides whether a directory may be reported.
type PathFilter interface {
	IsAllowed(path string) bool
}

package volume

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// StaticProvider reports a fixed list of directories in the given order.
type StaticProvider struct {
	dirs []string
}

// NewStaticProvider returns a StaticProvider for dirs.
func NewStaticProvider(dirs []string) *StaticProvider {
	return &StaticProvider{dirs: append([]string(nil), dirs...)}
}

// ExternalDirs returns a copy of the configured directories.
func (p *StaticProvider) ExternalDirs(context.Context) ([]string, error) {
	return append([]string{}, p.dirs...), nil
}

// MountTableProvider derives application-scoped directories from the mount
// table: for every mount point under one of the configured prefixes it
// reports <mountpoint>/<appSubdir> when that directory exists. The primary
// root, if set, is reported first.
type MountTableProvider struct {
	procPath    string
	primaryRoot string
	prefixes    []string
	appSubdir   string
}

// NewMountTableProvider returns a MountTableProvider.
//
//   - procPath     is the proc filesystem root (normally /proc).
//   - primaryRoot  is the primary shared-storage mount (may be empty).
//   - prefixes     select secondary mount points, e.g. "/storage/".
//   - appSubdir    is the app-scoped directory below each mount point.
func NewMountTableProvider(procPath, primaryRoot string, prefixes []string, appSubdir string) *MountTableProvider {
	return &MountTableProvider{
		procPath:    procPath,
		primaryRoot: primaryRoot,
		prefixes:    append([]string(nil), prefixes...),
		appSubdir:   appSubdir,
	}
}

// ExternalDirs reads the mount table and returns the existing app-scoped
// directories in mount-table order, without duplicates.
func (p *MountTableProvider) ExternalDirs(ctx context.Context) ([]string, error) {
	mounts, err := p.readMountPoints()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	dirs := []string{}
	add := func(mountPoint string) {
		dir := filepath.Join(mountPoint, p.appSubdir)
		if _, dup := seen[dir]; dup {
			return
		}
		seen[dir] = struct{}{}
		if isDir(dir) {
			dirs = append(dirs, dir)
		}
	}

	if p.primaryRoot != "" {
		add(p.primaryRoot)
	}
	for _, mp := range mounts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if p.matches(mp) {
			add(mp)
		}
	}
	return dirs, nil
}

func (p *MountTableProvider) matches(mountPoint string) bool {
	for _, prefix := range p.prefixes {
		if prefix != "" && strings.HasPrefix(mountPoint, prefix) && mountPoint != strings.TrimSuffix(prefix, "/") {
			return true
		}
	}
	return false
}

// readMountPoints returns the mount point column of {procPath}/self/mounts,
// falling back to {procPath}/mounts.
//
// Format:  device mountpoint fstype options dump pass
func (p *MountTableProvider) readMountPoints() ([]string, error) {
	path := filepath.Join(p.procPath, "self", "mounts")
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		path = filepath.Join(p.procPath, "mounts")
		f, err = os.Open(path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var mounts []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 3 {
			continue
		}
		mounts = append(mounts, unescapeMountField(fields[1]))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", path, err)
	}
	return mounts, nil
}

// unescapeMountField decodes the octal escapes (\040 for space, \011 for tab,
// \012 for newline, \134 for backslash) the kernel writes in mount fields.
func unescapeMountField(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+4 <= len(s) {
			if v, err := strconv.ParseUint(s[i+1:i+4], 8, 8); err == nil {
				b.WriteByte(byte(v))
				i += 3
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

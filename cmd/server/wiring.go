package main

import (
	"os"

	"github.com/jamesprial/extstorage-mcp/internal/capability"
	"github.com/jamesprial/extstorage-mcp/internal/channel"
	"github.com/jamesprial/extstorage-mcp/internal/config"
	"github.com/jamesprial/extstorage-mcp/internal/logging"
	"github.com/jamesprial/extstorage-mcp/internal/safety"
	"github.com/jamesprial/extstorage-mcp/internal/volume"
)

// buildAccess selects the capability provider for the configured API level.
func buildAccess(cfg *config.Config) capability.Provider {
	return capability.NewProvider(cfg.Host.APILevel, capability.NewAccessOracle(cfg.SharedRoots()))
}

// buildDirProvider uses the fixed directory list when one is configured and
// the mount table otherwise.
func buildDirProvider(cfg *config.Config) volume.DirProvider {
	if len(cfg.Volumes.Dirs) > 0 {
		return volume.NewStaticProvider(cfg.Volumes.Dirs)
	}
	return volume.NewMountTableProvider(
		cfg.Host.Proc,
		cfg.Host.PrimaryRoot,
		cfg.Volumes.MountPrefixes,
		cfg.AppSubdir(),
	)
}

func buildInventory(cfg *config.Config) *volume.Inventory {
	return volume.NewInventory(
		buildDirProvider(cfg),
		volume.UnixStatFS{},
		volume.WithRootDepth(cfg.Volumes.RootDepth),
		volume.WithFilter(safety.NewFilter(cfg.Volumes.Allowlist, cfg.Volumes.Denylist)),
	)
}

// buildDispatcher wires the capability provider, the volume inventory and,
// when enabled, the audit log into a Dispatcher. The returned func closes the
// audit log file and is always safe to call.
func buildDispatcher(cfg *config.Config) (*channel.Dispatcher, func()) {
	closeAudit := func() {}

	var auditLogger *safety.AuditLogger
	if cfg.Audit.Enabled {
		f, err := os.OpenFile(cfg.Audit.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			logging.Warn().Err(err).Str("path", cfg.Audit.LogPath).Msg("could not open audit log, audit logging disabled")
		} else {
			auditLogger = safety.NewAuditLogger(f)
			closeAudit = func() { _ = f.Close() }
		}
	}

	d := channel.NewDispatcher(
		buildAccess(cfg),
		buildInventory(cfg),
		channel.WithAudit(auditLogger),
	)
	return d, closeAudit
}

// Package config provides configuration loading and defaults for the extstorage-mcp server.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jamesprial/extstorage-mcp/internal/logging"
)

// Transport names accepted in ServerConfig.Transport.
const (
	TransportHTTP  = "http"
	TransportStdio = "stdio"
)

// ServerConfig holds network, transport and authentication settings.
type ServerConfig struct {
	Port      int    `yaml:"port"`
	AuthToken string `yaml:"auth_token"`
	// Transport is either "http" (Streamable HTTP) or "stdio".
	Transport string `yaml:"transport"`
	// ChannelName is the name the method channel announces to clients.
	ChannelName string `yaml:"channel_name"`
	// MetricsPath is where Prometheus metrics are served on the HTTP
	// transport. Empty disables the endpoint.
	MetricsPath string `yaml:"metrics_path"`
}

// HostConfig describes the host environment the bridge answers for.
type HostConfig struct {
	// APILevel is the host platform API level. Levels below 30 predate the
	// "manage all files" permission.
	APILevel int `yaml:"api_level"`
	// Package is the application identifier used to build app-scoped
	// directories (Android/data/<package>/files).
	Package string `yaml:"package"`
	// Proc is the proc filesystem root used to read the mount table.
	Proc string `yaml:"proc"`
	// PrimaryRoot is the primary shared-storage mount, always listed first.
	PrimaryRoot string `yaml:"primary_root"`
	// SharedRoots are the roots that must be readable and writable for
	// elevated access to count as granted. Defaults to PrimaryRoot.
	SharedRoots []string `yaml:"shared_roots"`
}

// VolumesConfig controls how external storage volumes are discovered.
type VolumesConfig struct {
	// MountPrefixes selects mount points from the mount table.
	MountPrefixes []string `yaml:"mount_prefixes"`
	// AppSubdir is the app-scoped directory below each mount point. The
	// "{package}" placeholder is replaced with Host.Package.
	AppSubdir string `yaml:"app_subdir"`
	// Dirs, when non-empty, replaces mount-table discovery with a fixed list
	// of app-scoped directories.
	Dirs []string `yaml:"dirs"`
	// RootDepth is how many levels above the app-scoped directory the mount
	// root lives. Zero disables root derivation.
	RootDepth int `yaml:"root_depth"`
	// Allowlist and Denylist are glob patterns matched against directory paths.
	Allowlist []string `yaml:"allowlist"`
	Denylist  []string `yaml:"denylist"`
}

// AuditConfig controls audit logging behaviour.
type AuditConfig struct {
	Enabled bool   `yaml:"enabled"`
	LogPath string `yaml:"log_path"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config is the top-level configuration structure for the extstorage-mcp server.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Host    HostConfig    `yaml:"host"`
	Volumes VolumesConfig `yaml:"volumes"`
	Audit   AuditConfig   `yaml:"audit"`
	Log     LogConfig     `yaml:"log"`
}

// LoadConfig reads and parses a YAML configuration file from the given path.
// Fields absent from the file keep their DefaultConfig values. On error, nil
// is returned for the config pointer.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns a new Config populated with sensible default values.
// Each call returns a distinct instance.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        8080,
			Transport:   TransportHTTP,
			ChannelName: "filesystem_picker/android_native",
			MetricsPath: "/metrics",
		},
		Host: HostConfig{
			APILevel:    30,
			Package:     "com.example.app",
			Proc:        "/proc",
			PrimaryRoot: "/storage/emulated/0",
		},
		Volumes: VolumesConfig{
			MountPrefixes: []string{"/storage/", "/mnt/media_rw/", "/media/", "/run/media/"},
			AppSubdir:     "Android/data/{package}/files",
			RootDepth:     4,
		},
		Audit: AuditConfig{
			Enabled: false,
			LogPath: "/config/audit.log",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// ApplyEnvOverrides updates cfg in place with values from environment variables.
// Recognized variables:
//   - EXTSTORAGE_AUTH_TOKEN overrides cfg.Server.AuthToken
//   - EXTSTORAGE_TRANSPORT overrides cfg.Server.Transport
//   - EXTSTORAGE_LOG_LEVEL overrides cfg.Log.Level
//   - EXTSTORAGE_API_LEVEL overrides cfg.Host.APILevel (ignored unless numeric)
func ApplyEnvOverrides(cfg *Config) {
	if token := os.Getenv("EXTSTORAGE_AUTH_TOKEN"); token != "" {
		cfg.Server.AuthToken = token
	}
	if transport := os.Getenv("EXTSTORAGE_TRANSPORT"); transport != "" {
		cfg.Server.Transport = transport
	}
	if level := os.Getenv("EXTSTORAGE_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if raw := os.Getenv("EXTSTORAGE_API_LEVEL"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			cfg.Host.APILevel = n
		}
	}
}

// Validate reports every configuration problem found, joined into one error,
// or nil when the configuration is usable.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Transport != TransportHTTP && c.Server.Transport != TransportStdio {
		errs = append(errs, fmt.Errorf("server.transport %q: want %q or %q", c.Server.Transport, TransportHTTP, TransportStdio))
	}
	if c.Server.Transport == TransportHTTP && (c.Server.Port <= 0 || c.Server.Port > 65535) {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Server.MetricsPath != "" && !strings.HasPrefix(c.Server.MetricsPath, "/") {
		errs = append(errs, fmt.Errorf("server.metrics_path %q must start with /", c.Server.MetricsPath))
	}
	if c.Host.APILevel < 0 {
		errs = append(errs, fmt.Errorf("host.api_level %d must not be negative", c.Host.APILevel))
	}
	if c.Volumes.RootDepth < 0 {
		errs = append(errs, fmt.Errorf("volumes.root_depth %d must not be negative", c.Volumes.RootDepth))
	}
	if len(c.Volumes.Dirs) == 0 && c.Host.Proc == "" {
		errs = append(errs, errors.New("host.proc is required when volumes.dirs is empty"))
	}
	if c.Audit.Enabled && c.Audit.LogPath == "" {
		errs = append(errs, errors.New("audit.log_path is required when audit is enabled"))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "console", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q: want console or json", c.Log.Format))
	}
	return errors.Join(errs...)
}

// AppSubdir returns Volumes.AppSubdir with the package placeholder expanded.
func (c *Config) AppSubdir() string {
	return strings.ReplaceAll(c.Volumes.AppSubdir, "{package}", c.Host.Package)
}

// SharedRoots returns Host.SharedRoots, falling back to Host.PrimaryRoot.
func (c *Config) SharedRoots() []string {
	if len(c.Host.SharedRoots) > 0 {
		return c.Host.SharedRoots
	}
	if c.Host.PrimaryRoot == "" {
		return nil
	}
	return []string{c.Host.PrimaryRoot}
}

// EnsureAuthToken generates a random auth token and sets it on cfg if
// cfg.Server.AuthToken is empty. It returns the token (existing or generated)
// and any error encountered during generation.
func EnsureAuthToken(cfg *Config) (string, error) {
	if cfg.Server.AuthToken != "" {
		return cfg.Server.AuthToken, nil
	}
	token, err := GenerateRandomToken()
	if err != nil {
		return "", fmt.Errorf("generate auth token: %w", err)
	}
	cfg.Server.AuthToken = token
	return token, nil
}

// GenerateRandomToken returns a 32-character hex-encoded cryptographically
// random token string.
func GenerateRandomToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("rand.Read: %w", err)
	}
	return hex.EncodeToString(b), nil
}

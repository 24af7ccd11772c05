package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// testdataDir returns the absolute path to the testdata/config directory.
func testdataDir(t *testing.T) string {
	t.Helper()
	// Navigate from internal/config/ up to project root, then into testdata/config.
	dir, err := filepath.Abs(filepath.Join("..", "..", "testdata", "config"))
	if err != nil {
		t.Fatalf("failed to resolve testdata dir: %v", err)
	}
	return dir
}

// writeTempFile creates a temporary file with the given content and returns its path.
func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp file %s: %v", path, err)
	}
	return path
}

func Test_LoadConfig_Cases(t *testing.T) {
	tests := []struct {
		name        string
		setupPath   func(t *testing.T) string
		wantErr     bool
		errContains string
		validate    func(t *testing.T, cfg *Config)
	}{
		{
			name: "valid config loads all fields",
			setupPath: func(t *testing.T) string {
				t.Helper()
				return filepath.Join(testdataDir(t), "valid.yaml")
			},
			validate: func(t *testing.T, cfg *Config) {
				t.Helper()
				if cfg == nil {
					t.Fatal("expected non-nil config")
				}
				if cfg.Server.Port != 9090 {
					t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
				}
				if cfg.Server.AuthToken != "test-secret-token" {
					t.Errorf("Server.AuthToken = %q, want %q", cfg.Server.AuthToken, "test-secret-token")
				}
				if cfg.Server.Transport != TransportStdio {
					t.Errorf("Server.Transport = %q, want %q", cfg.Server.Transport, TransportStdio)
				}
				if cfg.Server.ChannelName != "storage/test" {
					t.Errorf("Server.ChannelName = %q, want %q", cfg.Server.ChannelName, "storage/test")
				}
				if cfg.Server.MetricsPath != "/internal/metrics" {
					t.Errorf("Server.MetricsPath = %q, want %q", cfg.Server.MetricsPath, "/internal/metrics")
				}
				if cfg.Host.APILevel != 29 {
					t.Errorf("Host.APILevel = %d, want 29", cfg.Host.APILevel)
				}
				if cfg.Host.Package != "com.amazingsoftworks.picker" {
					t.Errorf("Host.Package = %q", cfg.Host.Package)
				}
				if cfg.Host.Proc != "/custom/proc" {
					t.Errorf("Host.Proc = %q, want %q", cfg.Host.Proc, "/custom/proc")
				}
				if len(cfg.Host.SharedRoots) != 2 {
					t.Errorf("Host.SharedRoots = %v, want 2 entries", cfg.Host.SharedRoots)
				}
				if len(cfg.Volumes.MountPrefixes) != 1 || cfg.Volumes.MountPrefixes[0] != "/custom/storage/" {
					t.Errorf("Volumes.MountPrefixes = %v, want [/custom/storage/]", cfg.Volumes.MountPrefixes)
				}
				if cfg.Volumes.RootDepth != 0 {
					t.Errorf("Volumes.RootDepth = %d, want 0", cfg.Volumes.RootDepth)
				}
				if len(cfg.Volumes.Allowlist) != 1 || len(cfg.Volumes.Denylist) != 1 {
					t.Errorf("Volumes filters = %v / %v, want one entry each", cfg.Volumes.Allowlist, cfg.Volumes.Denylist)
				}
				if !cfg.Audit.Enabled {
					t.Error("Audit.Enabled = false, want true")
				}
				if cfg.Audit.LogPath != "/custom/audit.log" {
					t.Errorf("Audit.LogPath = %q, want %q", cfg.Audit.LogPath, "/custom/audit.log")
				}
				if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
					t.Errorf("Log = %+v, want debug/json", cfg.Log)
				}
			},
		},
		{
			name: "missing file returns error",
			setupPath: func(t *testing.T) string {
				t.Helper()
				return "/nonexistent/path/config.yaml"
			},
			wantErr:     true,
			errContains: "no such file",
			validate: func(t *testing.T, cfg *Config) {
				t.Helper()
				if cfg != nil {
					t.Error("expected nil config for missing file")
				}
			},
		},
		{
			name: "invalid YAML returns unmarshal error",
			setupPath: func(t *testing.T) string {
				t.Helper()
				return filepath.Join(testdataDir(t), "invalid.yaml")
			},
			wantErr:     true,
			errContains: "unmarshal",
			validate: func(t *testing.T, cfg *Config) {
				t.Helper()
				if cfg != nil {
					t.Error("expected nil config for invalid YAML")
				}
			},
		},
		{
			name: "partial file keeps defaults for absent fields",
			setupPath: func(t *testing.T) string {
				t.Helper()
				return filepath.Join(testdataDir(t), "partial.yaml")
			},
			validate: func(t *testing.T, cfg *Config) {
				t.Helper()
				if cfg.Host.Package != "org.example.reader" {
					t.Errorf("Host.Package = %q, want %q", cfg.Host.Package, "org.example.reader")
				}
				if cfg.Server.Port != 8080 {
					t.Errorf("Server.Port = %d, want default 8080", cfg.Server.Port)
				}
				if cfg.Volumes.RootDepth != 4 {
					t.Errorf("Volumes.RootDepth = %d, want default 4", cfg.Volumes.RootDepth)
				}
			},
		},
		{
			name: "empty file returns defaults",
			setupPath: func(t *testing.T) string {
				t.Helper()
				return writeTempFile(t, "empty.yaml", "")
			},
			validate: func(t *testing.T, cfg *Config) {
				t.Helper()
				if cfg == nil {
					t.Fatal("expected non-nil config for empty file")
				}
				if cfg.Server.Transport != TransportHTTP {
					t.Errorf("Server.Transport = %q, want %q", cfg.Server.Transport, TransportHTTP)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.setupPath(t)
			cfg, err := LoadConfig(path)

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if tt.errContains != "" && !strings.Contains(strings.ToLower(err.Error()), strings.ToLower(tt.errContains)) {
					t.Errorf("error = %q, want it to contain %q", err.Error(), tt.errContains)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if tt.validate != nil {
				tt.validate(t, cfg)
			}
		})
	}
}

func Test_DefaultConfig_Values(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.ChannelName != "filesystem_picker/android_native" {
		t.Errorf("Server.ChannelName = %q", cfg.Server.ChannelName)
	}
	if cfg.Host.APILevel != 30 {
		t.Errorf("Host.APILevel = %d, want 30", cfg.Host.APILevel)
	}
	if cfg.Volumes.RootDepth != 4 {
		t.Errorf("Volumes.RootDepth = %d, want 4", cfg.Volumes.RootDepth)
	}
	if cfg.Audit.Enabled {
		t.Error("Audit.Enabled = true, want false")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v, want nil", err)
	}
}

func Test_DefaultConfig_DistinctInstances(t *testing.T) {
	a := DefaultConfig()
	b := DefaultConfig()
	a.Volumes.MountPrefixes[0] = "/changed/"
	if b.Volumes.MountPrefixes[0] == "/changed/" {
		t.Error("DefaultConfig instances share slice backing arrays")
	}
}

func Test_Validate_Cases(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(cfg *Config)
		errContains string
	}{
		{name: "defaults are valid", mutate: func(cfg *Config) {}},
		{
			name:        "unknown transport",
			mutate:      func(cfg *Config) { cfg.Server.Transport = "grpc" },
			errContains: "server.transport",
		},
		{
			name:        "port out of range for http",
			mutate:      func(cfg *Config) { cfg.Server.Port = 70000 },
			errContains: "server.port",
		},
		{
			name: "port ignored for stdio",
			mutate: func(cfg *Config) {
				cfg.Server.Transport = TransportStdio
				cfg.Server.Port = 0
			},
		},
		{
			name:        "metrics path without slash",
			mutate:      func(cfg *Config) { cfg.Server.MetricsPath = "metrics" },
			errContains: "metrics_path",
		},
		{
			name:        "negative api level",
			mutate:      func(cfg *Config) { cfg.Host.APILevel = -1 },
			errContains: "api_level",
		},
		{
			name:        "negative root depth",
			mutate:      func(cfg *Config) { cfg.Volumes.RootDepth = -2 },
			errContains: "root_depth",
		},
		{
			name:        "no proc and no fixed dirs",
			mutate:      func(cfg *Config) { cfg.Host.Proc = "" },
			errContains: "host.proc",
		},
		{
			name: "fixed dirs make proc optional",
			mutate: func(cfg *Config) {
				cfg.Host.Proc = ""
				cfg.Volumes.Dirs = []string{"/storage/emulated/0/Android/data/x/files"}
			},
		},
		{
			name: "audit enabled without path",
			mutate: func(cfg *Config) {
				cfg.Audit.Enabled = true
				cfg.Audit.LogPath = ""
			},
			errContains: "audit.log_path",
		},
		{
			name:        "bad log format",
			mutate:      func(cfg *Config) { cfg.Log.Format = "xml" },
			errContains: "log.format",
		},
		{
			name:        "bad log level",
			mutate:      func(cfg *Config) { cfg.Log.Level = "chatty" },
			errContains: "log.level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.errContains == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.errContains)
			}
			if !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("Validate() = %q, want it to contain %q", err.Error(), tt.errContains)
			}
		})
	}
}

func Test_Validate_ReportsAllProblems(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.Transport = "carrier-pigeon"
	cfg.Volumes.RootDepth = -1

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() = nil, want error")
	}
	for _, want := range []string{"server.transport", "root_depth"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Validate() = %q, missing %q", err.Error(), want)
		}
	}
}

func Test_AppSubdir_ExpandsPackage(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Host.Package = "com.amazingsoftworks.picker"

	got := cfg.AppSubdir()
	want := "Android/data/com.amazingsoftworks.picker/files"
	if got != want {
		t.Errorf("AppSubdir() = %q, want %q", got, want)
	}
}

func Test_SharedRoots_Cases(t *testing.T) {
	tests := []struct {
		name    string
		primary string
		shared  []string
		want    []string
	}{
		{name: "explicit shared roots win", primary: "/a", shared: []string{"/b", "/c"}, want: []string{"/b", "/c"}},
		{name: "falls back to primary root", primary: "/a", want: []string{"/a"}},
		{name: "nothing configured", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Host: HostConfig{PrimaryRoot: tt.primary, SharedRoots: tt.shared}}
			got := cfg.SharedRoots()
			if len(got) != len(tt.want) {
				t.Fatalf("SharedRoots() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("SharedRoots()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

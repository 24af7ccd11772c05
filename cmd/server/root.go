package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/jamesprial/extstorage-mcp/internal/config"
	"github.com/jamesprial/extstorage-mcp/internal/logging"
)

const (
	serverName        = "extstorage-mcp"
	serverVersion     = "1.0.0"
	defaultConfigPath = "/config/config.yaml"
)

// cli carries flag values and the loaded configuration between the root
// command's pre-run hook and the subcommands.
type cli struct {
	configPath string
	transport  string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "extstorage",
		Short: "Answer storage capability and volume queries over MCP",
		Long: `extstorage exposes the isExternalStorageManager and getExtStorageData
methods as MCP tools, served over Streamable HTTP or stdio.

The volumes and capability subcommands run the same queries once and print
the answer, which is handy when checking a host's configuration.`,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", "",
		"config file (default $EXTSTORAGE_CONFIG_PATH or "+defaultConfigPath+")")

	root.AddCommand(c.serveCmd(), c.volumesCmd(), c.capabilityCmd())
	return root
}

// setup loads and validates configuration, then configures logging. Flags
// win over environment variables, which win over the file.
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(c.configPath)
	if err != nil {
		return err
	}
	config.ApplyEnvOverrides(cfg)
	if c.transport != "" {
		cfg.Server.Transport = c.transport
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := logging.Configure(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format); err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

// loadConfig reads the config file named by path, EXTSTORAGE_CONFIG_PATH or
// the default location, in that order. A missing file at the default
// location falls back to DefaultConfig; an explicitly named file must exist.
func loadConfig(path string) (*config.Config, error) {
	explicit := path != ""
	if !explicit {
		path = os.Getenv("EXTSTORAGE_CONFIG_PATH")
		explicit = path != ""
	}
	if path == "" {
		path = defaultConfigPath
	}

	cfg, err := config.LoadConfig(path)
	if err == nil {
		logging.Info().Str("path", path).Msg("loaded config")
		return cfg, nil
	}
	if explicit || !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	logging.Info().Str("path", path).Msg("no config file, using defaults")
	return config.DefaultConfig(), nil
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/jamesprial/extstorage-mcp/internal/auth"
	"github.com/jamesprial/extstorage-mcp/internal/channel"
	"github.com/jamesprial/extstorage-mcp/internal/config"
	"github.com/jamesprial/extstorage-mcp/internal/logging"
	"github.com/jamesprial/extstorage-mcp/internal/metrics"
	"github.com/jamesprial/extstorage-mcp/internal/volume"
)

const (
	mcpPath    = "/mcp"
	healthPath = "/healthz"
)

func (c *cli) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the method channel over MCP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return c.serve(ctx)
		},
	}
	cmd.Flags().StringVar(&c.transport, "transport", "", "transport to serve: http or stdio (overrides config)")
	return cmd
}

func (c *cli) serve(ctx context.Context) error {
	metrics.Register()

	d, closeAudit := buildDispatcher(c.cfg)
	defer closeAudit()

	mcpServer := newMCPServer(c.cfg, d)

	if c.cfg.Server.Transport == config.TransportStdio {
		logging.Info().Str("channel", c.cfg.Server.ChannelName).Msg("serving on stdio")
		return server.ServeStdio(mcpServer)
	}
	return serveHTTP(ctx, c.cfg, mcpServer)
}

// newMCPServer builds the MCP server announced under the configured channel
// name, or serverName when none is set.
func newMCPServer(cfg *config.Config, d *channel.Dispatcher) *server.MCPServer {
	name := cfg.Server.ChannelName
	if name == "" {
		name = serverName
	}
	return channel.NewServer(name, serverVersion, d)
}

func serveHTTP(ctx context.Context, cfg *config.Config, mcpServer *server.MCPServer) error {
	tokenBefore := cfg.Server.AuthToken
	token, err := config.EnsureAuthToken(cfg)
	if err != nil {
		logging.Warn().Err(err).Msg("could not generate auth token, running without authentication")
	} else if tokenBefore == "" {
		logging.Info().Str("token", token).Msg("generated auth token (set EXTSTORAGE_AUTH_TOKEN to persist)")
	}

	httpSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           newHTTPHandler(cfg, mcpServer),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().
			Str("addr", httpSrv.Addr).
			Str("channel", cfg.Server.ChannelName).
			Msg("listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logging.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	logging.Info().Msg("server stopped")
	return nil
}

// newHTTPHandler mounts the MCP endpoint, the health probe and, when
// configured, the metrics endpoint behind bearer authentication. Only the
// health probe is reachable without a token.
func newHTTPHandler(cfg *config.Config, mcpServer *server.MCPServer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle(mcpPath, server.NewStreamableHTTPServer(mcpServer))
	mux.HandleFunc(healthPath, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	if cfg.Server.MetricsPath != "" {
		mux.Handle(cfg.Server.MetricsPath, promhttp.Handler())
	}
	return auth.NewAuthMiddleware(cfg.Server.AuthToken, healthPath)(mux)
}

func (c *cli) volumesCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "volumes",
		Short: "List external storage volumes and their free space",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			records, err := buildInventory(c.cfg).List(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(records)
			}
			return printVolumes(cmd, records)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the getExtStorageData payload as JSON")
	return cmd
}

func printVolumes(cmd *cobra.Command, records []volume.Record) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "no external storage volumes found")
		return err
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ROOT\tPATH\tAVAILABLE")
	for _, r := range records {
		root := r.RootPath
		if root == "" {
			root = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", root, r.Path, humanize.IBytes(r.AvailableBytes))
	}
	return tw.Flush()
}

func (c *cli) capabilityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "capability",
		Short: "Report whether elevated storage access is granted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			granted := buildAccess(c.cfg).ElevatedAccess(cmd.Context())
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "api level %d: elevated access granted: %t\n", c.cfg.Host.APILevel, granted)
			return err
		},
	}
}

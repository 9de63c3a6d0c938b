package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"infrawhisperer/internal/api"
	"infrawhisperer/internal/config"
	"infrawhisperer/internal/database"
	"infrawhisperer/internal/incident"
	"infrawhisperer/internal/kubernetes"
	"infrawhisperer/internal/monitoring"
	"infrawhisperer/internal/server"
	"infrawhisperer/pkg/logging"
)

var (
	serveHost       string
	servePort       int
	serveTransport  string
	serveDebug      bool
	serveRunbookDir string
)

const shutdownTimeout = 10 * time.Second

// serverInstructions describe each server's purpose to the calling agent.
var serverInstructions = map[string]string{
	"database":   "Read-only PostgreSQL query tools for InfraWhisperer. All write operations are blocked by design.",
	"kubernetes": "Kubernetes cluster management tools for InfraWhisperer. Provides read-only cluster queries and restricted write operations.",
	"monitoring": "Prometheus monitoring tools for InfraWhisperer. Query metrics, alerts, and target health.",
	"incident":   "Operational runbook search and incident logging for InfraWhisperer.",
}

var serveCmd = &cobra.Command{
	Use:   "serve <server>",
	Short: "Start one of the InfraWhisperer tool servers",
	Long: `Starts a single MCP tool server. The server argument selects which:

  database    — read-only SQL queries against PostgreSQL
  kubernetes  — cluster queries plus restricted scale/restart operations
  monitoring  — PromQL queries, alerts, and scrape target health
  incident    — runbook search and incident logging

Configuration comes from the environment (DATABASE_URL, KUBECONFIG,
PROMETHEUS_URL, DATA_DIR) or an optional infrawhisperer.yaml file; flags
override both. Servers whose backend is unreachable start in demo mode
with synthetic data.`,
	ValidArgs: []string{"database", "kubernetes", "monitoring", "incident"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE:      runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if cmd.Flags().Changed("host") {
		cfg.Host = serveHost
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}
	if cmd.Flags().Changed("transport") {
		cfg.Transport = serveTransport
	}
	if serveDebug {
		cfg.Debug = true
	}

	level := logging.LevelInfo
	if cfg.Debug {
		level = logging.LevelDebug
	}
	// Stderr keeps the stdio transport's stdout channel clean.
	logging.Init(level, os.Stderr)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	name := args[0]
	g, ctx := errgroup.WithContext(ctx)

	var provider api.ToolProvider
	switch name {
	case "database":
		provider = database.NewProvider(ctx, cfg.DatabaseURL)
	case "kubernetes":
		provider = kubernetes.NewProvider(cfg.Kubeconfig)
	case "monitoring":
		provider = monitoring.NewProvider(ctx, cfg.PrometheusURL)
	case "incident":
		incidentProvider := incident.NewProvider(cfg.DataDir, serveRunbookDir)
		g.Go(func() error {
			return incidentProvider.WatchRunbooks(ctx)
		})
		provider = incidentProvider
	default:
		return fmt.Errorf("unknown server: %s", name)
	}

	srv := server.New(server.Config{
		Name:         "infrawhisperer-" + name,
		Version:      rootCmd.Version,
		Instructions: serverInstructions[name],
		Host:         cfg.Host,
		Port:         cfg.Port,
		Transport:    cfg.Transport,
	}, provider)

	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("failed to start %s server: %w", name, err)
	}

	logging.Info("serve", "InfraWhisperer %s server running (transport: %s)", name, cfg.Transport)
	<-ctx.Done()
	logging.Info("serve", "Shutting down %s server", name)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		logging.Error("serve", err, "Shutdown did not complete cleanly")
	}

	return g.Wait()
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "0.0.0.0", "Listen address for HTTP transports")
	serveCmd.Flags().IntVar(&servePort, "port", 8000, "Listen port for HTTP transports")
	serveCmd.Flags().StringVar(&serveTransport, "transport", server.TransportStreamableHTTP, "MCP transport: streamable-http, sse, or stdio")
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable debug logging")
	serveCmd.Flags().StringVar(&serveRunbookDir, "runbook-dir", "", "Directory of YAML runbooks overlaid on the built-in set (incident server only)")
}

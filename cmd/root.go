// Package cmd implements the infrawhisperer command line interface.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd is the entry point when the application is called without any
// subcommands.
var rootCmd = &cobra.Command{
	Use:   "infrawhisperer",
	Short: "MCP tool servers for the InfraWhisperer SRE agent",
	Long: `infrawhisperer runs the MCP tool servers backing the InfraWhisperer
SRE agent: read-only database queries, Kubernetes cluster operations,
Prometheus monitoring, and runbook/incident management.

Each server exposes a small, guarded tool surface over MCP. Backends that
are unreachable at startup are replaced by synthetic demo data so the
servers stay usable without live infrastructure.`,
	SilenceUsage: true,
}

// SetVersion injects the build version from the main package.
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute runs the root command. Called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "infrawhisperer version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(serveCmd)
}

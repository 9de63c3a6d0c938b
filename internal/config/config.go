package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds the process-wide settings for a tool server. Values are read
// once at startup; nothing here changes during the process lifetime.
type Config struct {
	// Host and Port define the listen address for HTTP-based transports.
	Host string
	Port int
	// Transport selects the MCP transport: streamable-http, sse, or stdio.
	Transport string

	// DatabaseURL is the PostgreSQL connection string. Empty or unreachable
	// means the database server runs in demo mode.
	DatabaseURL string
	// PrometheusURL is the Prometheus base URL for the monitoring server.
	PrometheusURL string
	// Kubeconfig is the path to a kubeconfig file; empty means in-cluster
	// config is attempted.
	Kubeconfig string
	// DataDir is where the incident server persists its incident log.
	DataDir string

	// Debug enables verbose logging.
	Debug bool
}

// Load reads configuration from the environment, with an optional config
// file layered underneath. Environment variables use the exact names the
// deployment sets (DATABASE_URL, PROMETHEUS_URL, KUBECONFIG, DATA_DIR).
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", 8000)
	v.SetDefault("transport", "streamable-http")
	v.SetDefault("prometheus_url", "http://localhost:9090")
	v.SetDefault("data_dir", "/app/data")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Optional config file alongside the binary or in the working directory.
	v.SetConfigName("infrawhisperer")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	return &Config{
		Host:          v.GetString("host"),
		Port:          v.GetInt("port"),
		Transport:     v.GetString("transport"),
		DatabaseURL:   v.GetString("database_url"),
		PrometheusURL: v.GetString("prometheus_url"),
		Kubeconfig:    v.GetString("kubeconfig"),
		DataDir:       v.GetString("data_dir"),
		Debug:         v.GetBool("debug"),
	}, nil
}

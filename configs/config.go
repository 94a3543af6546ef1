package configs

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// FileConfig defines the structure loaded from the YAML configuration file.
type FileConfig struct {
	ModelFile   string `yaml:"model_file"`
	ListenAddr  string `yaml:"listen_addr"`
	LayoutStyle string `yaml:"layout_style"`
}

// Config holds the final application configuration, merged from the .env
// file, the YAML file and environment variables. Environment variables use
// the prefix "EABRIDGE_"; EA_FILE_PATH is also honored bare, for
// compatibility with existing EA tooling setups.
type Config struct {
	// Config file path, loaded first from env.
	ConfigFilePath string `envconfig:"CONFIG_FILE" default:"configs/eabridge.yaml"`

	// EAFilePath is the model file opened when a tool call does not supply
	// its own path.
	EAFilePath string `envconfig:"EA_FILE_PATH"`

	// Backend selects the automation backend: "com" drives the real
	// application (Windows only), "memory" runs against an in-memory model.
	Backend string `envconfig:"BACKEND" default:"com"`

	// ListenAddr has no envconfig default: the second Process pass would
	// re-apply it over a file-supplied value. The fallback lives in Load.
	ListenAddr      string        `envconfig:"LISTEN_ADDR"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"5s"`
	LayoutStyle     string        `envconfig:"LAYOUT_STYLE"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`

	OtelExporterOtlpEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OtelExporterOtlpInsecure bool   `envconfig:"OTEL_EXPORTER_OTLP_INSECURE" default:"true"`
}

// ParsedLogLevel returns the slog.Level based on the configured LogLevel string.
func (c *Config) ParsedLogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "info":
		fallthrough
	default:
		return slog.LevelInfo
	}
}

// Load loads configuration in three layers: a .env file if present, then the
// YAML file, then environment variables overriding both.
func Load() (*Config, error) {
	// .env is optional; a missing file is the normal case.
	_ = godotenv.Load()

	// 1. Load initial config from env (primarily to get ConfigFilePath).
	var initialCfg Config
	if err := envconfig.Process("eabridge", &initialCfg); err != nil {
		return nil, fmt.Errorf("failed to process initial environment variables: %w", err)
	}

	// 2. Load config from the YAML file if it exists. The default path not
	// existing is fine; an explicit path that cannot be read is not.
	fileCfg := FileConfig{}
	if initialCfg.ConfigFilePath != "" {
		yamlFile, err := os.ReadFile(initialCfg.ConfigFilePath)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(yamlFile, &fileCfg); err != nil {
				return nil, fmt.Errorf("failed to unmarshal config file '%s': %w", initialCfg.ConfigFilePath, err)
			}
			slog.Info("Loaded configuration from file.", "path", initialCfg.ConfigFilePath)
		case os.IsNotExist(err):
			slog.Debug("No config file present, using env vars only.", "path", initialCfg.ConfigFilePath)
		default:
			return nil, fmt.Errorf("failed to read config file '%s': %w", initialCfg.ConfigFilePath, err)
		}
	}

	// 3. Start from file values, then process env vars again for overrides.
	finalCfg := initialCfg
	if fileCfg.ModelFile != "" {
		finalCfg.EAFilePath = fileCfg.ModelFile
	}
	if fileCfg.ListenAddr != "" {
		finalCfg.ListenAddr = fileCfg.ListenAddr
	}
	if fileCfg.LayoutStyle != "" {
		finalCfg.LayoutStyle = fileCfg.LayoutStyle
	}
	if err := envconfig.Process("eabridge", &finalCfg); err != nil {
		return nil, fmt.Errorf("failed to process overriding environment variables: %w", err)
	}

	if finalCfg.ListenAddr == "" {
		finalCfg.ListenAddr = ":8080"
	}

	switch finalCfg.Backend {
	case "com", "memory":
	default:
		return nil, fmt.Errorf("invalid backend %q (want com or memory)", finalCfg.Backend)
	}

	return &finalCfg, nil
}

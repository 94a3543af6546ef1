package configs_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparxtools/eabridge/configs"
)

// pointAtMissingConfig keeps the test independent of any config file lying
// around in the working directory.
func pointAtMissingConfig(t *testing.T) {
	t.Helper()
	t.Setenv("EABRIDGE_CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "eabridge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	pointAtMissingConfig(t)

	cfg, err := configs.Load()
	require.NoError(err)
	assert.Equal("com", cfg.Backend)
	assert.Equal(":8080", cfg.ListenAddr)
	assert.Equal(5*time.Second, cfg.ShutdownTimeout)
	assert.Equal("info", cfg.LogLevel)
	assert.Empty(cfg.EAFilePath)
}

func TestLoad_FromYAMLFile(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	path := writeConfigFile(t, "model_file: C:/models/project.eapx\nlisten_addr: \":9090\"\nlayout_style: digraph\n")
	t.Setenv("EABRIDGE_CONFIG_FILE", path)

	cfg, err := configs.Load()
	require.NoError(err)
	assert.Equal("C:/models/project.eapx", cfg.EAFilePath)
	assert.Equal(":9090", cfg.ListenAddr)
	assert.Equal("digraph", cfg.LayoutStyle)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	path := writeConfigFile(t, "model_file: from-file.eapx\nlisten_addr: \":9090\"\n")
	t.Setenv("EABRIDGE_CONFIG_FILE", path)
	t.Setenv("EABRIDGE_LISTEN_ADDR", ":7070")
	// The bare variable name works too, for existing EA tooling setups.
	t.Setenv("EA_FILE_PATH", "from-env.eapx")

	cfg, err := configs.Load()
	require.NoError(err)
	assert.Equal(":7070", cfg.ListenAddr)
	assert.Equal("from-env.eapx", cfg.EAFilePath)
}

func TestLoad_InvalidBackend(t *testing.T) {
	pointAtMissingConfig(t)
	t.Setenv("EABRIDGE_BACKEND", "disk")

	_, err := configs.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid backend")
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfigFile(t, "model_file: [unclosed\n")
	t.Setenv("EABRIDGE_CONFIG_FILE", path)

	_, err := configs.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal")
}

func TestParsedLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"garbage", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		cfg := configs.Config{LogLevel: tt.in}
		assert.Equal(t, tt.want, cfg.ParsedLogLevel(), "level %q", tt.in)
	}
}

package sharksem

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/arloliu/go-sharksem/logger"
	"github.com/arloliu/go-sharksem/wire"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadConfigFile_YAML(t *testing.T) {
	require := require.New(t)

	t.Setenv("SHARKSEM_TEST_HOST", "127.0.0.1")
	path := writeFile(t, "sem.yaml", `
host: ${SHARKSEM_TEST_HOST}
port: 8400
connect_timeout: 5s
request_timeout: 30s
fetch_timeout: 2m
keep_alive: 0s
wait_flags: "scan|stage"
max_body_size: 1048576
log_level: debug
logger: zap
`)

	fc, err := LoadConfigFile(path)
	require.NoError(err)
	require.Equal("127.0.0.1", fc.Host)
	require.Equal(8400, fc.Port)

	cfg, err := fc.Config()
	require.NoError(err)
	require.Equal("127.0.0.1:8400", cfg.Address())
	require.Equal(5*time.Second, cfg.ConnectTimeout())
	require.Equal(30*time.Second, cfg.RequestTimeout())
	require.Equal(2*time.Minute, cfg.FetchTimeout())
	require.Zero(cfg.KeepAlive())
	require.Equal(wire.WaitScan|wire.WaitStage, cfg.WaitFlags())
	require.Equal(uint32(1<<20), cfg.MaxBodySize())
	require.Equal(logger.DebugLevel, cfg.Logger().Level())
	require.IsType(&logger.ZapLogger{}, cfg.Logger())
}

func TestLoadConfigFile_TOML(t *testing.T) {
	require := require.New(t)

	path := writeFile(t, "sem.toml", `
host = "127.0.0.1"
connect_timeout = "500ms"
wait_flags = "ab"
log_level = "warn"
`)

	fc, err := LoadConfigFile(path)
	require.NoError(err)

	cfg, err := fc.Config(WithRequestTimeout(time.Second))
	require.NoError(err)
	require.Equal(DefaultPort, cfg.Port())
	require.Equal(500*time.Millisecond, cfg.ConnectTimeout())
	require.Equal(time.Second, cfg.RequestTimeout())
	require.Equal(wire.WaitScan|wire.WaitStage, cfg.WaitFlags())
	require.Equal(logger.WarnLevel, cfg.Logger().Level())
	require.IsType(&logger.SlogLogger{}, cfg.Logger())
}

func TestFileConfig_EmptyDefaults(t *testing.T) {
	require := require.New(t)

	cfg, err := (&FileConfig{}).Config()
	require.NoError(err)
	require.Equal("localhost", cfg.Host())
	require.Equal(DefaultPort, cfg.Port())
	require.Equal(3*time.Second, cfg.ConnectTimeout())
	require.Equal(logger.GetLogger(), cfg.Logger())
}

func TestLoadConfigFile_Errors(t *testing.T) {
	tests := []struct {
		description string
		name        string
		content     string
		errContains string
	}{
		{description: "unsupported extension", name: "sem.json", content: "{}", errContains: `unsupported config file extension ".json"`},
		{description: "invalid yaml", name: "sem.yaml", content: "host: [", errContains: "invalid YAML in"},
		{description: "invalid toml", name: "sem.toml", content: "host = ", errContains: "invalid TOML in"},
	}

	for _, test := range tests {
		t.Run(test.description, func(t *testing.T) {
			_, err := LoadConfigFile(writeFile(t, test.name, test.content))
			require.ErrorContains(t, err, test.errContains)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
		require.ErrorContains(t, err, "config file not found")
	})
}

func TestFileConfig_Errors(t *testing.T) {
	tests := []struct {
		description string
		fc          FileConfig
		errContains string
	}{
		{description: "bad duration", fc: FileConfig{ConnectTimeout: "3 seconds"}, errContains: "parse connect_timeout"},
		{description: "duration out of range", fc: FileConfig{ConnectTimeout: "2m"}, errContains: "connect timeout out of range"},
		{description: "bad wait flags", fc: FileConfig{WaitFlags: "scan|coffee"}, errContains: "parse wait_flags"},
		{description: "bad log level", fc: FileConfig{LogLevel: "loud"}, errContains: `invalid log_level "loud"`},
		{description: "bad logger", fc: FileConfig{Logger: "logrus"}, errContains: `unknown logger "logrus"`},
		{description: "bad port", fc: FileConfig{Port: 70000}, errContains: "port is out of range"},
	}

	for _, test := range tests {
		t.Run(test.description, func(t *testing.T) {
			_, err := test.fc.Config()
			require.ErrorContains(t, err, test.errContains)
		})
	}
}

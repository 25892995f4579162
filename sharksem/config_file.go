package sharksem

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/arloliu/go-sharksem/logger"
	"github.com/arloliu/go-sharksem/wire"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk form of a ConnectionConfig.
//
// Durations are strings accepted by time.ParseDuration, e.g. "3s" or "500ms".
// Empty fields keep the ConnectionConfig defaults.
//
// YAML example:
//
//	host: 10.0.0.12
//	port: 8300
//	connect_timeout: 5s
//	request_timeout: 30s
//	wait_flags: "scan|stage"
//	log_level: debug
//	logger: zap
type FileConfig struct {
	Host           string `yaml:"host" toml:"host"`
	Port           int    `yaml:"port" toml:"port"`
	ConnectTimeout string `yaml:"connect_timeout" toml:"connect_timeout"`
	RequestTimeout string `yaml:"request_timeout" toml:"request_timeout"`
	FetchTimeout   string `yaml:"fetch_timeout" toml:"fetch_timeout"`
	KeepAlive      string `yaml:"keep_alive" toml:"keep_alive"`
	WaitFlags      string `yaml:"wait_flags" toml:"wait_flags"`
	MaxBodySize    uint32 `yaml:"max_body_size" toml:"max_body_size"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" toml:"log_level"`
	// Logger selects the logging backend: "slog" (default) or "zap".
	Logger string `yaml:"logger" toml:"logger"`
}

// LoadConfigFile reads a YAML (.yaml, .yml) or TOML (.toml) configuration file.
//
// Environment variables in YAML files are expanded before decoding.
func LoadConfigFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}

		return nil, fmt.Errorf("cannot read config file %q: %w", path, err)
	}

	var fc FileConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &fc); err != nil {
			return nil, fmt.Errorf("invalid YAML in %s: %w", path, err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), &fc); err != nil {
			return nil, fmt.Errorf("invalid TOML in %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file extension %q", ext)
	}

	return &fc, nil
}

// Config builds a ConnectionConfig from the file values followed by opts.
//
// An empty host defaults to "localhost" and a zero port to DefaultPort.
func (fc *FileConfig) Config(opts ...ConnOption) (*ConnectionConfig, error) {
	fileOpts, err := fc.options()
	if err != nil {
		return nil, err
	}

	host := fc.Host
	if host == "" {
		host = "localhost"
	}
	port := fc.Port
	if port == 0 {
		port = DefaultPort
	}

	return NewConnectionConfig(host, port, append(fileOpts, opts...)...)
}

func (fc *FileConfig) options() ([]ConnOption, error) {
	var opts []ConnOption

	durations := []struct {
		key   string
		value string
		opt   func(time.Duration) ConnOption
	}{
		{"connect_timeout", fc.ConnectTimeout, WithConnectTimeout},
		{"request_timeout", fc.RequestTimeout, WithRequestTimeout},
		{"fetch_timeout", fc.FetchTimeout, WithFetchTimeout},
		{"keep_alive", fc.KeepAlive, WithKeepAlive},
	}
	for _, d := range durations {
		if strings.TrimSpace(d.value) == "" {
			continue
		}

		val, err := time.ParseDuration(strings.TrimSpace(d.value))
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", d.key, err)
		}
		opts = append(opts, d.opt(val))
	}

	if fc.WaitFlags != "" {
		flags, err := wire.ParseWaitFlags(fc.WaitFlags)
		if err != nil {
			return nil, fmt.Errorf("parse wait_flags: %w", err)
		}
		opts = append(opts, WithWaitFlags(flags))
	}

	if fc.MaxBodySize != 0 {
		opts = append(opts, WithMaxBodySize(fc.MaxBodySize))
	}

	if fc.LogLevel != "" || fc.Logger != "" {
		l, err := fc.newLogger()
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithLogger(l))
	}

	return opts, nil
}

func (fc *FileConfig) newLogger() (logger.Logger, error) {
	level := logger.InfoLevel
	if fc.LogLevel != "" {
		var ok bool
		level, ok = logger.ParseLevel(fc.LogLevel)
		if !ok {
			return nil, fmt.Errorf("invalid log_level %q", fc.LogLevel)
		}
	}

	switch strings.ToLower(fc.Logger) {
	case "", "slog":
		return logger.NewSlog(level, false), nil
	case "zap":
		return logger.NewZap(level), nil
	default:
		return nil, fmt.Errorf("unknown logger %q", fc.Logger)
	}
}

package sharksem

import (
	"errors"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/arloliu/go-sharksem/logger"
	"github.com/arloliu/go-sharksem/wire"
)

// DefaultPort is the default SharkSEM control port. The data channel uses DefaultPort+1.
const DefaultPort = 8300

// ConnectionConfig represents the configuration parameters of a SharkSEM session.
type ConnectionConfig struct {
	mu sync.RWMutex

	// host specifies the host of the SharkSEM server.
	host string

	// port specifies the TCP port of the control channel. The data channel is on port+1.
	port int

	// connectTimeout defines the timeout for the whole connect sequence: both dials and
	// the data port registration. It should be between 0.1 and 60 seconds.
	// Defaults to 3 seconds.
	connectTimeout time.Duration

	// requestTimeout bounds Send and Request calls whose context has no deadline.
	// Zero waits forever.
	// Defaults to 0.
	requestTimeout time.Duration

	// fetchTimeout bounds FetchImage and FetchCameraImage calls whose context has no deadline.
	// Zero waits forever.
	// Defaults to 0.
	fetchTimeout time.Duration

	// waitFlags is the initial wait flags of sessions created with this config.
	// Defaults to no wait conditions.
	waitFlags wire.WaitFlags

	// maxBodySize is the largest message body accepted from the server.
	// It should be between 1 KiB and 1 GiB.
	// Defaults to 64 MiB.
	maxBodySize uint32

	// keepAlive is the TCP keep-alive period of both channels. Zero uses the OS default,
	// a negative value disables keep-alive.
	// Defaults to 15 seconds.
	keepAlive time.Duration

	// logger provides a logger instance for session events and errors.
	logger logger.Logger
}

// NewConnectionConfig creates a new SharkSEM connection configuration with the given host,
// control port number, and optional functional options.
//
// It initializes a ConnectionConfig struct with default values and then applies the provided
// options to customize the configuration. See the various WithXXX functions for available options.
//
// Returns a pointer to the initialized ConnectionConfig and an error if any occurred during
// the configuration process.
func NewConnectionConfig(host string, port int, opts ...ConnOption) (*ConnectionConfig, error) {
	cfg := &ConnectionConfig{
		connectTimeout: 3 * time.Second,
		requestTimeout: 0,
		fetchTimeout:   0,
		waitFlags:      wire.WaitNone,
		maxBodySize:    wire.DefaultMaxBodySize,
		keepAlive:      15 * time.Second,
		logger:         logger.GetLogger(),
	}

	if err := withRemoteHost(host).apply(cfg); err != nil {
		return cfg, err
	}

	if err := withPort(port).apply(cfg); err != nil {
		return cfg, err
	}

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return cfg, err
		}
	}

	return cfg, nil
}

// Host returns the SharkSEM server host.
func (cfg *ConnectionConfig) Host() string {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return cfg.host
}

// Port returns the control channel port.
func (cfg *ConnectionConfig) Port() int {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return cfg.port
}

// Address returns the control channel address in host:port form.
func (cfg *ConnectionConfig) Address() string {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return net.JoinHostPort(cfg.host, strconv.Itoa(cfg.port))
}

func (cfg *ConnectionConfig) ConnectTimeout() time.Duration {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return cfg.connectTimeout
}

func (cfg *ConnectionConfig) RequestTimeout() time.Duration {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return cfg.requestTimeout
}

func (cfg *ConnectionConfig) FetchTimeout() time.Duration {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return cfg.fetchTimeout
}

func (cfg *ConnectionConfig) WaitFlags() wire.WaitFlags {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return cfg.waitFlags
}

func (cfg *ConnectionConfig) MaxBodySize() uint32 {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return cfg.maxBodySize
}

func (cfg *ConnectionConfig) KeepAlive() time.Duration {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return cfg.keepAlive
}

func (cfg *ConnectionConfig) Logger() logger.Logger {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return cfg.logger
}

// ConnOption represents a functional option for configuring a ConnectionConfig.
type ConnOption interface {
	apply(*ConnectionConfig) error
}

type connOptFunc struct {
	name      string
	applyFunc func(*ConnectionConfig) error
}

func (c *connOptFunc) apply(cfg *ConnectionConfig) error {
	if cfg == nil {
		return ErrConnConfigNil
	}

	cfg.mu.Lock()
	defer cfg.mu.Unlock()

	return c.applyFunc(cfg)
}

func newConnOptFunc(name string, f func(*ConnectionConfig) error) *connOptFunc {
	return &connOptFunc{
		name:      name,
		applyFunc: f,
	}
}

// withRemoteHost sets the host of the SharkSEM server.
// An error is returned if the host is neither an IP address nor a resolvable name.
func withRemoteHost(host string) ConnOption {
	return newConnOptFunc("withRemoteHost", func(cfg *ConnectionConfig) error {
		// Check if it's a valid IP address
		if ip := net.ParseIP(host); ip != nil {
			cfg.host = host
			return nil
		}

		// If not an IP, check if it's a valid domain name
		host = strings.TrimPrefix(host, ".")
		host = strings.TrimSuffix(host, ".")
		if host == "" {
			return errors.New("invalid host")
		}
		if _, err := net.LookupHost(host); err == nil {
			cfg.host = host
			return nil
		}

		return errors.New("invalid host")
	})
}

// withPort sets the control channel port.
// An error is returned if the port is out of the valid range (1-65534); the data channel
// needs port+1.
func withPort(port int) ConnOption {
	return newConnOptFunc("withPort", func(cfg *ConnectionConfig) error {
		if port < 1 || port > 65534 {
			return errors.New("port is out of range [1, 65534]")
		}
		cfg.port = port

		return nil
	})
}

// WithConnectTimeout sets the timeout of the whole connect sequence.
// An error is returned if the timeout is outside the valid range (0.1-60 seconds).
//
// The default value is 3 seconds.
func WithConnectTimeout(val time.Duration) ConnOption {
	return newConnOptFunc("WithConnectTimeout", func(cfg *ConnectionConfig) error {
		if val < 100*time.Millisecond || val > 60*time.Second {
			return errors.New("connect timeout out of range [0.1, 60]")
		}
		cfg.connectTimeout = val

		return nil
	})
}

// WithRequestTimeout sets the timeout applied to Send and Request when the
// context carries no deadline. Zero waits forever.
//
// The default value is 0.
func WithRequestTimeout(val time.Duration) ConnOption {
	return newConnOptFunc("WithRequestTimeout", func(cfg *ConnectionConfig) error {
		if val < 0 {
			return errors.New("request timeout must not be negative")
		}
		cfg.requestTimeout = val

		return nil
	})
}

// WithFetchTimeout sets the timeout applied to FetchImage and FetchCameraImage
// when the context carries no deadline. Zero waits forever.
//
// The default value is 0.
func WithFetchTimeout(val time.Duration) ConnOption {
	return newConnOptFunc("WithFetchTimeout", func(cfg *ConnectionConfig) error {
		if val < 0 {
			return errors.New("fetch timeout must not be negative")
		}
		cfg.fetchTimeout = val

		return nil
	})
}

// WithWaitFlags sets the initial wait flags of new sessions.
// An error wrapping ErrInvalidWaitFlags is returned for undefined condition bits.
//
// The default value is wire.WaitNone.
func WithWaitFlags(val wire.WaitFlags) ConnOption {
	return newConnOptFunc("WithWaitFlags", func(cfg *ConnectionConfig) error {
		if !val.Valid() {
			return ErrInvalidWaitFlags
		}
		cfg.waitFlags = val

		return nil
	})
}

// WithMaxBodySize sets the largest message body accepted from the server.
// An error is returned if the size is outside the valid range (1 KiB-1 GiB).
//
// The default value is 64 MiB.
func WithMaxBodySize(val uint32) ConnOption {
	return newConnOptFunc("WithMaxBodySize", func(cfg *ConnectionConfig) error {
		if val < 1<<10 || val > 1<<30 {
			return errors.New("max body size out of range [1KiB, 1GiB]")
		}
		cfg.maxBodySize = val

		return nil
	})
}

// WithKeepAlive sets the TCP keep-alive period of both channels.
// Zero uses the OS default, a negative value disables keep-alive.
//
// The default value is 15 seconds.
func WithKeepAlive(val time.Duration) ConnOption {
	return newConnOptFunc("WithKeepAlive", func(cfg *ConnectionConfig) error {
		cfg.keepAlive = val
		return nil
	})
}

// WithLogger sets the logger of sessions created with this config.
//
// The default value is logger.GetLogger().
func WithLogger(l logger.Logger) ConnOption {
	return newConnOptFunc("WithLogger", func(cfg *ConnectionConfig) error {
		if l == nil {
			return errors.New("logger is nil")
		}
		cfg.logger = l

		return nil
	})
}

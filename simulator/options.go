package simulator

import (
	"errors"

	"github.com/arloliu/go-sharksem/logger"
)

type serverOptions struct {
	port      int
	version   string
	device    string
	chunkSize int
	logger    logger.Logger
}

// Option configures a Server.
type Option func(*serverOptions) error

// WithPort sets the control port; the data port is port+1. By default a free pair is chosen.
func WithPort(port int) Option {
	return func(o *serverOptions) error {
		if port < 1 || port > 65534 {
			return errors.New("port is out of range [1, 65534]")
		}
		o.port = port

		return nil
	}
}

// WithVersion sets the TcpGetVersion reply.
func WithVersion(version string) Option {
	return func(o *serverOptions) error {
		o.version = version
		return nil
	}
}

// WithDevice sets the TcpGetDevice reply.
func WithDevice(device string) Option {
	return func(o *serverOptions) error {
		o.device = device
		return nil
	}
}

// WithChunkSize sets the payload size of the fragments streamed by ScScanXY.
func WithChunkSize(size int) Option {
	return func(o *serverOptions) error {
		if size <= 0 {
			return errors.New("chunk size must be positive")
		}
		o.chunkSize = size

		return nil
	}
}

// WithLogger sets the server logger.
func WithLogger(l logger.Logger) Option {
	return func(o *serverOptions) error {
		if l == nil {
			return errors.New("logger is nil")
		}
		o.logger = l

		return nil
	}
}

package sharksem

import (
	"errors"

	"github.com/arloliu/go-sharksem/wire"
)

var (
	// ErrConnConfigNil indicates that a nil ConnectionConfig was provided.
	ErrConnConfigNil = errors.New("connection config is nil")

	// ErrConnectFailed indicates that the control or data channel could not be established,
	// or the data port registration failed. Nothing opened during the attempt is left open.
	ErrConnectFailed = errors.New("connect failed")

	// ErrRegistrationFailed indicates that the instrument rejected the data port registration.
	ErrRegistrationFailed = errors.New("data port registration failed")

	// ErrNotConnected indicates use of a session after Disconnect.
	ErrNotConnected = errors.New("session is not connected")

	// ErrTimeout indicates that a configured request or fetch timeout elapsed.
	ErrTimeout = errors.New("timeout")
)

var (
	// ErrConnClosed indicates that the peer closed a channel in the middle of a message.
	// The session should be considered dead.
	ErrConnClosed = wire.ErrConnClosed

	// ErrInvalidWaitFlags indicates wait flags outside of the defined conditions.
	ErrInvalidWaitFlags = wire.ErrInvalidWaitFlags
)

package sharksem

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/arloliu/go-sharksem/arg"
	"github.com/arloliu/go-sharksem/logger"
	"github.com/arloliu/go-sharksem/scan"
	"github.com/arloliu/go-sharksem/wire"
)

// RegisterDataPortCmd is the command binding the data channel to a control session.
// It takes the client side data port (Int) and returns a status (Int), negative on failure.
const RegisterDataPortCmd = "TcpRegDataPort"

// aLongTimeAgo is a deadline in the past, used to interrupt blocked I/O.
var aLongTimeAgo = time.Unix(1, 0)

// Session is a connected SharkSEM client: a control channel carrying commands and replies,
// and a data channel carrying streamed images.
//
// A Session is not safe for concurrent use, except for Disconnect which may be called from
// any goroutine to abort a blocked call.
type Session struct {
	cfg     *ConnectionConfig
	logger  logger.Logger
	metrics SessionMetrics

	ctrl       net.Conn
	data       net.Conn
	ctrlReader *wire.Reader
	dataReader *wire.Reader
	dataPort   int

	waitFlags atomic.Uint32

	closeOnce sync.Once
	closed    atomic.Bool
}

// Connect opens a session to the server described by cfg.
//
// The sequence is:
//  1. dial the control channel;
//  2. reserve an OS-assigned local port on the control channel's local address;
//  3. register that port with TcpRegDataPort on the control channel;
//  4. dial the data channel at port+1 from the reserved local port.
//
// The whole sequence is bounded by the config connect timeout and by ctx. On any failure
// every socket opened so far is closed and an error wrapping ErrConnectFailed is returned.
//
// The local port is released between steps 2 and 4, so another process may take it in
// between; the data dial then fails and Connect can be retried.
func Connect(ctx context.Context, cfg *ConnectionConfig) (*Session, error) {
	if cfg == nil {
		return nil, ErrConnConfigNil
	}

	s := newSession(cfg)
	if err := s.connect(ctx); err != nil {
		s.closeConns()
		s.logger.Error("failed to connect", "method", "Connect", "error", err)

		return nil, fmt.Errorf("%w: %s: %w", ErrConnectFailed, cfg.Address(), err)
	}

	s.logger.Info("session connected", "method", "Connect", "dataPort", s.dataPort)

	return s, nil
}

func newSession(cfg *ConnectionConfig) *Session {
	s := &Session{
		cfg:    cfg,
		logger: cfg.Logger().With("remoteAddress", cfg.Address()),
	}
	s.waitFlags.Store(uint32(cfg.WaitFlags()))

	return s
}

// attach binds already connected channels to the session.
func (s *Session) attach(ctrl, data net.Conn, dataPort int) {
	if ctrl != nil {
		s.ctrl = ctrl
		s.ctrlReader = wire.NewReader(ctrl, s.cfg.MaxBodySize())
	}
	if data != nil {
		s.data = data
		s.dataReader = wire.NewReader(data, s.cfg.MaxBodySize())
	}
	s.dataPort = dataPort
}

func (s *Session) connect(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ConnectTimeout())
	defer cancel()

	dialer := net.Dialer{KeepAlive: s.cfg.KeepAlive()}

	s.logger.Debug("dial control channel", "method", "connect")
	ctrl, err := dialer.DialContext(ctx, "tcp", s.cfg.Address())
	if err != nil {
		return fmt.Errorf("dial control channel: %w", err)
	}
	s.attach(ctrl, nil, 0)

	localIP := ctrl.LocalAddr().(*net.TCPAddr).IP   //nolint:forcetypeassert
	remoteIP := ctrl.RemoteAddr().(*net.TCPAddr).IP //nolint:forcetypeassert

	reservation, port, err := reserveLocalPort(ctx, localIP)
	if err != nil {
		return err
	}
	defer reservation.release()

	s.logger.Debug("register data port", "method", "connect", "dataPort", port)
	ret, err := s.Request(ctx, RegisterDataPortCmd, []arg.Kind{arg.KindInt}, arg.Int(port)) //nolint:gosec
	if err != nil {
		return fmt.Errorf("register data port %d: %w", port, err)
	}
	if status, _ := ret[0].ToInt(); status < 0 {
		return fmt.Errorf("%w: port %d, status %d", ErrRegistrationFailed, port, status)
	}

	dataDialer := net.Dialer{
		LocalAddr: &net.TCPAddr{IP: localIP, Port: port},
		KeepAlive: s.cfg.KeepAlive(),
		Control:   sharePortControl,
	}
	dataAddr := net.JoinHostPort(remoteIP.String(), strconv.Itoa(s.cfg.Port()+1))

	s.logger.Debug("dial data channel", "method", "connect", "address", dataAddr, "dataPort", port)
	data, err := dataDialer.DialContext(ctx, "tcp", dataAddr)
	if err != nil {
		return fmt.Errorf("dial data channel %s from port %d: %w", dataAddr, port, err)
	}
	s.attach(nil, data, port)

	return nil
}

// portReservation keeps an OS-assigned local port bound until the data dial is done.
type portReservation struct {
	ln net.Listener
}

// release frees the port. It is safe on a nil reservation.
func (r *portReservation) release() {
	if r == nil || r.ln == nil {
		return
	}
	_ = r.ln.Close()
	r.ln = nil
}

// reserveLocalPort asks the OS for a free TCP port on ip.
//
// Where the platform allows sharing a bound port, the port stays reserved until release,
// and the data dial binds it alongside the reservation. Elsewhere it is released at once.
func reserveLocalPort(ctx context.Context, ip net.IP) (*portReservation, int, error) {
	lc := net.ListenConfig{Control: sharePortControl}
	ln, err := lc.Listen(ctx, "tcp", net.JoinHostPort(ip.String(), "0"))
	if err != nil {
		return nil, 0, fmt.Errorf("reserve data port: %w", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port //nolint:forcetypeassert

	if !holdPortReservation {
		if err := ln.Close(); err != nil {
			return nil, 0, fmt.Errorf("release data port: %w", err)
		}

		return &portReservation{}, port, nil
	}

	return &portReservation{ln: ln}, port, nil
}

// GetLogger returns the session logger.
func (s *Session) GetLogger() logger.Logger {
	return s.logger
}

// GetMetrics returns the session metrics.
func (s *Session) GetMetrics() *SessionMetrics {
	return &s.metrics
}

// DataPort returns the local port of the data channel, as registered with the server.
func (s *Session) DataPort() int {
	return s.dataPort
}

// LocalAddr returns the local address of the control channel.
func (s *Session) LocalAddr() net.Addr {
	if s.ctrl == nil {
		return nil
	}

	return s.ctrl.LocalAddr()
}

// RemoteAddr returns the remote address of the control channel.
func (s *Session) RemoteAddr() net.Addr {
	if s.ctrl == nil {
		return nil
	}

	return s.ctrl.RemoteAddr()
}

// WaitFlags returns the wait flags applied to every command header.
func (s *Session) WaitFlags() wire.WaitFlags {
	return wire.WaitFlags(s.waitFlags.Load()) //nolint:gosec
}

// SetWaitFlags sets the wait flags applied to subsequent commands.
// It returns ErrInvalidWaitFlags if flags contain undefined conditions.
func (s *Session) SetWaitFlags(flags wire.WaitFlags) error {
	if !flags.Valid() {
		return fmt.Errorf("%w: 0x%02x", ErrInvalidWaitFlags, uint8(flags))
	}
	s.waitFlags.Store(uint32(flags))

	return nil
}

// IsConnected reports whether Disconnect has not been called yet.
func (s *Session) IsConnected() bool {
	return !s.closed.Load() && s.ctrl != nil
}

// Send writes a command to the control channel without waiting for a reply.
//
// Write failures are returned; a failure in the middle of a message leaves the
// control channel unusable and the session should be disconnected.
func (s *Session) Send(ctx context.Context, name string, args ...arg.Arg) error {
	if err := s.checkConnected(); err != nil {
		return err
	}

	body, err := arg.Encode(args...)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	err = s.withDeadline(ctx, s.ctrl, s.cfg.RequestTimeout(), func() error {
		return s.writeCommand(name, body)
	})
	if err != nil {
		s.metrics.incErrCount()
		s.logger.Warn("failed to send command", "method", "Send", "name", name, "error", err)

		return err
	}

	return nil
}

// Request writes a command and blocks until its reply is read, then decodes the reply body
// into values of the given kinds.
//
// The call is bounded by ctx, or by the config request timeout when ctx has no deadline.
// A peer closing the control channel surfaces as an error wrapping ErrConnClosed. A reply
// body that does not match returns fails with arg.ErrTruncatedMessage or arg.ErrMalformedFloat.
func (s *Session) Request(ctx context.Context, name string, returns []arg.Kind, args ...arg.Arg) ([]arg.Arg, error) {
	if err := s.checkConnected(); err != nil {
		return nil, err
	}

	body, err := arg.Encode(args...)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", name, err)
	}

	var reply *wire.Message
	err = s.withDeadline(ctx, s.ctrl, s.cfg.RequestTimeout(), func() error {
		if err := s.writeCommand(name, body); err != nil {
			return err
		}

		msg, err := s.ctrlReader.ReadMessage()
		if err != nil {
			return fmt.Errorf("read %s reply: %w", name, err)
		}
		reply = msg

		return nil
	})
	if err != nil {
		s.metrics.incErrCount()
		s.logger.Warn("request failed", "method", "Request", "name", name, "error", err)

		return nil, err
	}
	s.metrics.incRequestCount()

	if reply.Name != name {
		s.logger.Warn("reply name differs from request", "method", "Request", "name", name, "reply", reply.Name)
	}

	values, err := arg.Decode(reply.Body, returns...)
	if err != nil {
		s.metrics.incErrCount()
		return nil, fmt.Errorf("decode %s reply: %w", name, err)
	}

	if s.logger.Level() == logger.DebugLevel {
		s.logger.Debug("reply received", "method", "Request", "name", name, "values", values)
	}

	return values, nil
}

// FetchImage reads the data channel until size contiguous bytes of the given acquisition
// channel have been received, and returns them. The scan must already be started on the
// control channel.
//
// The call is bounded by ctx, or by the config fetch timeout when ctx has no deadline. Without
// either, a stalled scan blocks forever; Disconnect from another goroutine aborts it.
func (s *Session) FetchImage(ctx context.Context, channel uint32, size int) ([]byte, error) {
	if err := s.checkData(); err != nil {
		return nil, err
	}

	var img []byte
	err := s.withDeadline(ctx, s.data, s.cfg.FetchTimeout(), func() error {
		var err error
		img, err = scan.ReadImage(ctx, s.dataReader, channel, size, s.scanOptions()...)

		return err
	})
	if err != nil {
		s.metrics.incErrCount()
		s.logger.Warn("failed to fetch image", "method", "FetchImage", "channel", channel, "size", size, "error", err)

		return nil, err
	}
	s.metrics.incImageCount()

	return img, nil
}

// FetchCameraImage reads the data channel until one 8-bit camera frame of the given channel arrives.
func (s *Session) FetchCameraImage(ctx context.Context, channel uint32) (*scan.CameraFrame, error) {
	if err := s.checkData(); err != nil {
		return nil, err
	}

	var frame *scan.CameraFrame
	err := s.withDeadline(ctx, s.data, s.cfg.FetchTimeout(), func() error {
		var err error
		frame, err = scan.ReadCameraFrame(ctx, s.dataReader, channel, s.scanOptions()...)

		return err
	})
	if err != nil {
		s.metrics.incErrCount()
		s.logger.Warn("failed to fetch camera frame", "method", "FetchCameraImage", "channel", channel, "error", err)

		return nil, err
	}
	s.metrics.incImageCount()

	return frame, nil
}

// Disconnect closes both channels. It is idempotent and safe to call from any goroutine;
// errors from closing are logged, not returned, and the result is always nil.
func (s *Session) Disconnect() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		s.closeConns()
		s.logger.Info("session disconnected", "method", "Disconnect")
	})

	return nil
}

func (s *Session) closeConns() {
	for _, c := range []struct {
		name string
		conn net.Conn
	}{
		{"data", s.data},
		{"control", s.ctrl},
	} {
		if c.conn == nil {
			continue
		}

		if err := c.conn.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			s.logger.Debug("failed to close channel", "method", "closeConns", "channel", c.name, "error", err)
		}
	}
}

func (s *Session) checkConnected() error {
	if s.closed.Load() || s.ctrl == nil {
		return ErrNotConnected
	}

	return nil
}

func (s *Session) checkData() error {
	if s.closed.Load() || s.data == nil {
		return ErrNotConnected
	}

	return nil
}

func (s *Session) writeCommand(name string, body []byte) error {
	wait := s.WaitFlags()
	if s.logger.Level() == logger.DebugLevel {
		s.logger.Debug("send command", "method", "writeCommand", "name", name, "wait", wait.String(), "bodySize", len(body))
	}

	if err := wire.WriteMessage(s.ctrl, name, wait, body); err != nil {
		return err
	}
	s.metrics.incCommandSendCount()

	return nil
}

func (s *Session) scanOptions() []scan.Option {
	return []scan.Option{
		scan.WithObserver(s.metrics.observe),
		scan.WithLogger(s.logger),
	}
}

// withDeadline runs fn with conn's deadline taken from ctx, or from fallback when ctx has
// no deadline, and interrupts fn when ctx is canceled.
func (s *Session) withDeadline(ctx context.Context, conn net.Conn, fallback time.Duration, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline && fallback > 0 {
		deadline = time.Now().Add(fallback)
	}

	if err := conn.SetDeadline(deadline); err != nil {
		return closedErr(fmt.Errorf("set deadline: %w", err))
	}

	poked := make(chan struct{})
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetDeadline(aLongTimeAgo)
		close(poked)
	})

	err := closedErr(fn())

	if !stop() {
		<-poked
		if err != nil {
			return fmt.Errorf("%w: %w", ctx.Err(), err)
		}

		return nil
	}

	if err != nil && errors.Is(err, os.ErrDeadlineExceeded) {
		// the socket deadline may fire before the context timer does
		if hasDeadline {
			return fmt.Errorf("%w: %w", context.DeadlineExceeded, err)
		}

		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}

	return err
}

// closedErr marks errors of a closed channel with ErrConnClosed.
func closedErr(err error) error {
	if err == nil || errors.Is(err, ErrConnClosed) || !wire.IsClosedErr(err) {
		return err
	}

	return fmt.Errorf("%w: %w", ErrConnClosed, err)
}

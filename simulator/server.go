package simulator

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"

	"github.com/arloliu/go-sharksem/arg"
	"github.com/arloliu/go-sharksem/command"
	"github.com/arloliu/go-sharksem/internal/queue"
	"github.com/arloliu/go-sharksem/internal/task"
	"github.com/arloliu/go-sharksem/internal/util"
	"github.com/arloliu/go-sharksem/logger"
	"github.com/arloliu/go-sharksem/wire"
	"github.com/puzpuzpuz/xsync/v3"
)

// Handler answers one command. args are decoded according to the command signature.
// For query commands the returned values are sent as the reply; nil values reply with
// zero values of the return kinds. An error closes the control connection.
type Handler func(args []arg.Arg) ([]arg.Arg, error)

// Record is a command received by the Server.
type Record struct {
	Name      string
	WaitFlags wire.WaitFlags
	Args      []arg.Arg
}

type handlerEntry struct {
	cmd command.Command
	fn  Handler
}

// Server is a fake SharkSEM server listening on loopback.
type Server struct {
	opts     serverOptions
	logger   logger.Logger
	ctrlLn   net.Listener
	dataLn   net.Listener
	taskMgr  *task.Manager
	handlers *xsync.MapOf[string, handlerEntry]
	notify   chan struct{}

	mu       sync.Mutex
	conns    map[net.Conn]struct{}
	dataConn net.Conn
	dataPort int
	backlog  queue.Queue[[]byte]
	records  []Record
	closed   bool
	stage    [StageAxes]float64
	channels map[uint32]bool

	closeOnce sync.Once
}

// NewServer starts a Server. It listens until Close is called.
func NewServer(opts ...Option) (*Server, error) {
	o := serverOptions{
		version:   "3.2.20",
		device:    "SharkSEM simulator",
		chunkSize: 4096,
		logger:    logger.GetLogger(),
	}
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, err
		}
	}

	ctrlLn, dataLn, err := listenPair(o.port)
	if err != nil {
		return nil, err
	}

	s := &Server{
		opts:     o,
		logger:   o.logger.With("component", "simulator", "port", ctrlLn.Addr().(*net.TCPAddr).Port), //nolint:forcetypeassert
		ctrlLn:   ctrlLn,
		dataLn:   dataLn,
		handlers: xsync.NewMapOf[string, handlerEntry](),
		notify:   make(chan struct{}, 1),
		conns:    make(map[net.Conn]struct{}),
		backlog:  queue.NewSliceQueue[[]byte](64),
		channels: map[uint32]bool{0: true},
	}
	s.taskMgr = task.NewManager(context.Background(), s.logger)
	s.registerBuiltins()

	for name, fn := range map[string]task.TaskFunc{
		"ctrlAccept": s.acceptControl,
		"dataAccept": s.acceptData,
		"dataWriter": s.writeData,
	} {
		if err := s.taskMgr.Start(name, fn, nil); err != nil {
			_ = s.Close()
			return nil, err
		}
	}

	s.logger.Info("simulator listening", "control", ctrlLn.Addr().String(), "data", dataLn.Addr().String())

	return s, nil
}

// listenPair listens on loopback port and port+1. A zero port picks a free consecutive pair.
func listenPair(port int) (net.Listener, net.Listener, error) {
	listen := func(p int) (net.Listener, error) {
		return net.Listen("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(p)))
	}

	if port != 0 {
		ctrl, err := listen(port)
		if err != nil {
			return nil, nil, fmt.Errorf("listen control port %d: %w", port, err)
		}
		data, err := listen(port + 1)
		if err != nil {
			_ = ctrl.Close()
			return nil, nil, fmt.Errorf("listen data port %d: %w", port+1, err)
		}

		return ctrl, data, nil
	}

	var lastErr error
	for range 32 {
		ctrl, err := listen(0)
		if err != nil {
			return nil, nil, fmt.Errorf("listen control port: %w", err)
		}

		p := ctrl.Addr().(*net.TCPAddr).Port //nolint:forcetypeassert
		if p < 65535 {
			data, err := listen(p + 1)
			if err == nil {
				return ctrl, data, nil
			}
			lastErr = err
		}
		_ = ctrl.Close()
	}

	return nil, nil, fmt.Errorf("no free consecutive port pair: %w", lastErr)
}

// Host returns the listening host.
func (s *Server) Host() string {
	return "127.0.0.1"
}

// Port returns the control port.
func (s *Server) Port() int {
	return s.ctrlLn.Addr().(*net.TCPAddr).Port //nolint:forcetypeassert
}

// RegisteredDataPort returns the client data port registered by TcpRegDataPort, or 0.
func (s *Server) RegisteredDataPort() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.dataPort
}

// DataAttached reports whether the registered data connection is open.
func (s *Server) DataAttached() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.dataConn != nil
}

// Handle registers h for the catalog command name, replacing any previous handler.
func (s *Server) Handle(name string, h Handler) error {
	cmd, ok := command.Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %q", command.ErrUnknownCommand, name)
	}
	s.HandleCommand(cmd, h)

	return nil
}

// HandleCommand registers h for cmd, which need not be in the catalog.
func (s *Server) HandleCommand(cmd command.Command, h Handler) {
	s.handlers.Store(cmd.Name, handlerEntry{cmd: cmd, fn: h})
}

// Records returns the commands received so far, in order.
func (s *Server) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	return util.CloneSlice(s.records, 0)
}

// SendData queues a data-channel message. Messages are written in order once the
// registered data connection is attached.
func (s *Server) SendData(name string, body []byte) error {
	data, err := wire.NewMessage(name, wire.WaitNone, body).MarshalBinary()
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return errors.New("simulator closed")
	}
	s.backlog.Enqueue(data)
	s.mu.Unlock()

	s.signal()

	return nil
}

// Close stops the server and closes all connections. It is idempotent.
func (s *Server) Close() error {
	s.closeOnce.Do(func() {
		s.taskMgr.Stop()

		_ = s.ctrlLn.Close()
		_ = s.dataLn.Close()

		s.mu.Lock()
		s.closed = true
		for conn := range s.conns {
			_ = conn.Close()
		}
		s.dataConn = nil
		s.backlog.Reset()
		s.mu.Unlock()

		s.taskMgr.Wait()
		s.logger.Info("simulator closed")
	})

	return nil
}

func (s *Server) signal() {
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

func (s *Server) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		_ = conn.Close()
		return false
	}
	s.conns[conn] = struct{}{}

	return true
}

// attachData tracks conn as the data connection, replacing the previous one.
// It closes conn and returns false once the server is closed.
func (s *Server) attachData(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		_ = conn.Close()
		return false
	}

	if s.dataConn != nil {
		_ = s.dataConn.Close()
	}
	s.dataConn = conn
	s.conns[conn] = struct{}{}

	return true
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	if s.dataConn == conn {
		s.dataConn = nil
	}
	s.mu.Unlock()

	_ = conn.Close()
}

func (s *Server) acceptControl() bool {
	conn, err := s.ctrlLn.Accept()
	if err != nil {
		if !errors.Is(err, net.ErrClosed) {
			s.logger.Error("failed to accept control connection", "method", "acceptControl", "error", err)
		}

		return false
	}

	if !s.track(conn) {
		return false
	}
	s.logger.Debug("control connection accepted", "method", "acceptControl", "remoteAddress", conn.RemoteAddr().String())

	reader := wire.NewReader(conn, 0)
	err = s.taskMgr.Start("ctrlConn", func() bool {
		return s.serveCommand(conn, reader)
	}, func() {
		s.untrack(conn)
	})
	if err != nil {
		s.untrack(conn)
		return false
	}

	return true
}

func (s *Server) acceptData() bool {
	conn, err := s.dataLn.Accept()
	if err != nil {
		if !errors.Is(err, net.ErrClosed) {
			s.logger.Error("failed to accept data connection", "method", "acceptData", "error", err)
		}

		return false
	}

	remotePort := conn.RemoteAddr().(*net.TCPAddr).Port //nolint:forcetypeassert

	s.mu.Lock()
	registered := s.dataPort
	s.mu.Unlock()

	if registered == 0 || remotePort != registered {
		s.logger.Warn("reject data connection from unregistered port",
			"method", "acceptData", "remotePort", remotePort, "registeredPort", registered)
		_ = conn.Close()

		return true
	}

	if !s.attachData(conn) {
		return false
	}
	s.logger.Debug("data connection attached", "method", "acceptData", "remotePort", remotePort)
	s.signal()

	// the client never writes to the data channel, reading only detects the close
	buf := make([]byte, 64)
	err = s.taskMgr.Start("dataConn", func() bool {
		_, err := conn.Read(buf)
		return err == nil
	}, func() {
		s.untrack(conn)
	})
	if err != nil {
		s.untrack(conn)
		return false
	}

	return true
}

func (s *Server) writeData() bool {
	select {
	case <-s.taskMgr.Context().Done():
		return false
	case <-s.notify:
	}

	for {
		s.mu.Lock()
		conn := s.dataConn
		if conn == nil {
			s.mu.Unlock()
			return true
		}
		data, ok := s.backlog.Dequeue()
		s.mu.Unlock()

		if !ok {
			return true
		}

		if err := wire.WriteFull(conn, data); err != nil {
			s.logger.Warn("failed to write data message", "method", "writeData", "error", err)
			s.untrack(conn)

			return true
		}
	}
}

func (s *Server) lookup(name string) (handlerEntry, bool) {
	if entry, ok := s.handlers.Load(name); ok {
		return entry, true
	}

	cmd, ok := command.Lookup(name)
	if !ok {
		return handlerEntry{}, false
	}

	return handlerEntry{cmd: cmd}, true
}

func (s *Server) record(name string, wait wire.WaitFlags, args []arg.Arg) {
	s.mu.Lock()
	s.records = append(s.records, Record{Name: name, WaitFlags: wait, Args: args})
	s.mu.Unlock()
}

// serveCommand reads and answers one command. It returns false when the connection should be closed.
func (s *Server) serveCommand(conn net.Conn, reader *wire.Reader) bool {
	msg, err := reader.ReadMessage()
	if err != nil {
		if !wire.IsClosedErr(err) {
			s.logger.Warn("failed to read command", "method", "serveCommand", "error", err)
		}

		return false
	}

	entry, ok := s.lookup(msg.Name)
	if !ok {
		s.logger.Warn("unknown command", "method", "serveCommand", "name", msg.Name)
		s.record(msg.Name, msg.WaitFlags, nil)

		return true
	}

	args, err := decodeArgs(entry.cmd, msg.Body)
	if err != nil {
		s.logger.Warn("failed to decode command arguments", "method", "serveCommand", "name", msg.Name, "error", err)
	}
	s.record(msg.Name, msg.WaitFlags, args)

	var values []arg.Arg
	if entry.fn != nil && err == nil {
		values, err = entry.fn(args)
		if err != nil {
			s.logger.Error("command handler failed, closing connection", "method", "serveCommand", "name", msg.Name, "error", err)
			return false
		}
	}

	if !entry.cmd.IsQuery() {
		return true
	}

	if values == nil {
		values = zeroValues(entry.cmd.Returns)
	}

	body, err := arg.Encode(values...)
	if err != nil {
		s.logger.Error("failed to encode reply", "method", "serveCommand", "name", msg.Name, "error", err)
		return false
	}

	if err := wire.WriteMessage(conn, msg.Name, wire.WaitNone, body); err != nil {
		if !wire.IsClosedErr(err) {
			s.logger.Warn("failed to write reply", "method", "serveCommand", "name", msg.Name, "error", err)
		}

		return false
	}

	return true
}

// decodeArgs decodes body with the longest argument list of cmd that fits.
func decodeArgs(cmd command.Command, body []byte) ([]arg.Arg, error) {
	var lastErr error
	for n := len(cmd.Args); n >= cmd.MinArgs(); n-- {
		args, err := arg.Decode(body, cmd.Args[:n]...)
		if err == nil {
			return args, nil
		}
		lastErr = err
	}

	return nil, lastErr
}

func zeroValues(kinds []arg.Kind) []arg.Arg {
	values := make([]arg.Arg, len(kinds))
	for i, k := range kinds {
		switch k {
		case arg.KindInt:
			values[i] = arg.Int(0)
		case arg.KindUint:
			values[i] = arg.Uint(0)
		case arg.KindFloat:
			values[i] = arg.Float(0)
		default:
			values[i] = arg.String("")
		}
	}

	return values
}

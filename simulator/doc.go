// Package simulator provides an in-process SharkSEM server for tests and demos.
//
// The Server listens on a loopback control port P and data port P+1, answers commands
// from registered handlers, and streams data messages to the client that registered its
// data port with TcpRegDataPort. Commands are described by the command catalog, so every
// query command gets a reply: a registered handler's values, or zero values otherwise.
//
// Built-in behaviour:
//   - TcpRegDataPort records the client data port; only a data connection from that port is accepted.
//   - TcpGetVersion and TcpGetDevice return the configured strings.
//   - StgGetPosition and StgMoveTo read and update a simulated stage.
//   - DtEnable enables and disables acquisition channels (channel 0 is enabled initially).
//   - ScScanXY streams a synthetic 8-bit image for every enabled channel.
//   - CameraEnable streams one synthetic camera frame.
//
// Usage Example:
//
//	srv, err := simulator.NewServer()
//	// ... handle error ...
//	defer srv.Close()
//
//	cfg, _ := sharksem.NewConnectionConfig(srv.Host(), srv.Port())
//	sess, err := sharksem.Connect(ctx, cfg)
package simulator

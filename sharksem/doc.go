// Package sharksem provides a client for the SharkSEM remote control protocol of scanning
// electron microscopes.
//
// A Session holds two TCP channels to the instrument: the control channel on the configured
// port carries commands and their replies, and the data channel on port+1 carries streamed
// image fragments and camera frames. Connect opens both and binds them with TcpRegDataPort.
//
// Key Features:
//   - Connection Management: Connect dials both channels within one connect timeout and never returns a partial session.
//   - Commands: Send writes a command without waiting, Request waits for the reply and decodes it.
//   - Images: FetchImage and FetchCameraImage reassemble streamed data, tolerating duplicate and resent fragments.
//   - Cancellation: every blocking call takes a context; its deadline becomes the socket deadline.
//   - Customization: ConnectionConfig options for timeouts, wait flags, limits and logging, or YAML/TOML files.
//
// A Session is not safe for concurrent use. Canceling a call in the middle of a message leaves
// that channel out of sync; disconnect the session afterwards.
//
// Usage Example:
//
//	cfg, err := sharksem.NewConnectionConfig("10.0.0.12", sharksem.DefaultPort,
//	    sharksem.WithRequestTimeout(30*time.Second),
//	)
//	// ... handle error ...
//
//	sess, err := sharksem.Connect(ctx, cfg)
//	// ... handle error ...
//	defer sess.Disconnect()
//
//	pos, err := sess.Request(ctx, "StgGetPosition", []arg.Kind{
//	    arg.KindFloat, arg.KindFloat, arg.KindFloat, arg.KindFloat, arg.KindFloat,
//	})
//
//	// the command package validates arguments against the command catalog
//	_, err = command.Call(ctx, sess, "ScScanXY", arg.Int(0), arg.Int(1024), arg.Int(768),
//	    arg.Int(0), arg.Int(0), arg.Int(1023), arg.Int(767), arg.Int(1))
//	img, err := sess.FetchImage(ctx, 0, 1024*768)
package sharksem

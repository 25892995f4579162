// Package command is the static SharkSEM command catalog.
//
// Each Command maps a function name onto the ordered argument kinds it takes and the
// ordered kinds it returns. Commands without return values are fire-and-forget and are
// sent with Invoker.Send; queries are sent with Invoker.Request and block for the reply.
//
// Usage Example:
//
//	sess, err := sharksem.Connect(ctx, cfg)
//	// ... handle error ...
//	pos, err := command.Call(ctx, sess, "StgGetPosition")
//	z, _ := pos[2].ToFloat()
//
//	_, err = command.Call(ctx, sess, "StgMoveTo", arg.Float(10e-3), arg.Float(5e-3))
package command

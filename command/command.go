package command

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/arloliu/go-sharksem/arg"
)

var (
	// ErrUnknownCommand indicates a name that is not in the catalog.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrArgMismatch indicates arguments that do not match the command signature.
	ErrArgMismatch = errors.New("argument mismatch")
)

// Command describes the signature of one SharkSEM function.
type Command struct {
	// Name is the function name sent in the message header, at most 16 bytes.
	Name string
	// Group is the functional area, e.g. "stage" or "vacuum".
	Group string
	// Args lists the argument kinds in order.
	Args []arg.Kind
	// Optional is the number of trailing arguments in Args that may be omitted.
	Optional int
	// Returns lists the kinds of the reply values in order. Empty for commands without reply.
	Returns []arg.Kind
}

// IsQuery reports whether the command has a reply.
func (c Command) IsQuery() bool {
	return len(c.Returns) > 0
}

// MinArgs returns the number of required arguments.
func (c Command) MinArgs() int {
	return len(c.Args) - c.Optional
}

// Validate checks the number and kinds of args against the command signature.
func (c Command) Validate(args ...arg.Arg) error {
	if len(args) < c.MinArgs() || len(args) > len(c.Args) {
		if c.Optional == 0 {
			return fmt.Errorf("%w: %s takes %d arguments, got %d", ErrArgMismatch, c.Name, len(c.Args), len(args))
		}

		return fmt.Errorf("%w: %s takes %d to %d arguments, got %d", ErrArgMismatch, c.Name, c.MinArgs(), len(c.Args), len(args))
	}

	for i, a := range args {
		if a.Kind() != c.Args[i] {
			return fmt.Errorf("%w: %s argument %d must be %s, got %s", ErrArgMismatch, c.Name, i, c.Args[i], a.Kind())
		}
	}

	return nil
}

func (c Command) String() string {
	return fmt.Sprintf("%s%v -> %v", c.Name, c.Args, c.Returns)
}

// Lookup returns the catalog entry of name.
func Lookup(name string) (Command, bool) {
	c, ok := catalogIndex[name]
	return c, ok
}

// All returns all catalog entries sorted by name.
func All() []Command {
	cmds := make([]Command, 0, len(catalogIndex))
	for _, c := range catalogIndex {
		cmds = append(cmds, c)
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })

	return cmds
}

// Invoker sends commands over a SharkSEM control channel. *sharksem.Session implements it.
type Invoker interface {
	Send(ctx context.Context, name string, args ...arg.Arg) error
	Request(ctx context.Context, name string, returns []arg.Kind, args ...arg.Arg) ([]arg.Arg, error)
}

// Call validates args against the catalog entry of name and dispatches it: queries are sent
// with Request and return the decoded reply, other commands are sent with Send and return nil.
func Call(ctx context.Context, inv Invoker, name string, args ...arg.Arg) ([]arg.Arg, error) {
	c, ok := Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}

	return c.Call(ctx, inv, args...)
}

// Call validates args and dispatches the command through inv.
func (c Command) Call(ctx context.Context, inv Invoker, args ...arg.Arg) ([]arg.Arg, error) {
	if err := c.Validate(args...); err != nil {
		return nil, err
	}

	if !c.IsQuery() {
		return nil, inv.Send(ctx, c.Name, args...)
	}

	return inv.Request(ctx, c.Name, c.Returns, args...)
}

// ParseArgs converts command line texts to the arguments of the command.
func (c Command) ParseArgs(texts []string) ([]arg.Arg, error) {
	if len(texts) < c.MinArgs() || len(texts) > len(c.Args) {
		return nil, fmt.Errorf("%w: %s takes %d to %d arguments, got %d", ErrArgMismatch, c.Name, c.MinArgs(), len(c.Args), len(texts))
	}

	return arg.ParseAll(c.Args[:len(texts)], texts)
}

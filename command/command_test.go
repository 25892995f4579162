package command

import (
	"context"
	"errors"
	"testing"

	"github.com/arloliu/go-sharksem/arg"
	"github.com/arloliu/go-sharksem/wire"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockInvoker struct {
	mock.Mock
}

func (m *mockInvoker) Send(ctx context.Context, name string, args ...arg.Arg) error {
	ret := m.Called(ctx, name, args)
	return ret.Error(0)
}

func (m *mockInvoker) Request(ctx context.Context, name string, returns []arg.Kind, args ...arg.Arg) ([]arg.Arg, error) {
	ret := m.Called(ctx, name, returns, args)
	values, _ := ret.Get(0).([]arg.Arg)

	return values, ret.Error(1)
}

func TestCatalog_Consistency(t *testing.T) {
	require := require.New(t)

	cmds := All()
	require.Len(cmds, len(catalog))

	seen := map[string]bool{}
	for i, c := range cmds {
		require.False(seen[c.Name], "duplicate command %s", c.Name)
		seen[c.Name] = true

		require.NotEmpty(c.Name)
		require.LessOrEqual(len(c.Name), wire.NameSize, "%s does not fit the name field", c.Name)
		require.NotEmpty(c.Group, c.Name)
		require.GreaterOrEqual(c.Optional, 0, c.Name)
		require.LessOrEqual(c.Optional, len(c.Args), c.Name)

		for _, k := range append(append([]arg.Kind{}, c.Args...), c.Returns...) {
			require.True(k.Valid(), "%s has invalid kind %s", c.Name, k)
		}

		if i > 0 {
			require.Less(cmds[i-1].Name, c.Name)
		}
	}
}

func TestLookup(t *testing.T) {
	require := require.New(t)

	c, ok := Lookup("StgGetPosition")
	require.True(ok)
	require.True(c.IsQuery())
	require.Equal([]arg.Kind{arg.KindFloat, arg.KindFloat, arg.KindFloat, arg.KindFloat, arg.KindFloat}, c.Returns)
	require.Empty(c.Args)

	c, ok = Lookup("TcpRegDataPort")
	require.True(ok)
	require.Equal([]arg.Kind{arg.KindInt}, c.Args)
	require.Equal([]arg.Kind{arg.KindInt}, c.Returns)

	c, ok = Lookup("ScStopScan")
	require.True(ok)
	require.False(c.IsQuery())

	_, ok = Lookup("StgFly")
	require.False(ok)
}

func TestCommand_Validate(t *testing.T) {
	require := require.New(t)

	dtEnable, _ := Lookup("DtEnable")
	moveTo, _ := Lookup("StgMoveTo")
	setCentering, _ := Lookup("SetCentering")

	tests := []struct {
		description string
		cmd         Command
		args        []arg.Arg
		expectErr   bool
	}{
		{description: "required args only", cmd: dtEnable, args: []arg.Arg{arg.Int(0), arg.Int(1)}},
		{description: "with optional bpp", cmd: dtEnable, args: []arg.Arg{arg.Int(0), arg.Int(1), arg.Int(8)}},
		{description: "missing required", cmd: dtEnable, args: []arg.Arg{arg.Int(0)}, expectErr: true},
		{description: "too many", cmd: dtEnable, args: []arg.Arg{arg.Int(0), arg.Int(1), arg.Int(8), arg.Int(9)}, expectErr: true},
		{description: "wrong kind", cmd: dtEnable, args: []arg.Arg{arg.Int(0), arg.Float(1)}, expectErr: true},
		{description: "stage move with no axes", cmd: moveTo, args: nil},
		{description: "stage move x, y", cmd: moveTo, args: []arg.Arg{arg.Float(0.01), arg.Float(0.02)}},
		{description: "stage move int axis", cmd: moveTo, args: []arg.Arg{arg.Int(1)}, expectErr: true},
		{description: "mixed kinds", cmd: setCentering, args: []arg.Arg{arg.Int(1), arg.Float(0.5), arg.Float(-0.5)}},
		{description: "mixed kinds wrong order", cmd: setCentering, args: []arg.Arg{arg.Float(0.5), arg.Int(1), arg.Float(-0.5)}, expectErr: true},
	}

	for _, tt := range tests {
		t.Logf("Test: %s", tt.description)
		err := tt.cmd.Validate(tt.args...)
		if tt.expectErr {
			require.ErrorIs(err, ErrArgMismatch)
		} else {
			require.NoError(err)
		}
	}
}

func TestCall_Dispatch(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	inv := &mockInvoker{}
	inv.On("Request", ctx, "StgGetPosition", mock.Anything, []arg.Arg(nil)).
		Return([]arg.Arg{arg.Float(1), arg.Float(2), arg.Float(3), arg.Float(0), arg.Float(0)}, nil).Once()
	inv.On("Send", ctx, "SetWD", []arg.Arg{arg.Float(0.005)}).Return(nil).Once()

	pos, err := Call(ctx, inv, "StgGetPosition")
	require.NoError(err)
	require.Len(pos, 5)
	z, err := pos[2].ToFloat()
	require.NoError(err)
	require.InDelta(3.0, z, 0)

	values, err := Call(ctx, inv, "SetWD", arg.Float(0.005))
	require.NoError(err)
	require.Nil(values)

	inv.AssertExpectations(t)
}

func TestCall_Errors(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	inv := &mockInvoker{}

	_, err := Call(ctx, inv, "NoSuchCommand")
	require.ErrorIs(err, ErrUnknownCommand)

	_, err = Call(ctx, inv, "SetWD", arg.String("5mm"))
	require.ErrorIs(err, ErrArgMismatch)

	errBoom := errors.New("boom")
	inv.On("Send", ctx, "VacPump", []arg.Arg(nil)).Return(errBoom).Once()
	_, err = Call(ctx, inv, "VacPump")
	require.ErrorIs(err, errBoom)

	inv.AssertExpectations(t)
}

func TestCommand_ParseArgs(t *testing.T) {
	require := require.New(t)

	c, _ := Lookup("CameraEnable")
	args, err := c.ParseArgs([]string{"0", "1.5", "25", "1"})
	require.NoError(err)
	require.Equal([]arg.Arg{arg.Int(0), arg.Float(1.5), arg.Float(25), arg.Int(1)}, args)

	_, err = c.ParseArgs([]string{"0"})
	require.ErrorIs(err, ErrArgMismatch)

	_, err = c.ParseArgs([]string{"zero", "1.5", "25", "1"})
	require.Error(err)

	moveTo, _ := Lookup("StgMoveTo")
	args, err = moveTo.ParseArgs([]string{"0.01"})
	require.NoError(err)
	require.Equal([]arg.Arg{arg.Float(0.01)}, args)
}

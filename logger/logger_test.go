package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		description string
		input       string
		expected    Level
		ok          bool
	}{
		{description: "debug", input: "debug", expected: DebugLevel, ok: true},
		{description: "info", input: "info", expected: InfoLevel, ok: true},
		{description: "warning alias", input: "warning", expected: WarnLevel, ok: true},
		{description: "error", input: "error", expected: ErrorLevel, ok: true},
		{description: "fatal", input: "fatal", expected: FatalLevel, ok: true},
		{description: "unknown", input: "verbose", expected: InfoLevel, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			level, ok := ParseLevel(tt.input)
			require.Equal(t, tt.expected, level)
			require.Equal(t, tt.ok, ok)
		})
	}
}

func TestSlogLogger_JSON(t *testing.T) {
	require := require.New(t)
	t.Setenv("ENV", "")

	var buf bytes.Buffer
	l := NewSlogWithWriter(&buf, InfoLevel, false)

	l.Debug("hidden")
	require.Zero(buf.Len())

	l.With("session", "ctrl").Info("connected", "port", 8300)

	var record map[string]any
	require.NoError(json.Unmarshal(buf.Bytes(), &record))
	require.Equal("connected", record["msg"])
	require.Equal("ctrl", record["session"])
	require.InDelta(8300, record["port"], 0)
	require.Contains(record, "ts")

	l.SetLevel(DebugLevel)
	require.Equal(DebugLevel, l.Level())
}

func TestZapLogger_JSON(t *testing.T) {
	require := require.New(t)

	var buf bytes.Buffer
	l := NewZapWithWriter(&buf, WarnLevel)
	require.Equal(WarnLevel, l.Level())

	l.Info("hidden")
	require.Zero(buf.Len())

	l.With("channel", 0).Warn("fragment gap", "offset", 100)

	var record map[string]any
	require.NoError(json.Unmarshal(buf.Bytes(), &record))
	require.Equal("fragment gap", record["msg"])
	require.Equal("warn", record["level"])
	require.InDelta(100, record["offset"], 0)
	require.InDelta(0, record["channel"], 0)

	l.SetLevel(DebugLevel)
	require.Equal(DebugLevel, l.Level())
}

func TestMockLogger(t *testing.T) {
	m := NewMockLogger()
	m.On("Info", "hello", []any{"k", "v"}).Once()
	m.On("Level").Return(DebugLevel)

	m.Info("hello", "k", "v")
	require.Equal(t, DebugLevel, m.Level())
	m.AssertExpectations(t)
}

func TestMockLogger_AllowAny(t *testing.T) {
	m := NewMockLogger()
	m.On("Error", "boom", []any{"code", 3}).Once()
	m.AllowAny(WarnLevel)

	child := m.With("component", "test")
	require.Same(t, m, child)

	m.Debug("anything")
	m.Error("boom", "code", 3)
	m.Error("other")
	require.Equal(t, WarnLevel, m.Level())
	m.AssertExpectations(t)
	m.AssertNumberOfCalls(t, "Error", 2)
}

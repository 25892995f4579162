package logger

import (
	"github.com/stretchr/testify/mock"
)

// MockLogger records log calls for tests.
//
// Every logging method is called with the message and the key/value pairs as one []any
// argument, so an expectation reads:
//
//	m.On("Warn", "request failed", mock.Anything).Once()
//
// With returns the logger registered by its expectation; AllowAny makes it return m itself.
type MockLogger struct {
	mock.Mock
}

var _ Logger = (*MockLogger)(nil)

// NewMockLogger returns a MockLogger without expectations.
func NewMockLogger() *MockLogger {
	return &MockLogger{}
}

// AllowAny accepts any number of calls at every level, reports level from Level, and returns
// m from With. Expectations set before AllowAny take precedence.
func (m *MockLogger) AllowAny(level Level) *MockLogger {
	for _, method := range []string{"Debug", "Info", "Warn", "Error"} {
		m.On(method, mock.Anything, mock.Anything).Maybe()
	}
	m.On("Level").Return(level).Maybe()
	m.On("SetLevel", mock.Anything).Maybe()
	m.On("With", mock.Anything).Return(m).Maybe()

	return m
}

func (m *MockLogger) Debug(msg string, keysAndValues ...any) {
	m.Called(msg, keysAndValues)
}

func (m *MockLogger) Info(msg string, keysAndValues ...any) {
	m.Called(msg, keysAndValues)
}

func (m *MockLogger) Warn(msg string, keysAndValues ...any) {
	m.Called(msg, keysAndValues)
}

func (m *MockLogger) Error(msg string, keysAndValues ...any) {
	m.Called(msg, keysAndValues)
}

// Fatal records the call; unlike the real backends it does not exit.
func (m *MockLogger) Fatal(msg string, keysAndValues ...any) {
	m.Called(msg, keysAndValues)
}

func (m *MockLogger) SetLevel(level Level) {
	m.Called(level)
}

func (m *MockLogger) Level() Level {
	args := m.Called()
	return args.Get(0).(Level) //nolint:forcetypeassert
}

func (m *MockLogger) With(keyValues ...any) Logger {
	args := m.Called(keyValues)
	return args.Get(0).(Logger) //nolint:forcetypeassert
}

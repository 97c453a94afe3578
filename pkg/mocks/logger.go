package mocks

import (
	"sync"

	"github.com/user/vidseq/pkg/ports"
)

// LogEntry is one message recorded by Logger, before translation.
type LogEntry struct {
	Level     ports.LogLevel
	Component string
	Msg       string
	Args      []interface{}
}

// Logger is a mock implementation of ports.Logger that records every
// message. Component loggers share the parent's entries.
type Logger struct {
	component string
	shared    *logEntries
}

type logEntries struct {
	mu      sync.Mutex
	entries []LogEntry
}

// NewLogger creates a new mock Logger.
func NewLogger() *Logger {
	return &Logger{shared: &logEntries{}}
}

func (m *Logger) Debug(msg string, args ...interface{}) { m.record(ports.LevelDebug, msg, args) }
func (m *Logger) Info(msg string, args ...interface{})  { m.record(ports.LevelInfo, msg, args) }
func (m *Logger) Warn(msg string, args ...interface{})  { m.record(ports.LevelWarn, msg, args) }
func (m *Logger) Error(msg string, args ...interface{}) { m.record(ports.LevelError, msg, args) }

func (m *Logger) WithComponent(component string) ports.Logger {
	return &Logger{component: component, shared: m.shared}
}

func (m *Logger) record(level ports.LogLevel, msg string, args []interface{}) {
	m.shared.mu.Lock()
	defer m.shared.mu.Unlock()
	m.shared.entries = append(m.shared.entries, LogEntry{
		Level:     level,
		Component: m.component,
		Msg:       msg,
		Args:      args,
	})
}

// Entries returns a copy of the recorded messages.
func (m *Logger) Entries() []LogEntry {
	m.shared.mu.Lock()
	defer m.shared.mu.Unlock()
	return append([]LogEntry(nil), m.shared.entries...)
}

// Find returns the recorded entries whose message key is msg.
func (m *Logger) Find(msg string) []LogEntry {
	var out []LogEntry
	for _, e := range m.Entries() {
		if e.Msg == msg {
			out = append(out, e)
		}
	}
	return out
}

var _ ports.Logger = (*Logger)(nil)

package logging

import (
	"fmt"
	"sync"
)

// Level names used in recorded entries.
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// LogEntry represents a single captured log entry. Operation results carry
// their entries as diagnostics.
type LogEntry struct {
	Level   string  `json:"level" yaml:"level"`
	Message string  `json:"message" yaml:"message"`
	Fields  []Field `json:"fields,omitempty" yaml:"fields,omitempty"`
	Error   error   `json:"-" yaml:"-"`
}

// String renders the entry on one line.
func (e LogEntry) String() string {
	s := e.Level + " " + e.Message
	for _, f := range e.Fields {
		s += fmt.Sprintf(" %s=%v", f.Key, f.Value)
	}
	if e.Error != nil {
		s += " error=" + e.Error.Error()
	}
	return s
}

type entrySink struct {
	mu      sync.Mutex
	entries []LogEntry
}

func (s *entrySink) add(e LogEntry) {
	s.mu.Lock()
	s.entries = append(s.entries, e)
	s.mu.Unlock()
}

// Recorder is a Logger that captures every entry and forwards it to an
// optional next Logger. Derived loggers (WithField, WithError...) share the
// same capture buffer.
type Recorder struct {
	sink   *entrySink
	next   Logger
	fields []Field
	err    error
}

// NewRecorder creates a Recorder. next may be nil for capture-only use in tests.
func NewRecorder(next Logger) *Recorder {
	return &Recorder{sink: &entrySink{}, next: next}
}

func (r *Recorder) record(level, msg string, fields []Field) {
	all := make([]Field, 0, len(r.fields)+len(fields))
	all = append(all, r.fields...)
	all = append(all, fields...)
	r.sink.add(LogEntry{Level: level, Message: msg, Fields: all, Error: r.err})
}

// Debug logs a debug-level message with optional fields.
func (r *Recorder) Debug(msg string, fields ...Field) {
	r.record(LevelDebug, msg, fields)
	if r.next != nil {
		r.next.Debug(msg, fields...)
	}
}

// Info logs an info-level message with optional fields.
func (r *Recorder) Info(msg string, fields ...Field) {
	r.record(LevelInfo, msg, fields)
	if r.next != nil {
		r.next.Info(msg, fields...)
	}
}

// Warn logs a warning-level message with optional fields.
func (r *Recorder) Warn(msg string, fields ...Field) {
	r.record(LevelWarn, msg, fields)
	if r.next != nil {
		r.next.Warn(msg, fields...)
	}
}

// Error logs an error-level message with optional fields.
func (r *Recorder) Error(msg string, fields ...Field) {
	r.record(LevelError, msg, fields)
	if r.next != nil {
		r.next.Error(msg, fields...)
	}
}

// WithError returns a new logger with an error field attached.
func (r *Recorder) WithError(err error) Logger {
	child := r.derive()
	child.err = err
	if r.next != nil {
		child.next = r.next.WithError(err)
	}
	return child
}

// WithField returns a new logger with a single field attached.
func (r *Recorder) WithField(key string, value interface{}) Logger {
	return r.WithFields(Field{Key: key, Value: value})
}

// WithFields returns a new logger with multiple fields attached.
func (r *Recorder) WithFields(fields ...Field) Logger {
	child := r.derive()
	child.fields = append(child.fields, fields...)
	if r.next != nil {
		child.next = r.next.WithFields(fields...)
	}
	return child
}

func (r *Recorder) derive() *Recorder {
	fields := make([]Field, len(r.fields))
	copy(fields, r.fields)
	return &Recorder{sink: r.sink, next: r.next, fields: fields, err: r.err}
}

// Entries returns a copy of all captured entries.
func (r *Recorder) Entries() []LogEntry {
	r.sink.mu.Lock()
	defer r.sink.mu.Unlock()
	out := make([]LogEntry, len(r.sink.entries))
	copy(out, r.sink.entries)
	return out
}

// EntriesByLevel returns all captured entries of a specific level.
func (r *Recorder) EntriesByLevel(level string) []LogEntry {
	var entries []LogEntry
	for _, entry := range r.Entries() {
		if entry.Level == level {
			entries = append(entries, entry)
		}
	}
	return entries
}

// HasEntry checks if an entry with the given level and message exists.
func (r *Recorder) HasEntry(level, message string) bool {
	for _, entry := range r.Entries() {
		if entry.Level == level && entry.Message == message {
			return true
		}
	}
	return false
}

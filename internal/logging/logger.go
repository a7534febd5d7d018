// Package logging is the structured logging layer. Commands log through a
// logrus-backed Logger; parsers and rewriters wrap it in a Recorder so the
// entries they emit can be returned to callers as diagnostics.
package logging

import "io"

// Logger is the structured logger used across the application.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// WithError returns a logger that attaches err to every entry.
	WithError(err error) Logger
	WithField(key string, value interface{}) Logger
	WithFields(fields ...Field) Logger
}

// Field is one key/value pair of a structured entry.
type Field struct {
	Key   string      `json:"key" yaml:"key"`
	Value interface{} `json:"value" yaml:"value"`
}

// F is shorthand for building a Field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Discard returns a logger that writes nothing.
func Discard() Logger {
	return NewLogrusAdapterWithOutput("panic", "text", io.Discard)
}

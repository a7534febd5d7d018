// Package parsererror defines the error types returned when a toll export or
// receipt cannot be processed.
package parsererror

import (
	"errors"
	"fmt"
	"io/fs"
)

// Sentinels for errors.Is checks.
var (
	ErrFileNotFound    = errors.New("file not found")
	ErrUnreadable      = errors.New("file unreadable")
	ErrHeaderNotFound  = errors.New("header not found")
	ErrSectionNotFound = errors.New("section not found")
)

// FileError represents a file that is missing or cannot be read. It is fatal
// to that file only.
type FileError struct {
	FilePath string
	Err      error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("cannot read %s: %v", e.FilePath, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// Is matches ErrFileNotFound for missing files and ErrUnreadable otherwise.
func (e *FileError) Is(target error) bool {
	if target == ErrFileNotFound {
		return errors.Is(e.Err, ErrFileNotFound) || errors.Is(e.Err, fs.ErrNotExist)
	}
	return target == ErrUnreadable
}

// HeaderNotFoundError is returned when the column header signature is absent.
type HeaderNotFoundError struct {
	FilePath string
	Header   string
}

func (e *HeaderNotFoundError) Error() string {
	if e.FilePath == "" {
		return fmt.Sprintf("header not found: expected a line containing %q", e.Header)
	}
	return fmt.Sprintf("header not found in %s: expected a line containing %q", e.FilePath, e.Header)
}

func (e *HeaderNotFoundError) Is(target error) bool {
	return target == ErrHeaderNotFound
}

// RowParseError describes a single row that was dropped. It is never fatal and
// is surfaced as a diagnostic rather than returned.
type RowParseError struct {
	Row   int
	Field string
	Value string
	Err   error
}

func (e *RowParseError) Error() string {
	return fmt.Sprintf("row %d: failed to parse %s='%s': %v", e.Row, e.Field, e.Value, e.Err)
}

func (e *RowParseError) Unwrap() error {
	return e.Err
}

// SectionNotFoundError is returned by the receipt rewriter when a required
// section marker is missing or out of order.
type SectionNotFoundError struct {
	FilePath string
	Section  string
}

func (e *SectionNotFoundError) Error() string {
	if e.FilePath == "" {
		return fmt.Sprintf("section %q not found", e.Section)
	}
	return fmt.Sprintf("section %q not found in %s", e.Section, e.FilePath)
}

func (e *SectionNotFoundError) Is(target error) bool {
	return target == ErrSectionNotFound
}

// WithPath returns err with the file path filled in when err is one of this
// package's types and the path is not yet known.
func WithPath(err error, path string) error {
	var h *HeaderNotFoundError
	if errors.As(err, &h) && h.FilePath == "" {
		return &HeaderNotFoundError{FilePath: path, Header: h.Header}
	}
	var s *SectionNotFoundError
	if errors.As(err, &s) && s.FilePath == "" {
		return &SectionNotFoundError{FilePath: path, Section: s.Section}
	}
	return err
}

// Package selector decides which toll files a command operates on: paths
// given on the command line, an interactive numbered menu, or last month's
// export.
package selector

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"fjacquet/toll-expense/internal/dateutils"
	"fjacquet/toll-expense/internal/fileutils"
	"fjacquet/toll-expense/internal/parsererror"
)

// ErrNoSelection is returned when the user quits or nothing can be selected.
var ErrNoSelection = errors.New("no file selected")

// Selector picks files among candidates.
type Selector interface {
	Select(candidates []string) ([]string, error)
}

// Static selects a fixed list of paths and ignores the candidates.
type Static struct {
	Paths []string
}

// Select returns the configured paths.
func (s Static) Select([]string) ([]string, error) {
	if len(s.Paths) == 0 {
		return nil, ErrNoSelection
	}
	return s.Paths, nil
}

// Prompt asks the user to choose one candidate from a numbered menu.
type Prompt struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompt creates a Prompt reading answers from in and printing to out.
func NewPrompt(in io.Reader, out io.Writer) *Prompt {
	return &Prompt{in: bufio.NewReader(in), out: out}
}

// Select shows the menu until a file is confirmed, the user enters q, or
// input ends.
func (p *Prompt) Select(candidates []string) ([]string, error) {
	if len(candidates) == 0 {
		p.printf("No CSV files found in the current directory.\n")
		return nil, ErrNoSelection
	}

	p.printf("\nFound the following CSV files:\n")
	for i, file := range candidates {
		p.printf("%d. %s\n", i+1, filepath.Base(file))
	}

	for {
		choice, err := p.ask("\nEnter the number of the file you want to process (or 'q' to quit): ")
		if err != nil {
			return nil, err
		}
		if strings.EqualFold(choice, "q") {
			return nil, ErrNoSelection
		}

		n, err := strconv.Atoi(choice)
		if err != nil {
			p.printf("Please enter a valid number.\n")
			continue
		}
		if n < 1 || n > len(candidates) {
			p.printf("Invalid selection. Please try again.\n")
			continue
		}

		selected := candidates[n-1]
		confirm, err := p.ask(fmt.Sprintf("\nYou selected: %s\nProcess this file? (y/n): ", filepath.Base(selected)))
		if err != nil {
			return nil, err
		}
		if strings.EqualFold(confirm, "y") {
			return []string{selected}, nil
		}
		p.printf("Let's try again.\n")
	}
}

func (p *Prompt) ask(question string) (string, error) {
	p.printf("%s", question)
	line, err := p.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		if errors.Is(err, io.EOF) {
			return "", ErrNoSelection
		}
		return "", fmt.Errorf("failed to read answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func (p *Prompt) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(p.out, format, args...)
}

// PreviousMonth selects the MM_YYYY.csv export for the month before Now.
type PreviousMonth struct {
	Dir string
	Now func() time.Time
}

// Path returns the expected path of last month's export.
func (s PreviousMonth) Path() string {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	year, month := dateutils.PreviousMonth(now())
	return filepath.Join(s.Dir, fileutils.MonthlyFileName(year, month))
}

// Select returns last month's export when it exists.
func (s PreviousMonth) Select([]string) ([]string, error) {
	path := s.Path()
	if !fileutils.FileExists(path) {
		return nil, &parsererror.FileError{FilePath: path, Err: fs.ErrNotExist}
	}
	return []string{path}, nil
}

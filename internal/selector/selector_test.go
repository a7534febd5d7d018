package selector

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fjacquet/toll-expense/internal/parsererror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var candidates = []string{"data/01_2025.csv", "data/02_2025.csv"}

func TestStatic(t *testing.T) {
	got, err := Static{Paths: []string{"a.csv"}}.Select(candidates)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.csv"}, got)

	_, err = Static{}.Select(candidates)
	assert.ErrorIs(t, err, ErrNoSelection)
}

func TestPrompt(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		want     []string
		wantErr  error
		contains []string
	}{
		{
			name:     "pick and confirm",
			input:    "2\ny\n",
			want:     []string{"data/02_2025.csv"},
			contains: []string{"1. 01_2025.csv", "2. 02_2025.csv", "You selected: 02_2025.csv"},
		},
		{
			name:     "invalid then retry",
			input:    "abc\n7\n1\nn\n1\nY\n",
			want:     []string{"data/01_2025.csv"},
			contains: []string{"Please enter a valid number.", "Invalid selection. Please try again.", "Let's try again."},
		},
		{
			name:    "quit",
			input:   "q\n",
			wantErr: ErrNoSelection,
		},
		{
			name:    "end of input",
			input:   "1\n",
			wantErr: ErrNoSelection,
		},
		{
			name:  "answer without trailing newline",
			input: "1\ny",
			want:  []string{"data/01_2025.csv"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := NewPrompt(strings.NewReader(tt.input), &out).Select(candidates)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			for _, s := range tt.contains {
				assert.Contains(t, out.String(), s)
			}
		})
	}
}

func TestPrompt_NoCandidates(t *testing.T) {
	var out bytes.Buffer
	_, err := NewPrompt(strings.NewReader("1\n"), &out).Select(nil)
	assert.ErrorIs(t, err, ErrNoSelection)
	assert.Contains(t, out.String(), "No CSV files found")
}

func TestPreviousMonth(t *testing.T) {
	dir := t.TempDir()
	s := PreviousMonth{
		Dir: dir,
		Now: func() time.Time { return time.Date(2025, time.January, 15, 9, 0, 0, 0, time.UTC) },
	}
	assert.Equal(t, filepath.Join(dir, "12_2024.csv"), s.Path())

	_, err := s.Select(nil)
	assert.ErrorIs(t, err, parsererror.ErrFileNotFound)

	require.NoError(t, os.WriteFile(s.Path(), []byte("x"), 0o600))
	got, err := s.Select(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{s.Path()}, got)
}

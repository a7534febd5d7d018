package fileutils_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"fjacquet/toll-expense/internal/fileutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
	return path
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	file := touch(t, dir, "a.csv")

	assert.True(t, fileutils.FileExists(file))
	assert.False(t, fileutils.FileExists(dir))
	assert.False(t, fileutils.FileExists(filepath.Join(dir, "missing")))
	assert.True(t, fileutils.DirectoryExists(dir))
	assert.False(t, fileutils.DirectoryExists(file))
}

func TestEnsureDirectoryExists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	require.NoError(t, fileutils.EnsureDirectoryExists(dir))
	assert.True(t, fileutils.DirectoryExists(dir))
	require.NoError(t, fileutils.EnsureDirectoryExists(dir))
}

func TestAtomicWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "receipt_01_2025.csv")

	require.NoError(t, fileutils.AtomicWriteFile(path, []byte("first"), 0o600))
	require.NoError(t, fileutils.AtomicWriteFile(path, []byte("second"), 0o600))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestAtomicWriteFile_RejectsWorldReadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expensable_01_2025.csv")

	err := fileutils.AtomicWriteFile(path, []byte("x"), 0o644)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too permissive")
	assert.False(t, fileutils.FileExists(path))
}

func TestAtomicWriteFile_CreatesParent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "out.csv")
	require.NoError(t, fileutils.AtomicWriteFile(path, []byte("ok"), 0o600))
	assert.True(t, fileutils.FileExists(path))
}

func TestPrefixedPath(t *testing.T) {
	assert.Equal(t, filepath.Join("data", "receipt_01_2025.csv"),
		fileutils.PrefixedPath(filepath.Join("data", "01_2025.csv"), fileutils.ReceiptPrefix))
	assert.Equal(t, "expensable_01_2025.csv", fileutils.PrefixedPath("01_2025.csv", fileutils.ExpensablePrefix))
}

func TestMonthYearLabel(t *testing.T) {
	tests := []struct {
		path  string
		month string
		year  string
	}{
		{"01_2025.csv", "January", "2025"},
		{"/tmp/data/12_2024.csv", "December", "2024"},
		{"9_2025.csv", "September", "2025"},
		{"13_2025.csv", "Unknown", "Unknown"},
		{"00_2025.csv", "Unknown", "Unknown"},
		{"receipt_01_2025.csv", "Unknown", "Unknown"},
		{"toll.csv", "Unknown", "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			month, year := fileutils.MonthYearLabel(tt.path)
			assert.Equal(t, tt.month, month)
			assert.Equal(t, tt.year, year)
		})
	}
}

func TestMonthlyFileName(t *testing.T) {
	assert.Equal(t, "03_2025.csv", fileutils.MonthlyFileName(2025, time.March))
	assert.Equal(t, "12_2024.csv", fileutils.MonthlyFileName(2024, time.December))
}

func TestMonthlyAndReceiptFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "02_2025.csv")
	touch(t, dir, "01_2025.csv")
	touch(t, dir, "01_2024.csv")
	touch(t, dir, "receipt_01_2025.csv")
	touch(t, dir, "expensable_01_2025.csv")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "03_2025.csv"), 0o750))

	monthly, err := fileutils.MonthlyFiles(dir, 2025)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "01_2025.csv"),
		filepath.Join(dir, "02_2025.csv"),
	}, monthly)

	receipts, err := fileutils.ReceiptFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "receipt_01_2025.csv")}, receipts)

	all, err := fileutils.CSVFiles(dir)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

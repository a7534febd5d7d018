// Package fileutils provides common file operations used throughout the application.
package fileutils

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"time"

	"fjacquet/toll-expense/internal/validation"
)

// Output name prefixes.
const (
	ExpensablePrefix = "expensable_"
	ReceiptPrefix    = "receipt_"
)

// UnknownLabel is used when a file name does not follow the MM_YYYY.csv convention.
const UnknownLabel = "Unknown"

var monthYearPattern = regexp.MustCompile(`^(\d{1,2})_(\d{4})\.csv$`)

// FileExists checks if a file exists and is not a directory
func FileExists(filePath string) bool {
	info, err := os.Stat(filePath)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirectoryExists checks if a directory exists
func DirectoryExists(dirPath string) bool {
	info, err := os.Stat(dirPath)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// EnsureDirectoryExists creates a directory if it doesn't exist
func EnsureDirectoryExists(dirPath string) error {
	if !DirectoryExists(dirPath) {
		if err := os.MkdirAll(dirPath, 0o750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	return nil
}

// AtomicWriteFile writes data to a temporary file in the destination directory
// and renames it over filePath, so readers never observe a partial file.
// perm must not grant access to others.
func AtomicWriteFile(filePath string, data []byte, perm os.FileMode) error {
	if err := validation.IsValidFilePermissions(perm); err != nil {
		return err
	}
	dir := filepath.Dir(filePath)
	if err := EnsureDirectoryExists(dir); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(filePath)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		// no-op once the rename succeeded
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, filePath); err != nil {
		return fmt.Errorf("failed to replace %s: %w", filePath, err)
	}
	return nil
}

// PrefixedPath returns filePath with prefix prepended to its base name.
func PrefixedPath(filePath, prefix string) string {
	return filepath.Join(filepath.Dir(filePath), prefix+filepath.Base(filePath))
}

// MonthYearLabel derives ("January", "2025") from a file named 01_2025.csv.
// Any other name yields ("Unknown", "Unknown").
func MonthYearLabel(filePath string) (string, string) {
	m := monthYearPattern.FindStringSubmatch(filepath.Base(filePath))
	if m == nil {
		return UnknownLabel, UnknownLabel
	}
	month, err := strconv.Atoi(m[1])
	if err != nil || month < 1 || month > 12 {
		return UnknownLabel, UnknownLabel
	}
	return time.Month(month).String(), m[2]
}

// MonthlyFileName returns the MM_YYYY.csv name for a month.
func MonthlyFileName(year int, month time.Month) string {
	return fmt.Sprintf("%02d_%d.csv", int(month), year)
}

// MonthlyFiles lists the monthly exports for year in dir, sorted by name.
func MonthlyFiles(dir string, year int) ([]string, error) {
	return globSorted(filepath.Join(dir, fmt.Sprintf("[0-9]*_%d.csv", year)))
}

// ReceiptFiles lists the receipt_*.csv files in dir, sorted by name.
func ReceiptFiles(dir string) ([]string, error) {
	return globSorted(filepath.Join(dir, ReceiptPrefix+"*.csv"))
}

// CSVFiles lists every .csv file directly inside dir, sorted by name.
func CSVFiles(dir string) ([]string, error) {
	return globSorted(filepath.Join(dir, "*.csv"))
}

func globSorted(pattern string) ([]string, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	files := matches[:0]
	for _, m := range matches {
		if FileExists(m) {
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files, nil
}

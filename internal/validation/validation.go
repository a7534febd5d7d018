// Package validation checks command-line inputs before any file is touched.
package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// IsValidDirectory checks that path exists and is a directory.
func IsValidDirectory(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("directory does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("error checking directory %s: %w", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path %s is not a directory", path)
	}
	return nil
}

// IsValidOutputFormat checks that format is one of the console report formats.
func IsValidOutputFormat(format string) error {
	switch format {
	case "text", "json", "yaml":
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s. Supported formats are 'text', 'json', 'yaml'", format)
	}
}

// IsValidWorkbookPath checks that path names an .xlsx file in an existing directory.
func IsValidWorkbookPath(path string) error {
	if !strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return fmt.Errorf("workbook path must end in .xlsx: %s", path)
	}
	return IsValidDirectory(filepath.Dir(path))
}

// IsValidFilePermissions rejects modes that grant any access to others.
func IsValidFilePermissions(mode os.FileMode) error {
	if mode&0o007 != 0 {
		return fmt.Errorf("file permissions are too permissive: %s. Recommended 0600 or 0644", mode.String())
	}
	return nil
}

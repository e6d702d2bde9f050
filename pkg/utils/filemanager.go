// =============================================================================
// CTOS Report Extractor - File Management Utilities
// =============================================================================
//
// Small file-handling helpers the export path uses: directory creation,
// export file naming with placeholder expansion, and the per-batch
// error log written next to the workbook when any account failed.
//
// =============================================================================

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// EnsureDir creates the directory (and parents) if it does not exist.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// OutputFileName expands the configured name format. Placeholders:
//
//	{stem}      - input file name without extension
//	{timestamp} - now, formatted YYYYMMDD_HHMMSS
//	{uuid}      - 8-character random suffix
//
// A format without an .xlsx extension gets one appended.
func OutputFileName(format, stem string, now time.Time) string {
	name := format
	name = strings.ReplaceAll(name, "{stem}", stem)
	name = strings.ReplaceAll(name, "{timestamp}", now.Format("20060102_150405"))
	name = strings.ReplaceAll(name, "{uuid}", uuid.NewString()[:8])

	if !strings.EqualFold(filepath.Ext(name), ".xlsx") {
		name += ".xlsx"
	}
	return name
}

// ErrorLogEntry is one failed account in a batch run.
type ErrorLogEntry struct {
	Account string
	Message string
}

// WriteErrorLog writes the per-account error log for a batch and
// returns its path. Entries keep batch order.
func WriteErrorLog(entries []ErrorLogEntry, dir string, now time.Time) (string, error) {
	if len(entries) == 0 {
		return "", nil
	}
	if err := EnsureDir(dir); err != nil {
		return "", err
	}

	path := filepath.Join(dir,
		fmt.Sprintf("errors_%s_%s.log", now.Format("20060102_150405"), uuid.NewString()[:8]))

	var b strings.Builder
	fmt.Fprintf(&b, "Export error log - %s\n", now.Format(time.RFC3339))
	fmt.Fprintf(&b, "Failed accounts: %d\n\n", len(entries))
	for _, e := range entries {
		fmt.Fprintf(&b, "%s: %s\n", e.Account, e.Message)
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return "", fmt.Errorf("failed to write error log: %w", err)
	}
	return path, nil
}

// FileExists reports whether path exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Stem returns the file name without directory or extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

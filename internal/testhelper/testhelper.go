package testhelper

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

// init disables logging for tests unless LABELCOUNT_TEST_LOG is set.
func init() {
	if testing.Testing() && os.Getenv("LABELCOUNT_TEST_LOG") == "" {
		zerolog.SetGlobalLevel(zerolog.Disabled)
	}
}

// WriteCSV writes rows as a CSV file in a per-test temporary directory and
// returns its path.
func WriteCSV(t testing.TB, rows [][]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "dataset.csv")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// WriteFile writes raw content to name in a per-test temporary directory and
// returns its path.
func WriteFile(t testing.TB, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

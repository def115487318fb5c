// Package testutil provides compat-document fixtures for unit tests.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/bcdtools/internal/fileutil"
	"github.com/erraggy/bcdtools/parser"
)

// SampleDocPath returns the absolute path of testdata/bcd-sample.json.
func SampleDocPath(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot locate testutil source file")
	}
	return filepath.Join(filepath.Dir(file), "..", "..", "testdata", "bcd-sample.json")
}

// LoadSample parses the sample document.
func LoadSample(t *testing.T) *parser.Document {
	t.Helper()
	result, err := parser.New().Parse(SampleDocPath(t))
	if err != nil {
		t.Fatalf("Failed to parse sample document: %v", err)
	}
	return result.Document
}

// ParseDocument parses inline JSON or YAML.
func ParseDocument(t *testing.T, src string) *parser.Document {
	t.Helper()
	result, err := parser.New().ParseBytes([]byte(src))
	if err != nil {
		t.Fatalf("Failed to parse document: %v", err)
	}
	return result.Document
}

// WriteTempFile writes data to name inside a per-test temporary directory
// and returns its path.
func WriteTempFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), fileutil.OwnerReadWrite); err != nil {
		t.Fatalf("Failed to write temporary file: %v", err)
	}
	return path
}

// WriteTempYAML marshals v to YAML and writes it to a temporary file.
func WriteTempYAML(t *testing.T, v any) string {
	t.Helper()
	data, err := yaml.Marshal(v)
	if err != nil {
		t.Fatalf("Failed to marshal YAML: %v", err)
	}
	return WriteTempFile(t, "test.yaml", string(data))
}

// WriteTempJSON marshals v to JSON and writes it to a temporary file.
func WriteTempJSON(t *testing.T, v any) string {
	t.Helper()
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal JSON: %v", err)
	}
	return WriteTempFile(t, "test.json", string(data))
}

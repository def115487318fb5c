package commands

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/bcdtools/internal/testutil"
)

func TestRunSchema_Default(t *testing.T) {
	var stdout, stderr bytes.Buffer
	require.NoError(t, runSchema(&stdout, &stderr, nil))
	assert.Contains(t, stdout.String(), "css:\n")
	assert.Contains(t, stdout.String(), "- at-rules\n")
}

func TestRunSchema_AllMatchesDocument(t *testing.T) {
	var stdout, stderr bytes.Buffer
	require.NoError(t, runSchema(&stdout, &stderr, []string{"--all", "--format", "json", sampleDoc}))
	assert.Contains(t, stdout.String(), `"api"`)
	assert.Empty(t, stderr.String())
}

func TestRunSchema_MissingBranches(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := runSchema(&stdout, &stderr, []string{sampleDoc})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing from")
	assert.Contains(t, stderr.String(), "Schema Issues:")
	assert.Contains(t, stderr.String(), "css.selectors")
}

func TestRunSchema_File(t *testing.T) {
	path := testutil.WriteTempFile(t, "schema.yaml", "html:\n  - elements\napi:\n")

	var stdout, stderr bytes.Buffer
	require.NoError(t, runSchema(&stdout, &stderr, []string{"--schema", path, sampleDoc}))
	assert.Contains(t, stdout.String(), "html:")
	assert.Contains(t, stdout.String(), "api:")
}

func TestRunSchema_Errors(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.ErrorContains(t, runSchema(&stdout, &stderr, []string{"--all"}), "requires a document")
	assert.ErrorContains(t, runSchema(&stdout, &stderr, []string{sampleDoc, sampleDoc}), "at most one")
	assert.Error(t, runSchema(&stdout, &stderr, []string{"--schema", filepath.Join(t.TempDir(), "nope.yaml")}))
}

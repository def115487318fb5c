package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/bcdtools/bcderrors"
)

func TestRunClassify(t *testing.T) {
	var stdout, stderr bytes.Buffer
	require.NoError(t, runClassify(&stdout, &stderr, []string{"css.at-rules.page", sampleDoc}))
	assert.Equal(t, "chrome\tChrome\tsupported since 2\t2\n"+
		"firefox\tFirefox\tsupported since 19\t1\n"+
		"opera\tOpera\tsupported since 9.2\t1\n", stdout.String())
	assert.Contains(t, stderr.String(), "Browsers not in the document catalog: opera")
	assert.Contains(t, stderr.String(), "Feature: css.at-rules.page (fold: any)")
}

func TestRunClassify_BrowserFilter(t *testing.T) {
	var stdout, stderr bytes.Buffer
	require.NoError(t, runClassify(&stdout, &stderr, []string{
		"-q", "--browser", "firefox, safari_ios", "css.at-rules.media", sampleDoc,
	}))
	assert.Equal(t, "firefox\tFirefox\tsupported since 1\t1\n"+
		"safari_ios\tSafari Mobile\tunknown\t1\n", stdout.String())
	assert.Empty(t, stderr.String())
}

func TestRunClassify_JSON(t *testing.T) {
	var stdout, stderr bytes.Buffer
	require.NoError(t, runClassify(&stdout, &stderr, []string{
		"--format", "json", "--browser", "chrome", "css.at-rules.page", sampleDoc,
	}))
	var rows []classifyRow
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, classifyRow{
		Browser:        "chrome",
		Name:           "Chrome",
		Classification: "supported since 2",
		Version:        "2",
		Entries:        2,
		Notes:          1,
	}, rows[0])
}

func TestRunClassify_Errors(t *testing.T) {
	var stdout, stderr bytes.Buffer

	assert.Error(t, runClassify(&stdout, &stderr, []string{sampleDoc}))
	assert.Error(t, runClassify(&stdout, &stderr, []string{"--fold", "some", "css.at-rules.page", sampleDoc}))

	err := runClassify(&stdout, &stderr, []string{"css.at-rules.nope", sampleDoc})
	require.Error(t, err)
	assert.True(t, errors.Is(err, bcderrors.ErrNotFound))
}

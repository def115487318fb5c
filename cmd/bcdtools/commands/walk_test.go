package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/bcdtools/feature"
)

func walkOutput(t *testing.T, args ...string) (string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := runWalk(context.Background(), &stdout, &stderr, args)
	require.NoError(t, err, stderr.String())
	return stdout.String(), stderr.String()
}

func firstColumn(out string) []string {
	var names []string
	for line := range strings.Lines(out) {
		names = append(names, strings.SplitN(strings.TrimRight(line, "\n"), "\t", 2)[0])
	}
	return names
}

func TestHandleWalk_NoArgs(t *testing.T) {
	assert.Error(t, HandleWalk([]string{}))
}

func TestHandleWalk_Help(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := runWalk(context.Background(), &stdout, &stderr, []string{"--help"})
	assert.NoError(t, err)
	assert.Contains(t, stderr.String(), "Usage: bcdtools walk")
}

func TestRunWalk_DefaultSchema(t *testing.T) {
	out, diag := walkOutput(t, sampleDoc)

	assert.Equal(t, []string{
		"css.at-rules.media",
		"css.at-rules.media.any-hover",
		"css.at-rules.page",
		"css.properties.color",
		"html.elements.applet",
		"html.elements.applet.width",
		"html.elements.canvas",
		"html.elements.canvas.width",
	}, firstColumn(out))
	assert.Contains(t, out, "css.at-rules.media\t--S\t3\n")
	assert.Contains(t, diag, "Records: 8 (matched 8)")
	assert.Contains(t, diag, "Missing Branches: ")
	assert.Contains(t, diag, "css.selectors")
}

func TestRunWalk_AllQuiet(t *testing.T) {
	out, diag := walkOutput(t, "--all", "-q", sampleDoc)
	assert.Empty(t, diag)
	names := firstColumn(out)
	assert.Len(t, names, 9)
	assert.Contains(t, names, "api.AbortController")
}

func TestRunWalk_Filters(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "category",
			args: []string{"--category", "html.elements.applet"},
			want: []string{"html.elements.applet", "html.elements.applet.width"},
		},
		{
			name: "search",
			args: []string{"--search", "width"},
			want: []string{"html.elements.applet.width", "html.elements.canvas.width"},
		},
		{
			name: "unsupported in firefox",
			args: []string{"--browser", "firefox", "--support", "unsupported"},
			want: []string{"css.at-rules.media.any-hover"},
		},
		{
			name: "no data for safari_ios",
			args: []string{"--browser", "safari_ios", "--support", "no-data", "--category", "css"},
			want: []string{"css.at-rules.media.any-hover", "css.at-rules.page", "css.properties.color"},
		},
		{
			name: "deprecated",
			args: []string{"--deprecated", "true"},
			want: []string{"html.elements.applet"},
		},
		{
			name: "has mdn_url",
			args: []string{"--has", "mdn_url", "--category", "css"},
			want: []string{"css.at-rules.media", "css.at-rules.page", "css.properties.color"},
		},
		{
			name: "page",
			args: []string{"--offset", "2", "--limit", "2"},
			want: []string{"css.at-rules.page", "css.properties.color"},
		},
		{
			name: "deepest",
			args: []string{"--deepest", "--category", "html"},
			want: []string{"html.elements.applet.width", "html.elements.canvas.width"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append(append([]string{"-q"}, tt.args...), sampleDoc)
			out, _ := walkOutput(t, args...)
			assert.Equal(t, tt.want, firstColumn(out))
		})
	}
}

func TestRunWalk_BrowserColumn(t *testing.T) {
	out, _ := walkOutput(t, "-q", "--browser", "chrome", "--category", "css.at-rules", sampleDoc)
	assert.Equal(t, "css.at-rules.media\t--S\t3\tsupported\n"+
		"css.at-rules.media.any-hover\t???\t2\tsupported since 41\n"+
		"css.at-rules.page\t???\t3\tsupported since 2\n", out)
}

func TestRunWalk_JSON(t *testing.T) {
	out, _ := walkOutput(t, "-q", "--format", "json", "--category", "css.at-rules.media.any-hover", sampleDoc)
	var rows []featureRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "css.at-rules.media.any-hover", rows[0].Name)
	assert.Equal(t, "css-at-rules-media-any-hover", rows[0].Slug)
	assert.Equal(t, "unknown", rows[0].Deprecated)
	assert.Equal(t, map[string]string{"chrome": "supported since 41", "firefox": "unsupported"}, rows[0].Support)
}

func TestRunWalk_Detail(t *testing.T) {
	out, _ := walkOutput(t, "-q", "--detail", "--format", "json", "--category", "css.at-rules.page", sampleDoc)
	var recs []json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(out), &recs))
	require.Len(t, recs, 1)
	assert.Contains(t, string(recs[0]), "-webkit-")
}

func TestRunWalk_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"format", []string{"--format", "xml", sampleDoc}, "invalid format"},
		{"mode", []string{"--mode", "sideways", sampleDoc}, "sideways"},
		{"support without browser", []string{"--support", "unknown", sampleDoc}, "requires a browser"},
		{"bad tristate", []string{"--deprecated", "maybe", sampleDoc}, "deprecated"},
		{"two docs", []string{sampleDoc, sampleDoc}, "exactly one"},
		{"all and schema", []string{"--all", "--schema", "x.yaml", sampleDoc}, "mutually exclusive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			err := runWalk(context.Background(), &stdout, &stderr, tt.args)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestPageRecords(t *testing.T) {
	recs := make([]feature.Record, 5)
	for i := range recs {
		recs[i].Name = string(rune('a' + i))
	}
	assert.Len(t, pageRecords(recs, 0, 0), 5)
	assert.Len(t, pageRecords(recs, 3, 0), 2)
	assert.Len(t, pageRecords(recs, 1, 2), 2)
	assert.Equal(t, "b", pageRecords(recs, 1, 2)[0].Name)
	assert.Nil(t, pageRecords(recs, 5, 1))
}

func TestStatusFlags(t *testing.T) {
	rec := feature.Record{
		Deprecated:    feature.TristateTrue,
		Experimental:  feature.TristateFalse,
		StandardTrack: feature.TristateUnknown,
	}
	assert.Equal(t, "D-?", statusFlags(&rec))
}

package mcpserver

import (
	"context"
	"encoding/json"
	"slices"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFile = "../../testdata/bcd-sample.json"

// startTestSession creates an in-process MCP server/client pair and returns
// the connected client session. The server is shut down when the test ends.
func startTestSession(t *testing.T) *mcp.ClientSession {
	t.Helper()

	server := mcp.NewServer(
		&mcp.Implementation{Name: "bcdtools-test", Version: "test"},
		nil,
	)
	registerAllTools(server)

	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	done := make(chan error, 1)
	go func() {
		done <- server.Run(ctx, serverTransport)
	}()

	client := mcp.NewClient(
		&mcp.Implementation{Name: "test-client", Version: "test"},
		nil,
	)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = session.Close()
		cancel()
		<-done
	})

	return session
}

func callTool(t *testing.T, session *mcp.ClientSession, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

// unmarshalStructured decodes the tool result into a generic map.
// It first checks StructuredContent, then falls back to parsing the first TextContent.
func unmarshalStructured(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()

	if result.StructuredContent != nil {
		data, err := json.Marshal(result.StructuredContent)
		require.NoError(t, err)
		var m map[string]any
		require.NoError(t, json.Unmarshal(data, &m))
		return m
	}

	require.NotEmpty(t, result.Content, "expected at least one content item")
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])

	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(text.Text), &m), "failed to parse text content as JSON")
	return m
}

func errorText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.True(t, result.IsError)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func sampleDoc() map[string]any {
	return map[string]any{"file": sampleFile}
}

func TestIntegration_ListTools(t *testing.T) {
	session := startTestSession(t)

	result, err := session.ListTools(context.Background(), &mcp.ListToolsParams{})
	require.NoError(t, err)

	names := make([]string, 0, len(result.Tools))
	for _, tool := range result.Tools {
		names = append(names, tool.Name)
		assert.NotEmpty(t, tool.Description, "tool %q has empty description", tool.Name)
	}
	slices.Sort(names)
	assert.Equal(t, []string{"classify_support", "document_info", "list_browsers", "walk_features"}, names)
}

func TestIntegration_DocumentInfo(t *testing.T) {
	session := startTestSession(t)

	out := unmarshalStructured(t, callTool(t, session, "document_info", map[string]any{
		"document": sampleDoc(),
	}))
	assert.Equal(t, "json", out["format"])
	assert.Equal(t, []any{"css", "html", "api"}, out["categories"])
	assert.Equal(t, float64(3), out["browser_count"])
	assert.Equal(t, float64(9), out["compat_nodes"])

	issues, ok := out["schema_issues"].([]any)
	require.True(t, ok)
	assert.Contains(t, issues, "css.selectors: subcategory not found in document")
	assert.Contains(t, issues, "javascript: category not found in document")
}

func TestIntegration_WalkFeatures(t *testing.T) {
	session := startTestSession(t)

	t.Run("default schema", func(t *testing.T) {
		out := unmarshalStructured(t, callTool(t, session, "walk_features", map[string]any{
			"document": sampleDoc(),
		}))
		assert.Equal(t, float64(8), out["total"])
		assert.Equal(t, float64(8), out["returned"])
		assert.Contains(t, out["missing_branches"], "css.selectors")

		summaries := out["summaries"].([]any)
		first := summaries[0].(map[string]any)
		assert.Equal(t, "css.at-rules.media", first["name"])
		assert.Equal(t, "css-at-rules-media", first["slug"])
		assert.Equal(t, map[string]any{
			"chrome":     "supported",
			"firefox":    "supported since 1",
			"safari_ios": "unknown",
		}, first["support"])

		byName := make(map[string]map[string]any, len(summaries))
		for _, s := range summaries {
			m := s.(map[string]any)
			byName[m["name"].(string)] = m
		}
		assert.Equal(t, false, first["deprecated"], "explicit false is kept")
		assert.Equal(t, false, first["experimental"])
		assert.Equal(t, true, byName["html.elements.applet"]["deprecated"])
		assert.Equal(t, false, byName["html.elements.applet"]["standard_track"])
		anyHover := byName["css.at-rules.media.any-hover"]
		require.NotNil(t, anyHover)
		assert.NotContains(t, anyHover, "deprecated", "unknown status is omitted")
		assert.NotContains(t, anyHover, "experimental")
		assert.NotContains(t, anyHover, "standard_track")
	})

	t.Run("all categories with support filter", func(t *testing.T) {
		out := unmarshalStructured(t, callTool(t, session, "walk_features", map[string]any{
			"document": sampleDoc(),
			"all":      true,
			"browser":  "chrome",
			"support":  "unsupported",
		}))
		assert.Equal(t, float64(9), out["total"])
		assert.Equal(t, float64(2), out["matched"])
	})

	t.Run("group by category", func(t *testing.T) {
		out := unmarshalStructured(t, callTool(t, session, "walk_features", map[string]any{
			"document": sampleDoc(),
			"all":      true,
			"group_by": "category",
		}))
		assert.Equal(t, []any{
			map[string]any{"key": "css", "count": float64(4)},
			map[string]any{"key": "html", "count": float64(4)},
			map[string]any{"key": "api", "count": float64(1)},
		}, out["groups"])
	})

	t.Run("detail with paging", func(t *testing.T) {
		out := unmarshalStructured(t, callTool(t, session, "walk_features", map[string]any{
			"document": sampleDoc(),
			"category": "html.elements.canvas",
			"detail":   true,
			"limit":    1,
			"offset":   1,
		}))
		assert.Equal(t, float64(2), out["matched"])
		features := out["features"].([]any)
		require.Len(t, features, 1)
		rec := features[0].(map[string]any)
		assert.Equal(t, "html.elements.canvas.width", rec["name"])
		assert.Contains(t, rec["support"], "firefox")
	})

	t.Run("inline schema and first mode", func(t *testing.T) {
		out := unmarshalStructured(t, callTool(t, session, "walk_features", map[string]any{
			"document": sampleDoc(),
			"schema":   "html: [elements]\n",
			"mode":     "first",
		}))
		assert.Equal(t, float64(2), out["total"])
	})

	t.Run("invalid support query", func(t *testing.T) {
		result := callTool(t, session, "walk_features", map[string]any{
			"document": sampleDoc(),
			"support":  "true",
		})
		assert.Contains(t, errorText(t, result), "requires a browser")
	})
}

func TestIntegration_ClassifySupport(t *testing.T) {
	session := startTestSession(t)

	out := unmarshalStructured(t, callTool(t, session, "classify_support", map[string]any{
		"document": sampleDoc(),
		"feature":  "css.at-rules.page",
	}))
	assert.Equal(t, "any", out["fold"])
	assert.Equal(t, "unknown", out["deprecated"])

	support := out["support"].([]any)
	require.Len(t, support, 3)
	chrome := support[0].(map[string]any)
	assert.Equal(t, "chrome", chrome["browser"])
	assert.Equal(t, "Chrome", chrome["display_name"])
	assert.Equal(t, "supported since 2", chrome["classification"])
	assert.Equal(t, float64(2), chrome["entries"])
	assert.Equal(t, true, chrome["prefixed"])
	assert.Equal(t, float64(1), chrome["notes"])

	// opera is not in the browsers table of the sample
	opera := support[2].(map[string]any)
	assert.Equal(t, "Opera", opera["display_name"])

	result := callTool(t, session, "classify_support", map[string]any{
		"document": sampleDoc(),
		"feature":  "css.at-rules",
	})
	assert.Contains(t, errorText(t, result), "not found")
}

func TestIntegration_ListBrowsers(t *testing.T) {
	session := startTestSession(t)

	out := unmarshalStructured(t, callTool(t, session, "list_browsers", map[string]any{
		"document": sampleDoc(),
		"type":     "desktop",
	}))
	assert.Equal(t, float64(2), out["count"])
	browsers := out["browsers"].([]any)
	first := browsers[0].(map[string]any)
	assert.Equal(t, "chrome", first["id"])
	assert.Equal(t, float64(3), first["release_count"])
	assert.Nil(t, first["releases"])

	out = unmarshalStructured(t, callTool(t, session, "list_browsers", map[string]any{
		"document": sampleDoc(),
		"releases": true,
	}))
	browsers = out["browsers"].([]any)
	require.Len(t, browsers, 3)
	safari := browsers[2].(map[string]any)
	assert.Equal(t, "Safari Mobile", safari["name"])
	assert.Len(t, safari["releases"], 1)
}

func TestIntegration_MissingDocument(t *testing.T) {
	session := startTestSession(t)

	result := callTool(t, session, "list_browsers", map[string]any{
		"document": map[string]any{},
	})
	assert.Contains(t, errorText(t, result), "no document provided")
}

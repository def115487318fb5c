package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type documentInfoInput struct {
	Document documentInput `json:"document"         jsonschema:"The compat data document"`
	Schema   string        `json:"schema,omitempty" jsonschema:"YAML schema to check the document against (defaults to css\\, html and javascript)"`
}

type documentInfoOutput struct {
	Source       string   `json:"source"`
	Format       string   `json:"format"`
	SizeBytes    int64    `json:"size_bytes"`
	Categories   []string `json:"categories"`
	BrowserCount int      `json:"browser_count"`
	CompatNodes  int      `json:"compat_nodes"`
	SchemaIssues []string `json:"schema_issues,omitempty"`
}

func handleDocumentInfo(_ context.Context, _ *mcp.CallToolRequest, input documentInfoInput) (*mcp.CallToolResult, any, error) {
	result, err := input.Document.resolve()
	if err != nil {
		return errResult(err), nil, nil
	}
	s, err := resolveSchema(result.Document, input.Schema, false)
	if err != nil {
		return errResult(err), nil, nil
	}

	output := documentInfoOutput{
		Source:       result.SourcePath,
		Format:       string(result.SourceFormat),
		SizeBytes:    result.SourceSize,
		Categories:   result.Document.Categories(),
		BrowserCount: result.Stats.BrowserCount,
		CompatNodes:  result.Stats.CompatNodeCount,
	}
	issues := s.Validate(result.Document)
	output.SchemaIssues = makeSlice[string](len(issues))
	for _, issue := range issues {
		output.SchemaIssues = append(output.SchemaIssues, issue.String())
	}
	return nil, output, nil
}

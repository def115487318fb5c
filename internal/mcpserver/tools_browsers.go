package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/bcdtools/browsers"
)

type listBrowsersInput struct {
	Document documentInput `json:"document"           jsonschema:"The compat data document"`
	Type     string        `json:"type,omitempty"     jsonschema:"Only browsers of this type (desktop\\, mobile\\, server\\, ...)"`
	Releases bool          `json:"releases,omitempty" jsonschema:"Include every release of each browser"`
}

type browserSummary struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	Type         string             `json:"type,omitempty"`
	ReleaseCount int                `json:"release_count"`
	Current      string             `json:"current,omitempty"`
	Releases     []browsers.Release `json:"releases,omitempty"`
}

type listBrowsersOutput struct {
	Count    int              `json:"count"`
	Browsers []browserSummary `json:"browsers,omitempty"`
}

func handleListBrowsers(_ context.Context, _ *mcp.CallToolRequest, input listBrowsersInput) (*mcp.CallToolResult, any, error) {
	result, err := input.Document.resolve()
	if err != nil {
		return errResult(err), nil, nil
	}
	catalog, err := browsers.FromDocument(result.Document)
	if err != nil {
		return errResult(err), nil, nil
	}

	var output listBrowsersOutput
	for _, b := range catalog.All() {
		if input.Type != "" && b.Type != input.Type {
			continue
		}
		summary := browserSummary{
			ID:           b.ID,
			Name:         b.DisplayName,
			Type:         b.Type,
			ReleaseCount: len(b.Releases),
		}
		for _, r := range b.Releases {
			if r.Status == "current" {
				summary.Current = r.Version
			}
		}
		if input.Releases {
			summary.Releases = b.Releases
		}
		output.Browsers = append(output.Browsers, summary)
	}
	output.Count = len(output.Browsers)
	return nil, output, nil
}

package mcpserver

import (
	"context"
	"slices"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/bcdtools/bcderrors"
	"github.com/erraggy/bcdtools/browsers"
	"github.com/erraggy/bcdtools/feature"
	"github.com/erraggy/bcdtools/support"
)

type classifySupportInput struct {
	Document documentInput `json:"document"           jsonschema:"The compat data document"`
	Feature  string        `json:"feature"            jsonschema:"Dotted feature name\\, e.g. css.at-rules.media or html.elements.canvas.width"`
	Browsers []string      `json:"browsers,omitempty" jsonschema:"Only report these browser ids"`
	Fold     string        `json:"fold,omitempty"     jsonschema:"Fold policy for multi-entry statements: any\\, primary\\, all"`
}

type browserSupport struct {
	Browser        string `json:"browser"`
	DisplayName    string `json:"display_name"`
	Classification string `json:"classification"`
	Kind           string `json:"kind"`
	Version        string `json:"version,omitempty"`
	Entries        int    `json:"entries"`
	Partial        bool   `json:"partial,omitempty"`
	Prefixed       bool   `json:"prefixed,omitempty"`
	Flagged        bool   `json:"flagged,omitempty"`
	Notes          int    `json:"notes,omitempty"`
}

type classifySupportOutput struct {
	Name          string           `json:"name"`
	Fold          string           `json:"fold"`
	Description   string           `json:"description,omitempty"`
	MDNURL        string           `json:"mdn_url,omitempty"`
	Deprecated    string           `json:"deprecated"`
	Experimental  string           `json:"experimental"`
	StandardTrack string           `json:"standard_track"`
	Support       []browserSupport `json:"support"`
}

func handleClassifySupport(_ context.Context, _ *mcp.CallToolRequest, input classifySupportInput) (*mcp.CallToolResult, any, error) {
	if input.Feature == "" {
		return errResult(&bcderrors.ConfigError{Option: "feature", Message: "is required"}), nil, nil
	}
	fold := cfg.FoldPolicy
	if input.Fold != "" {
		p, err := parseFold(input.Fold)
		if err != nil {
			return errResult(err), nil, nil
		}
		fold = p
	}

	result, err := input.Document.resolve()
	if err != nil {
		return errResult(err), nil, nil
	}
	rec, err := feature.Lookup(result.Document, input.Feature)
	if err != nil {
		return errResult(err), nil, nil
	}
	catalog, err := browsers.FromDocument(result.Document)
	if err != nil {
		return errResult(err), nil, nil
	}

	output := classifySupportOutput{
		Name:          rec.Name,
		Fold:          fold.String(),
		Description:   deref(rec.Description),
		MDNURL:        deref(rec.MDNURL),
		Deprecated:    rec.Deprecated.String(),
		Experimental:  rec.Experimental.String(),
		StandardTrack: rec.StandardTrack.String(),
		Support:       makeSlice[browserSupport](rec.Support.Len()),
	}
	for _, id := range rec.Support.Browsers() {
		if len(input.Browsers) > 0 && !slices.Contains(input.Browsers, id) {
			continue
		}
		st, _, err := rec.Support.Statement(id)
		if err != nil {
			return errResult(err), nil, nil
		}
		output.Support = append(output.Support, describeStatement(id, catalog, st, fold))
	}
	return nil, output, nil
}

func describeStatement(id string, catalog *browsers.Catalog, st support.Statement, fold support.FoldPolicy) browserSupport {
	c := support.ClassifyStatement(st, fold)
	bs := browserSupport{
		Browser:        id,
		DisplayName:    browsers.DisplayName(id, ""),
		Classification: c.String(),
		Kind:           c.Kind.String(),
		Version:        c.Version,
		Entries:        len(st.Entries),
	}
	if b, ok := catalog.Get(id); ok {
		bs.DisplayName = b.DisplayName
	}
	for _, e := range st.Entries {
		bs.Partial = bs.Partial || e.PartialImplementation
		bs.Prefixed = bs.Prefixed || e.Prefix != "" || e.AlternativeName != ""
		bs.Flagged = bs.Flagged || len(e.Flags) > 0
		bs.Notes += len(e.Notes)
	}
	return bs
}

func parseFold(s string) (support.FoldPolicy, error) {
	p, err := support.ParseFoldPolicy(s)
	if err != nil {
		return p, &bcderrors.ConfigError{Option: "fold", Value: s, Cause: err}
	}
	return p, nil
}

// summarize reduces a record to its headline fields and one classification
// per browser.
func summarize(rec *feature.Record, fold support.FoldPolicy) featureSummary {
	s := featureSummary{
		Name:          rec.Name,
		Slug:          rec.Slug(),
		Description:   deref(rec.Description),
		MDNURL:        deref(rec.MDNURL),
		Deprecated:    rec.Deprecated.Ptr(),
		Experimental:  rec.Experimental.Ptr(),
		StandardTrack: rec.StandardTrack.Ptr(),
	}
	if rec.Support.Len() > 0 {
		s.Support = make(map[string]string, rec.Support.Len())
		for _, id := range rec.Support.Browsers() {
			c, _ := rec.Support.Classify(id, fold)
			s.Support[id] = c.String()
		}
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

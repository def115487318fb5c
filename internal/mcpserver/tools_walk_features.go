package mcpserver

import (
	"cmp"
	"context"
	"slices"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/bcdtools/bcderrors"
	"github.com/erraggy/bcdtools/feature"
	"github.com/erraggy/bcdtools/parser"
	"github.com/erraggy/bcdtools/schema"
	"github.com/erraggy/bcdtools/store"
	"github.com/erraggy/bcdtools/walker"
)

type walkFeaturesInput struct {
	Document      documentInput `json:"document"                 jsonschema:"The compat data document to walk"`
	Schema        string        `json:"schema,omitempty"         jsonschema:"YAML schema mapping each category to a list of subcategories (null walks the whole category). Defaults to css\\, html and javascript"`
	All           bool          `json:"all,omitempty"            jsonschema:"Walk every top-level category of the document instead of the schema"`
	Mode          string        `json:"mode,omitempty"           jsonschema:"Marker handling: every (default)\\, first or deepest"`
	Category      string        `json:"category,omitempty"       jsonschema:"Only features named this or nested below it (e.g. css.properties)"`
	Search        string        `json:"search,omitempty"         jsonschema:"Only features whose name contains every whitespace-separated term (case-insensitive)"`
	Browser       string        `json:"browser,omitempty"        jsonschema:"Browser id for the support filter (e.g. chrome\\, firefox\\, safari_ios)"`
	Support       string        `json:"support,omitempty"        jsonschema:"Support filter for browser: supported\\, exactly-supported\\, unsupported\\, unknown\\, no-data"`
	Fold          string        `json:"fold,omitempty"           jsonschema:"Fold policy for multi-entry statements: any\\, primary\\, all"`
	Deprecated    string        `json:"deprecated,omitempty"     jsonschema:"Filter on the deprecated flag: true\\, false or unknown"`
	Experimental  string        `json:"experimental,omitempty"   jsonschema:"Filter on the experimental flag: true\\, false or unknown"`
	StandardTrack string        `json:"standard_track,omitempty" jsonschema:"Filter on the standard_track flag: true\\, false or unknown"`
	Has           []string      `json:"has,omitempty"            jsonschema:"Fields that must be present: description\\, mdn_url\\, spec_url"`
	Detail        bool          `json:"detail,omitempty"         jsonschema:"Return full records with raw support statements instead of summaries"`
	GroupBy       string        `json:"group_by,omitempty"       jsonschema:"Return counts grouped by category instead of features"`
	Limit         int           `json:"limit,omitempty"          jsonschema:"Maximum number of results to return (default 100)"`
	Offset        int           `json:"offset,omitempty"         jsonschema:"Skip the first N results (for pagination)"`
}

type featureSummary struct {
	Name          string            `json:"name"`
	Slug          string            `json:"slug"`
	Description   string            `json:"description,omitempty"`
	MDNURL        string            `json:"mdn_url,omitempty"`
	Deprecated    *bool             `json:"deprecated,omitempty"`
	Experimental  *bool             `json:"experimental,omitempty"`
	StandardTrack *bool             `json:"standard_track,omitempty"`
	Support       map[string]string `json:"support,omitempty"`
}

type walkFeaturesOutput struct {
	Total           int              `json:"total"`
	Matched         int              `json:"matched"`
	Returned        int              `json:"returned"`
	MissingBranches []string         `json:"missing_branches,omitempty"`
	Summaries       []featureSummary `json:"summaries,omitempty"`
	Features        []feature.Record `json:"features,omitempty"`
	Groups          []groupCount     `json:"groups,omitempty"`
}

func handleWalkFeatures(ctx context.Context, _ *mcp.CallToolRequest, input walkFeaturesInput) (*mcp.CallToolResult, any, error) {
	result, err := input.Document.resolve()
	if err != nil {
		return errResult(err), nil, nil
	}
	s, err := resolveSchema(result.Document, input.Schema, input.All)
	if err != nil {
		return errResult(err), nil, nil
	}
	mode, err := walker.ParseMode(input.Mode)
	if err != nil {
		return errResult(err), nil, nil
	}
	filter := store.Filter{
		Category:      input.Category,
		Search:        input.Search,
		Browser:       input.Browser,
		Support:       input.Support,
		Fold:          input.Fold,
		Deprecated:    input.Deprecated,
		Experimental:  input.Experimental,
		StandardTrack: input.StandardTrack,
		Has:           input.Has,
	}
	q, err := filter.Query(cfg.FoldPolicy)
	if err != nil {
		return errResult(err), nil, nil
	}

	var missing []string
	records, err := walker.Collect(result.Document, s,
		walker.WithContext(ctx),
		walker.WithMode(mode),
		walker.WithBranchMissingHandler(func(category, subcategory string) {
			missing = append(missing, schema.Branch{Category: category, Subcategory: subcategory}.String())
		}),
	)
	if err != nil {
		return errResult(err), nil, nil
	}

	matched := feature.Filter(records, q.Match())
	output := walkFeaturesOutput{
		Total:           len(records),
		Matched:         len(matched),
		MissingBranches: missing,
	}

	if input.GroupBy != "" {
		if input.GroupBy != "category" {
			return errResult(&bcderrors.ConfigError{Option: "group_by", Value: input.GroupBy, Message: "only category is supported"}), nil, nil
		}
		output.Groups = groupByCategory(matched)
		output.Returned = len(output.Groups)
		return nil, output, nil
	}

	returned := paginate(matched, input.Offset, input.Limit)
	output.Returned = len(returned)
	if input.Detail {
		output.Features = returned
		return nil, output, nil
	}
	fold := cfg.FoldPolicy
	if input.Fold != "" {
		// already validated by filter.Query
		fold, _ = parseFold(input.Fold)
	}
	output.Summaries = makeSlice[featureSummary](len(returned))
	for i := range returned {
		output.Summaries = append(output.Summaries, summarize(&returned[i], fold))
	}
	return nil, output, nil
}

// resolveSchema picks the schema for a walk: every document category when
// all is set, the inline YAML when given, the built-in schema otherwise.
func resolveSchema(doc *parser.Document, inline string, all bool) (*schema.Schema, error) {
	switch {
	case all:
		return schema.FromDocument(doc), nil
	case inline != "":
		return schema.Parse([]byte(inline))
	default:
		return schema.Default(), nil
	}
}

func groupByCategory(records []feature.Record) []groupCount {
	counts := make(map[string]int)
	for i := range records {
		counts[records[i].Category()]++
	}
	groups := make([]groupCount, 0, len(counts))
	for k, n := range counts {
		groups = append(groups, groupCount{Key: k, Count: n})
	}
	slices.SortFunc(groups, func(a, b groupCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Key, b.Key)
	})
	return groups
}

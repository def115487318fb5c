package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/erraggy/bcdtools/feature"
	"github.com/erraggy/bcdtools/schema"
	"github.com/erraggy/bcdtools/store"
	"github.com/erraggy/bcdtools/support"
	"github.com/erraggy/bcdtools/walker"
)

// WalkFlags contains flags for the walk command.
type WalkFlags struct {
	commonFlags

	Schema      string
	All         bool
	Mode        string
	Deepest     bool
	Concurrency int
	MaxDepth    int
	Detail      bool
	Limit       int
	Offset      int

	Filter store.Filter
}

// SetupWalkFlags creates and configures a FlagSet for the walk command.
func SetupWalkFlags() (*flag.FlagSet, *WalkFlags) {
	fs := flag.NewFlagSet("walk", flag.ContinueOnError)
	flags := &WalkFlags{}
	flags.register(fs)

	fs.StringVar(&flags.Schema, "schema", "", "YAML schema file listing categories and subcategories to walk")
	fs.BoolVar(&flags.All, "all", false, "walk every category of the document")
	fs.StringVar(&flags.Mode, "mode", "every", "marker handling: every, first, deepest")
	fs.BoolVar(&flags.Deepest, "deepest", false, "shorthand for --mode deepest")
	fs.IntVar(&flags.Concurrency, "concurrency", 1, "number of branches built in parallel")
	fs.IntVar(&flags.MaxDepth, "max-depth", walker.DefaultMaxDepth, "maximum feature path length")
	fs.BoolVar(&flags.Detail, "detail", false, "include raw support statements in structured output")
	fs.IntVar(&flags.Limit, "limit", 0, "maximum number of records to print (0 prints all)")
	fs.IntVar(&flags.Offset, "offset", 0, "skip the first N matching records")

	f := &flags.Filter
	fs.StringVar(&f.Category, "category", "", "only features named this or nested below it")
	fs.StringVar(&f.Search, "search", "", "only features whose name contains every term")
	fs.StringVar(&f.Browser, "browser", "", "browser id for --support and the SUPPORT column")
	fs.StringVar(&f.Support, "support", "", "support filter: supported, exactly-supported, unsupported, unknown, no-data")
	fs.StringVar(&f.Fold, "fold", "", "fold policy for multi-entry statements: any, primary, all")
	fs.StringVar(&f.Deprecated, "deprecated", "", "filter on deprecated: true, false, unknown")
	fs.StringVar(&f.Experimental, "experimental", "", "filter on experimental: true, false, unknown")
	fs.StringVar(&f.StandardTrack, "standard-track", "", "filter on standard_track: true, false, unknown")
	fs.Func("has", "require a field: description, mdn_url, spec_url (repeatable)", func(v string) error {
		f.Has = append(f.Has, v)
		return nil
	})

	fs.Usage = func() {
		output := fs.Output()
		Writef(output, "Usage: bcdtools walk [flags] <file|url|->\n\n")
		Writef(output, "Walk a browser compatibility data document and list feature records.\n\n")
		Writef(output, "Flags:\n")
		fs.PrintDefaults()
		Writef(output, "\nExamples:\n")
		Writef(output, "  bcdtools walk data.json\n")
		Writef(output, "  bcdtools walk --all --category api --browser firefox --support unsupported data.json\n")
		Writef(output, "  bcdtools walk --schema schema.yaml --format yaml data.json\n")
		Writef(output, "  bcdtools walk --deprecated true --has mdn_url -q data.json | cut -f1\n")
	}

	return fs, flags
}

// HandleWalk executes the walk command.
func HandleWalk(args []string) error {
	return runWalk(context.Background(), os.Stdout, os.Stderr, args)
}

func runWalk(ctx context.Context, stdout, stderr io.Writer, args []string) error {
	fs, flags := SetupWalkFlags()
	fs.SetOutput(stderr)
	if stop, err := parseFlagSet(fs, args); stop {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("walk command requires exactly one file path, URL, or '-' for stdin")
	}
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}
	if flags.Deepest {
		flags.Mode = walker.ModeDeepest.String()
	}
	mode, err := walker.ParseMode(flags.Mode)
	if err != nil {
		return err
	}
	fold := support.DefaultFoldPolicy
	if flags.Filter.Fold != "" {
		if fold, err = support.ParseFoldPolicy(flags.Filter.Fold); err != nil {
			return err
		}
	}
	q, err := flags.Filter.Query(fold)
	if err != nil {
		return err
	}
	q.Offset, q.Limit = flags.Offset, flags.Limit

	docPath := fs.Arg(0)
	logger := newLogger(stderr, &flags.commonFlags)
	result, err := loadDocument(docPath, logger)
	if err != nil {
		return err
	}
	s, err := loadSchema(flags.Schema, flags.All, result.Document)
	if err != nil {
		return err
	}

	if !flags.Quiet {
		outputDocHeader(stderr, docPath, result)
	}

	var missing []string
	records, err := walker.Collect(result.Document, s,
		walker.WithContext(ctx),
		walker.WithLogger(logger),
		walker.WithMode(mode),
		walker.WithConcurrency(flags.Concurrency),
		walker.WithMaxDepth(flags.MaxDepth),
		walker.WithBranchMissingHandler(func(category, subcategory string) {
			missing = append(missing, schema.Branch{Category: category, Subcategory: subcategory}.String())
		}),
	)
	if err != nil {
		return err
	}

	matching := feature.Filter(records, q.Match())
	shown := matching
	if flags.Limit > 0 || flags.Offset > 0 {
		shown = pageRecords(matching, flags.Offset, flags.Limit)
	}

	if !flags.Quiet {
		Writef(stderr, "Records: %d (matched %d)\n", len(records), len(matching))
		if len(missing) > 0 {
			Writef(stderr, "Missing Branches: %s\n", strings.Join(missing, ", "))
		}
		Writef(stderr, "\n")
	}

	if flags.Format != FormatText {
		if flags.Detail {
			return RenderStructured(stdout, shown, flags.Format)
		}
		return RenderStructured(stdout, summaryRows(shown, flags.Filter.Browser, fold), flags.Format)
	}

	headers, rows := walkTable(shown, flags.Filter.Browser, fold)
	RenderSummaryTable(stdout, headers, rows, flags.Quiet || !isTerminal(stdout))
	if len(shown) == 0 && !flags.Quiet {
		Writef(stderr, "No features matched the given filters.\n")
	}
	return nil
}

// pageRecords returns records[offset:offset+limit]; limit 0 means no limit.
func pageRecords(records []feature.Record, offset, limit int) []feature.Record {
	if offset >= len(records) {
		return nil
	}
	records = records[max(offset, 0):]
	if limit > 0 && limit < len(records) {
		records = records[:limit]
	}
	return records
}

// featureRow is the structured form of one row of walk output.
type featureRow struct {
	Name          string            `json:"name" yaml:"name"`
	Slug          string            `json:"slug" yaml:"slug"`
	Deprecated    string            `json:"deprecated" yaml:"deprecated"`
	Experimental  string            `json:"experimental" yaml:"experimental"`
	StandardTrack string            `json:"standard_track" yaml:"standard_track"`
	MDNURL        string            `json:"mdn_url,omitempty" yaml:"mdn_url,omitempty"`
	Support       map[string]string `json:"support,omitempty" yaml:"support,omitempty"`
}

func summaryRows(records []feature.Record, browser string, fold support.FoldPolicy) []featureRow {
	rows := make([]featureRow, 0, len(records))
	for i := range records {
		rec := &records[i]
		row := featureRow{
			Name:          rec.Name,
			Slug:          rec.Slug(),
			Deprecated:    rec.Deprecated.String(),
			Experimental:  rec.Experimental.String(),
			StandardTrack: rec.StandardTrack.String(),
		}
		if rec.MDNURL != nil {
			row.MDNURL = *rec.MDNURL
		}
		ids := rec.Support.Browsers()
		if browser != "" {
			ids = []string{browser}
		}
		if len(ids) > 0 {
			row.Support = make(map[string]string, len(ids))
			for _, id := range ids {
				c, present := rec.Support.Classify(id, fold)
				row.Support[id] = classificationText(c, present)
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func walkTable(records []feature.Record, browser string, fold support.FoldPolicy) ([]string, [][]string) {
	headers := []string{"NAME", "STATUS", "BROWSERS"}
	if browser != "" {
		headers = append(headers, strings.ToUpper(browser))
	}
	rows := make([][]string, 0, len(records))
	for i := range records {
		rec := &records[i]
		row := []string{rec.Name, statusFlags(rec), strconv.Itoa(rec.Support.Len())}
		if browser != "" {
			c, present := rec.Support.Classify(browser, fold)
			row = append(row, classificationText(c, present))
		}
		rows = append(rows, row)
	}
	return headers, rows
}

// statusFlags abbreviates the status flags: D deprecated, E experimental,
// S standard track, "-" for false and "?" for unknown.
func statusFlags(rec *feature.Record) string {
	mark := func(letter byte, t feature.Tristate) byte {
		switch t {
		case feature.TristateTrue:
			return letter
		case feature.TristateFalse:
			return '-'
		default:
			return '?'
		}
	}
	return string([]byte{
		mark('D', rec.Deprecated),
		mark('E', rec.Experimental),
		mark('S', rec.StandardTrack),
	})
}

func classificationText(c support.Classification, present bool) string {
	if !present {
		return "no data"
	}
	return c.String()
}

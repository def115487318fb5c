package commands

import (
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/erraggy/bcdtools/browsers"
	"github.com/erraggy/bcdtools/feature"
	"github.com/erraggy/bcdtools/support"
)

// ClassifyFlags contains flags for the classify command.
type ClassifyFlags struct {
	commonFlags
	Fold     string
	Browsers []string
}

// SetupClassifyFlags creates and configures a FlagSet for the classify command.
func SetupClassifyFlags() (*flag.FlagSet, *ClassifyFlags) {
	fs := flag.NewFlagSet("classify", flag.ContinueOnError)
	flags := &ClassifyFlags{}
	flags.register(fs)
	fs.StringVar(&flags.Fold, "fold", support.DefaultFoldPolicy.String(), "fold policy for multi-entry statements: any, primary, all")
	fs.Func("browser", "only report this browser id (repeatable, or comma-separated)", func(v string) error {
		for id := range strings.SplitSeq(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				flags.Browsers = append(flags.Browsers, id)
			}
		}
		return nil
	})

	fs.Usage = func() {
		output := fs.Output()
		Writef(output, "Usage: bcdtools classify [flags] <feature> <file|url|->\n\n")
		Writef(output, "Classify support for one feature in every browser with a statement for it.\n\n")
		Writef(output, "Flags:\n")
		fs.PrintDefaults()
		Writef(output, "\nExamples:\n")
		Writef(output, "  bcdtools classify css.at-rules.media data.json\n")
		Writef(output, "  bcdtools classify --fold all --browser chrome,firefox css.at-rules.page data.json\n")
	}
	return fs, flags
}

// classifyRow is one browser in classify output.
type classifyRow struct {
	Browser        string `json:"browser" yaml:"browser"`
	Name           string `json:"name" yaml:"name"`
	Classification string `json:"classification" yaml:"classification"`
	Version        string `json:"version,omitempty" yaml:"version,omitempty"`
	Entries        int    `json:"entries" yaml:"entries"`
	Notes          int    `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// HandleClassify executes the classify command.
func HandleClassify(args []string) error {
	return runClassify(os.Stdout, os.Stderr, args)
}

func runClassify(stdout, stderr io.Writer, args []string) error {
	fs, flags := SetupClassifyFlags()
	fs.SetOutput(stderr)
	if stop, err := parseFlagSet(fs, args); stop {
		return err
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return fmt.Errorf("classify command requires a feature name and a document")
	}
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}
	fold, err := support.ParseFoldPolicy(flags.Fold)
	if err != nil {
		return err
	}

	result, err := loadDocument(fs.Arg(1), newLogger(stderr, &flags.commonFlags))
	if err != nil {
		return err
	}
	rec, err := feature.Lookup(result.Document, fs.Arg(0))
	if err != nil {
		return err
	}
	catalog, err := browsers.FromDocument(result.Document)
	if err != nil {
		return err
	}

	var rows []classifyRow
	for _, id := range rec.Support.Browsers() {
		if len(flags.Browsers) > 0 && !slices.Contains(flags.Browsers, id) {
			continue
		}
		st, _, err := rec.Support.Statement(id)
		if err != nil {
			return err
		}
		c := support.ClassifyStatement(st, fold)
		row := classifyRow{
			Browser:        id,
			Name:           browsers.DisplayName(id, ""),
			Classification: c.String(),
			Version:        c.Version,
			Entries:        len(st.Entries),
		}
		if b, ok := catalog.Get(id); ok {
			row.Name = b.DisplayName
		}
		for _, e := range st.Entries {
			row.Notes += len(e.Notes)
		}
		rows = append(rows, row)
	}
	if unknown := catalog.Unknown(rec.Support.Browsers()); len(unknown) > 0 && !flags.Quiet {
		Writef(stderr, "Browsers not in the document catalog: %s\n", strings.Join(unknown, ", "))
	}

	if flags.Format != FormatText {
		return RenderStructured(stdout, rows, flags.Format)
	}
	if !flags.Quiet {
		Writef(stderr, "Feature: %s (fold: %s)\n\n", rec.Name, fold)
	}
	table := make([][]string, 0, len(rows))
	for _, r := range rows {
		table = append(table, []string{r.Browser, r.Name, r.Classification, strconv.Itoa(r.Entries)})
	}
	RenderSummaryTable(stdout, []string{"BROWSER", "NAME", "SUPPORT", "ENTRIES"}, table, flags.Quiet || !isTerminal(stdout))
	return nil
}

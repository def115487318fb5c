package commands

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/erraggy/bcdtools/browsers"
)

// BrowsersFlags contains flags for the browsers command.
type BrowsersFlags struct {
	commonFlags
	Type     string
	Releases bool
}

// SetupBrowsersFlags creates and configures a FlagSet for the browsers command.
func SetupBrowsersFlags() (*flag.FlagSet, *BrowsersFlags) {
	fs := flag.NewFlagSet("browsers", flag.ContinueOnError)
	flags := &BrowsersFlags{}
	flags.register(fs)
	fs.StringVar(&flags.Type, "type", "", "only browsers of this type (desktop, mobile, ...)")
	fs.BoolVar(&flags.Releases, "releases", false, "list every release instead of one row per browser")

	fs.Usage = func() {
		output := fs.Output()
		Writef(output, "Usage: bcdtools browsers [flags] <file|url|->\n\n")
		Writef(output, "List the browsers declared in a compat data document.\n\n")
		Writef(output, "Flags:\n")
		fs.PrintDefaults()
		Writef(output, "\nExamples:\n")
		Writef(output, "  bcdtools browsers data.json\n")
		Writef(output, "  bcdtools browsers --type mobile --releases --format json data.json\n")
	}
	return fs, flags
}

// HandleBrowsers executes the browsers command.
func HandleBrowsers(args []string) error {
	return runBrowsers(os.Stdout, os.Stderr, args)
}

func runBrowsers(stdout, stderr io.Writer, args []string) error {
	fs, flags := SetupBrowsersFlags()
	fs.SetOutput(stderr)
	if stop, err := parseFlagSet(fs, args); stop {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("browsers command requires exactly one file path, URL, or '-' for stdin")
	}
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	result, err := loadDocument(fs.Arg(0), newLogger(stderr, &flags.commonFlags))
	if err != nil {
		return err
	}
	catalog, err := browsers.FromDocument(result.Document)
	if err != nil {
		return err
	}

	var selected []browsers.Browser
	for _, b := range catalog.All() {
		if flags.Type == "" || b.Type == flags.Type {
			selected = append(selected, b)
		}
	}

	if flags.Format != FormatText {
		if !flags.Releases {
			for i := range selected {
				selected[i].Releases = nil
			}
		}
		return RenderStructured(stdout, selected, flags.Format)
	}

	quiet := flags.Quiet || !isTerminal(stdout)
	if flags.Releases {
		var rows [][]string
		for _, b := range selected {
			for _, r := range b.Releases {
				rows = append(rows, []string{b.ID, r.Version, r.ReleaseDate, r.Status, r.Engine + " " + r.EngineVersion})
			}
		}
		RenderSummaryTable(stdout, []string{"BROWSER", "VERSION", "DATE", "STATUS", "ENGINE"}, rows, quiet)
		return nil
	}

	rows := make([][]string, 0, len(selected))
	for _, b := range selected {
		rows = append(rows, []string{b.ID, b.DisplayName, b.Type, strconv.Itoa(len(b.Releases))})
	}
	RenderSummaryTable(stdout, []string{"ID", "NAME", "TYPE", "RELEASES"}, rows, quiet)
	return nil
}

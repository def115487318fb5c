// Package commands provides CLI command handlers for bcdtools.
package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.yaml.in/yaml/v4"
	"golang.org/x/term"

	"github.com/erraggy/bcdtools"
	"github.com/erraggy/bcdtools/parser"
	"github.com/erraggy/bcdtools/schema"
)

// Output format constants
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// StdinFilePath is the special file path used to indicate reading from stdin.
const StdinFilePath = "-"

// ValidateOutputFormat validates an output format and returns an error if invalid.
func ValidateOutputFormat(format string) error {
	if format != FormatText && format != FormatJSON && format != FormatYAML {
		return fmt.Errorf("invalid format '%s'. Valid formats: %s, %s, %s", format, FormatText, FormatJSON, FormatYAML)
	}
	return nil
}

// Writef writes formatted output to the writer.
// If the write fails, it logs to stderr (useful for debugging).
func Writef(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil { //nolint:gosec // G705 - CLI tool, not a web server
		_, _ = fmt.Fprintf(os.Stderr, "write error: %v\n", err)
	}
}

// FormatDocPath returns a display-friendly path for the document.
func FormatDocPath(path string) string {
	if path == StdinFilePath {
		return "<stdin>"
	}
	return path
}

// commonFlags are shared by every command that reads a document.
type commonFlags struct {
	Format  string
	Quiet   bool
	Verbose bool
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.Format, "format", FormatText, "output format: text, json, yaml")
	fs.BoolVar(&c.Quiet, "q", false, "quiet mode: no headers or diagnostics")
	fs.BoolVar(&c.Quiet, "quiet", false, "quiet mode: no headers or diagnostics")
	fs.BoolVar(&c.Verbose, "v", false, "verbose logging to stderr")
	fs.BoolVar(&c.Verbose, "verbose", false, "verbose logging to stderr")
}

// newLogger returns the logger used by commands: warnings and errors on
// stderr, debug output with --verbose, nothing in quiet mode.
func newLogger(w io.Writer, c *commonFlags) parser.Logger {
	if c.Quiet && !c.Verbose {
		return parser.NopLogger{}
	}
	level := slog.LevelWarn
	if c.Verbose {
		level = slog.LevelDebug
	}
	return parser.NewSlogAdapter(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// parseFlagSet parses args and reports whether the command should stop
// without error (help was requested).
func parseFlagSet(fs *flag.FlagSet, args []string) (stop bool, err error) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return true, nil
		}
		return true, err
	}
	return false, nil
}

// loadDocument parses a compat document from a file path, URL, or stdin ("-").
func loadDocument(path string, logger parser.Logger) (*parser.ParseResult, error) {
	p := parser.New()
	p.Logger = logger
	result, err := p.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", FormatDocPath(path), err)
	}
	return result, nil
}

// loadSchema resolves the --schema and --all flags.
func loadSchema(path string, all bool, doc *parser.Document) (*schema.Schema, error) {
	switch {
	case all && path != "":
		return nil, fmt.Errorf("--all and --schema are mutually exclusive")
	case all:
		return schema.FromDocument(doc), nil
	case path != "":
		return schema.Load(path)
	default:
		return schema.Default(), nil
	}
}

// outputDocHeader writes the document summary to stderr.
func outputDocHeader(w io.Writer, path string, result *parser.ParseResult) {
	Writef(w, "bcdtools version: %s\n", bcdtools.Version())
	Writef(w, "Document: %s\n", FormatDocPath(path))
	Writef(w, "Source Size: %s\n", parser.FormatBytes(result.SourceSize))
	Writef(w, "Categories: %d\n", result.Stats.CategoryCount)
	Writef(w, "Browsers: %d\n", result.Stats.BrowserCount)
	Writef(w, "Compat Nodes: %d\n", result.Stats.CompatNodeCount)
	Writef(w, "Load Time: %v\n\n", result.LoadTime)
}

// isTerminal reports whether w is a terminal. Tables written elsewhere drop
// padding and headers so they can be piped.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec // G115: fd fits in int
}

// RenderSummaryTable renders a table of results.
// In quiet mode, headers are omitted and rows are tab-separated for piping.
// In normal mode, a fixed-width table with headers is rendered.
func RenderSummaryTable(w io.Writer, headers []string, rows [][]string, quiet bool) {
	if len(rows) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	if !quiet {
		writeRow(w, headers, widths)
	}
	for _, row := range rows {
		if quiet {
			Writef(w, "%s\n", strings.Join(row, "\t"))
			continue
		}
		writeRow(w, row, widths)
	}
}

func writeRow(w io.Writer, cells []string, widths []int) {
	var b strings.Builder
	for i, cell := range cells {
		if i > 0 {
			b.WriteString("  ")
		}
		if i == len(cells)-1 {
			b.WriteString(cell)
			continue
		}
		fmt.Fprintf(&b, "%-*s", widths[i], cell)
	}
	Writef(w, "%s\n", b.String())
}

// RenderStructured renders v as JSON or YAML.
func RenderStructured(w io.Writer, v any, format string) error {
	var data []byte
	var err error

	switch format {
	case FormatJSON:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		err = enc.Encode(v)
		data = buf.Bytes()
	case FormatYAML:
		data, err = yaml.Marshal(v)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
	if err != nil {
		return fmt.Errorf("marshaling output: %w", err)
	}

	if _, err := fmt.Fprintln(w, strings.TrimRight(string(data), "\n")); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

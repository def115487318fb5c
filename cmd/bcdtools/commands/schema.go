package commands

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/erraggy/bcdtools/schema"
)

// SchemaFlags contains flags for the schema command.
type SchemaFlags struct {
	commonFlags
	Schema string
	All    bool
}

// SetupSchemaFlags creates and configures a FlagSet for the schema command.
func SetupSchemaFlags() (*flag.FlagSet, *SchemaFlags) {
	fs := flag.NewFlagSet("schema", flag.ContinueOnError)
	flags := &SchemaFlags{}
	flags.register(fs)
	fs.StringVar(&flags.Schema, "schema", "", "YAML schema file to check instead of the built-in schema")
	fs.BoolVar(&flags.All, "all", false, "print the schema covering every category of the document")

	fs.Usage = func() {
		output := fs.Output()
		Writef(output, "Usage: bcdtools schema [flags] [<file|url|->]\n\n")
		Writef(output, "Print a walk schema, and check it against a document when one is given.\n")
		Writef(output, "Exits with an error when any schema branch is missing from the document.\n\n")
		Writef(output, "Flags:\n")
		fs.PrintDefaults()
		Writef(output, "\nExamples:\n")
		Writef(output, "  bcdtools schema > schema.yaml\n")
		Writef(output, "  bcdtools schema --all data.json\n")
		Writef(output, "  bcdtools schema --schema schema.yaml data.json\n")
	}
	return fs, flags
}

// HandleSchema executes the schema command.
func HandleSchema(args []string) error {
	return runSchema(os.Stdout, os.Stderr, args)
}

func runSchema(stdout, stderr io.Writer, args []string) error {
	fs, flags := SetupSchemaFlags()
	fs.SetOutput(stderr)
	if stop, err := parseFlagSet(fs, args); stop {
		return err
	}
	if fs.NArg() > 1 {
		fs.Usage()
		return fmt.Errorf("schema command takes at most one document")
	}
	format := flags.Format
	if format == FormatText {
		format = FormatYAML
	}
	if err := ValidateOutputFormat(format); err != nil {
		return err
	}

	if fs.NArg() == 0 {
		if flags.All {
			return fmt.Errorf("--all requires a document")
		}
		s := schema.Default()
		if flags.Schema != "" {
			loaded, err := schema.Load(flags.Schema)
			if err != nil {
				return err
			}
			s = loaded
		}
		return RenderStructured(stdout, s, format)
	}

	result, err := loadDocument(fs.Arg(0), newLogger(stderr, &flags.commonFlags))
	if err != nil {
		return err
	}
	s, err := loadSchema(flags.Schema, flags.All, result.Document)
	if err != nil {
		return err
	}
	if err := RenderStructured(stdout, s, format); err != nil {
		return err
	}

	issues := s.Validate(result.Document)
	if len(issues) == 0 {
		return nil
	}
	if !flags.Quiet {
		Writef(stderr, "\nSchema Issues:\n")
		for _, issue := range issues {
			Writef(stderr, "  - %s\n", issue)
		}
	}
	return fmt.Errorf("%d schema branch(es) missing from %s", len(issues), FormatDocPath(fs.Arg(0)))
}

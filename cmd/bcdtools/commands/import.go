package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/erraggy/bcdtools/bcderrors"
	"github.com/erraggy/bcdtools/store"
	"github.com/erraggy/bcdtools/store/postgres"
	"github.com/erraggy/bcdtools/walker"
)

// DSNEnvVar names the environment variable holding the Postgres DSN.
const DSNEnvVar = "BCDTOOLS_DSN"

// ImportFlags contains flags for the import command.
type ImportFlags struct {
	commonFlags
	DSN         string
	EnvFile     string
	Conflict    string
	Schema      string
	All         bool
	Concurrency int
	Migrate     bool
	DryRun      bool
}

// SetupImportFlags creates and configures a FlagSet for the import command.
func SetupImportFlags() (*flag.FlagSet, *ImportFlags) {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	flags := &ImportFlags{}
	flags.register(fs)
	fs.StringVar(&flags.DSN, "dsn", "", "Postgres connection string (default $"+DSNEnvVar+")")
	fs.StringVar(&flags.EnvFile, "env-file", ".env", "dotenv file read before resolving $"+DSNEnvVar)
	fs.StringVar(&flags.Conflict, "conflict", store.ConflictReject.String(), "duplicate feature policy: reject, keep-first, last-write-wins")
	fs.StringVar(&flags.Schema, "schema", "", "YAML schema file listing categories and subcategories to import")
	fs.BoolVar(&flags.All, "all", false, "import every category of the document")
	fs.IntVar(&flags.Concurrency, "concurrency", 1, "number of branches built in parallel")
	fs.BoolVar(&flags.Migrate, "migrate", true, "create the features table if needed")
	fs.BoolVar(&flags.DryRun, "dry-run", false, "import into memory and report what would change")

	fs.Usage = func() {
		output := fs.Output()
		Writef(output, "Usage: bcdtools import [flags] <file|url|->\n\n")
		Writef(output, "Walk a compat data document and store every feature record in Postgres.\n\n")
		Writef(output, "Flags:\n")
		fs.PrintDefaults()
		Writef(output, "\nExamples:\n")
		Writef(output, "  BCDTOOLS_DSN=postgres://localhost/bcd bcdtools import data.json\n")
		Writef(output, "  bcdtools import --all --conflict last-write-wins --dsn postgres://localhost/bcd data.json\n")
		Writef(output, "  bcdtools import --dry-run data.json\n")
	}
	return fs, flags
}

// importReport is the structured result of an import.
type importReport struct {
	Walked    int      `json:"walked" yaml:"walked"`
	Created   int      `json:"created" yaml:"created"`
	Replaced  int      `json:"replaced" yaml:"replaced"`
	Kept      int      `json:"kept" yaml:"kept"`
	Conflicts []string `json:"conflicts,omitempty" yaml:"conflicts,omitempty"`
	Stored    int      `json:"stored" yaml:"stored"`
	DryRun    bool     `json:"dry_run,omitempty" yaml:"dry_run,omitempty"`
}

// HandleImport executes the import command.
func HandleImport(args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return runImport(ctx, os.Stdout, os.Stderr, args)
}

func runImport(ctx context.Context, stdout, stderr io.Writer, args []string) error {
	fset, flags := SetupImportFlags()
	fset.SetOutput(stderr)
	if stop, err := parseFlagSet(fset, args); stop {
		return err
	}
	if fset.NArg() != 1 {
		fset.Usage()
		return fmt.Errorf("import command requires exactly one file path, URL, or '-' for stdin")
	}
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}
	policy, err := store.ParseConflictPolicy(flags.Conflict)
	if err != nil {
		return err
	}

	logger := newLogger(stderr, &flags.commonFlags)
	opts := []store.Option{store.WithConflictPolicy(policy), store.WithLogger(logger)}

	var st store.Store
	if flags.DryRun {
		st = store.NewMemory(opts...)
	} else {
		dsn, err := resolveDSN(flags.DSN, flags.EnvFile)
		if err != nil {
			return err
		}
		pg, err := postgres.Connect(ctx, dsn, opts...)
		if err != nil {
			return err
		}
		defer pg.Close()
		if flags.Migrate {
			if err := pg.Migrate(ctx); err != nil {
				return err
			}
		}
		st = pg
	}

	docPath := fset.Arg(0)
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

	records, err := walker.Collect(result.Document, s,
		walker.WithContext(ctx),
		walker.WithLogger(logger),
		walker.WithConcurrency(flags.Concurrency),
	)
	if err != nil {
		return err
	}

	summary, err := store.PutAll(ctx, st, records)
	if err != nil {
		return err
	}
	stored, err := st.Count(ctx)
	if err != nil {
		return err
	}

	report := importReport{
		Walked:   len(records),
		Created:  summary.Created,
		Replaced: summary.Replaced,
		Kept:     summary.Kept,
		Stored:   stored,
		DryRun:   flags.DryRun,
	}
	for _, c := range summary.Conflicts {
		report.Conflicts = append(report.Conflicts, c.Error())
	}

	if flags.Format != FormatText {
		return RenderStructured(stdout, report, flags.Format)
	}
	Writef(stdout, "Walked: %d\nCreated: %d\nReplaced: %d\nKept: %d\nStored: %d\n",
		report.Walked, report.Created, report.Replaced, report.Kept, report.Stored)
	for _, c := range report.Conflicts {
		Writef(stdout, "Conflict: %s\n", c)
	}
	return nil
}

// resolveDSN returns flagDSN, or $BCDTOOLS_DSN after loading envFile. A
// missing env file is not an error.
func resolveDSN(flagDSN, envFile string) (string, error) {
	if flagDSN != "" {
		return flagDSN, nil
	}
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", &bcderrors.ConfigError{Option: "env-file", Value: envFile, Cause: err}
		}
	}
	if dsn := os.Getenv(DSNEnvVar); dsn != "" {
		return dsn, nil
	}
	return "", &bcderrors.ConfigError{Option: "dsn", Message: "no connection string: pass --dsn or set " + DSNEnvVar}
}

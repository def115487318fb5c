package main

import (
	"fmt"
	"os"

	"github.com/erraggy/bcdtools"
	"github.com/erraggy/bcdtools/cmd/bcdtools/commands"
)

// commandHandlers maps command names to their handlers.
var commandHandlers = map[string]func([]string) error{
	"walk":     commands.HandleWalk,
	"browsers": commands.HandleBrowsers,
	"classify": commands.HandleClassify,
	"schema":   commands.HandleSchema,
	"import":   commands.HandleImport,
	"mcp":      commands.HandleMCP,
}

// commandNames lists every command for suggestions, including built-ins.
var commandNames = []string{"walk", "browsers", "classify", "schema", "import", "mcp", "version", "help"}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version", "-v", "--version":
		fmt.Printf("bcdtools %s\n", bcdtools.Version())
		if len(os.Args) > 2 && (os.Args[2] == "-l" || os.Args[2] == "--long") {
			fmt.Println(bcdtools.BuildInfo())
		}
		return
	case "help", "-h", "--help":
		printUsage()
		return
	}

	handler, ok := commandHandlers[command]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		if suggestion := suggestCommand(command); suggestion != "" {
			fmt.Fprintf(os.Stderr, "Did you mean '%s'?\n", suggestion)
		}
		fmt.Fprintln(os.Stderr)
		printUsage()
		os.Exit(1)
	}
	if err := handler(os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// suggestCommand returns the closest command within edit distance 2, or "".
func suggestCommand(input string) string {
	best, bestDist := "", 3
	for _, name := range commandNames {
		if d := levenshtein(input, name); d < bestDist {
			best, bestDist = name, d
		}
	}
	return best
}

func levenshtein(a, b string) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

func printUsage() {
	fmt.Println(`bcdtools - Browser Compatibility Data Tools

Usage:
  bcdtools <command> [options]

Commands:
  walk        Walk a compat data document and list feature records
  browsers    List the browsers declared in a document
  classify    Classify support for one feature in every browser
  schema      Print a walk schema and check it against a document
  import      Store feature records in Postgres
  mcp         Serve bcdtools as MCP tools over stdio
  version     Show version information
  help        Show this help message

Examples:
  bcdtools walk data.json
  bcdtools walk --all --browser safari_ios --support unsupported data.json
  bcdtools classify css.at-rules.media data.json
  bcdtools import --conflict keep-first --dsn postgres://localhost/bcd data.json

Run 'bcdtools <command> --help' for more information on a command.`)
}

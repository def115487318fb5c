package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/erraggy/bcdtools/internal/mcpserver"
)

// HandleMCP runs the MCP server on stdin/stdout until the client
// disconnects or the process is interrupted.
func HandleMCP(args []string) error {
	if len(args) > 0 {
		if args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
			Writef(os.Stderr, "Usage: bcdtools mcp\n\n")
			Writef(os.Stderr, "Serve bcdtools as MCP tools over stdio. Configure with BCDTOOLS_* environment variables.\n")
			return nil
		}
		return fmt.Errorf("mcp command takes no arguments")
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return mcpserver.Run(ctx)
}

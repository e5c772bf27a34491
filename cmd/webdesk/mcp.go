package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/webdesk/internal/config"
	"github.com/1broseidon/webdesk/internal/desk"
	"github.com/1broseidon/webdesk/internal/mcp"
)

func printMCPUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: webdesk mcp <command>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  serve    Start the MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'webdesk mcp <command> --help' for command-specific options.")
}

func runMCP(args []string) int {
	if len(args) == 0 {
		printMCPUsage(os.Stderr)
		return 2
	}

	switch args[0] {
	case "serve":
		return runMCPServe(args[1:])
	case "help", "-h", "--help":
		printMCPUsage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown mcp command: %s\n\n", args[0])
		printMCPUsage(os.Stderr)
		return 2
	}
}

func runMCPServe(args []string) int {
	fs := newFlagSet("serve", "webdesk mcp serve [--path PATH] [--log-level LEVEL]",
		"Start the MCP server on stdio. Tools act on the daemon's desk when it is\nrunning, otherwise on an in-process desk.")
	path := fs.String("path", "", "Config file path for the in-process desk (default: ~/.config/webdesk/config.yaml)")
	level := fs.String("log-level", "warn", "Log level for stderr logging")
	if code, stop := parseFlags(fs, args); stop {
		return code
	}

	// stdout carries the protocol; logs go to stderr.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: config.ParseLogLevel(*level)}))

	client, local, err := connectBackend(*path, logger)
	if err != nil {
		log.Printf("Failed to set up desk: %v", err)
		return 1
	}

	var server *mcp.Server
	if client != nil {
		server = mcp.NewServer(client, logger)
	} else {
		server = mcp.NewServer(desk.NewLocal(local), logger)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx); err != nil {
		log.Printf("MCP server error: %v", err)
		return 1
	}
	return 0
}

package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/1broseidon/webdesk/internal/ipc"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		os.Exit(runDaemon(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "open":
		os.Exit(runOpen(os.Args[2:]))
	case "close":
		os.Exit(runWindowCommand("close", "Close a window.", os.Args[2:], (*ipc.Client).Close))
	case "minimize":
		os.Exit(runWindowCommand("minimize", "Minimize a window to the taskbar.", os.Args[2:], (*ipc.Client).Minimize))
	case "maximize":
		os.Exit(runWindowCommand("maximize", "Toggle a window between maximized and its default geometry.", os.Args[2:], (*ipc.Client).Maximize))
	case "focus":
		os.Exit(runWindowCommand("focus", "Raise a window and make it active.", os.Args[2:], (*ipc.Client).Focus))
	case "desktop":
		os.Exit(runDesktop(os.Args[2:]))
	case "move":
		os.Exit(runMove(os.Args[2:]))
	case "state":
		os.Exit(runState(os.Args[2:]))
	case "apps":
		os.Exit(runApps(os.Args[2:]))
	case "reload":
		os.Exit(runReload(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "tui":
		os.Exit(runTUI(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: webdesk <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the webdesk daemon (foreground)")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "  reload              Reload the daemon's configuration")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  open <app>          Open an app, or restore its minimized window")
	fmt.Fprintln(w, "  close <window>      Close a window")
	fmt.Fprintln(w, "  minimize <window>   Minimize a window")
	fmt.Fprintln(w, "  maximize <window>   Toggle maximize")
	fmt.Fprintln(w, "  focus <window>      Raise and activate a window")
	fmt.Fprintln(w, "  move <window> <desktop>")
	fmt.Fprintln(w, "                      Move a window to another desktop")
	fmt.Fprintln(w, "  desktop [<desktop>] List desktops, or switch to one")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  state               Show windows and desktops")
	fmt.Fprintln(w, "  apps                List launchable apps")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config path         Print the default config path")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  tui                 Open interactive TUI")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'webdesk <command> --help' for command-specific options.")
}

// newFlagSet returns a flag set whose usage prints usage and description
// followed by the defaults.
func newFlagSet(name, usage, description string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: "+usage)
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, description)
		hasFlags := false
		fs.VisitAll(func(*flag.Flag) { hasFlags = true })
		if hasFlags {
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Flags:")
			fs.PrintDefaults()
		}
	}
	return fs
}

// parseFlags parses args and returns an exit code when the command should
// stop: 0 for --help, 2 for bad flags.
func parseFlags(fs *flag.FlagSet, args []string) (int, bool) {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0, true
		}
		return 2, true
	}
	return 0, false
}

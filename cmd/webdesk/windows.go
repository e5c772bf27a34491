package main

import (
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/1broseidon/webdesk/internal/ipc"
)

func runStatus(args []string) int {
	fs := newFlagSet("status", "webdesk status", "Show daemon status via IPC.")
	if code, stop := parseFlags(fs, args); stop {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	status, err := ipc.NewClient().GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("daemon_running: %v\n", status.DaemonRunning)
	fmt.Printf("active_desktop: %s\n", status.ActiveDesktop)
	fmt.Printf("active_window:  %s\n", status.ActiveWindow)
	fmt.Printf("window_count:   %d\n", status.WindowCount)
	fmt.Printf("uptime_seconds: %d\n", status.UptimeSeconds)
	return 0
}

func runReload(args []string) int {
	fs := newFlagSet("reload", "webdesk reload", "Ask the daemon to reload its config file.")
	if code, stop := parseFlags(fs, args); stop {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "reload takes no arguments")
		fs.Usage()
		return 2
	}
	if err := ipc.NewClient().Reload(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runOpen(args []string) int {
	fs := newFlagSet("open", "webdesk open [--json] <app>", "Open an app window, or restore and raise it if it is minimized.")
	jsonOut := fs.Bool("json", false, "Print the window record as JSON")
	if code, stop := parseFlags(fs, args); stop {
		return code
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "open requires <app>")
		fs.Usage()
		return 2
	}

	rec, err := ipc.NewClient().Open(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *jsonOut {
		return printJSON(rec)
	}
	fmt.Println(formatWindow(rec))
	return 0
}

// runWindowCommand handles the commands that take a single window id.
func runWindowCommand(name, description string, args []string, fn func(*ipc.Client, string) error) int {
	fs := newFlagSet(name, "webdesk "+name+" <window>", description)
	if code, stop := parseFlags(fs, args); stop {
		return code
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "%s requires <window>\n", name)
		fs.Usage()
		return 2
	}
	if err := fn(ipc.NewClient(), fs.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runDesktop(args []string) int {
	fs := newFlagSet("desktop", "webdesk desktop [<desktop>]", "List desktops, or switch to the named one.")
	if code, stop := parseFlags(fs, args); stop {
		return code
	}

	client := ipc.NewClient()
	switch fs.NArg() {
	case 0:
		state, err := client.GetState()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		printDesktops(os.Stdout, state)
		return 0
	case 1:
		if err := client.SwitchDesktop(fs.Arg(0)); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	default:
		fmt.Fprintln(os.Stderr, "desktop takes at most one argument")
		fs.Usage()
		return 2
	}
}

func runMove(args []string) int {
	fs := newFlagSet("move", "webdesk move <window> <desktop>", "Move a window to another desktop.")
	if code, stop := parseFlags(fs, args); stop {
		return code
	}
	if fs.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "move requires <window> <desktop>")
		fs.Usage()
		return 2
	}
	if err := ipc.NewClient().MoveToDesktop(fs.Arg(0), fs.Arg(1)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runState(args []string) int {
	fs := newFlagSet("state", "webdesk state [--json]", "Show every window in stacking order along with the desktops.")
	jsonOut := fs.Bool("json", false, "Print the full state as JSON")
	if code, stop := parseFlags(fs, args); stop {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "state takes no arguments")
		fs.Usage()
		return 2
	}

	state, err := ipc.NewClient().GetState()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *jsonOut {
		return printJSON(state)
	}

	width := 0
	if term.IsTerminal(int(os.Stdout.Fd())) {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width = w
		}
	}
	printState(os.Stdout, state, width)
	return 0
}

func runApps(args []string) int {
	fs := newFlagSet("apps", "webdesk apps [--json]", "List the apps that can be opened.")
	jsonOut := fs.Bool("json", false, "Print the apps as JSON")
	if code, stop := parseFlags(fs, args); stop {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "apps takes no arguments")
		fs.Usage()
		return 2
	}

	list, err := ipc.NewClient().ListApps()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *jsonOut {
		return printJSON(list)
	}
	for _, app := range list {
		if app.Description != "" {
			fmt.Printf("- %s (%s): %s\n", app.ID, app.Name, app.Description)
		} else {
			fmt.Printf("- %s (%s)\n", app.ID, app.Name)
		}
	}
	return 0
}

func printJSON(v interface{}) int {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/1broseidon/webdesk/internal/desk"
	"github.com/1broseidon/webdesk/internal/tui"
)

func runTUI(args []string) int {
	fs := newFlagSet("tui", "webdesk tui [--path PATH] [--poll DURATION]",
		"Interactive desktop in the terminal. Uses the daemon when it is running,\notherwise an in-process desk.\n\n"+
			"Keybindings:\n"+
			"  1-9         Switch desktop\n"+
			"  ←/→, h/l    Select app\n"+
			"  o, Enter    Open selected app\n"+
			"  Tab         Focus next window\n"+
			"  m / x / c   Minimize / maximize / close active window\n"+
			"  r           Restore last minimized window\n"+
			"  Mouse       Drag windows by their title row\n"+
			"  q, Ctrl+C   Quit")
	path := fs.String("path", "", "Config file path for the in-process desk (default: ~/.config/webdesk/config.yaml)")
	poll := fs.Duration("poll", 250*time.Millisecond, "Refresh interval when attached to the daemon")
	if code, stop := parseFlags(fs, args); stop {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "tui takes no arguments")
		fs.Usage()
		return 2
	}

	client, local, err := connectBackend(*path, slog.New(slog.DiscardHandler))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if client != nil {
		err = tui.Run(client, tui.Options{Source: "daemon", Poll: *poll})
	} else {
		err = tui.Run(desk.NewLocal(local), tui.Options{Source: "local desk"})
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

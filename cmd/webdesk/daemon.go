package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/1broseidon/webdesk/internal/config"
	"github.com/1broseidon/webdesk/internal/daemon"
	"github.com/1broseidon/webdesk/internal/desk"
	"github.com/1broseidon/webdesk/internal/ipc"
)

func runDaemon(args []string) int {
	fs := newFlagSet("daemon", "webdesk daemon [--path PATH] [--stale-drag DURATION]",
		"Run the desk in the foreground and serve it on the IPC socket.\nSIGHUP or edits to the config file reload it.")
	path := fs.String("path", "", "Config file path (default: ~/.config/webdesk/config.yaml)")
	staleDrag := fs.Duration("stale-drag", 30*time.Second, "End drags that stay still this long (0 disables)")
	if code, stop := parseFlags(fs, args); stop {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "daemon takes no arguments")
		fs.Usage()
		return 2
	}

	cfgPath, err := resolveConfigPath(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := daemon.Run(ctx, daemon.Options{ConfigPath: cfgPath, StaleDrag: *staleDrag}); err != nil {
		log.Printf("daemon: %v", err)
		return 1
	}
	return 0
}

func resolveConfigPath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	return config.DefaultConfigPath()
}

// connectBackend returns the daemon client when the daemon answers, and
// otherwise an in-process desk built from the config at path.
func connectBackend(path string, logger *slog.Logger) (client *ipc.Client, local *desk.Desk, err error) {
	client = ipc.NewClient()
	if client.Ping() == nil {
		return client, nil, nil
	}

	cfgPath, err := resolveConfigPath(path)
	if err != nil {
		return nil, nil, err
	}
	res, err := config.LoadFromPath(cfgPath)
	if err != nil {
		return nil, nil, err
	}
	d, err := desk.New(res.Config, desk.WithLogger(logger))
	if err != nil {
		return nil, nil, err
	}
	return nil, d, nil
}

// Package daemon hosts a desk behind the IPC socket and keeps it in step
// with its config file.
package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/1broseidon/webdesk/internal/config"
	"github.com/1broseidon/webdesk/internal/desk"
	"github.com/1broseidon/webdesk/internal/ipc"
)

// Options configures Run.
type Options struct {
	// ConfigPath is the config file to load and watch.
	ConfigPath string
	// SocketPath overrides the runtime socket.
	SocketPath string
	// Logger overrides the logger built from the config's logging section.
	Logger *slog.Logger
	// ReconcileInterval and StaleDrag tune the abandoned-drag reconciler.
	ReconcileInterval time.Duration
	StaleDrag         time.Duration
	// Ready, if set, receives the socket path once the server is listening.
	Ready func(socketPath string)
}

// Run serves the desk until ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	res, err := config.LoadFromPath(opts.ConfigPath)
	if err != nil {
		return err
	}
	cfg := res.Config

	logger := opts.Logger
	if logger == nil {
		logger = cfg.Logging.NewLogger(os.Stderr)
	}
	logger.Info("configuration loaded",
		"path", opts.ConfigPath,
		"exists", res.Exists,
		"desktops", len(cfg.Desktops),
		"apps", len(cfg.Apps))

	d, err := desk.New(cfg, desk.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("create desk: %w", err)
	}

	reloader, err := NewReloader(opts.ConfigPath, d, cfg, logger)
	if err != nil {
		return err
	}

	serverOpts := []ipc.ServerOption{ipc.WithLogger(logger), ipc.WithReload(reloader.Reload)}
	if opts.SocketPath != "" {
		serverOpts = append(serverOpts, ipc.WithSocketPath(opts.SocketPath))
	}
	server, err := ipc.NewServer(d, serverOpts...)
	if err != nil {
		return fmt.Errorf("create IPC server: %w", err)
	}
	if err := server.Start(); err != nil {
		return fmt.Errorf("start IPC server: %w", err)
	}
	defer server.Stop()
	logger.Info("webdesk daemon started", "socket", server.SocketPath())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var changes <-chan struct{}
	watcher, err := config.NewWatcher(opts.ConfigPath, logger)
	if err != nil {
		logger.Warn("config watcher disabled", "error", err)
	} else {
		defer watcher.Close()
		changes = watcher.Changes()
		go watcher.Run(ctx)
	}

	reconciler := NewReconciler(ReconcilerConfig{
		Interval:   opts.ReconcileInterval,
		StaleAfter: opts.StaleDrag,
		Logger:     logger,
	}, d)
	go reconciler.Run(ctx)

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	if opts.Ready != nil {
		opts.Ready(server.SocketPath())
	}

	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down webdesk daemon")
			return nil
		case <-hup:
			logger.Info("received SIGHUP, reloading config")
			reloader.Reload()
		case <-changes:
			logger.Info("config file changed, reloading")
			reloader.Reload()
		}
	}
}

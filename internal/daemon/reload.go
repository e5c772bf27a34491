package daemon

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/1broseidon/webdesk/internal/config"
	"github.com/1broseidon/webdesk/internal/desk"
)

// Reloader reapplies the config file to a running desk. It is triggered by
// the file watcher, SIGHUP and the RELOAD command.
type Reloader struct {
	path   string
	desk   *desk.Desk
	logger *slog.Logger

	mu      sync.Mutex
	current []byte
}

// NewReloader returns a Reloader for path. initial is the config the desk
// was built from and is the baseline for the first diff.
func NewReloader(path string, d *desk.Desk, initial *config.Config, logger *slog.Logger) (*Reloader, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	data, err := initial.Marshal()
	if err != nil {
		return nil, fmt.Errorf("serialize initial config: %w", err)
	}
	return &Reloader{path: path, desk: d, logger: logger, current: data}, nil
}

// Reload loads the file and applies it when it differs from the last
// applied config. A config that fails to load or validate leaves the desk
// untouched.
func (r *Reloader) Reload() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := config.LoadFromPath(r.path)
	if err != nil {
		r.logger.Warn("config reload failed", "path", r.path, "error", err)
		return err
	}
	data, err := res.Config.Marshal()
	if err != nil {
		return fmt.Errorf("serialize config: %w", err)
	}

	diff := config.DiffSerialized(r.current, data)
	if diff == "" {
		r.logger.Debug("config unchanged", "path", r.path)
		return nil
	}
	if err := r.desk.Apply(res.Config); err != nil {
		r.logger.Warn("config reload rejected", "path", r.path, "error", err)
		return err
	}
	r.current = data
	r.logger.Info("config reloaded", "path", r.path)
	r.logger.Debug("config diff", "diff", diff)
	return nil
}

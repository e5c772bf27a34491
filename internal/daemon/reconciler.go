package daemon

import (
	"context"
	"log/slog"
	"time"

	"github.com/1broseidon/webdesk/internal/desk"
	"github.com/1broseidon/webdesk/internal/geom"
)

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	Interval time.Duration
	// StaleAfter is how long a drag may sit without the window moving
	// before it is treated as abandoned. Zero disables the check.
	StaleAfter time.Duration
	Logger     *slog.Logger
}

// Reconciler periodically ends drags whose renderer went away without
// sending pointer-up.
type Reconciler struct {
	interval   time.Duration
	staleAfter time.Duration
	desk       *desk.Desk
	logger     *slog.Logger
	now        func() time.Time

	// Last drag observed: window, its position and when it last changed.
	windowID string
	position geom.Point
	since    time.Time
}

// NewReconciler creates a new reconciler with the given configuration.
func NewReconciler(cfg ReconcilerConfig, d *desk.Desk) *Reconciler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Reconciler{
		interval:   interval,
		staleAfter: cfg.StaleAfter,
		desk:       d,
		logger:     logger,
		now:        time.Now,
	}
}

// Run starts the reconciliation loop. Blocks until context is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("reconciler started", "interval", r.interval, "stale_after", r.staleAfter)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reconciler stopped")
			return
		case <-ticker.C:
			r.reconcile()
		}
	}
}

// reconcile performs a single reconciliation pass.
func (r *Reconciler) reconcile() {
	defer func() {
		if err := recover(); err != nil {
			r.logger.Error("reconciler panic recovered", "error", err)
		}
	}()

	if r.staleAfter <= 0 {
		return
	}

	state := r.desk.Snapshot()
	id := state.Drag.WindowID
	if id == "" {
		r.windowID = ""
		return
	}

	var pos geom.Point
	for _, rec := range state.Windows {
		if rec.ID == id {
			pos = rec.Position
			break
		}
	}

	now := r.now()
	if id != r.windowID || pos != r.position {
		r.windowID = id
		r.position = pos
		r.since = now
		return
	}
	if now.Sub(r.since) < r.staleAfter {
		return
	}

	r.logger.Info("reconciler: ending abandoned drag",
		"window_id", id,
		"idle", now.Sub(r.since).Round(time.Second))
	r.desk.LostCapture()
	r.windowID = ""
}

// ReconcileNow triggers an immediate reconciliation pass.
func (r *Reconciler) ReconcileNow() {
	r.reconcile()
}

package desk

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/1broseidon/webdesk/internal/apps"
	"github.com/1broseidon/webdesk/internal/config"
	"github.com/1broseidon/webdesk/internal/desktop"
	"github.com/1broseidon/webdesk/internal/drag"
	"github.com/1broseidon/webdesk/internal/geom"
	"github.com/1broseidon/webdesk/internal/observe"
	"github.com/1broseidon/webdesk/internal/window"
)

// Desk is the window lifecycle orchestrator. It exclusively owns the window
// store, the z-order allocator, the desktop registry and the drag
// controller; everything else sees copies.
//
// Every operation runs under one lock, so each is applied all-or-nothing in
// arrival order. Subscribers are notified after the lock is released, in
// commit order, and must not call mutating Desk methods from the callback.
type Desk struct {
	mu       sync.Mutex
	notifyMu sync.Mutex

	cfg         *config.Config
	store       *window.Store
	z           *window.ZOrder
	desktops    *desktop.Registry
	apps        *apps.Registry
	drag        *drag.Controller
	viewport    geom.Size
	viewportSet bool // renderer reported a size; config no longer overrides it
	active      string
	cascade     int // step the next new window takes

	seq    uint64
	events observe.Hub[Event]
	logger *slog.Logger
}

// Option configures a Desk.
type Option func(*Desk)

// WithLogger sets the structured logger. The default discards output.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Desk) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// New builds a desk from cfg. cfg is copied; later changes to it have no
// effect until passed to Apply.
func New(cfg *config.Config, opts ...Option) (*Desk, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.Clone()

	registry, err := desktop.NewRegistry(cfg.Desktops, cfg.DefaultDesktop)
	if err != nil {
		return nil, fmt.Errorf("build desktop registry: %w", err)
	}
	catalogue, err := apps.NewRegistry(cfg.Apps)
	if err != nil {
		return nil, fmt.Errorf("build app registry: %w", err)
	}

	d := &Desk{
		cfg:      cfg,
		store:    window.NewStore(),
		z:        window.NewZOrder(cfg.ZBase),
		desktops: registry,
		apps:     catalogue,
		viewport: cfg.Viewport,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.drag = drag.NewController(d.logger.With("component", "drag"))
	return d, nil
}

// Subscribe registers fn for every committed change. The returned function
// unsubscribes.
func (d *Desk) Subscribe(fn func(Event)) (unsubscribe func()) {
	return d.events.Subscribe(fn)
}

// OpenOrRestore opens the window for appID, or restores and focuses it if it
// is already open. New windows cascade from the default position and are
// pinned to the active desktop.
func (d *Desk) OpenOrRestore(appID string) (window.Record, error) {
	d.mu.Lock()
	app, err := d.apps.Lookup(appID)
	if err != nil {
		d.unlock(err, "open", appID)
		return window.Record{}, err
	}

	if _, open := d.store.Get(appID); open {
		rec, err := d.store.Patch(appID, window.Patch{
			Minimized: window.Ptr(false),
			Z:         window.Ptr(d.z.Next()),
		})
		if err != nil {
			d.unlock(err, "restore", appID)
			return window.Record{}, err
		}
		d.active = appID
		d.logger.Info("window restored", "window", appID, "z", rec.Z)
		d.unlock(nil, "", "", Event{Kind: EventRestored, WindowID: appID, DesktopID: rec.DesktopID})
		return rec, nil
	}

	rec, err := d.store.Open(window.Record{
		ID:        appID,
		AppID:     app.ID,
		Title:     app.Name,
		Position:  d.cascadePositionLocked(),
		Size:      d.cfg.DefaultSize,
		Z:         d.z.Next(),
		DesktopID: d.desktops.Active(),
		Opacity:   1,
	})
	if err != nil {
		d.unlock(err, "open", appID)
		return window.Record{}, err
	}
	d.active = appID
	d.logger.Info("window opened",
		"window", appID,
		"desktop", rec.DesktopID,
		"x", rec.Position.X,
		"y", rec.Position.Y,
		"z", rec.Z)
	d.unlock(nil, "", "", Event{Kind: EventOpened, WindowID: appID, DesktopID: rec.DesktopID})
	return rec, nil
}

// cascadePositionLocked offsets the default position by one stagger step per
// window opened this session, so a new window never reuses the step of the
// one opened before it. The cascade wraps after CascadeSteps, or earlier
// when a window would leave the work area.
func (d *Desk) cascadePositionLocked() geom.Point {
	base := d.cfg.DefaultPosition
	step := d.cascade % d.cfg.CascadeSteps
	pos := geom.Point{
		X: base.X + step*d.cfg.Stagger,
		Y: base.Y + step*d.cfg.Stagger,
	}
	if !geom.RectOf(pos, d.cfg.DefaultSize).Fits(d.viewport.Width, d.workHeightLocked()) {
		step, pos = 0, base
	}
	d.cascade = step + 1
	return pos
}

func (d *Desk) workHeightLocked() int {
	return d.viewport.Height - d.cfg.TaskbarHeight
}

// Close removes the window. A drag on it is discarded. If it was active,
// no window is active until the next focus.
func (d *Desk) Close(id string) error {
	d.mu.Lock()
	rec, _ := d.store.Get(id)
	if err := d.store.Close(id); err != nil {
		d.unlock(err, "close", id)
		return err
	}
	d.drag.Forget(id)
	if d.active == id {
		d.active = ""
	}
	d.logger.Info("window closed", "window", id)
	d.unlock(nil, "", "", Event{Kind: EventClosed, WindowID: id, DesktopID: rec.DesktopID})
	return nil
}

// Minimize hides the window without changing its z-index. A minimized
// window is never active.
func (d *Desk) Minimize(id string) error {
	d.mu.Lock()
	patch := window.Patch{Minimized: window.Ptr(true)}
	if dragging, ok := d.drag.Active(); ok && dragging == id {
		d.drag.Forget(id)
		patch.Dragging = window.Ptr(false)
	}
	rec, err := d.store.Patch(id, patch)
	if err != nil {
		d.unlock(err, "minimize", id)
		return err
	}
	if d.active == id {
		d.active = ""
	}
	d.logger.Info("window minimized", "window", id)
	d.unlock(nil, "", "", Event{Kind: EventMinimized, WindowID: id, DesktopID: rec.DesktopID})
	return nil
}

// MaximizeToggle maximizes the window to the work area, or restores it.
// Restoring always returns to the configured default geometry, not the
// geometry the window had before maximizing.
func (d *Desk) MaximizeToggle(id string) error {
	d.mu.Lock()
	rec, ok := d.store.Get(id)
	if !ok {
		err := fmt.Errorf("maximize %q: %w", id, window.ErrNotFound)
		d.unlock(err, "maximize", id)
		return err
	}

	var patch window.Patch
	kind := EventMaximized
	if rec.Maximized {
		kind = EventUnmaximized
		patch = window.Patch{
			Position:  window.Ptr(d.cfg.DefaultPosition),
			Size:      window.Ptr(d.cfg.DefaultSize),
			Maximized: window.Ptr(false),
		}
	} else {
		patch = window.Patch{
			Position:  &geom.Point{},
			Size:      &geom.Size{Width: d.viewport.Width, Height: d.workHeightLocked()},
			Maximized: window.Ptr(true),
		}
	}
	rec, err := d.store.Patch(id, patch)
	if err != nil {
		d.unlock(err, "maximize", id)
		return err
	}
	d.logger.Info("window "+string(kind), "window", id, "width", rec.Size.Width, "height", rec.Size.Height)
	d.unlock(nil, "", "", Event{Kind: kind, WindowID: id, DesktopID: rec.DesktopID})
	return nil
}

// Focus raises the window to the top and makes it active. Minimized state
// is left alone; a minimized window is raised but never becomes active.
func (d *Desk) Focus(id string) error {
	d.mu.Lock()
	ev, err := d.focusLocked(id)
	if err != nil {
		d.unlock(err, "focus", id)
		return err
	}
	d.unlock(nil, "", "", ev)
	return nil
}

func (d *Desk) focusLocked(id string) (Event, error) {
	if _, ok := d.store.Get(id); !ok {
		return Event{}, fmt.Errorf("focus %q: %w", id, window.ErrNotFound)
	}
	rec, err := d.store.Patch(id, window.Patch{Z: window.Ptr(d.z.Next())})
	if err != nil {
		return Event{}, err
	}
	if rec.Minimized {
		d.active = ""
	} else {
		d.active = id
	}
	d.logger.Debug("window focused", "window", id, "z", rec.Z)
	return Event{Kind: EventFocused, WindowID: id, DesktopID: rec.DesktopID}, nil
}

// UpdateGeometry sets position and size. Sizes below the configured minimum
// are clamped. The dragging flag cannot start a drag; for the window being
// dragged, dragging=false ends the session so record and controller agree.
func (d *Desk) UpdateGeometry(id string, pos geom.Point, size geom.Size, dragging bool) error {
	d.mu.Lock()
	clamped := size.Clamp(d.cfg.MinSize)
	if clamped != size {
		d.logger.Debug("clamped window size", "window", id,
			"width", size.Width, "height", size.Height,
			"min_width", d.cfg.MinSize.Width, "min_height", d.cfg.MinSize.Height)
	}

	patch := window.Patch{Position: &pos, Size: &clamped}
	owned := false
	if active, ok := d.drag.Active(); ok && active == id {
		owned = true
	}
	finished := owned && !dragging
	if !owned || finished {
		patch.Dragging = window.Ptr(false)
	}

	rec, err := d.store.Patch(id, patch)
	if err != nil {
		d.unlock(err, "update geometry", id)
		return err
	}
	events := []Event{{Kind: EventGeometry, WindowID: id, DesktopID: rec.DesktopID}}
	if finished {
		d.drag.Forget(id)
		events = append(events, Event{Kind: EventDragFinished, WindowID: id, DesktopID: rec.DesktopID})
	}
	d.unlock(nil, "", "", events...)
	return nil
}

// SwitchDesktop activates desktopID. Windows on the previous desktop stay
// open and unchanged. An unknown id is a no-op returning
// desktop.ErrUnknownDesktop.
func (d *Desk) SwitchDesktop(desktopID string) error {
	d.mu.Lock()
	if !d.desktops.Has(desktopID) {
		err := fmt.Errorf("switch to %q: %w", desktopID, desktop.ErrUnknownDesktop)
		d.unlock(err, "switch desktop", desktopID)
		return err
	}
	// The dragged window stops being rendered, which loses pointer capture.
	var events []Event
	if _, ok := d.drag.Active(); ok {
		events = d.withSurface(func(s drag.Surface) error { return d.drag.LostCapture(s) })
	}
	if err := d.desktops.SetActive(desktopID); err != nil {
		d.unlock(err, "switch desktop", desktopID, events...)
		return err
	}
	d.logger.Info("desktop switched", "desktop", desktopID)
	events = append(events, Event{Kind: EventDesktopSwitch, DesktopID: desktopID})
	d.unlock(nil, "", "", events...)
	return nil
}

// MoveToDesktop pins the window to another desktop.
func (d *Desk) MoveToDesktop(id, desktopID string) error {
	d.mu.Lock()
	if !d.desktops.Has(desktopID) {
		err := fmt.Errorf("move %q to %q: %w", id, desktopID, desktop.ErrUnknownDesktop)
		d.unlock(err, "move to desktop", id)
		return err
	}
	rec, err := d.store.Patch(id, window.Patch{DesktopID: &desktopID})
	if err != nil {
		d.unlock(err, "move to desktop", id)
		return err
	}
	d.logger.Info("window moved to desktop", "window", id, "desktop", desktopID)
	d.unlock(nil, "", "", Event{Kind: EventDesktopMove, WindowID: id, DesktopID: rec.DesktopID})
	return nil
}

// SetViewport records the renderer's viewport size, used by later
// maximize and cascade calculations. Sizes below 1x1 are clamped.
func (d *Desk) SetViewport(size geom.Size) {
	d.mu.Lock()
	size = size.Clamp(geom.Size{Width: 1, Height: d.cfg.TaskbarHeight + 1})
	d.viewport = size
	d.viewportSet = true
	d.logger.Debug("viewport set", "width", size.Width, "height", size.Height)
	d.unlock(nil, "", "", Event{Kind: EventViewport})
}

// Apply swaps in a reloaded configuration. Geometry defaults and the app
// registry always apply. A new desktop list is applied only when every open
// window's desktop still exists in it; otherwise the current desktops are
// kept.
func (d *Desk) Apply(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	catalogue, err := apps.NewRegistry(cfg.Apps)
	if err != nil {
		return fmt.Errorf("build app registry: %w", err)
	}

	d.mu.Lock()
	next := cfg.Clone()

	registry, keep := d.rebuildDesktopsLocked(next)
	if keep {
		next.Desktops = d.desktops.List()
		next.DefaultDesktop = d.cfg.DefaultDesktop
	} else {
		d.desktops = registry
	}

	d.cfg = next
	d.apps = catalogue
	if !d.viewportSet {
		d.viewport = next.Viewport
	}
	d.logger.Info("config applied", "desktops_kept", keep, "apps", len(next.Apps))
	d.unlock(nil, "", "", Event{Kind: EventConfigApplied})
	return nil
}

// rebuildDesktopsLocked builds the registry for next, carrying over the
// active desktop when it still exists. keep reports that the current
// registry must stay because the new list would orphan an open window.
func (d *Desk) rebuildDesktopsLocked(next *config.Config) (registry *desktop.Registry, keep bool) {
	ids := make(map[string]struct{}, len(next.Desktops))
	for _, dt := range next.Desktops {
		ids[dt.ID] = struct{}{}
	}
	for _, rec := range d.store.Snapshot() {
		if _, ok := ids[rec.DesktopID]; !ok {
			d.logger.Warn("keeping current desktops, new list would orphan a window",
				"window", rec.ID, "desktop", rec.DesktopID)
			return nil, true
		}
	}

	initial := next.DefaultDesktop
	if _, ok := ids[d.desktops.Active()]; ok {
		initial = d.desktops.Active()
	}
	registry, err := desktop.NewRegistry(next.Desktops, initial)
	if err != nil {
		d.logger.Warn("keeping current desktops", "error", err)
		return nil, true
	}
	return registry, false
}

// unlock releases d.mu and publishes events in commit order. A non-nil err
// is logged as an absorbed, recoverable condition and nothing is published.
func (d *Desk) unlock(err error, op, target string, events ...Event) {
	if err != nil {
		d.logRecoverable(err, op, target)
	}
	if len(events) == 0 {
		d.mu.Unlock()
		return
	}
	for i := range events {
		d.seq++
		events[i].Seq = d.seq
	}
	d.notifyMu.Lock()
	d.mu.Unlock()
	defer d.notifyMu.Unlock()
	for _, ev := range events {
		d.events.Publish(ev)
	}
}

func (d *Desk) logRecoverable(err error, op, target string) {
	switch {
	case errors.Is(err, window.ErrNotFound),
		errors.Is(err, desktop.ErrUnknownDesktop),
		errors.Is(err, apps.ErrUnknownApp):
		d.logger.Debug("ignored "+op, "target", target, "error", err)
	default:
		d.logger.Warn(op+" failed", "target", target, "error", err)
	}
}

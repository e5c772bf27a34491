package desk

import (
	"github.com/1broseidon/webdesk/internal/apps"
	"github.com/1broseidon/webdesk/internal/desktop"
	"github.com/1broseidon/webdesk/internal/geom"
	"github.com/1broseidon/webdesk/internal/window"
)

// Snapshot returns a consistent copy of the whole desk.
func (d *Desk) Snapshot() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return State{
		Windows:       d.store.Snapshot(),
		ActiveWindow:  d.active,
		ActiveDesktop: d.desktops.Active(),
		Desktops:      d.desktops.List(),
		Viewport:      d.viewport,
		Drag:          dragInfo(d.drag.State()),
	}
}

// VisibleWindows returns the non-minimized windows on desktopID in
// ascending z order.
func (d *Desk) VisibleWindows(desktopID string) []window.Record {
	d.mu.Lock()
	defer d.mu.Unlock()
	return desktop.FilterVisible(d.store.Snapshot(), desktopID)
}

// MinimizedWindows returns every minimized window regardless of desktop.
func (d *Desk) MinimizedWindows() []window.Record {
	d.mu.Lock()
	defer d.mu.Unlock()
	return minimized(d.store.Snapshot())
}

// Window returns a copy of the record for id.
func (d *Desk) Window(id string) (window.Record, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.store.Get(id)
}

// ActiveWindow returns the focused window id, or "" when none is.
func (d *Desk) ActiveWindow() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.active
}

func (d *Desk) ActiveDesktop() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.desktops.Active()
}

func (d *Desk) Desktops() []desktop.Desktop {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.desktops.List()
}

// Apps lists the launchable applications.
func (d *Desk) Apps() []apps.App {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.apps.List()
}

func (d *Desk) Viewport() geom.Size {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.viewport
}

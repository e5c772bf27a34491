// Package desktop tracks the fixed registry of virtual desktops, which one
// is active, and which windows are visible on it.
package desktop

import (
	"errors"
	"fmt"

	"github.com/1broseidon/webdesk/internal/window"
)

// ErrUnknownDesktop is returned when a desktop id is not in the registry.
var ErrUnknownDesktop = errors.New("unknown desktop")

// ErrNoDesktops is returned when a registry is built from an empty list.
var ErrNoDesktops = errors.New("at least one desktop is required")

// Desktop is a named partition of the workspace.
type Desktop struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Registry holds the ordered desktop list and the active desktop.
//
// Registry is not safe for concurrent use; its owner serializes access.
type Registry struct {
	desktops []Desktop
	index    map[string]int
	active   string
}

// NewRegistry builds a registry from desktops, activating initial. An empty
// initial activates the first desktop.
func NewRegistry(desktops []Desktop, initial string) (*Registry, error) {
	if len(desktops) == 0 {
		return nil, ErrNoDesktops
	}
	r := &Registry{
		desktops: append([]Desktop(nil), desktops...),
		index:    make(map[string]int, len(desktops)),
	}
	for i, d := range desktops {
		if d.ID == "" {
			return nil, fmt.Errorf("desktop %d: empty id", i)
		}
		if _, dup := r.index[d.ID]; dup {
			return nil, fmt.Errorf("desktop %q: duplicate id", d.ID)
		}
		r.index[d.ID] = i
	}
	if initial == "" {
		initial = desktops[0].ID
	}
	if !r.Has(initial) {
		return nil, fmt.Errorf("initial desktop %q: %w", initial, ErrUnknownDesktop)
	}
	r.active = initial
	return r, nil
}

// Has reports whether id names a registered desktop.
func (r *Registry) Has(id string) bool {
	_, ok := r.index[id]
	return ok
}

// Active returns the active desktop id.
func (r *Registry) Active() string {
	return r.active
}

// SetActive switches the active desktop. An unknown id leaves the active
// desktop unchanged and returns ErrUnknownDesktop.
func (r *Registry) SetActive(id string) error {
	if !r.Has(id) {
		return fmt.Errorf("switch to %q: %w", id, ErrUnknownDesktop)
	}
	r.active = id
	return nil
}

// List returns the desktops in registry order.
func (r *Registry) List() []Desktop {
	return append([]Desktop(nil), r.desktops...)
}

// Get returns the desktop with the given id.
func (r *Registry) Get(id string) (Desktop, bool) {
	i, ok := r.index[id]
	if !ok {
		return Desktop{}, false
	}
	return r.desktops[i], true
}

// FilterVisible returns the records pinned to activeID that are not
// minimized, preserving input order.
func FilterVisible(records []window.Record, activeID string) []window.Record {
	out := make([]window.Record, 0, len(records))
	for _, rec := range records {
		if rec.DesktopID == activeID && !rec.Minimized {
			out = append(out, rec)
		}
	}
	return out
}

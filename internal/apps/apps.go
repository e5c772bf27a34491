// Package apps is the static application registry: the metadata shown for
// each launchable app in the dock and on window title bars.
package apps

import (
	"errors"
	"fmt"
)

// ErrUnknownApp is returned when an app id is not registered.
var ErrUnknownApp = errors.New("unknown app")

// App describes a launchable application.
type App struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Icon        string `json:"icon,omitempty" yaml:"icon,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Registry is an immutable, ordered app lookup.
type Registry struct {
	apps  []App
	index map[string]int
}

// NewRegistry builds a registry. Ids must be non-empty and unique.
func NewRegistry(list []App) (*Registry, error) {
	r := &Registry{
		apps:  append([]App(nil), list...),
		index: make(map[string]int, len(list)),
	}
	for i, a := range list {
		if a.ID == "" {
			return nil, fmt.Errorf("app %d: empty id", i)
		}
		if _, dup := r.index[a.ID]; dup {
			return nil, fmt.Errorf("app %q: duplicate id", a.ID)
		}
		r.index[a.ID] = i
	}
	return r, nil
}

// Lookup returns the metadata for id.
func (r *Registry) Lookup(id string) (App, error) {
	i, ok := r.index[id]
	if !ok {
		return App{}, fmt.Errorf("%q: %w", id, ErrUnknownApp)
	}
	return r.apps[i], nil
}

// List returns all apps in registration order.
func (r *Registry) List() []App {
	return append([]App(nil), r.apps...)
}

// Builtin returns the default app catalogue.
func Builtin() []App {
	return []App{
		{ID: "calculator", Name: "Calculator", Icon: "calculator", Description: "Basic arithmetic"},
		{ID: "settings", Name: "Settings", Icon: "settings", Description: "Theme and system preferences"},
		{ID: "terminal", Name: "Terminal", Icon: "terminal", Description: "Command line"},
		{ID: "files", Name: "Files", Icon: "folder", Description: "Browse the virtual file system"},
		{ID: "browser", Name: "Browser", Icon: "globe", Description: "Web browser"},
		{ID: "notes", Name: "Notes", Icon: "sticky-note", Description: "Quick notes"},
		{ID: "music", Name: "Music", Icon: "music", Description: "Music player"},
		{ID: "assistant", Name: "Assistant", Icon: "sparkles", Description: "AI assistant"},
	}
}

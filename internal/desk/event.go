package desk

import (
	"github.com/1broseidon/webdesk/internal/desktop"
	"github.com/1broseidon/webdesk/internal/drag"
	"github.com/1broseidon/webdesk/internal/geom"
	"github.com/1broseidon/webdesk/internal/window"
)

// EventKind names a committed state change.
type EventKind string

const (
	EventOpened        EventKind = "opened"
	EventRestored      EventKind = "restored"
	EventClosed        EventKind = "closed"
	EventFocused       EventKind = "focused"
	EventMinimized     EventKind = "minimized"
	EventMaximized     EventKind = "maximized"
	EventUnmaximized   EventKind = "unmaximized"
	EventMoved         EventKind = "moved"
	EventGeometry      EventKind = "geometry"
	EventDesktopSwitch EventKind = "desktop_switched"
	EventDesktopMove   EventKind = "desktop_moved"
	EventViewport      EventKind = "viewport"
	EventConfigApplied EventKind = "config_applied"
	EventDragStarted   EventKind = "drag_started"
	EventDragFinished  EventKind = "drag_finished"
)

// Event is published to subscribers after a change is committed. Seq
// increases by one per event in commit order.
type Event struct {
	Seq       uint64    `json:"seq"`
	Kind      EventKind `json:"kind"`
	WindowID  string    `json:"window_id,omitempty"`
	DesktopID string    `json:"desktop_id,omitempty"`
}

// State is an immutable snapshot of the whole desk.
type State struct {
	Windows       []window.Record   `json:"windows"` // ascending z
	ActiveWindow  string            `json:"active_window,omitempty"`
	ActiveDesktop string            `json:"active_desktop"`
	Desktops      []desktop.Desktop `json:"desktops"`
	Viewport      geom.Size         `json:"viewport"`
	Drag          DragInfo          `json:"drag"`
}

// DragInfo is the public view of the drag session.
type DragInfo struct {
	Phase    string `json:"phase"`
	WindowID string `json:"window_id,omitempty"`
}

func dragInfo(s drag.State) DragInfo {
	return DragInfo{Phase: s.Phase.String(), WindowID: s.WindowID}
}

// Visible returns the windows of s rendered on its active desktop.
func (s State) Visible() []window.Record {
	return desktop.FilterVisible(s.Windows, s.ActiveDesktop)
}

// Minimized returns the minimized windows of s across all desktops.
func (s State) Minimized() []window.Record {
	return minimized(s.Windows)
}

func minimized(records []window.Record) []window.Record {
	out := make([]window.Record, 0)
	for _, rec := range records {
		if rec.Minimized {
			out = append(out, rec)
		}
	}
	return out
}

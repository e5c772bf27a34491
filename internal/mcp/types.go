package mcp

import (
	"github.com/1broseidon/webdesk/internal/apps"
	"github.com/1broseidon/webdesk/internal/desktop"
	"github.com/1broseidon/webdesk/internal/window"
)

// OpenWindowInput is the input for the open_window tool.
type OpenWindowInput struct {
	AppID string `json:"app_id" jsonschema:"required,Application id to open or restore (see list_apps)"`
}

// OpenWindowOutput is the output for the open_window tool.
type OpenWindowOutput struct {
	Window   window.Record `json:"window"`
	Restored bool          `json:"restored"`
}

// WindowInput targets one window for close, minimize, maximize and focus.
type WindowInput struct {
	WindowID string `json:"window_id" jsonschema:"required,Window id (the app id of the window)"`
}

// SwitchDesktopInput is the input for the switch_desktop tool.
type SwitchDesktopInput struct {
	DesktopID string `json:"desktop_id" jsonschema:"required,Virtual desktop id to activate (e.g. desktop-2)"`
}

// MoveWindowInput is the input for the move_window_to_desktop tool.
type MoveWindowInput struct {
	WindowID  string `json:"window_id" jsonschema:"required,Window id to move"`
	DesktopID string `json:"desktop_id" jsonschema:"required,Destination virtual desktop id"`
}

// ActionOutput reports a mutation that succeeded.
type ActionOutput struct {
	Action        string `json:"action"`
	WindowID      string `json:"window_id,omitempty"`
	ActiveWindow  string `json:"active_window,omitempty"`
	ActiveDesktop string `json:"active_desktop"`
}

// GetStateInput is the input for the get_desktop_state tool.
type GetStateInput struct {
	DesktopID string `json:"desktop_id,omitempty" jsonschema:"Desktop whose visible windows to list (default: the active desktop)"`
}

// GetStateOutput is the output for the get_desktop_state tool.
type GetStateOutput struct {
	ActiveDesktop string            `json:"active_desktop"`
	ActiveWindow  string            `json:"active_window,omitempty"`
	Desktops      []desktop.Desktop `json:"desktops"`
	Visible       []window.Record   `json:"visible"`
	Minimized     []window.Record   `json:"minimized"`
	WindowCount   int               `json:"window_count"`
	Dragging      string            `json:"dragging,omitempty"`
}

// ListAppsInput is the input for the list_apps tool.
type ListAppsInput struct{}

// ListAppsOutput is the output for the list_apps tool.
type ListAppsOutput struct {
	Apps []apps.App `json:"apps"`
}

package ipc

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/1broseidon/webdesk/internal/apps"
	"github.com/1broseidon/webdesk/internal/desktop"
	"github.com/1broseidon/webdesk/internal/geom"
	"github.com/1broseidon/webdesk/internal/window"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandOpen           CommandType = "OPEN"
	CommandClose          CommandType = "CLOSE"
	CommandMinimize       CommandType = "MINIMIZE"
	CommandMaximize       CommandType = "MAXIMIZE"
	CommandFocus          CommandType = "FOCUS"
	CommandMoveToDesktop  CommandType = "MOVE_TO_DESKTOP"
	CommandSwitchDesktop  CommandType = "SWITCH_DESKTOP"
	CommandUpdateGeometry CommandType = "UPDATE_GEOMETRY"
	CommandPointerDown    CommandType = "POINTER_DOWN"
	CommandPointerMove    CommandType = "POINTER_MOVE"
	CommandPointerUp      CommandType = "POINTER_UP"
	CommandSetViewport    CommandType = "SET_VIEWPORT"
	CommandGetState       CommandType = "GET_STATE"
	CommandListVisible    CommandType = "LIST_VISIBLE"
	CommandListMinimized  CommandType = "LIST_MINIMIZED"
	CommandListApps       CommandType = "LIST_APPS"
	CommandGetStatus      CommandType = "GET_STATUS"
	CommandReload         CommandType = "RELOAD"
)

// Error codes let clients map a daemon error back to its sentinel.
const (
	CodeNotFound       = "not_found"
	CodeUnknownDesktop = "unknown_desktop"
	CodeUnknownApp     = "unknown_app"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
	Code   string          `json:"code,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	ActiveDesktop string `json:"active_desktop"`
	ActiveWindow  string `json:"active_window,omitempty"`
	WindowCount   int    `json:"window_count"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	DaemonRunning bool   `json:"daemon_running"`
}

type OpenPayload struct {
	AppID string `json:"app_id"`
}

// WindowPayload targets a single window for CLOSE, MINIMIZE, MAXIMIZE
// and FOCUS.
type WindowPayload struct {
	WindowID string `json:"window_id"`
}

type DesktopPayload struct {
	DesktopID string `json:"desktop_id"`
}

type MoveToDesktopPayload struct {
	WindowID  string `json:"window_id"`
	DesktopID string `json:"desktop_id"`
}

type GeometryPayload struct {
	WindowID string     `json:"window_id"`
	Position geom.Point `json:"position"`
	Size     geom.Size  `json:"size"`
	Dragging bool       `json:"dragging,omitempty"`
}

// PointerPayload carries one pointer event. WindowID and Region are only
// read for POINTER_DOWN.
type PointerPayload struct {
	WindowID string `json:"window_id,omitempty"`
	Region   string `json:"region,omitempty"` // "header" or "content"
	X        int    `json:"x"`
	Y        int    `json:"y"`
}

type ViewportPayload struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ListVisiblePayload selects the desktop for LIST_VISIBLE. An empty id
// means the active desktop.
type ListVisiblePayload struct {
	DesktopID string `json:"desktop_id,omitempty"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// newDeskErrorResponse is NewErrorResponse plus the code of a known
// sentinel in err's chain.
func newDeskErrorResponse(err error) *Response {
	resp := NewErrorResponse(err.Error())
	switch {
	case errors.Is(err, window.ErrNotFound):
		resp.Code = CodeNotFound
	case errors.Is(err, desktop.ErrUnknownDesktop):
		resp.Code = CodeUnknownDesktop
	case errors.Is(err, apps.ErrUnknownApp):
		resp.Code = CodeUnknownApp
	}
	return resp
}

// sentinel returns the error a response code stands for, or nil.
func sentinel(code string) error {
	switch code {
	case CodeNotFound:
		return window.ErrNotFound
	case CodeUnknownDesktop:
		return desktop.ErrUnknownDesktop
	case CodeUnknownApp:
		return apps.ErrUnknownApp
	}
	return nil
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/webdesk/internal/apps"
	"github.com/1broseidon/webdesk/internal/desk"
	"github.com/1broseidon/webdesk/internal/geom"
	"github.com/1broseidon/webdesk/internal/runtimepath"
	"github.com/1broseidon/webdesk/internal/window"
)

// RemoteError is an ERROR response from the daemon. It unwraps to the
// matching sentinel when the daemon sent a known code, so errors.Is works
// across the socket.
type RemoteError struct {
	Message string
	Code    string
}

func (e *RemoteError) Error() string {
	return "daemon error: " + e.Message
}

func (e *RemoteError) Unwrap() error {
	return sentinel(e.Code)
}

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for the default daemon socket.
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientAt(socketPath)
}

// NewClientAt creates a client for the daemon listening on socketPath.
func NewClientAt(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, &RemoteError{Message: resp.Error, Code: resp.Code}
	}

	return &resp, nil
}

// call sends command with payload and decodes the response data into out
// when out is non-nil.
func (c *Client) call(command CommandType, payload, out interface{}) error {
	req := &Request{Command: command}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal %s payload: %w", command, err)
		}
		req.Payload = data
	}

	resp, err := c.sendRequest(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", command, err)
	}
	return nil
}

// Open opens or restores the window for appID.
func (c *Client) Open(appID string) (window.Record, error) {
	var rec window.Record
	err := c.call(CommandOpen, OpenPayload{AppID: appID}, &rec)
	return rec, err
}

func (c *Client) Close(id string) error {
	return c.call(CommandClose, WindowPayload{WindowID: id}, nil)
}

func (c *Client) Minimize(id string) error {
	return c.call(CommandMinimize, WindowPayload{WindowID: id}, nil)
}

// Maximize toggles maximized state.
func (c *Client) Maximize(id string) error {
	return c.call(CommandMaximize, WindowPayload{WindowID: id}, nil)
}

func (c *Client) Focus(id string) error {
	return c.call(CommandFocus, WindowPayload{WindowID: id}, nil)
}

func (c *Client) MoveToDesktop(id, desktopID string) error {
	return c.call(CommandMoveToDesktop, MoveToDesktopPayload{WindowID: id, DesktopID: desktopID}, nil)
}

func (c *Client) SwitchDesktop(desktopID string) error {
	return c.call(CommandSwitchDesktop, DesktopPayload{DesktopID: desktopID}, nil)
}

func (c *Client) UpdateGeometry(id string, pos geom.Point, size geom.Size) error {
	return c.call(CommandUpdateGeometry, GeometryPayload{WindowID: id, Position: pos, Size: size}, nil)
}

// PointerDown reports a press on window id. region is "header" or
// "content".
func (c *Client) PointerDown(id, region string, pointer geom.Point) error {
	return c.call(CommandPointerDown, PointerPayload{WindowID: id, Region: region, X: pointer.X, Y: pointer.Y}, nil)
}

func (c *Client) PointerMove(pointer geom.Point) error {
	return c.call(CommandPointerMove, PointerPayload{X: pointer.X, Y: pointer.Y}, nil)
}

func (c *Client) PointerUp() error {
	return c.call(CommandPointerUp, nil, nil)
}

// SetViewport reports the renderer size and returns the size the daemon
// recorded after clamping.
func (c *Client) SetViewport(size geom.Size) (geom.Size, error) {
	var got geom.Size
	err := c.call(CommandSetViewport, ViewportPayload{Width: size.Width, Height: size.Height}, &got)
	return got, err
}

// GetState retrieves a full desk snapshot.
func (c *Client) GetState() (desk.State, error) {
	var state desk.State
	err := c.call(CommandGetState, nil, &state)
	return state, err
}

// ListVisible lists the windows rendered on desktopID, or on the active
// desktop when desktopID is empty.
func (c *Client) ListVisible(desktopID string) ([]window.Record, error) {
	var out []window.Record
	err := c.call(CommandListVisible, ListVisiblePayload{DesktopID: desktopID}, &out)
	return out, err
}

func (c *Client) ListMinimized() ([]window.Record, error) {
	var out []window.Record
	err := c.call(CommandListMinimized, nil, &out)
	return out, err
}

func (c *Client) ListApps() ([]apps.App, error) {
	var out []apps.App
	err := c.call(CommandListApps, nil, &out)
	return out, err
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	var status StatusData
	if err := c.call(CommandGetStatus, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Reload sends a RELOAD command to the daemon
func (c *Client) Reload() error {
	return c.call(CommandReload, nil, nil)
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}

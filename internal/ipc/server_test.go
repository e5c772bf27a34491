package ipc

import (
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/1broseidon/webdesk/internal/apps"
	"github.com/1broseidon/webdesk/internal/config"
	"github.com/1broseidon/webdesk/internal/desk"
	"github.com/1broseidon/webdesk/internal/desktop"
	"github.com/1broseidon/webdesk/internal/geom"
	"github.com/1broseidon/webdesk/internal/window"
)

// startServer runs a server on a short temp socket path; unix socket paths
// are limited to about 100 bytes.
func startServer(t *testing.T, opts ...ServerOption) (*desk.Desk, *Client) {
	t.Helper()
	dir, err := os.MkdirTemp("", "wd")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	d, err := desk.New(config.DefaultConfig())
	if err != nil {
		t.Fatalf("desk.New: %v", err)
	}
	socket := filepath.Join(dir, "s.sock")
	srv, err := NewServer(d, append([]ServerOption{WithSocketPath(socket)}, opts...)...)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(srv.Stop)
	return d, NewClientAt(socket)
}

func TestClientServerWindowLifecycle(t *testing.T) {
	d, c := startServer(t)

	rec, err := c.Open("calculator")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if rec.Position != (geom.Point{X: 50, Y: 50}) || rec.DesktopID != "desktop-1" {
		t.Fatalf("Open returned %+v", rec)
	}
	if _, err := c.Open("settings"); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := c.Minimize("settings"); err != nil {
		t.Fatalf("Minimize: %v", err)
	}

	visible, err := c.ListVisible("")
	if err != nil {
		t.Fatalf("ListVisible: %v", err)
	}
	if diff := cmp.Diff(d.VisibleWindows("desktop-1"), visible); diff != "" {
		t.Fatalf("visible mismatch (-desk +client):\n%s", diff)
	}

	minimized, err := c.ListMinimized()
	if err != nil {
		t.Fatalf("ListMinimized: %v", err)
	}
	if len(minimized) != 1 || minimized[0].ID != "settings" {
		t.Fatalf("minimized = %+v", minimized)
	}

	if err := c.Maximize("calculator"); err != nil {
		t.Fatalf("Maximize: %v", err)
	}
	if err := c.Close("settings"); err != nil {
		t.Fatalf("Close: %v", err)
	}

	state, err := c.GetState()
	if err != nil {
		t.Fatalf("GetState: %v", err)
	}
	if diff := cmp.Diff(d.Snapshot(), state); diff != "" {
		t.Fatalf("state mismatch (-desk +client):\n%s", diff)
	}
	if len(state.Windows) != 1 || !state.Windows[0].Maximized {
		t.Fatalf("unexpected windows: %+v", state.Windows)
	}
}

func TestClientServerDrag(t *testing.T) {
	d, c := startServer(t)
	if _, err := c.Open("notes"); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := c.PointerDown("notes", "header", geom.Point{X: 80, Y: 60}); err != nil {
		t.Fatalf("PointerDown: %v", err)
	}
	if err := c.PointerMove(geom.Point{X: 300, Y: 400}); err != nil {
		t.Fatalf("PointerMove: %v", err)
	}
	if err := c.PointerUp(); err != nil {
		t.Fatalf("PointerUp: %v", err)
	}
	rec, _ := d.Window("notes")
	if rec.Position != (geom.Point{X: 270, Y: 390}) || rec.Dragging {
		t.Fatalf("window after drag = %+v", rec)
	}
}

func TestClientServerSentinelErrors(t *testing.T) {
	_, c := startServer(t)

	tests := []struct {
		name string
		call func() error
		want error
	}{
		{"close unknown window", func() error { return c.Close("ghost") }, window.ErrNotFound},
		{"switch unknown desktop", func() error { return c.SwitchDesktop("nowhere") }, desktop.ErrUnknownDesktop},
		{"open unknown app", func() error { _, err := c.Open("solitaire"); return err }, apps.ErrUnknownApp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
			var remote *RemoteError
			if !errors.As(err, &remote) {
				t.Fatalf("error %T is not a RemoteError", err)
			}
		})
	}
}

func TestClientServerViewportAndStatus(t *testing.T) {
	_, c := startServer(t)

	got, err := c.SetViewport(geom.Size{Width: 1024, Height: 0})
	if err != nil {
		t.Fatalf("SetViewport: %v", err)
	}
	if got.Width != 1024 || got.Height <= config.DefaultTaskbarHeight {
		t.Fatalf("viewport = %+v, want clamped height", got)
	}

	if err := c.SwitchDesktop("desktop-3"); err != nil {
		t.Fatalf("SwitchDesktop: %v", err)
	}
	status, err := c.GetStatus()
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if !status.DaemonRunning || status.ActiveDesktop != "desktop-3" || status.WindowCount != 0 {
		t.Fatalf("status = %+v", status)
	}

	list, err := c.ListApps()
	if err != nil {
		t.Fatalf("ListApps: %v", err)
	}
	if len(list) != len(apps.Builtin()) {
		t.Fatalf("ListApps returned %d apps, want %d", len(list), len(apps.Builtin()))
	}
}

func TestClientServerReload(t *testing.T) {
	var calls atomic.Int32
	_, c := startServer(t, WithReload(func() error {
		calls.Add(1)
		return nil
	}))
	if err := c.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("reload calls = %d, want 1", got)
	}
}

func TestReloadWithoutHandlerFails(t *testing.T) {
	_, c := startServer(t)
	if err := c.Reload(); err == nil {
		t.Fatal("Reload() succeeded without a reload handler")
	}
}

func TestHandleCommandValidation(t *testing.T) {
	d, err := desk.New(nil)
	if err != nil {
		t.Fatalf("desk.New: %v", err)
	}
	srv := &Server{desk: d, logger: slog.New(slog.DiscardHandler)}

	tests := []struct {
		name    string
		req     Request
		wantErr string
	}{
		{"unknown command", Request{Command: "TELEPORT"}, "Unknown command"},
		{"open without payload", Request{Command: CommandOpen}, "payload is required"},
		{"open without app", Request{Command: CommandOpen, Payload: json.RawMessage(`{}`)}, "app_id is required"},
		{"close without id", Request{Command: CommandClose, Payload: json.RawMessage(`{}`)}, "window_id is required"},
		{"bad json", Request{Command: CommandFocus, Payload: json.RawMessage(`[`)}, "Invalid FOCUS payload"},
		{"pointer down without id", Request{Command: CommandPointerDown, Payload: json.RawMessage(`{"x":1}`)}, "window_id is required"},
		{"move without desktop", Request{Command: CommandMoveToDesktop, Payload: json.RawMessage(`{"window_id":"notes"}`)}, "desktop_id are required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := srv.handleCommand(&tt.req)
			if resp.Status != "ERROR" {
				t.Fatalf("status = %q, want ERROR", resp.Status)
			}
			if !strings.Contains(resp.Error, tt.wantErr) {
				t.Fatalf("error = %q, want substring %q", resp.Error, tt.wantErr)
			}
		})
	}
}

func TestPointerMoveWithoutPayloadIsIgnored(t *testing.T) {
	d, err := desk.New(nil)
	if err != nil {
		t.Fatalf("desk.New: %v", err)
	}
	srv := &Server{desk: d, logger: slog.New(slog.DiscardHandler)}
	for _, cmd := range []CommandType{CommandPointerMove, CommandPointerUp} {
		if resp := srv.handleCommand(&Request{Command: cmd}); resp.Status != "OK" {
			t.Fatalf("%s status = %q (%s)", cmd, resp.Status, resp.Error)
		}
	}
}

package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/1broseidon/webdesk/internal/desk"
	"github.com/1broseidon/webdesk/internal/desktop"
	"github.com/1broseidon/webdesk/internal/geom"
	"github.com/1broseidon/webdesk/internal/window"
)

func TestFormatWindow(t *testing.T) {
	tests := []struct {
		name string
		rec  window.Record
		want string
	}{
		{
			name: "plain",
			rec:  window.Record{ID: "notes", Z: 3, Position: geom.Point{X: 50, Y: 70}, Size: geom.Size{Width: 800, Height: 600}, DesktopID: "desktop-1"},
			want: "notes z=3 800x600+50+70 desktop=desktop-1",
		},
		{
			name: "flags",
			rec:  window.Record{ID: "music", Z: 1, Size: geom.Size{Width: 1280, Height: 740}, DesktopID: "desktop-2", Minimized: true, Maximized: true},
			want: "music z=1 1280x740+0+0 desktop=desktop-2 [minimized,maximized]",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatWindow(tt.rec); got != tt.want {
				t.Errorf("formatWindow() = %q, want %q", got, tt.want)
			}
		})
	}
}

func testState() desk.State {
	return desk.State{
		ActiveDesktop: "desktop-2",
		ActiveWindow:  "notes",
		Desktops: []desktop.Desktop{
			{ID: "desktop-1", Name: "Main"},
			{ID: "desktop-2", Name: "Work"},
		},
		Viewport: geom.Size{Width: 1280, Height: 800},
		Windows: []window.Record{
			{ID: "calculator", Z: 1, DesktopID: "desktop-1"},
			{ID: "notes", Z: 2, DesktopID: "desktop-2"},
		},
	}
}

func TestPrintState(t *testing.T) {
	var buf bytes.Buffer
	printState(&buf, testState(), 0)

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	want := []string{
		"  desktop-1 (Main)",
		"* desktop-2 (Work)",
		"viewport: 1280x800",
		"active_window: notes",
		"- calculator z=1 0x0+0+0 desktop=desktop-1",
		"- notes z=2 0x0+0+0 desktop=desktop-2",
	}
	if len(lines) != len(want) {
		t.Fatalf("printState lines = %q", lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestPrintStateTruncatesToWidth(t *testing.T) {
	var buf bytes.Buffer
	printState(&buf, testState(), 12)
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.HasPrefix(line, "- ") && len(line) > 12 {
			t.Errorf("window line %q wider than 12", line)
		}
	}
}

func TestPrintStateEmpty(t *testing.T) {
	var buf bytes.Buffer
	printState(&buf, desk.State{}, 0)
	if !strings.Contains(buf.String(), "no windows") {
		t.Errorf("empty state output = %q", buf.String())
	}
}

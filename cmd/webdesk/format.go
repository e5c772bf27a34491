package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/1broseidon/webdesk/internal/desk"
	"github.com/1broseidon/webdesk/internal/window"
)

func formatWindow(rec window.Record) string {
	var flags []string
	if rec.Minimized {
		flags = append(flags, "minimized")
	}
	if rec.Maximized {
		flags = append(flags, "maximized")
	}
	if rec.Dragging {
		flags = append(flags, "dragging")
	}
	line := fmt.Sprintf("%s z=%d %dx%d+%d+%d desktop=%s",
		rec.ID, rec.Z, rec.Size.Width, rec.Size.Height, rec.Position.X, rec.Position.Y, rec.DesktopID)
	if len(flags) > 0 {
		line += " [" + strings.Join(flags, ",") + "]"
	}
	return line
}

func printDesktops(w io.Writer, state desk.State) {
	for _, d := range state.Desktops {
		marker := " "
		if d.ID == state.ActiveDesktop {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %s (%s)\n", marker, d.ID, d.Name)
	}
}

// printState writes the desktops then one line per window, topmost last.
// Lines are cut at width when it is positive.
func printState(w io.Writer, state desk.State, width int) {
	printDesktops(w, state)
	fmt.Fprintf(w, "viewport: %dx%d\n", state.Viewport.Width, state.Viewport.Height)
	if state.ActiveWindow != "" {
		fmt.Fprintf(w, "active_window: %s\n", state.ActiveWindow)
	}
	if state.Drag.WindowID != "" {
		fmt.Fprintf(w, "dragging: %s\n", state.Drag.WindowID)
	}
	if len(state.Windows) == 0 {
		fmt.Fprintln(w, "no windows")
		return
	}
	for _, rec := range state.Windows {
		line := "- " + formatWindow(rec)
		if width > 0 && len(line) > width {
			line = line[:width]
		}
		fmt.Fprintln(w, line)
	}
}

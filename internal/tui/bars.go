package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/webdesk/internal/apps"
	"github.com/1broseidon/webdesk/internal/desk"
)

var (
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("250")).
				Background(lipgloss.Color("236")).
				Padding(0, 1)

	minimizedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Background(lipgloss.Color("236")).
			Padding(0, 1)

	tabGap = lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		SetString(" ")

	barStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("250")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// intersperse inserts sep between each element of items.
func intersperse(items []string, sep string) []string {
	if len(items) <= 1 {
		return items
	}
	result := make([]string, 0, len(items)*2-1)
	for i, item := range items {
		if i > 0 {
			result = append(result, sep)
		}
		result = append(result, item)
	}
	return result
}

// renderStatusBar shows the backend and the active window.
func renderStatusBar(source string, state desk.State, lastError string, width int) string {
	dot := lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("●")
	parts := []string{dot + " " + source}
	if state.ActiveWindow != "" {
		parts = append(parts, "active:"+state.ActiveWindow)
	}
	parts = append(parts, fmt.Sprintf("windows:%d", len(state.Windows)))
	if state.Drag.WindowID != "" {
		parts = append(parts, "dragging:"+state.Drag.WindowID)
	}
	status := strings.Join(parts, "  ")
	if lastError != "" {
		status += "  " + errorStyle.Render(lastError)
	}
	return barStyle.Width(width).Render(status)
}

// renderAppsBar lists launchable apps with the selection highlighted.
func renderAppsBar(list []apps.App, selected, width int) string {
	items := make([]string, 0, len(list))
	for i, app := range list {
		if i == selected {
			items = append(items, activeTabStyle.Render(app.Name))
		} else {
			items = append(items, inactiveTabStyle.Render(app.Name))
		}
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, intersperse(items, tabGap.Render())...)
	return lipgloss.NewStyle().Width(width).Render(row)
}

// renderTaskbar shows the desktops with their shortcuts, then the
// minimized windows available for restore.
func renderTaskbar(state desk.State, width int) string {
	items := make([]string, 0, len(state.Desktops)+len(state.Windows))
	for i, d := range state.Desktops {
		label := d.Name
		if i < 9 {
			label = fmt.Sprintf("%d:%s", i+1, d.Name)
		}
		if d.ID == state.ActiveDesktop {
			items = append(items, activeTabStyle.Render(label))
		} else {
			items = append(items, inactiveTabStyle.Render(label))
		}
	}
	for _, rec := range state.Minimized() {
		items = append(items, minimizedStyle.Render("_"+rec.Title))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, intersperse(items, tabGap.Render())...)
	return lipgloss.NewStyle().Width(width).Render(row)
}

func renderHelpBar(width int) string {
	help := "1-9: desktop  ←/→: app  o/enter: open  tab: next  m: minimize  x: maximize  c: close  r: restore  q: quit"
	return helpStyle.Width(width).Render(help)
}

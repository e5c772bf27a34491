// Package tui renders the desk in a terminal: the active desktop scaled to
// the window, a taskbar, and mouse dragging by title bars.
package tui

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/webdesk/internal/desk"
)

// Options configures Run.
type Options struct {
	// Source labels the backend in the status bar.
	Source string
	// Poll refreshes state periodically; use it for backends that cannot
	// push changes, such as the daemon client.
	Poll time.Duration
}

type subscriber interface {
	Subscribe(fn func(desk.Event)) func()
}

// Run starts the TUI and blocks until the user quits.
func Run(backend Backend, opts Options) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}
	if opts.Source == "" {
		opts.Source = "local desk"
	}

	p := tea.NewProgram(newModel(backend, opts.Source, opts.Poll),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if sub, ok := backend.(subscriber); ok {
		// Events arrive under the desk's notify lock, possibly from inside
		// Update; coalesce them and forward from another goroutine.
		changed := make(chan struct{}, 1)
		done := make(chan struct{})
		unsubscribe := sub.Subscribe(func(desk.Event) {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
		defer unsubscribe()
		defer close(done)
		go func() {
			for {
				select {
				case <-changed:
					p.Send(changedMsg{})
				case <-done:
					return
				}
			}
		}()
	}

	_, err := p.Run()
	return err
}

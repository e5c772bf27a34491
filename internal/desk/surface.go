package desk

import (
	"fmt"

	"github.com/1broseidon/webdesk/internal/drag"
	"github.com/1broseidon/webdesk/internal/geom"
	"github.com/1broseidon/webdesk/internal/window"
)

// lockedSurface exposes the store to the drag controller. It is only used
// while d.mu is held and collects the events its mutations produce.
type lockedSurface struct {
	d      *Desk
	events []Event
}

var _ drag.Surface = (*lockedSurface)(nil)

// Position reports false for minimized windows; they are not rendered and
// cannot be pressed.
func (s *lockedSurface) Position(id string) (geom.Point, bool) {
	rec, ok := s.d.store.Get(id)
	if !ok || rec.Minimized {
		return geom.Point{}, false
	}
	return rec.Position, true
}

func (s *lockedSurface) Focus(id string) error {
	ev, err := s.d.focusLocked(id)
	if err != nil {
		return err
	}
	s.events = append(s.events, ev)
	return nil
}

func (s *lockedSurface) MoveTo(id string, pos geom.Point, dragging bool) error {
	prev, ok := s.d.store.Get(id)
	if !ok {
		return fmt.Errorf("move %q: %w", id, window.ErrNotFound)
	}
	rec, err := s.d.store.Patch(id, window.Patch{Position: &pos, Dragging: &dragging})
	if err != nil {
		return err
	}

	kind := EventMoved
	switch {
	case dragging && !prev.Dragging:
		kind = EventDragStarted
	case !dragging && prev.Dragging:
		kind = EventDragFinished
	}
	s.events = append(s.events, Event{Kind: kind, WindowID: id, DesktopID: rec.DesktopID})
	return nil
}

// withSurface runs fn against a surface bound to d and returns the events it
// produced. Callers hold d.mu.
func (d *Desk) withSurface(fn func(drag.Surface) error) []Event {
	s := &lockedSurface{d: d}
	if err := fn(s); err != nil {
		d.logRecoverable(err, "pointer", "")
	}
	return s.events
}

// PointerDown routes a press on window id. A press anywhere focuses; a
// press on the header starts a drag.
func (d *Desk) PointerDown(id string, region drag.Region, pointer geom.Point) {
	d.mu.Lock()
	events := d.withSurface(func(s drag.Surface) error {
		return d.drag.PointerDown(s, id, region, pointer)
	})
	d.unlock(nil, "", "", events...)
}

// PointerMove moves the dragged window, keeping the grab offset. It is
// ignored when no drag is in progress.
func (d *Desk) PointerMove(pointer geom.Point) {
	d.mu.Lock()
	events := d.withSurface(func(s drag.Surface) error {
		return d.drag.PointerMove(s, pointer)
	})
	d.unlock(nil, "", "", events...)
}

// PointerUp ends the drag at the last pointer position.
func (d *Desk) PointerUp() {
	d.mu.Lock()
	events := d.withSurface(func(s drag.Surface) error { return d.drag.PointerUp(s) })
	d.unlock(nil, "", "", events...)
}

// LostCapture ends the drag as if the pointer was released.
func (d *Desk) LostCapture() {
	d.mu.Lock()
	events := d.withSurface(func(s drag.Surface) error { return d.drag.LostCapture(s) })
	d.unlock(nil, "", "", events...)
}

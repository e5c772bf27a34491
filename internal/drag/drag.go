// Package drag translates a pointer event stream into position updates for
// at most one window at a time.
package drag

import (
	"errors"
	"log/slog"

	"github.com/1broseidon/webdesk/internal/geom"
	"github.com/1broseidon/webdesk/internal/window"
)

// Surface is the mutation API the controller drives. The desk implements it
// while holding its own lock, so each pointer event is applied atomically.
type Surface interface {
	Position(id string) (geom.Point, bool)
	Focus(id string) error
	MoveTo(id string, pos geom.Point, dragging bool) error
}

// Controller is the drag state machine. It owns the only drag session, which
// is what keeps a single window dragging at any instant.
//
// Controller is not safe for concurrent use; callers serialize events.
type Controller struct {
	state  State
	logger *slog.Logger
}

// NewController creates an idle controller. A nil logger discards output.
func NewController(logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Controller{logger: logger}
}

// State returns a copy of the current drag session.
func (c *Controller) State() State {
	return c.state
}

// Active returns the id of the window being dragged, if any.
func (c *Controller) Active() (string, bool) {
	if c.state.Phase != PhaseDragging {
		return "", false
	}
	return c.state.WindowID, true
}

// PointerDown handles a press on window id. Any press focuses the window;
// only a header press starts a drag. A press while another drag is in
// progress ends that drag first. A window the surface cannot place, such as
// one that is minimized, is ignored.
func (c *Controller) PointerDown(s Surface, id string, region Region, pointer geom.Point) error {
	if c.state.Phase == PhaseDragging {
		c.finish(s)
	}

	pos, ok := s.Position(id)
	if !ok {
		return window.ErrNotFound
	}

	if err := s.Focus(id); err != nil {
		return err
	}

	if region != RegionHeader {
		return nil
	}

	c.state.Phase = PhaseDragging
	c.state.WindowID = id
	c.state.Offset = pointer.Sub(pos)
	c.state.Last = pointer

	if err := s.MoveTo(id, pos, true); err != nil {
		c.abort(err)
		return err
	}
	c.logger.Debug("drag started", "window", id, "offset_x", c.state.Offset.X, "offset_y", c.state.Offset.Y)
	return nil
}

// PointerMove moves the dragged window so the grab offset is preserved.
// Moves while idle are ignored. If the window disappeared mid-drag the
// session is dropped without error.
func (c *Controller) PointerMove(s Surface, pointer geom.Point) error {
	if c.state.Phase != PhaseDragging {
		return nil
	}
	c.state.Last = pointer
	if err := s.MoveTo(c.state.WindowID, pointer.Sub(c.state.Offset), true); err != nil {
		c.abort(err)
	}
	return nil
}

// PointerUp ends the drag and clears the window's dragging flag.
func (c *Controller) PointerUp(s Surface) error {
	if c.state.Phase != PhaseDragging {
		return nil
	}
	c.finish(s)
	return nil
}

// LostCapture is treated exactly like PointerUp.
func (c *Controller) LostCapture(s Surface) error {
	return c.PointerUp(s)
}

// Forget drops the session if it belongs to id. It does not touch the
// surface; the caller has already updated or removed the window.
func (c *Controller) Forget(id string) {
	if c.state.Phase == PhaseDragging && c.state.WindowID == id {
		c.logger.Debug("drag discarded", "window", id)
		c.state.Reset()
	}
}

func (c *Controller) finish(s Surface) {
	id := c.state.WindowID
	pos := c.state.Last.Sub(c.state.Offset)
	c.state.Reset()
	if err := s.MoveTo(id, pos, false); err != nil {
		if !errors.Is(err, window.ErrNotFound) {
			c.logger.Warn("drag finish failed", "window", id, "error", err)
		}
		return
	}
	c.logger.Debug("drag finished", "window", id, "x", pos.X, "y", pos.Y)
}

func (c *Controller) abort(err error) {
	c.logger.Debug("drag aborted", "window", c.state.WindowID, "error", err)
	c.state.Reset()
}

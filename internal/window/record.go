package window

import (
	"errors"

	"github.com/1broseidon/webdesk/internal/geom"
)

// ErrNotFound is returned when a mutation targets a window that is not open.
var ErrNotFound = errors.New("window not found")

// ErrExists is returned when opening a window whose id is already open.
var ErrExists = errors.New("window already open")

// Record is the state of one open application window.
type Record struct {
	ID        string     `json:"id"`
	AppID     string     `json:"app_id"`
	Title     string     `json:"title"`
	Position  geom.Point `json:"position"`
	Size      geom.Size  `json:"size"`
	Z         int        `json:"z_index"`
	Minimized bool       `json:"is_minimized"`
	Maximized bool       `json:"is_maximized"`
	Dragging  bool       `json:"is_dragging"`
	DesktopID string     `json:"desktop_id"`
	Opacity   float64    `json:"opacity"`
}

// Bounds returns the window's rectangle in viewport pixels.
func (r Record) Bounds() geom.Rect {
	return geom.RectOf(r.Position, r.Size)
}

// Patch is a partial update. Nil fields are left untouched.
type Patch struct {
	Position  *geom.Point
	Size      *geom.Size
	Z         *int
	Minimized *bool
	Maximized *bool
	Dragging  *bool
	DesktopID *string
	Opacity   *float64
}

func (p Patch) apply(r Record) Record {
	if p.Position != nil {
		r.Position = *p.Position
	}
	if p.Size != nil {
		r.Size = *p.Size
	}
	if p.Z != nil {
		r.Z = *p.Z
	}
	if p.Minimized != nil {
		r.Minimized = *p.Minimized
	}
	if p.Maximized != nil {
		r.Maximized = *p.Maximized
	}
	if p.Dragging != nil {
		r.Dragging = *p.Dragging
	}
	if p.DesktopID != nil {
		r.DesktopID = *p.DesktopID
	}
	if p.Opacity != nil {
		r.Opacity = *p.Opacity
	}
	return r
}

// Ptr returns a pointer to v, for building Patch literals.
func Ptr[T any](v T) *T { return &v }

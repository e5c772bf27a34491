package drag

import "github.com/1broseidon/webdesk/internal/geom"

// Phase represents the current phase of the drag controller
type Phase int

const (
	// PhaseIdle means no window is being dragged
	PhaseIdle Phase = iota
	// PhaseDragging means a window header was grabbed and follows the pointer
	PhaseDragging
)

// String returns the string representation of the phase
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDragging:
		return "dragging"
	default:
		return "unknown"
	}
}

// Region identifies which part of a window a pointer-down hit.
// Hit-testing itself belongs to the renderer.
type Region int

const (
	// RegionContent is the application content area
	RegionContent Region = iota
	// RegionHeader is the title bar, the only drag handle
	RegionHeader
)

// String returns the string representation of the region
func (r Region) String() string {
	switch r {
	case RegionContent:
		return "content"
	case RegionHeader:
		return "header"
	default:
		return "unknown"
	}
}

// ParseRegion maps "header"/"content" to a Region. Anything else is content,
// so an unknown hit never steals input from the application.
func ParseRegion(s string) Region {
	if s == "header" {
		return RegionHeader
	}
	return RegionContent
}

// State holds the current drag session
type State struct {
	Phase    Phase
	WindowID string     // Window being dragged ("" when idle)
	Offset   geom.Point // Pointer position minus window position at grab time
	Last     geom.Point // Last pointer position seen
}

// Reset returns the state to idle
func (s *State) Reset() {
	s.Phase = PhaseIdle
	s.WindowID = ""
	s.Offset = geom.Point{}
	s.Last = geom.Point{}
}

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/webdesk/internal/drag"
	"github.com/1broseidon/webdesk/internal/geom"
	"github.com/1broseidon/webdesk/internal/window"
)

const (
	minFrameCols = 8
	minFrameRows = 3
)

// scale maps desktop pixels onto a grid of terminal cells.
type scale struct {
	viewport geom.Size
	cols     int
	rows     int
}

func newScale(viewport geom.Size, cols, rows int) scale {
	if viewport.Width < 1 {
		viewport.Width = 1
	}
	if viewport.Height < 1 {
		viewport.Height = 1
	}
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return scale{viewport: viewport, cols: cols, rows: rows}
}

func (s scale) toCell(p geom.Point) geom.Point {
	return geom.Point{
		X: p.X * s.cols / s.viewport.Width,
		Y: p.Y * s.rows / s.viewport.Height,
	}
}

func (s scale) toPixel(cell geom.Point) geom.Point {
	return geom.Point{
		X: cell.X * s.viewport.Width / s.cols,
		Y: cell.Y * s.viewport.Height / s.rows,
	}
}

// frame is a window projected onto the cell grid.
type frame struct {
	ID     string
	Title  string
	Rect   geom.Rect
	Active bool
}

// layoutFrames projects visible windows, given in ascending z, onto the
// grid. Frames never shrink below a readable minimum.
func layoutFrames(visible []window.Record, active string, s scale) []frame {
	frames := make([]frame, 0, len(visible))
	for _, rec := range visible {
		topLeft := s.toCell(rec.Position)
		bottomRight := s.toCell(rec.Position.Add(geom.Point{X: rec.Size.Width, Y: rec.Size.Height}))
		r := geom.Rect{
			X:      topLeft.X,
			Y:      topLeft.Y,
			Width:  max(bottomRight.X-topLeft.X, minFrameCols),
			Height: max(bottomRight.Y-topLeft.Y, minFrameRows),
		}
		title := rec.Title
		if title == "" {
			title = rec.ID
		}
		frames = append(frames, frame{ID: rec.ID, Title: title, Rect: r, Active: rec.ID == active})
	}
	return frames
}

// hitTest returns the topmost frame under cell and whether the press landed
// on its title row.
func hitTest(frames []frame, cell geom.Point) (frame, drag.Region, bool) {
	for i := len(frames) - 1; i >= 0; i-- {
		f := frames[i]
		if !f.Rect.Contains(cell) {
			continue
		}
		if cell.Y == f.Rect.Y {
			return f, drag.RegionHeader, true
		}
		return f, drag.RegionContent, true
	}
	return frame{}, drag.RegionContent, false
}

var (
	desktopStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))

	windowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	activeWindowStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("62"))
)

// renderDesktop paints frames bottom to top into a cols x rows block.
func renderDesktop(frames []frame, cols, rows int) string {
	if cols < 1 || rows < 1 {
		return ""
	}
	cells := make([][]rune, rows)
	owner := make([][]int, rows)
	for y := range cells {
		cells[y] = []rune(strings.Repeat(" ", cols))
		owner[y] = make([]int, cols)
		for x := range owner[y] {
			owner[y][x] = -1
		}
	}

	put := func(x, y int, r rune, idx int) {
		if x < 0 || y < 0 || x >= cols || y >= rows {
			return
		}
		cells[y][x] = r
		owner[y][x] = idx
	}

	for idx, f := range frames {
		r := f.Rect
		right := r.X + r.Width - 1
		bottom := r.Y + r.Height - 1
		for y := r.Y; y <= bottom; y++ {
			for x := r.X; x <= right; x++ {
				ch := ' '
				switch {
				case y == r.Y && x == r.X:
					ch = '┌'
				case y == r.Y && x == right:
					ch = '┐'
				case y == bottom && x == r.X:
					ch = '└'
				case y == bottom && x == right:
					ch = '┘'
				case y == r.Y || y == bottom:
					ch = '─'
				case x == r.X || x == right:
					ch = '│'
				}
				put(x, y, ch, idx)
			}
		}
		label := []rune(" " + f.Title + " ")
		for i, ch := range label {
			x := r.X + 1 + i
			if x >= right {
				break
			}
			put(x, r.Y, ch, idx)
		}
	}

	lines := make([]string, rows)
	for y := 0; y < rows; y++ {
		var sb strings.Builder
		start := 0
		for x := 1; x <= cols; x++ {
			if x < cols && owner[y][x] == owner[y][start] {
				continue
			}
			sb.WriteString(styleFor(frames, owner[y][start]).Render(string(cells[y][start:x])))
			start = x
		}
		lines[y] = sb.String()
	}
	return strings.Join(lines, "\n")
}

func styleFor(frames []frame, idx int) lipgloss.Style {
	switch {
	case idx < 0:
		return desktopStyle
	case frames[idx].Active:
		return activeWindowStyle
	default:
		return windowStyle
	}
}

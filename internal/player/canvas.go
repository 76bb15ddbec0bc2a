package player

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// canvas is a fixed-width row compositor. Later paints win over earlier ones;
// overlapping spans are cut ANSI-aware so styled annotation elements can land
// on styled video chrome without corrupting escape sequences.
type canvas struct {
	width int
	rows  []canvasRow
}

// canvasRow holds non-overlapping spans sorted by x.
type canvasRow struct {
	spans []span
}

type span struct {
	x, w int
	text string
}

func newCanvas(width, height int) *canvas {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &canvas{width: width, rows: make([]canvasRow, height)}
}

// paint draws a multi-line block with its top-left corner at (x, y). Lines
// outside the canvas are clipped; partially visible lines are cut to fit.
func (c *canvas) paint(x, y int, block string) {
	for i, line := range strings.Split(block, "\n") {
		c.paintLine(x, y+i, line)
	}
}

func (c *canvas) paintLine(x, y int, line string) {
	if y < 0 || y >= len(c.rows) || line == "" {
		return
	}
	w := ansi.StringWidth(line)
	if x < 0 {
		line = ansi.TruncateLeft(line, -x, "")
		w += x
		x = 0
	}
	if x+w > c.width {
		line = ansi.Truncate(line, c.width-x, "")
		w = c.width - x
	}
	if w <= 0 {
		return
	}

	row := &c.rows[y]
	var kept []span
	for _, s := range row.spans {
		switch {
		case s.x+s.w <= x || s.x >= x+w:
			// no overlap
			kept = append(kept, s)
		default:
			// cut the earlier span around the new one
			if s.x < x {
				left := ansi.Truncate(s.text, x-s.x, "")
				kept = append(kept, span{x: s.x, w: x - s.x, text: left})
			}
			if s.x+s.w > x+w {
				cut := (x + w) - s.x
				right := ansi.TruncateLeft(s.text, cut, "")
				kept = append(kept, span{x: x + w, w: s.x + s.w - (x + w), text: right})
			}
		}
	}
	kept = append(kept, span{x: x, w: w, text: line})
	sortSpans(kept)
	row.spans = kept
}

// render flattens the canvas into newline-joined rows, filling gaps between
// spans with spaces.
func (c *canvas) render() string {
	lines := make([]string, len(c.rows))
	for i, row := range c.rows {
		var sb strings.Builder
		col := 0
		for _, s := range row.spans {
			if s.x > col {
				sb.WriteString(strings.Repeat(" ", s.x-col))
			}
			sb.WriteString(s.text)
			col = s.x + s.w
		}
		if col < c.width {
			sb.WriteString(strings.Repeat(" ", c.width-col))
		}
		lines[i] = sb.String()
	}
	return strings.Join(lines, "\n")
}

// sortSpans keeps a small span list ordered by x. Insertion sort: rows hold a
// handful of spans at most.
func sortSpans(spans []span) {
	for i := 1; i < len(spans); i++ {
		for j := i; j > 0 && spans[j].x < spans[j-1].x; j-- {
			spans[j], spans[j-1] = spans[j-1], spans[j]
		}
	}
}

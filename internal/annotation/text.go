package annotation

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
)

// Text is a positioned text label. The style fields mirror what the overlay
// paints: no field is validated or clamped here; presentation renders whatever
// it is handed.
type Text struct {
	id uuid.UUID

	Timing Interval
	Frame  Rect

	Body     string
	FontSize int    // >= boldFontSize renders bold; cell output has no scalable glyphs
	Link     string // optional target; rendered as an underlined element

	TextColor  Color
	Background Color
	Border     Color

	BorderWidth  int
	BorderRadius int // > 0 selects the rounded border set
	Padding      int
}

// boldFontSize is the point size at or above which a label renders bold.
const boldFontSize = 18

// NewText creates a text annotation with a fresh identity.
func NewText(body string) *Text {
	return &Text{id: uuid.New(), Body: body}
}

func (t *Text) ID() uuid.UUID  { return t.id }
func (t *Text) Span() Interval { return t.Timing }
func (t *Text) Bounds() Rect   { return t.Frame }

func (t *Text) variant() {}

// style derives the lipgloss style from the annotation data. It is rebuilt on
// every render; the caching of rendered output lives in the layer, keyed by
// identity, so mutating the data never leaves a stale element behind.
func (t *Text) style() lipgloss.Style {
	s := lipgloss.NewStyle()
	if !t.TextColor.Transparent() {
		s = s.Foreground(t.TextColor.Term())
	}
	if !t.Background.Transparent() {
		s = s.Background(t.Background.Term())
	}
	if t.FontSize >= boldFontSize {
		s = s.Bold(true)
	}
	if t.Link != "" {
		s = s.Underline(true)
	}
	if t.Padding > 0 {
		s = s.Padding(0, t.Padding)
	}
	if t.BorderWidth > 0 {
		border := lipgloss.NormalBorder()
		if t.BorderRadius > 0 {
			border = lipgloss.RoundedBorder()
		}
		s = s.Border(border)
		if !t.Border.Transparent() {
			s = s.BorderForeground(t.Border.Term())
		}
	}
	return s
}

// Render produces the label sized to the given cell box. A non-positive
// dimension falls back to the content's natural size.
func (t *Text) Render(width, height int) string {
	s := t.style()
	if width > 0 {
		// Width includes border cells; keep the content box at the requested
		// size the way the overlay box model expects.
		if t.BorderWidth > 0 {
			width -= 2
		}
		if width > 0 {
			s = s.Width(width)
		}
	}
	if height > 0 {
		h := height
		if t.BorderWidth > 0 {
			h -= 2
		}
		if h > 0 {
			s = s.Height(h)
		}
	}
	return s.Render(t.Body)
}

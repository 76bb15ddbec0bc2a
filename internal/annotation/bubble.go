package annotation

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Edge names the side of a speech bubble its pointer attaches to.
type Edge string

const (
	EdgeTop    Edge = "top"
	EdgeBottom Edge = "bottom"
	EdgeLeft   Edge = "left"
	EdgeRight  Edge = "right"
)

// SpeechBubble is a text annotation with a directional pointer toward its
// subject. Pointer geometry beyond edge and offset is carried but not yet
// rendered; the upstream data format reserves it.
type SpeechBubble struct {
	Text

	PointerEdge Edge
	// PointerOffset places the pointer along the edge, in percent of the
	// bubble's width (top/bottom) or height (left/right).
	PointerOffset float64
}

// NewSpeechBubble creates a speech bubble annotation with a fresh identity.
func NewSpeechBubble(body string, edge Edge) *SpeechBubble {
	b := &SpeechBubble{PointerEdge: edge, PointerOffset: 50}
	b.Text = *NewText(body)
	return b
}

// pointer glyphs per edge
var pointerGlyphs = map[Edge]string{
	EdgeTop:    "▲",
	EdgeBottom: "▼",
	EdgeLeft:   "◀",
	EdgeRight:  "▶",
}

// Render draws the bubble body and attaches the pointer glyph on the
// configured edge. Left/right pointers join horizontally; top/bottom pointers
// take one row from the body's height budget.
func (b *SpeechBubble) Render(width, height int) string {
	glyph, ok := pointerGlyphs[b.PointerEdge]
	if !ok {
		return b.Text.Render(width, height)
	}

	glyphStyle := lipgloss.NewStyle()
	if !b.Border.Transparent() {
		glyphStyle = glyphStyle.Foreground(b.Border.Term())
	} else if !b.TextColor.Transparent() {
		glyphStyle = glyphStyle.Foreground(b.TextColor.Term())
	}
	glyph = glyphStyle.Render(glyph)

	switch b.PointerEdge {
	case EdgeLeft:
		body := b.Text.Render(width-1, height)
		return lipgloss.JoinHorizontal(lipgloss.Center, glyph, body)
	case EdgeRight:
		body := b.Text.Render(width-1, height)
		return lipgloss.JoinHorizontal(lipgloss.Center, body, glyph)
	case EdgeTop:
		body := b.Text.Render(width, height-1)
		return lipgloss.JoinVertical(lipgloss.Left, b.pointerRow(body, glyph), body)
	default: // EdgeBottom
		body := b.Text.Render(width, height-1)
		return lipgloss.JoinVertical(lipgloss.Left, body, b.pointerRow(body, glyph))
	}
}

// pointerRow builds a one-row line with the glyph placed at PointerOffset
// percent of the body width.
func (b *SpeechBubble) pointerRow(body, glyph string) string {
	w := lipgloss.Width(body)
	if w <= 1 {
		return glyph
	}
	at := int(float64(w-1) * b.PointerOffset / 100)
	if at < 0 {
		at = 0
	}
	if at > w-1 {
		at = w - 1
	}
	return strings.Repeat(" ", at) + glyph
}

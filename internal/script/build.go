package script

import (
	"fmt"

	"github.com/fakeyudi/overcue/internal/annotation"
)

// Build converts script entries into annotation values. Suspicious but
// displayable data (inverted intervals, out-of-range percents, unparseable
// colors) produces warnings, not errors: the engine treats every entry as a
// total input. Entries of an unknown type are skipped with a warning.
func Build(s *Script) ([]annotation.Annotation, []string) {
	var (
		out      []annotation.Annotation
		warnings []string
	)

	for i, e := range s.Annotations {
		warnings = append(warnings, lint(i, e)...)

		switch e.Type {
		case "text", "":
			t := annotation.NewText(e.Text)
			applyEntry(t, e, i, &warnings)
			out = append(out, t)

		case "bubble":
			b := annotation.NewSpeechBubble(e.Text, annotation.Edge(e.PointerEdge))
			applyEntry(&b.Text, e, i, &warnings)
			if e.PointerOffset != 0 {
				b.PointerOffset = e.PointerOffset
			}
			if !validEdge(b.PointerEdge) {
				warnings = append(warnings, fmt.Sprintf("entry %d: unknown pointer edge %q", i, e.PointerEdge))
			}
			out = append(out, b)

		default:
			warnings = append(warnings, fmt.Sprintf("entry %d: unknown type %q, skipped", i, e.Type))
		}
	}
	return out, warnings
}

// applyEntry copies the shared text fields onto t.
func applyEntry(t *annotation.Text, e Entry, i int, warnings *[]string) {
	t.Timing = annotation.Interval{Start: e.Start, End: e.End}
	t.Frame = annotation.Rect{X: e.X, Y: e.Y, W: e.W, H: e.H}
	t.FontSize = e.FontSize
	t.Link = e.Link
	t.BorderWidth = e.BorderWidth
	t.BorderRadius = e.BorderRadius
	t.Padding = e.Padding

	t.TextColor = parseColor(e.TextColor, i, "text_color", warnings)
	t.Background = parseColor(e.Background, i, "background", warnings)
	t.Border = parseColor(e.Border, i, "border", warnings)
}

// parseColor parses a hex color field. Empty means unset; a malformed value
// warns and falls back to no color.
func parseColor(s string, i int, field string, warnings *[]string) annotation.Color {
	if s == "" {
		return annotation.Color{}
	}
	c, err := annotation.Hex(s)
	if err != nil {
		*warnings = append(*warnings, fmt.Sprintf("entry %d: %s: %v", i, field, err))
		return annotation.Color{}
	}
	return c
}

// lint flags authoring mistakes that do not prevent display.
func lint(i int, e Entry) []string {
	var w []string
	if e.Start > e.End {
		w = append(w, fmt.Sprintf("entry %d: inverted interval [%d,%d], will never display", i, e.Start, e.End))
	}
	for _, f := range []struct {
		name string
		v    float64
	}{{"x", e.X}, {"y", e.Y}, {"w", e.W}, {"h", e.H}} {
		if f.v < 0 || f.v > 100 {
			w = append(w, fmt.Sprintf("entry %d: %s=%g outside [0,100], may render off-surface", i, f.name, f.v))
		}
	}
	return w
}

func validEdge(e annotation.Edge) bool {
	switch e {
	case annotation.EdgeTop, annotation.EdgeBottom, annotation.EdgeLeft, annotation.EdgeRight:
		return true
	}
	return false
}

// Sample returns a small demonstration script covering both annotation
// variants. Written by `overcue sample` and used by the player docs.
func Sample() *Script {
	return &Script{
		Version: Version,
		Title:   "overcue demo",
		Annotations: []Entry{
			{
				Type: "text", Start: 0, End: 50,
				X: 6, Y: 8, W: 34, H: 18,
				Text: "Welcome! This label lives from tick 0 to 50.", FontSize: 18,
				TextColor: "#f8f8f2", Background: "#1a1a2e",
				Border: "#e94560", BorderWidth: 1, BorderRadius: 2, Padding: 1,
			},
			{
				Type: "bubble", Start: 40, End: 100,
				X: 52, Y: 55, W: 38, H: 20,
				Text: "A speech bubble overlaps the label between ticks 40 and 50.",
				TextColor: "#1a1a2e", Background: "#f9ed69",
				Border: "#f08a5d", BorderWidth: 1, Padding: 1,
				PointerEdge: "bottom", PointerOffset: 30,
			},
			{
				Type: "text", Start: 110, End: 180,
				X: 30, Y: 40, W: 40, H: 12,
				Text: "Seek backwards - the active set follows the position, not the direction.",
				TextColor: "#f8f8f2", Background: "#16213e", Padding: 1,
				Link: "https://example.com/overcue",
			},
		},
	}
}

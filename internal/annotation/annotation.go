// Package annotation defines the timed, positioned annotation records that the
// overlay engine displays over a playing video surface.
package annotation

import (
	"github.com/google/uuid"
)

// Interval is a time window in ticks (tenths of a second). Both bounds are
// inclusive: an annotation with Start=10, End=20 is active at tick 10 and at
// tick 20. An inverted interval (Start > End) contains no tick and is
// permanently inactive; it is not an error.
type Interval struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Contains reports whether tick falls inside the interval.
func (iv Interval) Contains(tick int) bool {
	return iv.Start <= tick && tick <= iv.End
}

// Inverted reports whether the interval can never contain a tick.
func (iv Interval) Inverted() bool {
	return iv.Start > iv.End
}

// Rect positions an annotation on the video surface. All four values are
// percentages of the surface content box, origin top-left. Values outside
// [0,100] are passed through to presentation untouched; the compositor clips.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Annotation is the closed set of displayable annotation variants. It is
// implemented by exactly *Text and *SpeechBubble; the unexported variant
// method keeps the set sealed, so a missing capability implementation is a
// compile error rather than a runtime failure.
type Annotation interface {
	// ID is the stable identity of the annotation. The active set and the
	// layer's render cache are keyed by it.
	ID() uuid.UUID

	// Span is the visibility window in ticks.
	Span() Interval

	// Bounds is the position on the surface in percent.
	Bounds() Rect

	// Render produces the annotation's presentational element for the given
	// cell dimensions. Pure with respect to the annotation data: the layer
	// caches the output by (ID, width, height) and re-renders only when the
	// target size changes.
	Render(width, height int) string

	variant()
}

// Package visibility computes which annotations are active at a given
// playback position and applies the minimal attach/detach diff against the
// currently displayed set.
package visibility

import (
	"math"

	"github.com/google/uuid"

	"github.com/fakeyudi/overcue/internal/annotation"
)

// Attacher is the layer-side contract the engine mutates through. The
// overlay pane implements it.
type Attacher interface {
	Attach(a annotation.Annotation)
	Detach(id uuid.UUID)
}

// Tick quantizes a playback position in seconds to the integer
// tenths-of-a-second unit annotation intervals are expressed in.
func Tick(position float64) int {
	return int(math.Floor(position * 10))
}

// Engine tracks the full annotation collection and the remembered active set,
// and diffs the two on every refresh. Membership is keyed by annotation
// identity, so the DOM-equivalent mutation step costs O(previous + selected),
// never O(collection).
type Engine struct {
	target Attacher

	all    []annotation.Annotation
	active map[uuid.UUID]annotation.Annotation
}

// NewEngine returns an engine that attaches and detaches through target.
func NewEngine(target Attacher) *Engine {
	return &Engine{
		target: target,
		active: make(map[uuid.UUID]annotation.Annotation),
	}
}

// SetAnnotations replaces the collection wholesale. It deliberately does NOT
// refresh: the remembered active set stays as displayed until the next
// position-driven Refresh, avoiding churn when the host replaces the
// collection mid-playback. Callers that changed timing data without a
// concurrent position change use the session's explicit refresh instead.
func (e *Engine) SetAnnotations(list []annotation.Annotation) {
	e.all = make([]annotation.Annotation, len(list))
	copy(e.all, list)
}

// Annotations returns the current collection.
func (e *Engine) Annotations() []annotation.Annotation {
	out := make([]annotation.Annotation, len(e.all))
	copy(out, e.all)
	return out
}

// Refresh recomputes the active set for tick and applies the diff: newly
// active annotations are attached, no-longer-active ones detached, and
// annotations active in both sets are left untouched. The result is a pure
// function of tick and the collection, so repeated calls at one tick are
// no-ops and backward seeks need no special casing. The attach and detach
// counts are returned for observability.
func (e *Engine) Refresh(tick int) (attached, detached int) {
	next := make(map[uuid.UUID]annotation.Annotation)
	for _, a := range e.all {
		if a.Span().Contains(tick) {
			next[a.ID()] = a
		}
	}

	for id, a := range next {
		if _, ok := e.active[id]; !ok {
			e.target.Attach(a)
			attached++
		}
	}
	for id := range e.active {
		if _, ok := next[id]; !ok {
			e.target.Detach(id)
			detached++
		}
	}

	e.active = next
	return attached, detached
}

// ActiveCount returns the size of the remembered active set.
func (e *Engine) ActiveCount() int { return len(e.active) }

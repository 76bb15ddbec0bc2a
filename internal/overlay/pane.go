package overlay

import (
	"math"

	"github.com/google/uuid"

	"github.com/fakeyudi/overcue/internal/annotation"
)

// Pane is the concrete companion layer: a box kept in sync with the surface
// and the set of currently attached annotation elements. It is exclusively
// owned by one session; the session serializes all mutation, so Pane itself
// carries no lock.
type Pane struct {
	box Box

	elems map[uuid.UUID]annotation.Annotation
	order []uuid.UUID // attach order, for deterministic composition

	cache map[uuid.UUID]cachedElement
}

// cachedElement memoizes a rendered element for a given cell size. Rendering
// is a pure function of annotation data and size, so the cache is invalidated
// only when the target size changes or the element is detached.
type cachedElement struct {
	width, height int
	content       string
}

// NewPane returns an empty companion layer.
func NewPane() *Pane {
	return &Pane{
		elems: make(map[uuid.UUID]annotation.Annotation),
		cache: make(map[uuid.UUID]cachedElement),
	}
}

// SetBox applies the synchronized geometry. Resizing drops the render cache;
// cached output is only valid for the size it was produced at.
func (p *Pane) SetBox(b Box) {
	if b.Width != p.box.Width || b.Height != p.box.Height {
		clear(p.cache)
	}
	p.box = b
}

// Box returns the layer's current geometry.
func (p *Pane) Box() Box { return p.box }

// Attach adds an annotation's element to the layer. Attaching an
// already-attached annotation is a no-op; the element is not recreated.
func (p *Pane) Attach(a annotation.Annotation) {
	id := a.ID()
	if _, ok := p.elems[id]; ok {
		return
	}
	p.elems[id] = a
	p.order = append(p.order, id)
}

// Detach removes an annotation's element and its cached rendering.
func (p *Pane) Detach(id uuid.UUID) {
	if _, ok := p.elems[id]; !ok {
		return
	}
	delete(p.elems, id)
	delete(p.cache, id)
	for i, other := range p.order {
		if other == id {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
}

// Attached returns the attached annotations in attach order.
func (p *Pane) Attached() []annotation.Annotation {
	out := make([]annotation.Annotation, 0, len(p.order))
	for _, id := range p.order {
		out = append(out, p.elems[id])
	}
	return out
}

// Len returns the number of attached elements.
func (p *Pane) Len() int { return len(p.elems) }

// PlacedElement is a rendered element positioned in cells relative to the
// layer's own origin.
type PlacedElement struct {
	ID      uuid.UUID
	X, Y    int
	Content string
}

// Elements maps every attached annotation's percent bounds onto the layer's
// current box and returns the rendered, positioned elements in attach order.
// Percent values are applied as-is; out-of-range bounds produce out-of-range
// placements for the compositor to clip.
func (p *Pane) Elements() []PlacedElement {
	out := make([]PlacedElement, 0, len(p.order))
	for _, id := range p.order {
		a := p.elems[id]
		r := a.Bounds()
		x := int(math.Round(p.box.Width * r.X / 100))
		y := int(math.Round(p.box.Height * r.Y / 100))
		w := int(math.Round(p.box.Width * r.W / 100))
		h := int(math.Round(p.box.Height * r.H / 100))

		c, ok := p.cache[id]
		if !ok || c.width != w || c.height != h {
			c = cachedElement{width: w, height: h, content: a.Render(w, h)}
			p.cache[id] = c
		}
		out = append(out, PlacedElement{ID: id, X: x, Y: y, Content: c.content})
	}
	return out
}

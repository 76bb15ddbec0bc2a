// Package overlay keeps a companion annotation layer geometrically congruent
// with a host video surface: same rendered box, painted one stacking level
// above it.
package overlay

// Box is the ephemeral on-screen geometry of a surface or layer: size and
// offset-from-parent in the surface's layout units, plus the paint order.
// It is recomputed on every sync and never persisted.
type Box struct {
	Width  float64
	Height float64
	Left   float64
	Top    float64

	// StackOrder is the paint-order value; higher paints on top.
	StackOrder int
}

// Surface is the read side of a host video element: current geometry,
// resolved stacking order, and playback position. Implementations are
// provided by the host (the terminal player, or a test double).
type Surface interface {
	// Bounds returns the rendered content box. The StackOrder field of the
	// returned Box is ignored; stacking is read separately because the host
	// may leave it unset.
	Bounds() Box

	// StackOrder returns the surface's resolved paint order. ok is false
	// when the host has no explicit order, in which case the synchronizer
	// substitutes its configured fallback.
	StackOrder() (order int, ok bool)

	// Position returns the current playback position in seconds.
	Position() float64
}

// Layer is the write side of the companion layer: the synchronizer's only
// mutation target.
type Layer interface {
	SetBox(Box)
}

// Synchronizer keeps one Layer's box congruent with one Surface.
type Synchronizer struct {
	surface  Surface
	layer    Layer
	fallback int // stacking order used when the surface has none
}

// NewSynchronizer binds a surface to its companion layer. fallbackOrder is
// the stacking order applied when the surface's own order is unset.
func NewSynchronizer(surface Surface, layer Layer, fallbackOrder int) *Synchronizer {
	return &Synchronizer{surface: surface, layer: layer, fallback: fallbackOrder}
}

// Sync reads the surface's current box and stacking order and applies them to
// the layer: size and offset unchanged, order incremented by one so the layer
// always paints above the surface. A detached or zero-sized surface yields a
// zero-sized layer; that is a valid state, not an error.
func (s *Synchronizer) Sync() {
	box := s.surface.Bounds()
	if z, ok := s.surface.StackOrder(); ok {
		box.StackOrder = z + 1
	} else {
		box.StackOrder = s.fallback
	}
	s.layer.SetBox(box)
}

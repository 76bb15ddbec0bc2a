package player

import (
	"sync"

	"github.com/fakeyudi/overcue/internal/overlay"
)

// videoSurface is the player's overlay.Surface implementation. The Bubble Tea
// update loop writes layout and playback position into it; the session (and
// its fallback ticker goroutine) reads from it, so access is locked.
type videoSurface struct {
	mu sync.Mutex

	box      overlay.Box
	order    int
	orderSet bool
	pos      float64
}

func (v *videoSurface) Bounds() overlay.Box {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.box
}

func (v *videoSurface) StackOrder() (int, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.order, v.orderSet
}

func (v *videoSurface) Position() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.pos
}

// setLayout updates the rendered box and stacking order in one step, the way
// a host relayout changes both together.
func (v *videoSurface) setLayout(box overlay.Box, order int, orderSet bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.box = box
	v.order = order
	v.orderSet = orderSet
}

func (v *videoSurface) setPosition(pos float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pos = pos
}

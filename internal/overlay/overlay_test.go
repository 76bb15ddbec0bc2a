package overlay_test

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/fakeyudi/overcue/internal/overlay"
)

// fakeSurface is a controllable overlay.Surface.
type fakeSurface struct {
	box      overlay.Box
	order    int
	orderSet bool
	pos      float64
}

func (f *fakeSurface) Bounds() overlay.Box     { return f.box }
func (f *fakeSurface) StackOrder() (int, bool) { return f.order, f.orderSet }
func (f *fakeSurface) Position() float64       { return f.pos }

// boxRecorder records the last box applied to it.
type boxRecorder struct {
	box   overlay.Box
	calls int
}

func (r *boxRecorder) SetBox(b overlay.Box) {
	r.box = b
	r.calls++
}

func TestSyncAppliesSurfaceBox(t *testing.T) {
	surf := &fakeSurface{
		box:      overlay.Box{Width: 640, Height: 360, Left: 12, Top: 34},
		order:    5,
		orderSet: true,
	}
	layer := &boxRecorder{}
	s := overlay.NewSynchronizer(surf, layer, 1000)

	s.Sync()

	want := overlay.Box{Width: 640, Height: 360, Left: 12, Top: 34, StackOrder: 6}
	if layer.box != want {
		t.Errorf("layer box = %+v, want %+v", layer.box, want)
	}
}

func TestSyncFallbackStackOrder(t *testing.T) {
	surf := &fakeSurface{box: overlay.Box{Width: 100, Height: 50}}
	layer := &boxRecorder{}
	overlay.NewSynchronizer(surf, layer, 1000).Sync()

	if layer.box.StackOrder != 1000 {
		t.Errorf("unset surface order: layer order = %d, want fallback 1000", layer.box.StackOrder)
	}
}

func TestSyncZeroSizedSurface(t *testing.T) {
	surf := &fakeSurface{} // detached: zero box, no order
	layer := &boxRecorder{}
	overlay.NewSynchronizer(surf, layer, 7).Sync()

	if layer.calls != 1 {
		t.Fatalf("SetBox calls = %d, want 1", layer.calls)
	}
	want := overlay.Box{StackOrder: 7}
	if layer.box != want {
		t.Errorf("zero-sized surface: layer box = %+v, want %+v", layer.box, want)
	}
}

// Property: after every sync the layer box is congruent with the surface box,
// with order Z+1 when resolved and the fallback otherwise.
func TestSyncCongruence(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		surf := &fakeSurface{
			box: overlay.Box{
				Width:  rapid.Float64Range(0, 4096).Draw(rt, "w"),
				Height: rapid.Float64Range(0, 4096).Draw(rt, "h"),
				Left:   rapid.Float64Range(-100, 4096).Draw(rt, "l"),
				Top:    rapid.Float64Range(-100, 4096).Draw(rt, "t"),
			},
			order:    rapid.IntRange(-10, 10_000).Draw(rt, "z"),
			orderSet: rapid.Bool().Draw(rt, "z_set"),
		}
		fallback := rapid.IntRange(1, 10_000).Draw(rt, "fallback")
		layer := &boxRecorder{}
		overlay.NewSynchronizer(surf, layer, fallback).Sync()

		if layer.box.Width != surf.box.Width || layer.box.Height != surf.box.Height ||
			layer.box.Left != surf.box.Left || layer.box.Top != surf.box.Top {
			rt.Fatalf("layer box %+v not congruent with surface box %+v", layer.box, surf.box)
		}
		wantOrder := fallback
		if surf.orderSet {
			wantOrder = surf.order + 1
		}
		if layer.box.StackOrder != wantOrder {
			rt.Fatalf("layer order = %d, want %d", layer.box.StackOrder, wantOrder)
		}
	})
}

package session_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fakeyudi/overcue/internal/annotation"
	"github.com/fakeyudi/overcue/internal/overlay"
	"github.com/fakeyudi/overcue/internal/session"
)

// fakeSurface is a mutable surface double shared with the session's fallback
// ticker, so it locks like a real host surface would.
type fakeSurface struct {
	mu       sync.Mutex
	box      overlay.Box
	order    int
	orderSet bool
	pos      float64
}

func (f *fakeSurface) Bounds() overlay.Box {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.box
}

func (f *fakeSurface) StackOrder() (int, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.order, f.orderSet
}

func (f *fakeSurface) Position() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pos
}

func (f *fakeSurface) set(box overlay.Box, pos float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.box = box
	f.pos = pos
}

func timed(start, end int) *annotation.Text {
	t := annotation.NewText("x")
	t.Timing = annotation.Interval{Start: start, End: end}
	return t
}

func TestInitialGeometrySync(t *testing.T) {
	surf := &fakeSurface{box: overlay.Box{Width: 320, Height: 180, Left: 8, Top: 4}}
	s := session.New(surf, session.Options{FallbackStackOrder: 42})
	defer s.Close()

	want := overlay.Box{Width: 320, Height: 180, Left: 8, Top: 4, StackOrder: 42}
	if got := s.Box(); got != want {
		t.Errorf("initial layer box = %+v, want %+v", got, want)
	}
}

func TestResizeTrigger(t *testing.T) {
	surf := &fakeSurface{}
	s := session.New(surf, session.Options{})
	defer s.Close()

	surf.set(overlay.Box{Width: 100, Height: 50, Left: 1, Top: 2}, 0)
	s.HandleResize()

	got := s.Box()
	if got.Width != 100 || got.Height != 50 || got.Left != 1 || got.Top != 2 {
		t.Errorf("box after resize = %+v", got)
	}
}

func TestTimeUpdateDrivesVisibility(t *testing.T) {
	surf := &fakeSurface{}
	s := session.New(surf, session.Options{})
	defer s.Close()

	a := timed(0, 50)
	s.SetAnnotations([]annotation.Annotation{a, timed(100, 200)})

	surf.set(overlay.Box{Width: 100, Height: 100}, 3.0) // tick 30
	s.HandleTimeUpdate()

	attached := s.Attached()
	if len(attached) != 1 || attached[0].ID() != a.ID() {
		t.Fatalf("attached = %d annotations, want exactly the first", len(attached))
	}
}

// Hiding the overlay must not alter the displayed-annotation set; showing it
// again brings the same elements back without a diff.
func TestShowHideIndependence(t *testing.T) {
	surf := &fakeSurface{}
	s := session.New(surf, session.Options{})
	defer s.Close()

	a := timed(0, 50)
	s.SetAnnotations([]annotation.Annotation{a})
	s.HandleTimeUpdate() // tick 0: a active

	if !s.Visible() {
		t.Fatal("overlay should start shown")
	}
	s.Hide()
	if s.Visible() {
		t.Fatal("Hide did not hide")
	}
	if len(s.Attached()) != 1 {
		t.Error("Hide altered the displayed set")
	}
	s.Show()
	if len(s.Attached()) != 1 || s.Attached()[0].ID() != a.ID() {
		t.Error("Show did not preserve the displayed set")
	}

	s.ToggleVisibility()
	if s.Visible() {
		t.Error("ToggleVisibility from shown should hide")
	}
	s.ToggleVisibility()
	if !s.Visible() {
		t.Error("ToggleVisibility from hidden should show")
	}
}

// Replacing the collection is lazy; ForceVisibilityRefresh is the escape
// hatch that applies it immediately.
func TestForceVisibilityRefresh(t *testing.T) {
	surf := &fakeSurface{}
	s := session.New(surf, session.Options{})
	defer s.Close()

	stale := timed(0, 50)
	s.SetAnnotations([]annotation.Annotation{stale})
	s.HandleTimeUpdate()
	if len(s.Attached()) != 1 {
		t.Fatal("setup: stale annotation not attached")
	}

	fresh := timed(0, 50)
	s.SetAnnotations([]annotation.Annotation{fresh})
	if got := s.Attached(); len(got) != 1 || got[0].ID() != stale.ID() {
		t.Error("replacement should leave the displayed set stale")
	}

	s.ForceVisibilityRefresh()
	if got := s.Attached(); len(got) != 1 || got[0].ID() != fresh.ID() {
		t.Error("ForceVisibilityRefresh did not apply the new collection")
	}
}

func TestFallbackTimerSyncsGeometry(t *testing.T) {
	surf := &fakeSurface{box: overlay.Box{Width: 10, Height: 10}}
	s := session.New(surf, session.Options{SyncInterval: 5 * time.Millisecond})
	defer s.Close()
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// A layout change no event reports: only the timer can observe it.
	surf.set(overlay.Box{Width: 99, Height: 88}, 0)

	deadline := time.After(2 * time.Second)
	for s.Box().Width != 99 {
		select {
		case <-deadline:
			t.Fatal("fallback timer never resynced geometry")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestCloseStopsTimerAndIsIdempotent(t *testing.T) {
	surf := &fakeSurface{}
	s := session.New(surf, session.Options{SyncInterval: time.Millisecond})
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("second Start: %v", err)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	if err := s.Start(); !errors.Is(err, session.ErrClosed) {
		t.Errorf("Start after Close = %v, want ErrClosed", err)
	}
}

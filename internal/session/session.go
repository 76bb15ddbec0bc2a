// Package session coordinates one overlay synchronizer and one visibility
// engine bound to the same video surface, and owns the periodic fallback
// timer that catches geometry changes no event reports.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/fakeyudi/overcue/internal/annotation"
	"github.com/fakeyudi/overcue/internal/overlay"
	"github.com/fakeyudi/overcue/internal/visibility"
)

// ErrClosed is returned by Start after the session has been closed.
var ErrClosed = errors.New("session closed")

// Defaults for Options zero values.
const (
	DefaultSyncInterval       = time.Second
	DefaultFallbackStackOrder = 1000
)

// Options configures a session at construction.
type Options struct {
	// FallbackStackOrder is applied to the overlay when the surface has no
	// resolved stacking order of its own.
	FallbackStackOrder int

	// SyncInterval is the period of the fallback geometry sync. Some layout
	// changes (style-driven relayout) raise no resize signal; the timer is
	// the only way to observe them.
	SyncInterval time.Duration
}

// Session binds the synchronizer and the visibility engine to one surface and
// exposes the host-facing API: annotation replacement, overlay show/hide, the
// trigger entry points, and deterministic teardown of the fallback timer.
//
// Every entry point is serialized by one mutex, mirroring the atomic-handler
// guarantee of a single-threaded event loop: geometry and time triggers may
// arrive in any order, but never interleave mid-handler.
type Session struct {
	mu sync.Mutex

	surface overlay.Surface
	pane    *overlay.Pane
	syncer  *overlay.Synchronizer
	engine  *visibility.Engine

	visible bool

	interval time.Duration
	done     chan struct{}
	started  bool
	closed   bool
}

// New binds a session to a video surface. The overlay starts shown, with an
// empty annotation collection.
func New(surface overlay.Surface, opts Options) *Session {
	if opts.FallbackStackOrder == 0 {
		opts.FallbackStackOrder = DefaultFallbackStackOrder
	}
	if opts.SyncInterval <= 0 {
		opts.SyncInterval = DefaultSyncInterval
	}

	pane := overlay.NewPane()
	s := &Session{
		surface:  surface,
		pane:     pane,
		syncer:   overlay.NewSynchronizer(surface, pane, opts.FallbackStackOrder),
		engine:   visibility.NewEngine(pane),
		visible:  true,
		interval: opts.SyncInterval,
	}
	// Establish initial geometry so the layer is congruent before the first
	// trigger fires.
	s.syncer.Sync()
	return s
}

// SetAnnotations replaces the annotation collection atomically. The displayed
// set is NOT recomputed here; it stays as-is until the next time-change
// trigger, or until ForceVisibilityRefresh is called explicitly.
func (s *Session) SetAnnotations(list []annotation.Annotation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.SetAnnotations(list)
}

// Annotations returns the full collection.
func (s *Session) Annotations() []annotation.Annotation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Annotations()
}

// Show makes the overlay visible. The displayed-annotation set is untouched;
// whatever was active reappears without re-running the diff.
func (s *Session) Show() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visible = true
}

// Hide makes the overlay invisible without detaching anything.
func (s *Session) Hide() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visible = false
}

// ToggleVisibility flips between shown and hidden.
func (s *Session) ToggleVisibility() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visible = !s.visible
}

// Visible reports whether the overlay is currently shown.
func (s *Session) Visible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible
}

// ForceVisibilityRefresh runs the visibility diff at the surface's current
// position. The escape hatch for timing-data changes that arrive without a
// concurrent position change.
func (s *Session) ForceVisibilityRefresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshLocked()
}

// HandleResize is the surface-resize trigger: resync geometry.
func (s *Session) HandleResize() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncer.Sync()
}

// HandleFullscreenChange is the ancestor fullscreen-state trigger: the box
// and the stacking context may both have changed, so it is a full resync.
func (s *Session) HandleFullscreenChange() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncer.Sync()
}

// HandleTimeUpdate is the playback time-change trigger: recompute the active
// set at the current tick and apply the diff.
func (s *Session) HandleTimeUpdate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshLocked()
}

func (s *Session) refreshLocked() {
	s.engine.Refresh(visibility.Tick(s.surface.Position()))
}

// Start launches the periodic fallback sync. It is a no-op if already
// running and returns ErrClosed after Close. The timer runs until Close;
// an unclosed session leaks it indefinitely.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.started {
		return nil
	}
	s.started = true
	s.done = make(chan struct{})
	go s.tickLoop(s.done)
	return nil
}

func (s *Session) tickLoop(done <-chan struct{}) {
	t := time.NewTicker(s.interval)
	defer t.Stop()
	for {
		select {
		case <-done:
			return
		case <-t.C:
			s.HandleResize()
		}
	}
}

// Close cancels the fallback timer deterministically. Safe to call more than
// once. The session must not be used after Close.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.started {
		close(s.done)
		s.started = false
	}
	return nil
}

// Box returns the companion layer's current geometry.
func (s *Session) Box() overlay.Box {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pane.Box()
}

// Elements returns the rendered, positioned elements currently attached to
// the companion layer. Hosts composite these; they never write to the layer.
func (s *Session) Elements() []overlay.PlacedElement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pane.Elements()
}

// Attached returns the currently displayed annotations in attach order.
func (s *Session) Attached() []annotation.Annotation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pane.Attached()
}

// Pane returns the companion layer owned by this session. Callers outside
// the session's own goroutines must prefer the locked accessors above.
func (s *Session) Pane() *overlay.Pane { return s.pane }

// Surface returns the bound video surface.
func (s *Session) Surface() overlay.Surface { return s.surface }

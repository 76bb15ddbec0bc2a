// Package player hosts an annotation session inside a Bubble Tea program:
// a simulated video surface with the overlay composited on top, driven by
// the same resize / time-change / fallback-tick triggers a real host fires.
package player

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/fakeyudi/overcue/internal/annotation"
	"github.com/fakeyudi/overcue/internal/config"
	"github.com/fakeyudi/overcue/internal/overlay"
	"github.com/fakeyudi/overcue/internal/script"
	"github.com/fakeyudi/overcue/internal/session"
	"github.com/fakeyudi/overcue/internal/visibility"
)

// ── Styles ────────────

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	videoStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Foreground(lipgloss.Color("245"))

	timecodeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252"))

	progressStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62"))

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)

	inspectorStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("62"))

	sectionHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	activeMarkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82")).
			Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))
)

// inspectorWidth is the fixed width of the annotation inspector pane.
const inspectorWidth = 44

// ── Messages ─────────────────

// frameMsg advances simulated playback by one frame.
type frameMsg time.Time

// reloadMsg reports that the watched script file changed on disk.
type reloadMsg struct{}

// ── Options / construction ───────────────

// Options configures a player run.
type Options struct {
	Path     string  // script file
	FPS      int     // simulated playback rate; 0 → config value
	Duration float64 // seconds; 0 → derived from the last annotation end
	Watch    bool    // hot-reload the script on change
	Cfg      config.Config
}

// Model is the root Bubble Tea model for the player.
type Model struct {
	opts  Options
	title string

	surface *videoSurface
	sess    *session.Session

	width, height int
	ready         bool
	theater       bool
	playing       bool
	fps           int
	duration      float64

	inspector   bool
	inspectorVP viewport.Model

	watcher  *fsnotify.Watcher
	warnings []string
}

// New loads the script at opts.Path and builds a player model around a fresh
// annotation session. The session's fallback sync timer is started here and
// stopped when the player quits.
func New(opts Options) (*Model, error) {
	doc, err := script.Load(opts.Path)
	if err != nil {
		return nil, err
	}
	anns, warnings := script.Build(doc)
	applyDefaults(anns, opts.Cfg)

	fps := opts.FPS
	if fps <= 0 {
		fps = opts.Cfg.FPS
	}
	if fps <= 0 {
		fps = 10
	}

	m := &Model{
		opts:     opts,
		title:    doc.Title,
		fps:      fps,
		duration: opts.Duration,
		playing:  true,
		warnings: warnings,
		surface:  &videoSurface{},
	}
	if m.title == "" {
		m.title = filepath.Base(opts.Path)
	}
	if m.duration <= 0 {
		m.duration = deriveDuration(anns)
	}

	m.sess = session.New(m.surface, session.Options{
		FallbackStackOrder: opts.Cfg.FallbackStackOrder,
		SyncInterval:       time.Duration(opts.Cfg.SyncIntervalMS) * time.Millisecond,
	})
	m.sess.SetAnnotations(anns)
	if err := m.sess.Start(); err != nil {
		return nil, err
	}

	if opts.Watch {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			m.sess.Close()
			return nil, fmt.Errorf("starting script watcher: %w", err)
		}
		// Watch the directory: atomic-rename saves replace the file node.
		if err := w.Add(filepath.Dir(opts.Path)); err != nil {
			w.Close()
			m.sess.Close()
			return nil, fmt.Errorf("starting script watcher: %w", err)
		}
		m.watcher = w
	}
	return m, nil
}

// applyDefaults fills unset colors from config. The type switch is over the
// closed annotation variant set.
func applyDefaults(anns []annotation.Annotation, cfg config.Config) {
	text, errText := annotation.Hex(cfg.DefaultTextColor)
	bg, errBG := annotation.Hex(cfg.DefaultBackground)
	for _, a := range anns {
		var t *annotation.Text
		switch v := a.(type) {
		case *annotation.Text:
			t = v
		case *annotation.SpeechBubble:
			t = &v.Text
		}
		if t.TextColor.Transparent() && errText == nil {
			t.TextColor = text
		}
		if t.Background.Transparent() && errBG == nil {
			t.Background = bg
		}
	}
}

// deriveDuration picks a playback length that comfortably covers the last
// annotation: its end tick plus two seconds of runout.
func deriveDuration(anns []annotation.Annotation) float64 {
	last := 0
	for _, a := range anns {
		if end := a.Span().End; end > last {
			last = end
		}
	}
	return float64(last)/10 + 2
}

// ── Bubble Tea interface ───────────────

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.frameTick(), m.waitForReload())
}

func (m *Model) frameTick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// waitForReload blocks on the script watcher until the script file itself is
// written or recreated.
func (m *Model) waitForReload() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	target := filepath.Base(m.opts.Path)
	return func() tea.Msg {
		for {
			select {
			case ev, ok := <-m.watcher.Events:
				if !ok {
					return nil
				}
				if filepath.Base(ev.Name) != target {
					continue
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
					return reloadMsg{}
				}
			case _, ok := <-m.watcher.Errors:
				if !ok {
					return nil
				}
				// Watcher errors are non-fatal; keep watching.
			}
		}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()
		vpHeight := m.height - 4
		if vpHeight < 1 {
			vpHeight = 1
		}
		m.inspectorVP = viewport.New(inspectorWidth-2, vpHeight)
		m.rebuildInspector()
		return m, nil

	case frameMsg:
		if m.playing {
			m.seekTo(m.surface.Position() + 1/float64(m.fps))
		}
		if m.inspector {
			m.rebuildInspector()
		}
		return m, m.frameTick()

	case reloadMsg:
		m.reloadScript()
		return m, m.waitForReload()
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.sess.Close()
		if m.watcher != nil {
			m.watcher.Close()
		}
		return m, tea.Quit
	case " ":
		m.playing = !m.playing
	case "left":
		m.seekTo(m.surface.Position() - 1)
	case "right":
		m.seekTo(m.surface.Position() + 1)
	case "shift+left":
		m.seekTo(m.surface.Position() - 10)
	case "shift+right":
		m.seekTo(m.surface.Position() + 10)
	case "o":
		m.sess.ToggleVisibility()
	case "f":
		m.theater = !m.theater
		m.layout()
		m.sess.HandleFullscreenChange()
	case "i":
		m.inspector = !m.inspector
		if m.inspector {
			m.rebuildInspector()
		}
	case "r":
		m.sess.ForceVisibilityRefresh()
	case "up", "down", "pgup", "pgdown":
		if m.inspector {
			var cmd tea.Cmd
			m.inspectorVP, cmd = m.inspectorVP.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// seekTo clamps pos into [0, duration], wraps at the end while playing, and
// fires the time-change trigger.
func (m *Model) seekTo(pos float64) {
	if pos >= m.duration {
		if m.playing {
			pos = 0 // loop
		} else {
			pos = m.duration
		}
	}
	if pos < 0 {
		pos = 0
	}
	m.surface.setPosition(pos)
	m.sess.HandleTimeUpdate()
}

// layout recomputes the simulated video element's box for the current
// terminal size and mode, then fires the resize trigger. Theater mode fills
// the terminal and carries an explicit stacking order; windowed mode insets
// the video and leaves the order unset so the session's fallback applies.
func (m *Model) layout() {
	var box overlay.Box
	if m.theater {
		box = overlay.Box{
			Width:  float64(m.width),
			Height: float64(m.height - 2),
			Left:   0,
			Top:    1,
		}
		m.surface.setLayout(box, 9, true)
	} else {
		box = overlay.Box{
			Width:  float64(m.width - 6),
			Height: float64(m.height - 5),
			Left:   3,
			Top:    2,
		}
		m.surface.setLayout(box, 0, false)
	}
	m.sess.HandleResize()
}

// reloadScript re-reads the watched script file and swaps the collection in.
// Replacement alone leaves the displayed set stale, so the explicit refresh
// follows immediately.
func (m *Model) reloadScript() {
	doc, err := script.Load(m.opts.Path)
	if err != nil {
		m.warnings = []string{fmt.Sprintf("reload failed: %v", err)}
		return
	}
	anns, warnings := script.Build(doc)
	applyDefaults(anns, m.opts.Cfg)
	m.warnings = warnings
	if doc.Title != "" {
		m.title = doc.Title
	}
	m.sess.SetAnnotations(anns)
	m.sess.ForceVisibilityRefresh()
	if m.inspector {
		m.rebuildInspector()
	}
}

// ── View ─────────────────

func (m *Model) View() string {
	if !m.ready {
		return "Loading…"
	}

	c := newCanvas(m.width, m.height)

	// Title bar.
	c.paint(0, 0, titleStyle.Width(m.width).Render("  overcue  "+m.title))

	// Simulated video element.
	box := m.sess.Box()
	c.paint(int(box.Left), int(box.Top), m.renderVideo(int(box.Width), int(box.Height)))

	// Overlay: the companion layer, painted above the video at the
	// synchronized box.
	if m.sess.Visible() {
		for _, el := range m.sess.Elements() {
			c.paint(int(box.Left)+el.X, int(box.Top)+el.Y, el.Content)
		}
	}

	// Inspector pane, above everything.
	if m.inspector {
		c.paint(m.width-inspectorWidth, 1, m.renderInspector())
	}

	// Status bar.
	c.paint(0, m.height-1, m.renderStatusBar())

	return c.render()
}

// renderVideo draws the stand-in video element: border, centered timecode,
// and a progress bar.
func (m *Model) renderVideo(w, h int) string {
	innerW, innerH := w-2, h-2
	if innerW < 1 || innerH < 1 {
		return ""
	}

	pos := m.surface.Position()
	glyph := "▶"
	if !m.playing {
		glyph = "⏸"
	}
	timecode := timecodeStyle.Render(fmt.Sprintf("%s  %s / %s", glyph, formatTimecode(pos), formatTimecode(m.duration)))

	c := newCanvas(innerW, innerH)
	c.paintLine((innerW-lipgloss.Width(timecode))/2, innerH/2, timecode)
	if innerH >= 3 {
		c.paintLine(1, innerH-1, progressStyle.Render(progressBar(innerW-2, pos/m.duration)))
	}

	return videoStyle.Width(innerW).Height(innerH).Render(c.render())
}

// progressBar renders a filled/empty bar of the given width.
func progressBar(width int, frac float64) string {
	if width < 1 {
		return ""
	}
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	filled := int(frac * float64(width))
	bar := make([]rune, width)
	for i := range bar {
		if i < filled {
			bar[i] = '█'
		} else {
			bar[i] = '░'
		}
	}
	return string(bar)
}

func (m *Model) renderStatusBar() string {
	overlayState := "on"
	if !m.sess.Visible() {
		overlayState = "off"
	}
	left := fmt.Sprintf("overlay:%s  z:%d  cues:%d/%d",
		overlayState, m.sess.Box().StackOrder, len(m.sess.Attached()), len(m.sess.Annotations()))
	if m.watcher != nil {
		left += "  watching"
	}
	if n := len(m.warnings); n > 0 {
		left += warnStyle.Render(fmt.Sprintf("  %d warning(s)", n))
	}

	hint := "space play  ←/→ seek  o overlay  f theater  i inspect  r refresh  q quit"
	pad := m.width - lipgloss.Width(left) - lipgloss.Width(hint) - 4
	if pad < 1 {
		pad = 1
	}
	return statusBarStyle.Width(m.width).Render(left + spaces(pad) + hint)
}

// ── Inspector ─────────────────

func (m *Model) rebuildInspector() {
	m.inspectorVP.SetContent(m.inspectorContent())
}

func (m *Model) renderInspector() string {
	return inspectorStyle.Render(m.inspectorVP.View())
}

func (m *Model) inspectorContent() string {
	anns := m.sess.Annotations()
	attached := make(map[uuid.UUID]bool)
	for _, a := range m.sess.Attached() {
		attached[a.ID()] = true
	}

	tick := visibility.Tick(m.surface.Position())
	out := sectionHeader.Render(fmt.Sprintf(" Annotations (%d)  tick %d", len(anns), tick)) + "\n\n"

	for i, a := range anns {
		mark := dimStyle.Render("○")
		if attached[a.ID()] {
			mark = activeMarkStyle.Render("●")
		}
		span := a.Span()
		kind := "text"
		body := ""
		switch v := a.(type) {
		case *annotation.Text:
			body = v.Body
		case *annotation.SpeechBubble:
			kind = "bubble"
			body = v.Body
		}
		out += fmt.Sprintf(" %s %2d  %s  [%s – %s]\n    %s\n",
			mark, i+1, kind,
			formatTimecode(float64(span.Start)/10), formatTimecode(float64(span.End)/10),
			dimStyle.Render(truncate(body, inspectorWidth-8)))
	}

	if len(m.warnings) > 0 {
		out += "\n" + sectionHeader.Render(" Warnings") + "\n"
		for _, w := range m.warnings {
			out += warnStyle.Render(" ! "+truncate(w, inspectorWidth-5)) + "\n"
		}
	}
	return out
}

// ── Helpers ───────────────────────

// formatTimecode formats seconds as "M:SS.t".
func formatTimecode(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	tenths := int(seconds * 10)
	min := tenths / 600
	sec := (tenths % 600) / 10
	return fmt.Sprintf("%d:%02d.%d", min, sec, tenths%10)
}

func truncate(s string, width int) string {
	if width < 1 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}

func spaces(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}

// Run starts the player for the given options.
func Run(opts Options) error {
	m, err := New(opts)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

package viz

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/livebg/internal/effect"
	"github.com/san-kum/livebg/internal/export"
	"github.com/san-kum/livebg/internal/render"
	"github.com/san-kum/livebg/internal/session"
)

const (
	minCols     = 20
	minRows     = 8
	rateHistory = 120
	tuneFactor  = 1.1
)

// TickMsg asks for one session tick.
type TickMsg time.Time

type selectMsg struct{ name string }

type loadedMsg struct {
	name    string
	backend effect.Backend
	err     error
}

// Options configures a terminal session.
type Options struct {
	Effects []string
	Initial string
	FPS     int
	Theme   string
}

// Model is the Bubble Tea model of a terminal session.
type Model struct {
	ctx      context.Context
	sess     *session.Session
	loader   session.Loader
	effects  []string
	initial  string
	interval time.Duration

	canvas   *render.Braille
	theme    int
	st       styles
	control  int
	editing  bool
	editBuf  string
	ticking  bool
	rates    []float64
	status   string
	failed   bool
	showHelp bool
}

func NewModel(ctx context.Context, sess *session.Session, loader session.Loader, opts Options) Model {
	fps := opts.FPS
	if fps <= 0 {
		fps = 60
	}
	theme := themeIndex(opts.Theme)
	return Model{
		ctx:      ctx,
		sess:     sess,
		loader:   loader,
		effects:  opts.Effects,
		initial:  opts.Initial,
		interval: time.Second / time.Duration(fps),
		canvas:   render.NewBraille(minCols, minRows),
		theme:    theme,
		st:       newStyles(Themes[theme]),
		rates:    make([]float64, 0, rateHistory),
	}
}

func (m Model) Init() tea.Cmd {
	if m.initial == "" {
		return nil
	}
	name := m.initial
	return func() tea.Msg { return selectMsg{name: name} }
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// ensureTicking restarts the tick chain if the session can run and no tick
// is already scheduled.
func (m *Model) ensureTicking() tea.Cmd {
	if m.ticking || !m.sess.Running() {
		return nil
	}
	m.ticking = true
	return m.tick()
}

func (m Model) load(name string) tea.Cmd {
	ctx, loader := m.ctx, m.loader
	return func() tea.Msg {
		b, err := loader.Load(ctx, name)
		return loadedMsg{name: name, backend: b, err: err}
	}
}

// Update routes messages into the session.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case selectMsg:
		swapping := m.sess.State() == session.Swapping
		if m.sess.BeginSelect(msg.name, time.Now()) {
			m.setStatus("loading "+msg.name, false)
			return m, m.load(msg.name)
		}
		if swapping && m.sess.State() != session.Swapping {
			// pending swap cancelled by reselecting the active effect
			m.setStatus("", false)
		}
		return m, m.ensureTicking()

	case loadedMsg:
		if err := m.sess.CompleteSelect(msg.name, msg.backend, msg.err, time.Now()); err != nil {
			m.setStatus(err.Error(), true)
		} else if m.sess.ActiveName() == msg.name {
			m.setStatus("", false)
		}
		return m, m.ensureTicking()

	case TickMsg:
		if !m.sess.Tick(time.Time(msg), m.canvas) {
			m.ticking = false
			return m, nil
		}
		m.rates = append(m.rates, m.sess.Rate())
		if len(m.rates) > rateHistory {
			m.rates = m.rates[1:]
		}
		return m, m.tick()

	case tea.MouseMsg:
		ev := tea.MouseEvent(msg)
		if !ev.IsWheel() {
			return m, nil
		}
		modifier := ev.Shift || ev.Ctrl || ev.Alt
		switch ev.Button {
		case tea.MouseButtonWheelUp:
			m.sess.Wheel(-100, modifier)
		case tea.MouseButtonWheelDown:
			m.sess.Wheel(100, modifier)
		}
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.updateEdit(msg)
		}
		return m.updateKey(msg)
	}
	return m, nil
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if m.sess.Key(key) {
		return m, nil
	}

	controls := session.Controls()
	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		m.sess.Toggle(time.Now())
		return m, m.ensureTicking()
	case "r":
		m.sess.Reset()
	case "tab":
		m.control = (m.control + 1) % len(controls)
	case "up", "right", "k", "l":
		c := controls[m.control]
		m.sess.Set(c, m.sess.Value(c)*tuneFactor)
	case "down", "left", "j", "h":
		c := controls[m.control]
		m.sess.Set(c, m.sess.Value(c)/tuneFactor)
	case "a":
		m.sess.SetZoomAuto(!m.sess.Params().ZoomAuto)
	case "enter":
		m.editing = true
		m.editBuf = ""
	case "n":
		if len(m.effects) > 0 {
			next := m.effects[0]
			for i, name := range m.effects {
				if name == m.target() {
					next = m.effects[(i+1)%len(m.effects)]
				}
			}
			return m, selectCmd(next)
		}
	case "t":
		m.theme = (m.theme + 1) % len(Themes)
		m.st = newStyles(Themes[m.theme])
	case "e":
		m.exportSVG()
	case "?":
		m.showHelp = !m.showHelp
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			i := int(key[0] - '1')
			if i < len(m.effects) {
				return m, selectCmd(m.effects[i])
			}
		}
	}
	return m, nil
}

func (m Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.editing = false
		c := session.Controls()[m.control]
		if err := m.sess.SetText(c, m.editBuf); err != nil {
			m.setStatus(err.Error(), true)
		} else {
			m.setStatus("", false)
		}
	case tea.KeyEsc:
		m.editing = false
	case tea.KeyBackspace:
		if len(m.editBuf) > 0 {
			m.editBuf = m.editBuf[:len(m.editBuf)-1]
		}
	case tea.KeyRunes:
		m.editBuf += string(msg.Runes)
	case tea.KeyCtrlC:
		return m, tea.Quit
	}
	return m, nil
}

func selectCmd(name string) tea.Cmd {
	return func() tea.Msg { return selectMsg{name: name} }
}

// target is the effect being swapped in, or the active one.
func (m Model) target() string {
	if p := m.sess.Pending(); p != "" {
		return p
	}
	return m.sess.ActiveName()
}

func (m *Model) setStatus(s string, failed bool) {
	m.status = s
	m.failed = failed
}

func (m *Model) resize(width, height int) {
	cols := width - panelWidth - 3
	rows := height - 3
	if cols < minCols {
		cols = minCols
	}
	if rows < minRows {
		rows = minRows
	}
	m.canvas = render.NewBraille(cols, rows)
	m.sess.Resize(float64(m.canvas.Width()), float64(m.canvas.Height()), 1)
}

func (m *Model) exportSVG() {
	name := m.sess.ActiveName()
	if name == "" {
		name = "livebg"
	}
	path := name + ".svg"
	if err := os.WriteFile(path, []byte(export.BrailleToSVG(m.canvas, 4)), 0644); err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	m.setStatus("saved "+path, false)
}

// View renders the canvas with the status panel to its right.
func (m Model) View() string {
	canvasView := m.st.canvas.Render(m.canvas.String())

	var s strings.Builder
	title := m.target()
	if title == "" {
		title = "livebg"
	}
	s.WriteString(m.st.header.Render(strings.ToUpper(title)) + "\n")
	s.WriteString(m.stateLine() + "\n\n")

	ov := m.sess.Overlay()
	for _, line := range []string{ov.FPS, ov.Points, ov.Speed, ov.Zoom} {
		s.WriteString(m.st.value.Render(line) + "\n")
	}
	for _, l := range m.canvas.Labels() {
		s.WriteString(m.st.label.UnsetWidth().Render(l.Text) + "\n")
	}

	if len(m.rates) > 1 {
		chart := asciigraph.Plot(m.rates, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("fps"))
		s.WriteString("\n" + m.st.graph.Render(chart) + "\n")
	}

	s.WriteString("\nCONTROLS\n")
	p := m.sess.Params()
	rows := []struct {
		text   string
		bar    string
		active bool
	}{
		{ov.SpeedValue, controlBar(p.Speed, session.MinSpeed, session.MaxSpeed, 10), m.control == 0},
		{ov.DensityValue, controlBar(p.Density, session.MinDensity, session.MaxDensity, 10), m.control == 1},
		{ov.ZoomValue, controlBar(p.Zoom, session.MinZoom, session.MaxZoom, 10), m.control == 2},
	}
	for i, c := range session.Controls() {
		r := rows[i]
		text := r.text
		if r.active && m.editing {
			text = m.editBuf + "_"
		}
		line := fmt.Sprintf("%-8s %s %s", c, r.bar, text)
		if r.active {
			s.WriteString(m.st.active.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + m.st.value.Render(line) + "\n")
		}
	}
	auto := "[ ]"
	if p.ZoomAuto {
		auto = "[x]"
	}
	s.WriteString("  " + m.st.value.Render("auto zoom "+auto) + "\n")

	s.WriteString("\nEFFECTS\n")
	for i, name := range m.effects {
		line := fmt.Sprintf("%d %s", i+1, name)
		if name == m.sess.ActiveName() {
			s.WriteString(m.st.active.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + m.st.value.Render(line) + "\n")
		}
	}

	if m.status != "" {
		style := m.st.value
		if m.failed {
			style = m.st.err
		}
		s.WriteString("\n" + style.Render(m.status) + "\n")
	}

	s.WriteString(m.st.help.Render("SP:Pause R:Reset Q:Quit\nTab:Control ↑↓:Tune ⏎:Type\nN:Next T:Theme E:SVG ?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, m.st.panel.Render(s.String()))
	if m.showHelp {
		return helpText + "\n" + mainView
	}
	return mainView
}

func (m Model) stateLine() string {
	switch {
	case m.sess.State() == session.Swapping:
		return m.st.loading.Render("LOADING")
	case m.sess.State() == session.Idle:
		return m.st.paused.Render("IDLE")
	case !m.sess.Params().Running:
		return m.st.paused.Render("PAUSED")
	}
	return m.st.running.Render("RUNNING")
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  R        - Reset effect             ║
║  + / -    - Zoom in/out (10%)        ║
║  Tab      - Cycle controls           ║
║  Up/Down  - Tune control (10%)       ║
║  Enter    - Type a control value     ║
║  A        - Toggle auto zoom         ║
║  N, 1-9   - Switch effect            ║
║  Wheel    - Speed (Shift: zoom)      ║
║  T        - Cycle themes             ║
║  E        - Export SVG               ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`

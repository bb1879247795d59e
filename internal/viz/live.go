package viz

import (
	"errors"
	"fmt"
	"image"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/gravsim/internal/render"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/universe"
	"github.com/san-kum/gravsim/internal/vmath"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	trailCapacity   = 2000
	maxRadius       = 4
	zoomFactor      = 1.25
	secondsPerDay   = 86400
)

const (
	panelWidth = 50
	chartWidth = 30
	// errorFloor bounds the plotted log10 error for exact steps.
	errorFloor = 1e-18
)

var ErrInvalidOptions = errors.New("viz: invalid options")

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Options configures a live view.
type Options struct {
	Name          string
	H             float64
	Adaptive      bool
	StepsPerFrame int
	// Scale is the distance in meters from the center of gravity to the
	// edge of the view.
	Scale         float64
	Width, Height int
	Theme         string
	GIFPath       string
}

// Model contains simulation state, visualization buffers, and UI context.
type Model struct {
	sim           *sim.Simulator
	energy        sim.EnergyFunc
	u, initial    *universe.Universe
	name          string
	t, h, h0      float64
	adaptive      bool
	stepsPerFrame int
	canvas        *render.Canvas
	scale         float64
	trail         []image.Point
	showTrail     bool
	e0            float64
	energyErr     []float64
	running       bool
	err           error
	theme         int
	recording     bool
	frames        []*image.Paletted
	gifPath       string
	showHelp      bool
}

// NewModel prepares a live view of u. The universe is advanced in place.
func NewModel(s *sim.Simulator, energy sim.EnergyFunc, u *universe.Universe, opts Options) (Model, error) {
	if err := u.Validate(); err != nil {
		return Model{}, err
	}
	if !(opts.H > 0) || !vmath.IsFinite(opts.H) {
		return Model{}, fmt.Errorf("%w: h must be positive and finite, got %g", ErrInvalidOptions, opts.H)
	}
	if opts.Scale < 0 || !vmath.IsFinite(opts.Scale) {
		return Model{}, fmt.Errorf("%w: scale must be positive, got %g", ErrInvalidOptions, opts.Scale)
	}
	e0, err := energy.TotalEnergy(u)
	if err != nil {
		return Model{}, err
	}

	if opts.StepsPerFrame < 1 {
		opts.StepsPerFrame = 10
	}
	if opts.Scale == 0 {
		opts.Scale = render.DefaultScale
	}
	if opts.Width <= 0 {
		opts.Width = width
	}
	if opts.Height <= 0 {
		opts.Height = height
	}
	if opts.GIFPath == "" {
		opts.GIFPath = gifName
	}

	return Model{
		sim:           s,
		energy:        energy,
		u:             u,
		initial:       u.Clone(),
		name:          opts.Name,
		h:             opts.H,
		h0:            opts.H,
		adaptive:      opts.Adaptive,
		stepsPerFrame: opts.StepsPerFrame,
		canvas:        render.NewCanvas(opts.Width, opts.Height),
		scale:         opts.Scale,
		trail:         make([]image.Point, 0, trailCapacity),
		showTrail:     true,
		e0:            e0,
		energyErr:     make([]float64, 0, historyCapacity),
		running:       true,
		theme:         themeIndex(opts.Theme),
		gifPath:       opts.GIFPath,
	}, nil
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			if m.err == nil {
				m.running = !m.running
			}
		case "r":
			m.reset()
		case "+", "=":
			m.zoom(1 / zoomFactor)
		case "-", "_":
			m.zoom(zoomFactor)
		case ">", ".":
			m.stepsPerFrame *= 2
		case "<", ",":
			if m.stepsPerFrame > 1 {
				m.stepsPerFrame /= 2
			}
		case "t":
			m.showTrail = !m.showTrail
			m.trail = m.trail[:0]
		case "c":
			m.theme = (m.theme + 1) % len(Themes)
		case "g":
			if m.recording {
				if err := saveGIF(m.gifPath, m.frames); err != nil {
					m.err = err
				}
				m.recording = false
				m.frames = nil
			} else {
				m.recording = true
				m.frames = make([]*image.Paletted, 0)
			}
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		m.draw(m.running)
		if m.recording {
			m.captureFrame()
		}
		return m, tick()
	}
	return m, nil
}

// step advances the universe stepsPerFrame times and records the energy
// error. Any failure pauses the view and is shown in the panel.
func (m *Model) step() {
	for i := 0; i < m.stepsPerFrame; i++ {
		next, err := m.sim.Advance(m.u, m.h, m.adaptive)
		if err != nil {
			m.fail(err)
			return
		}
		m.t += m.h
		m.h = next
	}
	e, err := m.energy.TotalEnergy(m.u)
	if err != nil {
		m.fail(err)
		return
	}
	m.energyErr = append(m.energyErr, relativeError(e, m.e0))
	if len(m.energyErr) > historyCapacity {
		m.energyErr = m.energyErr[1:]
	}
}

func (m *Model) fail(err error) {
	m.err = err
	m.running = false
}

func relativeError(e, e0 float64) float64 {
	if e0 == 0 {
		return math.Abs(e)
	}
	return math.Abs(e-e0) / math.Abs(e0)
}

// logErrors maps relative errors to log10, keeping the axis labels short.
func logErrors(errs []float64) []float64 {
	out := make([]float64, len(errs))
	for i, e := range errs {
		out[i] = math.Log10(math.Max(e, errorFloor))
	}
	return out
}

func (m *Model) reset() {
	if err := m.u.CopyFrom(m.initial); err != nil {
		m.fail(err)
		return
	}
	m.t, m.h = 0, m.h0
	m.energyErr = m.energyErr[:0]
	m.trail = m.trail[:0]
	m.err = nil
	m.running = true
}

func (m *Model) zoom(factor float64) {
	m.scale *= factor
	m.trail = m.trail[:0]
}

func (m *Model) draw(extendTrail bool) {
	m.canvas.Clear()
	pixels, err := render.ScaleToScreen(m.u.Snapshot(), m.canvas.Viewport(m.scale, m.scale, maxRadius))
	if err != nil {
		m.fail(err)
		return
	}
	if m.showTrail {
		if extendTrail {
			for _, p := range pixels {
				m.trail = append(m.trail, image.Point{X: p.X, Y: p.Y})
			}
			// Keep whole frames so trail[i-n] stays the same body as trail[i].
			limit := trailCapacity - trailCapacity%len(pixels)
			if n := len(m.trail); n > limit {
				m.trail = append(m.trail[:0], m.trail[n-limit:]...)
			}
		}
		m.drawTrail(len(pixels))
	}
	m.canvas.DrawBodies(pixels)
}

// drawTrail joins each body's successive positions; the trail holds one
// point per body per frame. Segments leaving the canvas are reduced to dots.
func (m *Model) drawTrail(bodies int) {
	for i, p := range m.trail {
		if i >= bodies {
			q := m.trail[i-bodies]
			if m.canvas.Contains(p.X, p.Y) && m.canvas.Contains(q.X, q.Y) {
				m.canvas.DrawLine(q.X, q.Y, p.X, p.Y)
				continue
			}
		}
		m.canvas.Set(p.X, p.Y)
	}
}

// View renders the TUI interface.
func (m Model) View() string {
	th := Themes[m.theme]
	canvasStyle := lipgloss.NewStyle().Padding(1, 2).Foreground(th.Body)
	statsStyle := lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(th.Muted).Padding(1, 2).Width(panelWidth)
	headerStyle := lipgloss.NewStyle().Foreground(th.Accent).Bold(true).MarginBottom(1)
	labelStyle := lipgloss.NewStyle().Foreground(th.Muted).Width(12)
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle := lipgloss.NewStyle().Foreground(th.Trail).Padding(1, 0)
	helpStyle := lipgloss.NewStyle().Foreground(th.Muted).MarginTop(2)
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4757")).Width(40)

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.name)) + "\n")
	s.WriteString(m.status() + "\n\n")

	if len(m.energyErr) > 1 {
		chart := asciigraph.Plot(logErrors(m.energyErr),
			asciigraph.Height(4),
			asciigraph.Width(chartWidth),
			asciigraph.Precision(1),
			asciigraph.Caption("energy error (log10)"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2f d", m.t/secondsPerDay))
	row("Step", fmt.Sprintf("%.4g s", m.h))
	row("Bodies", fmt.Sprintf("%d", m.u.N()))
	row("Steps/frame", fmt.Sprintf("%d", m.stepsPerFrame))
	row("Scale", fmt.Sprintf("%.3g m", m.scale))
	if n := len(m.energyErr); n > 0 {
		row("Energy err", fmt.Sprintf("%.3e", m.energyErr[n-1]))
	}
	if m.err != nil {
		s.WriteString("\n" + errorStyle.Render(m.err.Error()) + "\n")
	}

	s.WriteString(helpStyle.Render("\n─────────────────────\nSP:Pause R:Reset Q:Quit\n+-:Zoom <>:Speed T:Trail\nC:Theme G:Record ?:Help"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasStyle.Render(m.canvas.String()), statsStyle.Render(s.String()))
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  R        - Reset simulation         ║
║  Q        - Quit                     ║
║  + / -    - Zoom in / out            ║
║  < / >    - Halve / double speed     ║
║  T        - Toggle trails            ║
║  C        - Cycle themes             ║
║  G        - Toggle GIF recording     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

func (m Model) status() string {
	var status string
	switch {
	case m.err != nil:
		status = "STOPPED"
	case m.running:
		status = "RUNNING"
	default:
		status = "PAUSED"
	}
	if m.adaptive {
		status += " (adaptive)"
	}
	if m.recording {
		status += fmt.Sprintf(" REC %d", len(m.frames))
	}
	return status
}

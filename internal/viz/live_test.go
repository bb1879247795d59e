package viz

import (
	"bytes"
	"errors"
	"image"
	"image/gif"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/gravsim/internal/gravity"
	"github.com/san-kum/gravsim/internal/integrators"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/universe"
)

func newTestModel(t *testing.T, opts Options) Model {
	t.Helper()
	field := gravity.New()
	s := sim.New(field, integrators.NewRKN45(field))
	if opts.H == 0 {
		opts.H = 20
	}
	m, err := NewModel(s, field, universe.EarthMoon(), opts)
	if err != nil {
		t.Fatalf("NewModel failed: %v", err)
	}
	return m
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModelTickAdvances(t *testing.T) {
	m := newTestModel(t, Options{Name: "earth-moon", StepsPerFrame: 5})

	m = update(t, m, TickMsg{})
	if m.t != 100 {
		t.Errorf("expected t=100 after one frame, got %v", m.t)
	}
	if len(m.energyErr) != 1 {
		t.Fatalf("expected one energy sample, got %d", len(m.energyErr))
	}
	if m.energyErr[0] > 1e-9 {
		t.Errorf("energy error too large: %e", m.energyErr[0])
	}
	if len(m.trail) != 2 {
		t.Errorf("expected one trail point per body, got %d", len(m.trail))
	}
	if m.err != nil {
		t.Errorf("unexpected error %v", m.err)
	}
}

func TestModelAdaptiveGrowsStep(t *testing.T) {
	m := newTestModel(t, Options{Adaptive: true, StepsPerFrame: 1})
	m = update(t, m, TickMsg{})
	if m.h <= 20 {
		t.Errorf("adaptive step did not grow: %v", m.h)
	}
	if m.t != 20 {
		t.Errorf("first frame should advance by the initial step, got %v", m.t)
	}
}

func TestModelPauseAndReset(t *testing.T) {
	m := newTestModel(t, Options{StepsPerFrame: 1})

	m = update(t, m, key(" "))
	if m.running {
		t.Fatal("space did not pause")
	}
	m = update(t, m, TickMsg{})
	if m.t != 0 {
		t.Errorf("paused model advanced to %v", m.t)
	}

	m = update(t, m, key(" "))
	m = update(t, m, TickMsg{})
	m = update(t, m, TickMsg{})
	if m.t != 40 {
		t.Errorf("expected t=40, got %v", m.t)
	}

	m = update(t, m, key("r"))
	if m.t != 0 || len(m.energyErr) != 0 || len(m.trail) != 0 {
		t.Errorf("reset left t=%v, %d samples, %d trail points", m.t, len(m.energyErr), len(m.trail))
	}
	if m.u.Positions[1] != universe.EarthMoon().Positions[1] {
		t.Error("reset did not restore the universe")
	}
}

func TestModelKeys(t *testing.T) {
	m := newTestModel(t, Options{StepsPerFrame: 4, Scale: 1e9})

	m = update(t, m, key("+"))
	if m.scale != 1e9/zoomFactor {
		t.Errorf("zoom in gave scale %v", m.scale)
	}
	m = update(t, m, key("-"))
	if m.scale != 1e9 {
		t.Errorf("zoom out gave scale %v", m.scale)
	}

	m = update(t, m, key(">"))
	m = update(t, m, key("<"))
	m = update(t, m, key("<"))
	m = update(t, m, key("<"))
	m = update(t, m, key("<"))
	if m.stepsPerFrame != 1 {
		t.Errorf("steps per frame %d, want 1", m.stepsPerFrame)
	}

	m = update(t, m, key("c"))
	if Themes[m.theme].Name != ThemeNames()[1] {
		t.Errorf("theme did not cycle: %d", m.theme)
	}

	m = update(t, m, key("t"))
	m = update(t, m, TickMsg{})
	if m.showTrail || len(m.trail) != 0 {
		t.Error("trail still recorded after toggling it off")
	}

	m = update(t, m, key("?"))
	if !strings.Contains(m.View(), "KEYBOARD SHORTCUTS") {
		t.Error("help overlay not shown")
	}
}

func TestModelQuit(t *testing.T) {
	m := newTestModel(t, Options{})
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}

func TestModelStopsOnFailure(t *testing.T) {
	m := newTestModel(t, Options{StepsPerFrame: 1})
	m.u.Positions[1] = m.u.Positions[0]

	m = update(t, m, TickMsg{})
	if !errors.Is(m.err, gravity.ErrCoincidentBodies) {
		t.Fatalf("expected ErrCoincidentBodies, got %v", m.err)
	}
	if m.running {
		t.Error("model kept running after a failed step")
	}
	if !strings.Contains(m.View(), "STOPPED") {
		t.Error("view does not report the failure")
	}

	m = update(t, m, key(" "))
	if m.running {
		t.Error("failed model resumed")
	}
}

func TestModelView(t *testing.T) {
	m := newTestModel(t, Options{Name: "earth-moon", Adaptive: true})
	m = update(t, m, TickMsg{})
	m = update(t, m, TickMsg{})

	view := m.View()
	for _, want := range []string{"EARTH-MOON", "RUNNING (adaptive)", "energy error (log10)", "Bodies"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestLogErrors(t *testing.T) {
	got := logErrors([]float64{1e-6, 0})
	if math.Abs(got[0]+6) > 1e-12 || math.Abs(got[1]+18) > 1e-12 {
		t.Errorf("unexpected log errors %v", got)
	}
}

func TestModelTrailJoinsFrames(t *testing.T) {
	m := newTestModel(t, Options{})
	m.trail = append(m.trail, image.Point{X: 0, Y: 0}, image.Point{X: 100, Y: 0}, image.Point{X: 10, Y: 0}, image.Point{X: 100, Y: 0})
	m.draw(false)

	if !m.canvas.IsSet(5, 0) {
		t.Error("segment between a body's successive points not drawn")
	}
	if m.canvas.IsSet(50, 0) {
		t.Error("points of different bodies joined")
	}
}

func TestModelRecordsGIF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.gif")
	m := newTestModel(t, Options{StepsPerFrame: 1, Width: 10, Height: 5, GIFPath: path})

	m = update(t, m, key("g"))
	m = update(t, m, TickMsg{})
	m = update(t, m, TickMsg{})
	if len(m.frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(m.frames))
	}
	m = update(t, m, key("g"))
	if m.recording || m.err != nil {
		t.Fatalf("recording=%v err=%v", m.recording, m.err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("gif not written: %v", err)
	}
	defer f.Close()
	anim, err := gif.DecodeAll(f)
	if err != nil {
		t.Fatalf("invalid gif: %v", err)
	}
	if len(anim.Image) != 2 {
		t.Errorf("decoded %d frames, want 2", len(anim.Image))
	}
	if b := anim.Image[0].Bounds(); b.Dx() != 10*2*dotSize || b.Dy() != 5*4*dotSize {
		t.Errorf("unexpected frame bounds %v", b)
	}
}

func TestEncodeGIFEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeGIF(&buf, nil); err == nil {
		t.Error("expected an error for no frames")
	}
}

func TestNewModelRejectsBadOptions(t *testing.T) {
	field := gravity.New()
	s := sim.New(field, integrators.NewEuler(field))

	if _, err := NewModel(s, field, universe.EarthMoon(), Options{H: -1}); !errors.Is(err, ErrInvalidOptions) {
		t.Errorf("expected ErrInvalidOptions, got %v", err)
	}
	if _, err := NewModel(s, field, universe.New(0), Options{H: 1}); !errors.Is(err, universe.ErrInvalidUniverse) {
		t.Errorf("expected ErrInvalidUniverse, got %v", err)
	}
}

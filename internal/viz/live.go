package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/skyward-labs/quadsim/internal/config"
	"github.com/skyward-labs/quadsim/internal/experiment"
	"github.com/skyward-labs/quadsim/internal/quad"
)

const (
	canvasWidth     = 70
	canvasHeight    = 22
	historyCapacity = 600
	frameRate       = 30
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(48)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

type point struct{ x, y int }

// Model is the bubbletea model for a live run: it owns the closed loop
// directly so the view can render every tick as it happens.
type Model struct {
	cfg        *config.Config
	par        quad.VehicleParams
	integ      quad.Integrator
	plant      quad.Plant
	trajectory quad.Trajectory
	controller quad.Controller

	state quad.VehicleState
	cmd   quad.RotorCommands
	ref   quad.Reference
	t     float64

	canvas     *Canvas
	trail      []point
	altHistory []float64
	running    bool
	err        error
}

// NewModel assembles the loop from the config, same components as a
// batch run.
func NewModel(cfg *config.Config) (Model, error) {
	par, err := cfg.VehicleParams()
	if err != nil {
		return Model{}, err
	}
	integ, err := experiment.BuildIntegrator(cfg.Integrator)
	if err != nil {
		return Model{}, err
	}
	plant, err := experiment.BuildPlant(cfg, par, integ)
	if err != nil {
		return Model{}, err
	}
	traj, err := experiment.BuildTrajectory(cfg)
	if err != nil {
		return Model{}, err
	}
	ctrl, err := experiment.BuildController(cfg, par)
	if err != nil {
		return Model{}, err
	}

	return Model{
		cfg:        cfg,
		par:        par,
		integ:      integ,
		plant:      plant,
		trajectory: traj,
		controller: ctrl,
		state:      cfg.InitVehicleState(),
		ref:        traj.Eval(0),
		canvas:     NewCanvas(canvasWidth, canvasHeight),
		trail:      make([]point, 0, 200),
		altHistory: make([]float64, 0, historyCapacity),
		running:    true,
	}, nil
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

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
		}
	case TickMsg:
		if m.running {
			// advance in real time, several fixed steps per frame
			substeps := int(math.Round(1.0 / (frameRate * m.cfg.Dt)))
			if substeps < 1 {
				substeps = 1
			}
			for i := 0; i < substeps && m.running; i++ {
				m.step()
			}
		}
		m.draw()
		return m, tick()
	}
	return m, nil
}

// step runs one controller-plant tick, the same sequence as the batch
// simulator.
func (m *Model) step() {
	m.ref = m.trajectory.Eval(m.t)
	m.cmd = m.controller.Step(m.t, m.ref, m.state)

	next, err := m.plant.Step(m.t, m.cfg.Dt, m.cmd)
	if err != nil {
		m.err = err
		m.running = false
		return
	}
	m.state = next
	m.t += m.cfg.Dt

	m.altHistory = append(m.altHistory, m.state.Pos.Z)
	if len(m.altHistory) > historyCapacity {
		m.altHistory = m.altHistory[1:]
	}
}

// reset rebuilds the plant; it owns the integration state, so a fresh
// instance is the only clean way back to t=0.
func (m *Model) reset() {
	plant, err := experiment.BuildPlant(m.cfg, m.par, m.integ)
	if err != nil {
		m.err = err
		return
	}
	m.plant = plant
	m.state = m.cfg.InitVehicleState()
	m.cmd = quad.RotorCommands{}
	m.t = 0
	m.err = nil
	m.running = true
	m.trail = m.trail[:0]
	m.altHistory = m.altHistory[:0]
}

// draw renders the x-z side view: ground line, position trail, the
// vehicle as a tilted arm with rotor hats, and the reference point.
func (m *Model) draw() {
	m.canvas.Clear()

	cw, ch := canvasWidth*2, canvasHeight*4
	cx := cw / 2
	groundY := ch - 6
	const scaleX, scaleZ = 14.0, 48.0

	m.canvas.DrawLine(0, groundY, cw-1, groundY)

	toScreen := func(x, z float64) (int, int) {
		return cx + int(x*scaleX), groundY - int(z*scaleZ)
	}

	rx, ry := toScreen(m.ref.Pos.X, m.ref.Pos.Z)
	m.canvas.Set(rx-2, ry)
	m.canvas.Set(rx+2, ry)
	m.canvas.Set(rx, ry-2)
	m.canvas.Set(rx, ry+2)

	px, py := toScreen(m.state.Pos.X, m.state.Pos.Z)
	m.trail = append(m.trail, point{px, py})
	if len(m.trail) > 200 {
		m.trail = m.trail[1:]
	}
	for _, pt := range m.trail {
		m.canvas.Set(pt.x, pt.y)
	}

	// pitch of the body x-axis in the world x-z plane
	bodyX := m.state.Att.Rotate(quad.Vec3{X: 1})
	angle := math.Atan2(bodyX.Z, bodyX.X)

	arm := 12.0
	c, s := math.Cos(angle), math.Sin(angle)
	lx, ly := px-int(arm*c), py+int(arm*s)
	hx, hy := px+int(arm*c), py-int(arm*s)
	m.canvas.DrawLine(lx, ly, hx, hy)
	m.canvas.DrawLine(lx-3, ly-2, lx+3, ly-2)
	m.canvas.DrawLine(hx-3, hy-2, hx+3, hy-2)
	m.canvas.DrawMarker(px, py, 1)
}

func (m Model) View() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.cfg.Model)+" / "+m.cfg.Trajectory) + "\n")

	switch {
	case m.err != nil:
		s.WriteString(errorStyle.Render(fmt.Sprintf("FAILED: %v", m.err)) + "\n\n")
	case m.running:
		s.WriteString("RUNNING\n\n")
	default:
		s.WriteString("PAUSED\n\n")
	}

	if len(m.altHistory) > 1 {
		chart := asciigraph.Plot(m.altHistory, asciigraph.Height(4), asciigraph.Width(32), asciigraph.Caption("altitude [m]"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs", m.t)) + "\n")
	s.WriteString(labelStyle.Render("Position") + valueStyle.Render(fmt.Sprintf("%.2f %.2f %.2f", m.state.Pos.X, m.state.Pos.Y, m.state.Pos.Z)) + "\n")
	s.WriteString(labelStyle.Render("Velocity") + valueStyle.Render(fmt.Sprintf("%.2f %.2f %.2f", m.state.Vel.X, m.state.Vel.Y, m.state.Vel.Z)) + "\n")
	s.WriteString(labelStyle.Render("Reference") + valueStyle.Render(fmt.Sprintf("%.2f %.2f %.2f", m.ref.Pos.X, m.ref.Pos.Y, m.ref.Pos.Z)) + "\n")

	s.WriteString("\nROTORS [rad/s]\n")
	rateMax := m.cfg.Gains.RateMax
	if rateMax <= 0 {
		rateMax = 1000
	}
	for i, r := range m.cmd {
		s.WriteString(fmt.Sprintf("  r%d %s %6.0f\n", i+1, rateBar(r, rateMax, 14), r))
	}

	s.WriteString(helpStyle.Render("\nSP:Pause  R:Reset  Q:Quit"))

	canvasView := canvasStyle.Render(m.canvas.String())
	statsView := statsStyle.Render(s.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
}

func rateBar(rate, max float64, width int) string {
	ratio := rate / max
	if ratio > 1 {
		ratio = 1
	} else if ratio < 0 {
		ratio = 0
	}
	filled := int(ratio * float64(width))
	return "[" + strings.Repeat("=", filled) + strings.Repeat("-", width-filled) + "]"
}

package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/lorentz/internal/geodesic"
	"github.com/san-kum/lorentz/internal/metric"
)

const (
	canvasWidth     = 60
	canvasHeight    = 20
	historyCapacity = 600
	minDtau         = 1e-6
	maxDtau         = 10
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(48)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model steps one geodesic per tick and draws its spatial (x, y) track next
// to the normalisation residual and x(τ).
type Model struct {
	title    string
	stepper  *geodesic.Stepper
	start    geodesic.State
	state    geodesic.State
	dtau     float64
	initDtau float64
	running  bool

	last     geodesic.StepReport
	steps    int
	skipped  int
	residual []float64 // g(u,u) + 1 before renormalisation
	xs, ys   []float64
	canvas   *Canvas
}

func NewModel(title string, s *geodesic.Stepper, start geodesic.State, dtau float64) Model {
	return Model{
		title:    title,
		stepper:  s,
		start:    start,
		state:    start,
		dtau:     dtau,
		initDtau: dtau,
		running:  true,
		residual: make([]float64, 0, historyCapacity),
		xs:       []float64{start.X[1]},
		ys:       []float64{start.X[2]},
		canvas:   NewCanvas(canvasWidth, canvasHeight),
	}
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
			m.running = !m.running
		case "r":
			m.reset()
		case "+", "=":
			m.dtau = math.Min(m.dtau*2, maxDtau)
		case "-", "_":
			m.dtau = math.Max(m.dtau/2, minDtau)
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

func push(h []float64, v float64) []float64 {
	h = append(h, v)
	if len(h) > historyCapacity {
		h = h[1:]
	}
	return h
}

func (m *Model) step() {
	m.last = m.stepper.Step(&m.state, m.dtau)
	m.steps++
	if !m.last.Renormalized {
		m.skipped++
	}
	m.residual = push(m.residual, m.last.Norm+1)
	m.xs = push(m.xs, m.state.X[1])
	m.ys = push(m.ys, m.state.X[2])
}

func (m *Model) reset() {
	m.state = m.start
	m.dtau = m.initDtau
	m.last = geodesic.StepReport{}
	m.steps, m.skipped = 0, 0
	m.residual = m.residual[:0]
	m.xs = append(m.xs[:0], m.start.X[1])
	m.ys = append(m.ys[:0], m.start.X[2])
}

// State returns the current point of the trajectory.
func (m Model) State() geodesic.State { return m.state }

// Dtau returns the current proper-time step.
func (m Model) Dtau() float64 { return m.dtau }

func row(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value) + "\n"
}

func (m Model) View() string {
	m.canvas.Clear()
	m.canvas.Trail(m.xs, m.ys)

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.title)) + "\n")
	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	s.WriteString(status + "\n\n")

	if len(m.residual) > 1 {
		chart := asciigraph.Plot(m.residual, asciigraph.Height(4), asciigraph.Width(32), asciigraph.Caption("g(u,u)+1"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}
	if len(m.xs) > 1 {
		chart := asciigraph.Plot(m.xs, asciigraph.Height(4), asciigraph.Width(32), asciigraph.Caption("x(τ)"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	st := m.state
	s.WriteString(row("τ", fmt.Sprintf("%.4f", st.Tau)))
	s.WriteString(row("dτ", fmt.Sprintf("%.3g", m.dtau)))
	s.WriteString(row("x", fmt.Sprintf("(%.3f, %.3f, %.3f, %.3f)", st.X[0], st.X[1], st.X[2], st.X[3])))
	s.WriteString(row("u", fmt.Sprintf("(%.3f, %.3f, %.3f, %.3f)", st.U[0], st.U[1], st.U[2], st.U[3])))
	if m.steps > 0 {
		g := m.stepper.Field.Metric(st.X)
		d := metric.TimeDilation(g, st.U)
		s.WriteString(row("g(u,u)", fmt.Sprintf("%.12f", d.Norm)))
		s.WriteString(row("γ", fmt.Sprintf("%.6f", d.Gamma)))
		s.WriteString(row("cond", fmt.Sprintf("%.3g", m.last.Cond)))
	}
	s.WriteString(row("steps", fmt.Sprintf("%d", m.steps)))
	if m.skipped > 0 {
		s.WriteString(warnStyle.Render(fmt.Sprintf("%d steps left the timelike shell", m.skipped)) + "\n")
	}
	if m.steps > 0 && !m.last.InvOK {
		s.WriteString(warnStyle.Render("metric inversion failed") + "\n")
	}
	s.WriteString(helpStyle.Render("SP:Pause R:Reset Q:Quit  +/-: dτ"))

	canvasView := canvasStyle.Render(m.canvas.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
}

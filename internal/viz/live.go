package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"mudsim/internal/coupling"
	"mudsim/internal/downhole"
	"mudsim/internal/fluid"
	"mudsim/internal/kinetics"
	"mudsim/internal/rheology"
)

const historyCapacity = 600

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(42)
	chartStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	keyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
)

type TickMsg time.Time

// Model drives an interactive run: each tick advances the activation
// kinetics one step, blends the rheological parameters, and redraws.
type Model struct {
	env     downhole.Environment
	kin     kinetics.Model
	stepper kinetics.Stepper
	coupler coupling.Coupler
	base    fluid.Params
	max     fluid.Params

	dt           float64
	refShearRate float64
	initialAlpha float64

	t, alpha float64
	frame    fluid.Frame
	running  bool
	err      error

	alphaHist []float64
	yieldHist []float64
}

// NewModel seeds the live view at t = 0.
func NewModel(env downhole.Environment, kin kinetics.Model, stepper kinetics.Stepper, coupler coupling.Coupler, base, max fluid.Params, dt, refShearRate, initialAlpha float64) Model {
	if stepper == nil {
		stepper = kinetics.NewExactExponential()
	}
	if coupler == nil {
		coupler = coupling.NewLinear()
	}
	m := Model{
		env:          env,
		kin:          kin,
		stepper:      stepper,
		coupler:      coupler,
		base:         base,
		max:          max,
		dt:           dt,
		refShearRate: refShearRate,
		initialAlpha: initialAlpha,
		alpha:        initialAlpha,
		running:      true,
		alphaHist:    make([]float64, 0, historyCapacity),
		yieldHist:    make([]float64, 0, historyCapacity),
	}
	m.observe()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and steps the simulation.
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
		case "up", "k":
			m.dt *= 1.25
		case "down", "j":
			if m.dt > 1e-3 {
				m.dt /= 1.25
			}
		}
	case TickMsg:
		if m.running && m.err == nil {
			m.step()
		}
		return m, tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m *Model) step() {
	cond := m.env.At(m.t)
	m.alpha = m.stepper.Step(m.kin, m.alpha, cond.Temperature, m.dt)
	m.t += m.dt
	m.observe()
}

// observe recomputes the displayed frame from the current state.
func (m *Model) observe() {
	cond := m.env.At(m.t)
	params, err := m.coupler.Blend(m.alpha, m.base, m.max)
	if err != nil {
		m.err = err
		m.running = false
		return
	}
	stress, visc, err := rheology.Sample(params, m.refShearRate)
	if err != nil {
		m.err = err
		m.running = false
		return
	}
	m.frame = fluid.Frame{
		Time:        m.t,
		Cond:        cond,
		Alpha:       m.alpha,
		Params:      params,
		ShearRate:   m.refShearRate,
		ShearStress: stress,
		Viscosity:   visc,
	}
	m.alphaHist = append(m.alphaHist, m.alpha)
	if len(m.alphaHist) > historyCapacity {
		m.alphaHist = m.alphaHist[1:]
	}
	m.yieldHist = append(m.yieldHist, params.YieldStress)
	if len(m.yieldHist) > historyCapacity {
		m.yieldHist = m.yieldHist[1:]
	}
}

func (m *Model) reset() {
	m.t = 0
	m.alpha = m.initialAlpha
	m.err = nil
	m.alphaHist = m.alphaHist[:0]
	m.yieldHist = m.yieldHist[:0]
	m.observe()
	m.running = true
}

// View renders the charts and the stats panel side by side.
func (m Model) View() string {
	var charts strings.Builder
	if len(m.alphaHist) > 1 {
		charts.WriteString(chartStyle.Render(asciigraph.Plot(m.alphaHist,
			asciigraph.Height(8), asciigraph.Width(60), asciigraph.Caption("activation α"))) + "\n")
	}
	if len(m.yieldHist) > 1 {
		charts.WriteString(chartStyle.Render(asciigraph.Plot(m.yieldHist,
			asciigraph.Height(8), asciigraph.Width(60), asciigraph.Caption("yield stress τ₀ (Pa)"))))
	}

	var s strings.Builder
	s.WriteString(headerStyle.Render("SMART MUD LIVE") + "\n")
	status := "RUNNING"
	if m.err != nil {
		status = errStyle.Render("FAILED: " + m.err.Error())
	} else if !m.running {
		status = "PAUSED"
	}
	s.WriteString(status + "\n\n")

	f := m.frame
	row := func(label, val string) {
		s.WriteString(keyStyle.Render(label) + valueStyle.Render(val) + "\n")
	}
	row("Time", fmt.Sprintf("%.1f s (dt %.2f)", f.Time, m.dt))
	row("Temperature", fmt.Sprintf("%.1f °C", f.Cond.Temperature))
	row("Activation", fmt.Sprintf("%.4f", f.Alpha))
	row("Yield stress", fmt.Sprintf("%.3f Pa", f.Params.YieldStress))
	row("Consistency", fmt.Sprintf("%.4f Pa·sⁿ", f.Params.Consistency))
	row("Shear stress", fmt.Sprintf("%.3f Pa @ %g 1/s", f.ShearStress, f.ShearRate))
	row("Viscosity", f.Viscosity.String())
	s.WriteString(helpStyle.Render("\n──────────────────\nSP:Pause R:Reset Q:Quit\n↑↓:Time step"))

	return lipgloss.JoinHorizontal(lipgloss.Top, charts.String(), statsStyle.Render(s.String()))
}

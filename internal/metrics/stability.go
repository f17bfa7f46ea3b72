package metrics

import (
	"math"

	"mudsim/internal/fluid"
)

// stabilityTargetStress is the mean reference-shear stress the fluid
// program is designed around; deviation in either direction degrades the
// stability index.
const stabilityTargetStress = 20.0 // Pa

// Stability scores the run on a 0-100 wellbore stability index:
// 100 − |mean τ − 20 Pa|·3, clamped to [0, 100].
type Stability struct {
	stress MeanStress
}

func NewStability() *Stability { return &Stability{} }

func (s *Stability) Name() string { return "stability" }

func (s *Stability) Observe(f fluid.Frame) { s.stress.Observe(f) }

func (s *Stability) Value() float64 {
	return clamp(100-math.Abs(s.stress.Value()-stabilityTargetStress)*3, 0, 100)
}

func (s *Stability) Reset() { s.stress.Reset() }

// FluidLoss estimates the percent reduction in fluid loss from the
// swelling extent and the stability index, clamped to [0, 60].
type FluidLoss struct {
	// SwellingSpanPct maps full activation onto a diameter change
	// percentage. 40 matches the hybrid nanoparticle formulation.
	SwellingSpanPct float64

	activation FinalActivation
	stability  Stability
}

func NewFluidLoss() *FluidLoss {
	return &FluidLoss{SwellingSpanPct: 40}
}

func (m *FluidLoss) Name() string { return "fluid_loss_reduction" }

func (m *FluidLoss) Observe(f fluid.Frame) {
	m.activation.Observe(f)
	m.stability.Observe(f)
}

func (m *FluidLoss) Value() float64 {
	swellPct := m.activation.Value() * m.SwellingSpanPct
	return clamp(30+0.5*swellPct+0.2*m.stability.Value(), 0, 60)
}

func (m *FluidLoss) Reset() {
	m.activation.Reset()
	m.stability.Reset()
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

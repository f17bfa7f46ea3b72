package kinetics

import "math"

// Stepper advances the activation fraction over one time step at the
// temperature sampled for that step. Activation is irreversible: a step
// never lowers α, and the result is always clamped to [0,1].
type Stepper interface {
	Step(m Model, alpha, tempC, dt float64) float64
}

// ExactExponential applies the closed-form solution of the relaxation
// equation for constant temperature over the step,
//
//	α' = α_eq − (α_eq − α)·exp(−k_rate·Δt)
//
// It cannot overshoot α_eq regardless of Δt, so it is the default stepper.
type ExactExponential struct{}

func NewExactExponential() *ExactExponential {
	return &ExactExponential{}
}

func (*ExactExponential) Step(m Model, alpha, tempC, dt float64) float64 {
	eq := m.Equilibrium(tempC)
	next := eq - (eq-alpha)*math.Exp(-m.Rate(tempC)*dt)
	return settle(alpha, next)
}

// ExplicitEuler applies the forward-Euler update
//
//	α' = α + Δt·k_rate·(α_eq − α)
//
// For Δt large relative to 1/k_rate the raw update would overshoot and
// oscillate around α_eq; the result is clamped at α_eq instead.
type ExplicitEuler struct{}

func NewExplicitEuler() *ExplicitEuler {
	return &ExplicitEuler{}
}

func (*ExplicitEuler) Step(m Model, alpha, tempC, dt float64) float64 {
	eq := m.Equilibrium(tempC)
	next := alpha + dt*m.Rate(tempC)*(eq-alpha)
	if alpha <= eq && next > eq {
		next = eq
	}
	return settle(alpha, next)
}

// settle enforces irreversibility and the [0,1] domain.
func settle(alpha, next float64) float64 {
	if next < alpha {
		next = alpha
	}
	if next < 0 {
		return 0
	}
	if next > 1 {
		return 1
	}
	return next
}

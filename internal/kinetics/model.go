// Package kinetics models the temperature-driven activation of
// programmable nanoparticles as first-order relaxation toward a
// temperature-dependent equilibrium.
package kinetics

import (
	"fmt"
	"math"

	"mudsim/internal/fluid"
)

const (
	gasConstant  = 8.314462618 // J/(mol·K)
	kelvinOffset = 273.15
)

// Model holds the temperature response of the nanoparticle population.
// The equilibrium activation follows a sigmoid of temperature,
//
//	α_eq(T) = 1 / (1 + exp(−Steepness·(T − MidpointTemp)))
//
// and the relaxation rate follows an Arrhenius law,
//
//	k_rate(T) = RatePrefactor · exp(−ActivationEnergy / (R·T_abs))
//
// with ActivationEnergy = 0 giving a temperature-independent rate.
type Model struct {
	Steepness        float64 // sigmoid steepness, 1/°C
	MidpointTemp     float64 // sigmoid midpoint, °C
	RatePrefactor    float64 // Arrhenius prefactor, 1/s
	ActivationEnergy float64 // J/mol
}

// Default returns the model tuned to the baseline mud formulation: a
// gentle sigmoid around 90 °C and a constant 0.05/s relaxation rate.
func Default() Model {
	return Model{
		Steepness:     0.05,
		MidpointTemp:  90,
		RatePrefactor: 0.05,
	}
}

// Validate checks the coefficient domain.
func (m Model) Validate() error {
	if m.Steepness <= 0 {
		return fmt.Errorf("%w: sigmoid steepness %g <= 0", fluid.ErrInvalidParameter, m.Steepness)
	}
	if m.RatePrefactor <= 0 {
		return fmt.Errorf("%w: rate prefactor %g <= 0", fluid.ErrInvalidParameter, m.RatePrefactor)
	}
	if m.ActivationEnergy < 0 {
		return fmt.Errorf("%w: activation energy %g < 0", fluid.ErrInvalidParameter, m.ActivationEnergy)
	}
	return nil
}

// Equilibrium returns α_eq at the given temperature in °C.
func (m Model) Equilibrium(tempC float64) float64 {
	return 1 / (1 + math.Exp(-m.Steepness*(tempC-m.MidpointTemp)))
}

// Rate returns the relaxation rate constant at the given temperature in °C.
func (m Model) Rate(tempC float64) float64 {
	if m.ActivationEnergy == 0 {
		return m.RatePrefactor
	}
	return m.RatePrefactor * math.Exp(-m.ActivationEnergy/(gasConstant*(tempC+kelvinOffset)))
}

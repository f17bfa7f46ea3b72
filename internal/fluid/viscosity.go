package fluid

import "fmt"

// Viscosity is an apparent viscosity sample. At zero shear rate apparent
// viscosity is undefined; the zero Viscosity value reports that state
// explicitly instead of carrying NaN or Inf into later computation.
type Viscosity struct {
	value   float64
	defined bool
}

// NewViscosity builds a defined viscosity sample in Pa·s.
func NewViscosity(paS float64) Viscosity {
	return Viscosity{value: paS, defined: true}
}

// UndefinedViscosity is the distinguished result for shear rate zero.
func UndefinedViscosity() Viscosity {
	return Viscosity{}
}

// Defined reports whether the sample carries a numeric value.
func (v Viscosity) Defined() bool { return v.defined }

// PaS returns the viscosity in Pa·s. It must not be called on an
// undefined sample; callers check Defined first.
func (v Viscosity) PaS() float64 { return v.value }

// Centipoise returns the viscosity in cP (1 Pa·s = 1000 cP).
func (v Viscosity) Centipoise() float64 { return v.value * 1000 }

func (v Viscosity) String() string {
	if !v.defined {
		return "undefined"
	}
	return fmt.Sprintf("%.4f Pa·s", v.value)
}

// Package metrics provides frame-observing aggregates for simulation
// runs: the wellbore stability index and fluid-loss-reduction estimate
// of the original mud design studies, plus simple stress and activation
// reductions.
package metrics

import "mudsim/internal/fluid"

// MeanStress averages the reference-shear stress over the run.
type MeanStress struct {
	sum     float64
	samples int
}

func NewMeanStress() *MeanStress { return &MeanStress{} }

func (m *MeanStress) Name() string { return "mean_stress" }

func (m *MeanStress) Observe(f fluid.Frame) {
	m.sum += f.ShearStress
	m.samples++
}

func (m *MeanStress) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanStress) Reset() {
	m.sum = 0
	m.samples = 0
}

// FinalActivation reports the last observed activation fraction.
type FinalActivation struct {
	alpha float64
}

func NewFinalActivation() *FinalActivation { return &FinalActivation{} }

func (m *FinalActivation) Name() string          { return "final_activation" }
func (m *FinalActivation) Observe(f fluid.Frame) { m.alpha = f.Alpha }
func (m *FinalActivation) Value() float64        { return m.alpha }
func (m *FinalActivation) Reset()                { m.alpha = 0 }

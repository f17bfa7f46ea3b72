// Package downhole describes the downhole environment driving a
// simulation run. Signals are immutable once constructed and sampling is
// a pure lookup, so an Environment can be shared across concurrent runs.
package downhole

import (
	"fmt"
	"sort"

	"mudsim/internal/fluid"
)

// Signal is a scalar downhole quantity as a function of simulation time.
type Signal interface {
	At(t float64) float64
}

// Constant is a time-invariant signal.
type Constant float64

func (c Constant) At(t float64) float64 { return float64(c) }

// Sample is one (time, value) point of a trajectory.
type Sample struct {
	Time  float64
	Value float64
}

// Trajectory is an ordered sequence of samples with strictly increasing
// times. Sampling interpolates linearly between neighbors and clamps to
// the end values outside the sampled range.
type Trajectory struct {
	samples []Sample
}

// NewTrajectory validates and copies the sample sequence.
func NewTrajectory(samples []Sample) (*Trajectory, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: trajectory requires at least one sample", fluid.ErrInvalidParameter)
	}
	for i := 1; i < len(samples); i++ {
		if samples[i].Time <= samples[i-1].Time {
			return nil, fmt.Errorf("%w: trajectory times must be strictly increasing (sample %d: %g <= %g)",
				fluid.ErrInvalidParameter, i, samples[i].Time, samples[i-1].Time)
		}
	}
	owned := make([]Sample, len(samples))
	copy(owned, samples)
	return &Trajectory{samples: owned}, nil
}

func (tr *Trajectory) At(t float64) float64 {
	s := tr.samples
	if t <= s[0].Time {
		return s[0].Value
	}
	last := s[len(s)-1]
	if t >= last.Time {
		return last.Value
	}

	// First sample with Time > t; its predecessor exists by the checks above.
	i := sort.Search(len(s), func(i int) bool { return s[i].Time > t })
	lo, hi := s[i-1], s[i]
	frac := (t - lo.Time) / (hi.Time - lo.Time)
	return lo.Value + frac*(hi.Value-lo.Value)
}

// Environment bundles the downhole condition signals. Nil signals read
// as zero.
type Environment struct {
	Depth       Signal
	Pressure    Signal
	Temperature Signal
	PH          Signal
}

// NewEnvironment builds a constant environment from scalar conditions.
func NewEnvironment(depth, pressure, temperature, pH float64) Environment {
	return Environment{
		Depth:       Constant(depth),
		Pressure:    Constant(pressure),
		Temperature: Constant(temperature),
		PH:          Constant(pH),
	}
}

// At samples every signal at time t.
func (e Environment) At(t float64) fluid.Condition {
	return fluid.Condition{
		Depth:       sample(e.Depth, t),
		Pressure:    sample(e.Pressure, t),
		Temperature: sample(e.Temperature, t),
		PH:          sample(e.PH, t),
	}
}

func sample(s Signal, t float64) float64 {
	if s == nil {
		return 0
	}
	return s.At(t)
}

// Package sim drives the coupled nanoparticle-rheology system forward
// in time. Each run is a sequential fold over time steps: sample the
// environment, advance the activation fraction, blend the rheological
// parameters, evaluate the flow sample, append a frame. Runs hold no
// hidden state; identical inputs produce identical frame sequences.
package sim

import (
	"context"
	"fmt"

	"mudsim/internal/coupling"
	"mudsim/internal/downhole"
	"mudsim/internal/fluid"
	"mudsim/internal/kinetics"
	"mudsim/internal/rheology"
)

// Metric observes every frame of a run and reduces to one scalar.
type Metric interface {
	Name() string
	Observe(f fluid.Frame)
	Value() float64
	Reset()
}

// Config holds the per-run integration settings.
type Config struct {
	Dt           float64 // step size, s
	Horizon      float64 // simulated duration, s
	RefShearRate float64 // shear rate the per-frame sample is taken at, 1/s
	InitialAlpha float64 // α₀
}

// DefaultConfig mirrors the baseline mud scenario: one-second steps over
// 200 s, sampled at the 100 1/s reference shear rate.
func DefaultConfig() Config {
	return Config{
		Dt:           1.0,
		Horizon:      200,
		RefShearRate: 100,
	}
}

// Simulator couples an environment, a kinetics model, and a rheology
// parameter pair. A Simulator is cheap to construct; build a fresh one
// per run rather than sharing instances across concurrent runs.
type Simulator struct {
	env     downhole.Environment
	model   kinetics.Model
	stepper kinetics.Stepper
	coupler coupling.Coupler
	base    fluid.Params
	max     fluid.Params
	metrics []Metric
}

// New builds a Simulator. A nil stepper defaults to the exact-exponential
// update and a nil coupler to linear interpolation.
func New(env downhole.Environment, model kinetics.Model, stepper kinetics.Stepper, coupler coupling.Coupler, base, max fluid.Params) *Simulator {
	if stepper == nil {
		stepper = kinetics.NewExactExponential()
	}
	if coupler == nil {
		coupler = coupling.NewLinear()
	}
	return &Simulator{
		env:     env,
		model:   model,
		stepper: stepper,
		coupler: coupler,
		base:    base,
		max:     max,
		metrics: make([]Metric, 0),
	}
}

func (s *Simulator) AddMetric(m Metric) { s.metrics = append(s.metrics, m) }

// Run produces the ordered frame sequence for t = 0, Δt, …, Horizon,
// including the final partial step when Horizon is not a multiple of Δt.
// Horizon zero yields the single initial frame. Component failures
// propagate unchanged, wrapped with the offending step index.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*fluid.Result, error) {
	if err := s.validate(cfg); err != nil {
		return nil, err
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	result := &fluid.Result{
		Frames:  make([]fluid.Frame, 0, int(cfg.Horizon/cfg.Dt)+2),
		Metrics: make(map[string]float64),
	}

	alpha := cfg.InitialAlpha
	t := 0.0

	if err := s.emit(result, 0, t, alpha, cfg.RefShearRate); err != nil {
		return nil, err
	}

	for step := 1; t < cfg.Horizon; step++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		cond := s.env.At(t)
		dt := cfg.Dt
		if t+dt > cfg.Horizon {
			dt = cfg.Horizon - t
		}

		alpha = s.stepper.Step(s.model, alpha, cond.Temperature, dt)
		t += dt

		if err := s.emit(result, step, t, alpha, cfg.RefShearRate); err != nil {
			return nil, err
		}
		result.Steps++
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

// emit blends the parameters for the current activation, evaluates the
// reference-shear sample, and appends the frame.
func (s *Simulator) emit(result *fluid.Result, step int, t, alpha, refShearRate float64) error {
	cond := s.env.At(t)

	params, err := s.coupler.Blend(alpha, s.base, s.max)
	if err != nil {
		return &fluid.StepError{Step: step, Time: t, Wrapped: err}
	}

	stress, visc, err := rheology.Sample(params, refShearRate)
	if err != nil {
		return &fluid.StepError{Step: step, Time: t, Wrapped: err}
	}

	frame := fluid.Frame{
		Time:        t,
		Cond:        cond,
		Alpha:       alpha,
		Params:      params,
		ShearRate:   refShearRate,
		ShearStress: stress,
		Viscosity:   visc,
	}
	result.Frames = append(result.Frames, frame)

	for _, m := range s.metrics {
		m.Observe(frame)
	}
	return nil
}

func (s *Simulator) validate(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("%w: dt %g <= 0", fluid.ErrInvalidParameter, cfg.Dt)
	}
	if cfg.Horizon < 0 {
		return fmt.Errorf("%w: horizon %g < 0", fluid.ErrInvalidParameter, cfg.Horizon)
	}
	if cfg.InitialAlpha < 0 || cfg.InitialAlpha > 1 {
		return fmt.Errorf("%w: initial activation %g outside [0,1]", fluid.ErrInvalidParameter, cfg.InitialAlpha)
	}
	return s.model.Validate()
}

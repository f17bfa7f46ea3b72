package downhole

import (
	"errors"
	"math"
	"testing"

	"mudsim/internal/fluid"
)

func TestConstant(t *testing.T) {
	c := Constant(120)
	for _, tm := range []float64{0, 1, 1e6} {
		if c.At(tm) != 120 {
			t.Errorf("Constant.At(%g) = %g, want 120", tm, c.At(tm))
		}
	}
}

func TestNewTrajectory_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		samples []Sample
	}{
		{"empty", nil},
		{"duplicate times", []Sample{{0, 90}, {0, 100}}},
		{"decreasing times", []Sample{{10, 90}, {5, 100}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTrajectory(tt.samples)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, fluid.ErrInvalidParameter) {
				t.Errorf("expected ErrInvalidParameter, got %v", err)
			}
		})
	}
}

func TestTrajectoryInterpolation(t *testing.T) {
	tr, err := NewTrajectory([]Sample{{0, 90}, {100, 120}, {200, 150}})
	if err != nil {
		t.Fatalf("NewTrajectory failed: %v", err)
	}

	tests := []struct {
		time     float64
		expected float64
	}{
		{-5, 90},   // clamped before first sample
		{0, 90},    // exact sample
		{50, 105},  // midpoint of first segment
		{100, 120}, // interior sample
		{150, 135}, // midpoint of second segment
		{200, 150}, // last sample
		{999, 150}, // clamped past last sample
	}

	for _, tt := range tests {
		if got := tr.At(tt.time); math.Abs(got-tt.expected) > 1e-12 {
			t.Errorf("At(%g) = %g, want %g", tt.time, got, tt.expected)
		}
	}
}

func TestTrajectoryCopiesSamples(t *testing.T) {
	samples := []Sample{{0, 90}, {100, 120}}
	tr, err := NewTrajectory(samples)
	if err != nil {
		t.Fatalf("NewTrajectory failed: %v", err)
	}

	samples[0].Value = -999
	if tr.At(0) != 90 {
		t.Error("trajectory aliased the caller's sample slice")
	}
}

func TestEnvironmentAt(t *testing.T) {
	ramp, _ := NewTrajectory([]Sample{{0, 90}, {100, 150}})
	env := Environment{
		Depth:       Constant(3000),
		Pressure:    Constant(5000),
		Temperature: ramp,
		PH:          Constant(7),
	}

	cond := env.At(50)
	if cond.Depth != 3000 || cond.Pressure != 5000 || cond.PH != 7 {
		t.Errorf("unexpected constant fields: %+v", cond)
	}
	if math.Abs(cond.Temperature-120) > 1e-12 {
		t.Errorf("Temperature = %g, want 120", cond.Temperature)
	}
}

func TestEnvironmentNilSignals(t *testing.T) {
	var env Environment
	cond := env.At(10)
	if cond != (fluid.Condition{}) {
		t.Errorf("nil signals should read zero, got %+v", cond)
	}
}

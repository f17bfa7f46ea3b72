package rheology

import (
	"errors"
	"math"
	"testing"

	"mudsim/internal/fluid"
)

func TestStress_HerschelBulkley(t *testing.T) {
	// τ = 5 + 2·4^0.8 ≈ 10.99 Pa
	p := fluid.NewHerschelBulkley(5, 2, 0.8)

	tau, err := Stress(p, 4)
	if err != nil {
		t.Fatalf("Stress failed: %v", err)
	}

	expected := 5 + 2*math.Pow(4, 0.8)
	if math.Abs(tau-expected) > 1e-12 {
		t.Errorf("Stress = %g, want %g", tau, expected)
	}
	if math.Abs(tau-10.99) > 0.01 {
		t.Errorf("Stress = %g, want ≈ 10.99", tau)
	}
}

func TestStress_Bingham(t *testing.T) {
	p := fluid.NewBingham(5, 0.03)

	tau, err := Stress(p, 100)
	if err != nil {
		t.Fatalf("Stress failed: %v", err)
	}
	if math.Abs(tau-8) > 1e-12 {
		t.Errorf("Stress = %g, want 8", tau)
	}
}

func TestStress_AtRest(t *testing.T) {
	p := fluid.NewHerschelBulkley(5, 2, 0.8)
	tau, err := Stress(p, 0)
	if err != nil {
		t.Fatalf("Stress failed: %v", err)
	}
	if tau != 5 {
		t.Errorf("stress at rest should equal yield stress, got %g", tau)
	}
}

func TestStress_NegativeShearRate(t *testing.T) {
	p := fluid.NewHerschelBulkley(5, 2, 0.8)
	_, err := Stress(p, -1)
	if !errors.Is(err, fluid.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestStress_InvalidParams(t *testing.T) {
	p := fluid.NewHerschelBulkley(5, -2, 0.8)
	_, err := Stress(p, 4)
	if !errors.Is(err, fluid.ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}
}

func TestStress_Monotonic(t *testing.T) {
	params := []fluid.Params{
		fluid.NewHerschelBulkley(5, 2, 0.8),  // shear-thinning
		fluid.NewHerschelBulkley(5, 2, 1.3),  // shear-thickening
		fluid.NewHerschelBulkley(0, 0.02, 0.7),
		fluid.NewBingham(5, 0.03),
	}

	for _, p := range params {
		prev := -1.0
		for rate := 0.0; rate <= 200; rate += 0.5 {
			tau, err := Stress(p, rate)
			if err != nil {
				t.Fatalf("Stress(%v, %g) failed: %v", p, rate, err)
			}
			if tau < prev {
				t.Fatalf("stress decreased at γ̇=%g for %+v: %g < %g", rate, p, tau, prev)
			}
			prev = tau
		}
	}
}

func TestApparentViscosity_ZeroShearRate(t *testing.T) {
	p := fluid.NewHerschelBulkley(5, 2, 0.8)
	visc, err := ApparentViscosity(p, 0)
	if err != nil {
		t.Fatalf("ApparentViscosity failed: %v", err)
	}
	if visc.Defined() {
		t.Error("viscosity at zero shear rate must be the undefined sentinel")
	}
}

func TestApparentViscosity_Monotone(t *testing.T) {
	tests := []struct {
		name       string
		params     fluid.Params
		thickening bool
	}{
		{"shear-thinning n<1", fluid.NewHerschelBulkley(0, 2, 0.8), false},
		{"shear-thickening n>1", fluid.NewHerschelBulkley(0, 2, 1.4), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev := math.NaN()
			for rate := 1.0; rate <= 200; rate += 1 {
				visc, err := ApparentViscosity(tt.params, rate)
				if err != nil {
					t.Fatalf("ApparentViscosity failed: %v", err)
				}
				cur := visc.PaS()
				if !math.IsNaN(prev) {
					if tt.thickening && cur < prev-1e-12 {
						t.Fatalf("viscosity decreased at γ̇=%g: %g < %g", rate, cur, prev)
					}
					if !tt.thickening && cur > prev+1e-12 {
						t.Fatalf("viscosity increased at γ̇=%g: %g > %g", rate, cur, prev)
					}
				}
				prev = cur
			}
		})
	}
}

func TestSample(t *testing.T) {
	p := fluid.NewHerschelBulkley(5, 0.02, 0.7)

	stress, visc, err := Sample(p, 100)
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}
	if !visc.Defined() {
		t.Fatal("expected defined viscosity")
	}
	if math.Abs(visc.PaS()-stress/100) > 1e-15 {
		t.Errorf("viscosity %g != stress/rate %g", visc.PaS(), stress/100)
	}

	_, visc0, err := Sample(p, 0)
	if err != nil {
		t.Fatalf("Sample at rest failed: %v", err)
	}
	if visc0.Defined() {
		t.Error("viscosity at rest should be undefined")
	}
}

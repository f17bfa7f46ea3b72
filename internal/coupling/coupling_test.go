package coupling

import (
	"errors"
	"math"
	"testing"

	"mudsim/internal/fluid"
)

func boundsPair() (fluid.Params, fluid.Params) {
	base := fluid.NewHerschelBulkley(5, 0.02, 0.7)
	max := fluid.NewHerschelBulkley(9, 0.05, 0.7)
	return base, max
}

func TestLinearEndpoints(t *testing.T) {
	base, max := boundsPair()
	c := NewLinear()

	atZero, err := c.Blend(0, base, max)
	if err != nil {
		t.Fatalf("Blend failed: %v", err)
	}
	if atZero != base {
		t.Errorf("Blend(0) = %+v, want base %+v", atZero, base)
	}

	atOne, err := c.Blend(1, base, max)
	if err != nil {
		t.Fatalf("Blend failed: %v", err)
	}
	if atOne != max {
		t.Errorf("Blend(1) = %+v, want max %+v", atOne, max)
	}
}

func TestLinearMidpoint(t *testing.T) {
	base, max := boundsPair()
	c := NewLinear()

	p, err := c.Blend(0.5, base, max)
	if err != nil {
		t.Fatalf("Blend failed: %v", err)
	}
	if math.Abs(p.YieldStress-7) > 1e-12 {
		t.Errorf("yield stress = %g, want 7", p.YieldStress)
	}
	if math.Abs(p.Consistency-0.035) > 1e-12 {
		t.Errorf("consistency = %g, want 0.035", p.Consistency)
	}
	if p.FlowIndex != base.FlowIndex {
		t.Errorf("flow index must not be blended: got %g", p.FlowIndex)
	}
}

func TestCouplersBounded(t *testing.T) {
	base, max := boundsPair()
	couplers := map[string]Coupler{
		"linear":    NewLinear(),
		"power 0.5": NewPower(0.5),
		"power 2":   NewPower(2),
	}

	for name, c := range couplers {
		t.Run(name, func(t *testing.T) {
			for alpha := 0.0; alpha <= 1.0; alpha += 0.01 {
				p, err := c.Blend(alpha, base, max)
				if err != nil {
					t.Fatalf("Blend(%g) failed: %v", alpha, err)
				}
				if p.YieldStress < base.YieldStress || p.YieldStress > max.YieldStress {
					t.Fatalf("yield stress %g outside [%g, %g] at α=%g", p.YieldStress, base.YieldStress, max.YieldStress, alpha)
				}
				if p.Consistency < base.Consistency || p.Consistency > max.Consistency {
					t.Fatalf("consistency %g outside [%g, %g] at α=%g", p.Consistency, base.Consistency, max.Consistency, alpha)
				}
				if err := p.Validate(); err != nil {
					t.Fatalf("blended params invalid at α=%g: %v", alpha, err)
				}
			}
		})
	}
}

func TestBlendClampsAlpha(t *testing.T) {
	base, max := boundsPair()
	c := NewLinear()

	p, err := c.Blend(1.7, base, max)
	if err != nil {
		t.Fatalf("Blend failed: %v", err)
	}
	if p != max {
		t.Errorf("alpha above 1 should clamp to max, got %+v", p)
	}

	p, err = c.Blend(-0.3, base, max)
	if err != nil {
		t.Fatalf("Blend failed: %v", err)
	}
	if p != base {
		t.Errorf("alpha below 0 should clamp to base, got %+v", p)
	}
}

func TestBlendInconsistentBounds(t *testing.T) {
	base, max := boundsPair()
	c := NewLinear()

	tests := []struct {
		name      string
		base, max fluid.Params
	}{
		{"max yield below base", max, base},
		{"kind mismatch", base, fluid.NewBingham(9, 0.05)},
		{"flow index mismatch", base, fluid.NewHerschelBulkley(9, 0.05, 0.9)},
		{"invalid base", fluid.NewHerschelBulkley(-1, 0.02, 0.7), max},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Blend(0.5, tt.base, tt.max)
			if !errors.Is(err, fluid.ErrInvalidParameter) {
				t.Errorf("expected ErrInvalidParameter, got %v", err)
			}
		})
	}
}

func TestPowerInvalidGamma(t *testing.T) {
	base, max := boundsPair()
	_, err := NewPower(0).Blend(0.5, base, max)
	if !errors.Is(err, fluid.ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}
}

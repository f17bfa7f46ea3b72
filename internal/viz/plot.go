// Package viz renders simulation output in the terminal: asciigraph
// plots of time series and flow curves, and a bubbletea live view.
package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"mudsim/internal/fluid"
	"mudsim/internal/rheology"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	graphStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// TimeSeries plots one value across frames.
func TimeSeries(title string, frames []fluid.Frame, pick func(fluid.Frame) float64, height int) string {
	if len(frames) == 0 {
		return ""
	}
	values := make([]float64, len(frames))
	for i, f := range frames {
		values[i] = pick(f)
	}

	graph := asciigraph.Plot(values,
		asciigraph.Height(height),
		asciigraph.Width(72),
		asciigraph.Caption(fmt.Sprintf("%s (t = %g..%g s)", title, frames[0].Time, frames[len(frames)-1].Time)),
	)
	return titleStyle.Render(title) + "\n" + graphStyle.Render(graph)
}

// AlphaSeries plots the activation fraction over a run.
func AlphaSeries(frames []fluid.Frame) string {
	return TimeSeries("nanoparticle activation α", frames, func(f fluid.Frame) float64 { return f.Alpha }, 10)
}

// YieldStressSeries plots τ₀ over a run.
func YieldStressSeries(frames []fluid.Frame) string {
	return TimeSeries("yield stress τ₀ (Pa)", frames, func(f fluid.Frame) float64 { return f.Params.YieldStress }, 10)
}

// FlowCurves plots the conventional and activated rheograms together.
func FlowCurves(cmp *rheology.Comparison) string {
	conv := make([]float64, len(cmp.Conventional))
	act := make([]float64, len(cmp.Activated))
	for i := range cmp.Conventional {
		conv[i] = cmp.Conventional[i].Stress
		act[i] = cmp.Activated[i].Stress
	}

	graph := asciigraph.PlotMany([][]float64{conv, act},
		asciigraph.Height(12),
		asciigraph.Width(72),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Red),
		asciigraph.Caption("shear stress vs shear rate — blue: conventional, red: activated"),
	)

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("flow curves") + "\n")
	sb.WriteString(graphStyle.Render(graph) + "\n")
	sb.WriteString(labelStyle.Render(fmt.Sprintf("apparent viscosity at γ̇ = %g 1/s: %s conventional, %s activated (%+.1f%%)",
		cmp.RefShearRate, cmp.ConventionalViscosity, cmp.ActivatedViscosity, cmp.ViscosityChangePct)))
	return sb.String()
}

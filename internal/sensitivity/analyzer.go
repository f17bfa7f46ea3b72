package sensitivity

import (
	"context"
	"fmt"
	"sync"

	"mudsim/internal/fluid"
)

// Perturbation names one parameter and the delta applied to it.
type Perturbation struct {
	Param string
	Delta float64
}

// Score is the outcome for one perturbed parameter. Err is set when the
// perturbed run could not produce a sensitivity; the rest of the sweep
// is unaffected.
type Score struct {
	Param       string
	Delta       float64
	Output      float64 // extractor output of the perturbed run
	Sensitivity float64 // (Output − baseline) / Delta
	Err         error
}

// Report maps each perturbed parameter to its score.
type Report struct {
	Extractor      string
	BaselineOutput float64
	Scores         map[string]Score
}

// Failed lists the parameters whose runs produced an error entry.
func (r *Report) Failed() []string {
	var names []string
	for name, s := range r.Scores {
		if s.Err != nil {
			names = append(names, name)
		}
	}
	return names
}

// Run executes the baseline once and one fully independent run per
// perturbation, concurrently. A failing baseline aborts the sweep (there
// is nothing to normalize against); a failing perturbed run yields an
// error entry for that parameter only.
func Run(ctx context.Context, baseline Scenario, perturbations []Perturbation, extract Extractor) (*Report, error) {
	if extract.Fn == nil {
		return nil, fmt.Errorf("%w: nil output extractor", fluid.ErrInvalidParameter)
	}

	baseResult, err := baseline.build().Run(ctx, baseline.Config)
	if err != nil {
		return nil, fmt.Errorf("baseline run: %w", err)
	}
	baseOutput, err := extract.Fn(baseResult)
	if err != nil {
		return nil, fmt.Errorf("baseline output: %w", err)
	}

	scores := make([]Score, len(perturbations))

	var wg sync.WaitGroup
	for i, p := range perturbations {
		wg.Add(1)
		go func(idx int, p Perturbation) {
			defer wg.Done()
			scores[idx] = runOne(ctx, baseline, p, extract, baseOutput)
		}(i, p)
	}
	wg.Wait()

	report := &Report{
		Extractor:      extract.Name,
		BaselineOutput: baseOutput,
		Scores:         make(map[string]Score, len(scores)),
	}
	for _, s := range scores {
		report.Scores[s.Param] = s
	}
	return report, nil
}

func runOne(ctx context.Context, baseline Scenario, p Perturbation, extract Extractor, baseOutput float64) Score {
	score := Score{Param: p.Param, Delta: p.Delta}

	if p.Delta == 0 {
		score.Err = fmt.Errorf("%w: zero perturbation delta for %q", fluid.ErrInvalidParameter, p.Param)
		return score
	}

	current, ok := baseline.Params()[p.Param]
	if !ok {
		score.Err = fmt.Errorf("%w: unknown parameter %q", fluid.ErrInvalidParameter, p.Param)
		return score
	}

	perturbed, err := baseline.WithParam(p.Param, current+p.Delta)
	if err != nil {
		score.Err = err
		return score
	}

	result, err := perturbed.build().Run(ctx, perturbed.Config)
	if err != nil {
		score.Err = err
		return score
	}

	output, err := extract.Fn(result)
	if err != nil {
		score.Err = err
		return score
	}

	score.Output = output
	score.Sensitivity = (output - baseOutput) / p.Delta
	return score
}

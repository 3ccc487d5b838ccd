package run

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ossim/ossim/sim"
	"github.com/ossim/ossim/sim/workload"
)

// Row is one algorithm's line in a comparison.
type Row struct {
	Algorithm string  `json:"algorithm"`
	Metric    float64 `json:"metric"`
	Delta     float64 `json:"delta"` // Metric minus the best Metric
	Best      bool    `json:"best"`
}

// Comparison runs the same input through several algorithms of one kind.
type Comparison struct {
	Kind       workload.Kind `json:"kind"`
	MetricName string        `json:"metric_name"`
	Rows       []Row         `json:"rows"`
	Best       string        `json:"best"` // first algorithm with the lowest metric
	Outcomes   []*Outcome    `json:"outcomes"`
}

// Compare runs every selected algorithm of the scenario concurrently, one
// goroutine per algorithm, and ranks them. Rows keep the selection order.
// The first failure cancels the remaining runs and is returned.
func (r *Runner) Compare(ctx context.Context, spec *workload.ScenarioSpec) (*Comparison, error) {
	if spec == nil {
		return nil, sim.Invalidf("scenario is required")
	}
	if err := spec.Validate(); err != nil {
		return nil, sim.Invalidf("%v", err)
	}
	algorithms := spec.SelectedAlgorithms()
	if len(algorithms) == 0 {
		return nil, sim.Invalidf("no algorithms to compare")
	}

	outcomes := make([]*Outcome, len(algorithms))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range algorithms {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			o, err := r.Run(spec, name)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			outcomes[i] = o
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	cmp := &Comparison{
		Kind:       spec.Kind,
		MetricName: MetricName(spec.Kind),
		Rows:       make([]Row, len(outcomes)),
		Outcomes:   outcomes,
	}
	bestIdx := 0
	for i, o := range outcomes {
		if o.Metric() < outcomes[bestIdx].Metric() {
			bestIdx = i
		}
	}
	best := outcomes[bestIdx].Metric()
	for i, o := range outcomes {
		cmp.Rows[i] = Row{
			Algorithm: o.Algorithm,
			Metric:    o.Metric(),
			Delta:     o.Metric() - best,
			Best:      i == bestIdx,
		}
	}
	cmp.Best = outcomes[bestIdx].Algorithm
	return cmp, nil
}

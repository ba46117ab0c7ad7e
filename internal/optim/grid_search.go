package optim

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/san-kum/particlesim/internal/sim"
)

// Trial is one evaluated point of the grid.
type Trial struct {
	Params map[string]float64
	Value  float64
	Result *sim.Result
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("%d parameters but %d ranges", len(params), len(ranges))
	}
	for i, r := range ranges {
		if len(r) == 0 {
			return nil, fmt.Errorf("empty range for %s", params[i])
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Size is the number of grid points.
func (g *GridSearch) Size() int {
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// Search builds and runs one simulator per grid point for duration seconds
// and returns every trial plus the index of the one minimising metricName.
// A point whose simulator cannot be built or fails mid-run scores +Inf.
func (g *GridSearch) Search(
	ctx context.Context,
	build func(params map[string]float64) (*sim.Simulator, error),
	duration float64,
	frame time.Duration,
	metricName string,
) ([]Trial, int, error) {
	trials := make([]Trial, 0, g.Size())
	best := -1
	err := g.searchRecursive(0, make(map[string]float64), func(params map[string]float64) error {
		t := Trial{Params: params, Value: math.Inf(1)}
		s, err := build(params)
		if err == nil {
			t.Result, err = s.Run(ctx, duration, frame)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err == nil {
			v, ok := t.Result.Metrics[metricName]
			if !ok {
				return fmt.Errorf("metric %q not recorded", metricName)
			}
			if !math.IsNaN(v) {
				t.Value = v
			}
		}
		trials = append(trials, t)
		if best < 0 || t.Value < trials[best].Value {
			best = len(trials) - 1
		}
		return nil
	})
	return trials, best, err
}

func (g *GridSearch) searchRecursive(
	depth int,
	current map[string]float64,
	eval func(map[string]float64) error,
) error {
	if depth == len(g.paramNames) {
		return eval(current)
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(depth+1, newParams, eval); err != nil {
			return err
		}
	}
	return nil
}

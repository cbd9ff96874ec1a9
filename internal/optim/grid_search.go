// Package optim tunes controller gains by exhaustive grid search:
// every point of the cartesian gain grid runs a full closed-loop
// experiment, and the gain set minimizing a chosen history metric wins.
package optim

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/skyward-labs/quadsim/internal/config"
	"github.com/skyward-labs/quadsim/internal/experiment"
	"github.com/skyward-labs/quadsim/internal/quad"
)

// Param is one swept axis: a gain name like "kp.z" or "att_kd.x" and
// the grid values to try for it.
type Param struct {
	Name   string
	Values []float64
}

type GridSearch struct {
	params []Param
}

func NewGridSearch(params []Param) *GridSearch {
	return &GridSearch{params: params}
}

// Search runs one experiment per grid point on a copy of base and
// returns the gain set with the smallest value of the named metric.
// Grid points whose experiment fails to build or diverges are skipped;
// an error is returned only if no point produced the metric at all.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, metricName string) (map[string]float64, float64, error) {
	best := math.Inf(1)
	var bestGains map[string]float64

	if err := g.searchRecursive(ctx, base, 0, map[string]float64{}, metricName, &best, &bestGains); err != nil {
		return nil, 0, err
	}
	if bestGains == nil {
		return nil, 0, fmt.Errorf("%w: no grid point produced metric %q", quad.ErrBadConfig, metricName)
	}
	return bestGains, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	base *config.Config,
	depth int,
	current map[string]float64,
	metricName string,
	best *float64,
	bestGains *map[string]float64,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.params) {
		cfg := *base
		for name, v := range current {
			if err := applyGain(&cfg, name, v); err != nil {
				return err
			}
		}

		exp, err := experiment.New(&cfg)
		if err != nil {
			return nil
		}
		h, err := exp.Run(ctx)
		if err != nil {
			return nil
		}

		val, ok := h.Metrics[metricName]
		if !ok {
			return nil
		}
		if val < *best {
			*best = val
			picked := make(map[string]float64, len(current))
			for k, v := range current {
				picked[k] = v
			}
			*bestGains = picked
		}
		return nil
	}

	p := g.params[depth]
	for _, v := range p.Values {
		current[p.Name] = v
		if err := g.searchRecursive(ctx, base, depth+1, current, metricName, best, bestGains); err != nil {
			return err
		}
	}
	delete(current, p.Name)
	return nil
}

// applyGain writes one named gain into the config. Vector gains take a
// ".x", ".y" or ".z" suffix; without one the value is applied to all
// three axes.
func applyGain(cfg *config.Config, name string, v float64) error {
	field, axis := name, -1
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		field = name[:i]
		switch name[i+1:] {
		case "x":
			axis = 0
		case "y":
			axis = 1
		case "z":
			axis = 2
		default:
			return fmt.Errorf("%w: unknown gain axis %q", quad.ErrBadConfig, name)
		}
	}

	set := func(a *[3]float64) {
		if axis < 0 {
			a[0], a[1], a[2] = v, v, v
			return
		}
		a[axis] = v
	}

	switch field {
	case "kp":
		set(&cfg.Gains.Kp)
	case "kd":
		set(&cfg.Gains.Kd)
	case "att_kp":
		set(&cfg.Gains.AttKp)
	case "att_kd":
		set(&cfg.Gains.AttKd)
	default:
		return fmt.Errorf("%w: unknown gain %q", quad.ErrBadConfig, name)
	}
	return nil
}

// Package optim sweeps numeric configuration values over a grid and keeps the
// combination that scores best on one metric.
package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var ErrInvalidAxis = errors.New("optim: invalid axis")

// Axis is one swept parameter and the values it takes.
type Axis struct {
	Name   string
	Values []float64
}

// ParseAxis reads "name=v1,v2,...".
func ParseAxis(s string) (Axis, error) {
	name, list, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" || list == "" {
		return Axis{}, fmt.Errorf("%w: %q, want name=v1,v2", ErrInvalidAxis, s)
	}

	ax := Axis{Name: name}
	for _, field := range strings.Split(list, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return Axis{}, fmt.Errorf("%w: %s: %v", ErrInvalidAxis, name, err)
		}
		ax.Values = append(ax.Values, v)
	}
	return ax, nil
}

// Point is one evaluated combination.
type Point struct {
	Params map[string]float64
	Value  float64
}

// EvalFunc scores one combination.
type EvalFunc func(ctx context.Context, params map[string]float64) (float64, error)

type GridSearch struct {
	axes     []Axis
	maximize bool
}

func NewGridSearch(axes []Axis, maximize bool) *GridSearch {
	return &GridSearch{axes: axes, maximize: maximize}
}

// Size is the number of combinations Search evaluates.
func (g *GridSearch) Size() int {
	if len(g.axes) == 0 {
		return 0
	}
	n := 1
	for _, ax := range g.axes {
		n *= len(ax.Values)
	}
	return n
}

// Search evaluates every combination, first axis outermost. It returns the
// best point and all points in visit order. Ties keep the earlier point.
func (g *GridSearch) Search(ctx context.Context, eval EvalFunc) (Point, []Point, error) {
	if g.Size() == 0 {
		return Point{}, nil, fmt.Errorf("%w: empty grid", ErrInvalidAxis)
	}

	best := Point{Value: math.Inf(1)}
	if g.maximize {
		best.Value = math.Inf(-1)
	}
	points := make([]Point, 0, g.Size())

	err := g.searchRecursive(ctx, 0, make(map[string]float64), eval, &best, &points)
	return best, points, err
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	eval EvalFunc,
	best *Point,
	points *[]Point,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.axes) {
		val, err := eval(ctx, current)
		if err != nil {
			return err
		}

		p := Point{Params: current, Value: val}
		*points = append(*points, p)
		if g.better(val, best.Value) || best.Params == nil {
			*best = p
		}
		return nil
	}

	ax := g.axes[depth]
	for _, val := range ax.Values {
		next := make(map[string]float64, len(current)+1)
		for k, v := range current {
			next[k] = v
		}
		next[ax.Name] = val

		if err := g.searchRecursive(ctx, depth+1, next, eval, best, points); err != nil {
			return err
		}
	}
	return nil
}

func (g *GridSearch) better(v, than float64) bool {
	if g.maximize {
		return v > than
	}
	return v < than
}

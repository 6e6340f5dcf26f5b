package power

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/altalanta/statdesign/domain/core"
)

// CurvePoint is one evaluation of a swept design parameter.
type CurvePoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Grid returns count evenly spaced values across [min, max], inclusive.
func Grid(min, max float64, count int) ([]float64, error) {
	if count < 2 {
		return nil, core.NewInvalidParameterValue("count", float64(count), "at least 2")
	}
	if !(max > min) {
		return nil, core.NewInvalidParameter("sweep range", "max greater than min")
	}
	xs := make([]float64, count)
	step := (max - min) / float64(count-1)
	for i := range xs {
		xs[i] = min + float64(i)*step
	}
	xs[count-1] = max
	return xs, nil
}

// Curve evaluates eval at every x concurrently and returns the points in
// input order. Solvers are pure, so concurrent evaluation is safe as long
// as the caller pins a backend rather than toggling the process default
// mid-sweep. The first error cancels the remaining evaluations.
func Curve(ctx context.Context, xs []float64, eval func(x float64) (float64, error)) ([]CurvePoint, error) {
	if len(xs) == 0 {
		return nil, core.NewInvalidParameter("xs", "non-empty")
	}
	points := make([]CurvePoint, len(xs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, x := range xs {
		i, x := i, x
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			y, err := eval(x)
			if err != nil {
				return err
			}
			points[i] = CurvePoint{X: x, Y: y}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return points, nil
}

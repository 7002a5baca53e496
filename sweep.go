package rt1

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/phil-mansfield/rt1/expansion"
	"github.com/phil-mansfield/rt1/scatter"
)

// Result is the intensity of one geometry, split into its contributions.
type Result struct {
	Geometry
	Tot, Surf, Vol, Inter float64
}

// Sigma0 returns the result converted to backscatter coefficients.
func (res Result) Sigma0() Result {
	inc := res.Theta0()
	out := res
	out.Tot = Sigma0(inc, res.Tot)
	out.Surf = Sigma0(inc, res.Surf)
	out.Vol = Sigma0(inc, res.Vol)
	out.Inter = Sigma0(inc, res.Inter)
	return out
}

// Sweep evaluates every geometry in geos with the same providers. The
// expansion is derived once and shared by up to workers goroutines. If
// workers <= 0, GOMAXPROCS goroutines are used. Results are in the same order
// as geos.
func Sweep(
	ctx context.Context, geos []Geometry, v scatter.Volume, s scatter.Surface,
	workers int, opts ...Option,
) ([]Result, error) {
	if err := scatter.ValidateVolume(v); err != nil {
		return nil, err
	} else if err := scatter.Validate(s); err != nil {
		return nil, err
	}
	for i := range geos {
		if err := geos[i].Check(); err != nil {
			return nil, fmt.Errorf("geometry %d: %w", i, err)
		}
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	e := o.exp
	if e == nil {
		var err error
		if o.cache != nil {
			e, err = o.cache.Get(v, s)
		} else {
			e, err = expansion.Derive(v, s)
		}
		if err != nil {
			return nil, err
		}
	}

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(-1)
	}
	results := make([]Result, len(geos))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range geos {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := New(geos[i], v, s, WithExpansion(e))
			if err != nil {
				return fmt.Errorf("geometry %d: %w", i, err)
			}
			res := &results[i]
			res.Geometry = geos[i]
			res.Tot, res.Surf, res.Vol, res.Inter = r.Calc()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

package scatter

import (
	"fmt"
)

// EvalAll evaluates p.Eval over slices of angles. Slices of length one are
// broadcast against the others, and every other slice must have the same
// length. If out is given, results are written to out[0].
func EvalAll(
	p Provider, thetaIn, thetaOut, phiIn, phiOut []float64, out ...[]float64,
) ([]float64, error) {
	return evalAll(p.Eval, thetaIn, thetaOut, phiIn, phiOut, out)
}

// ApproxAll is EvalAll for the truncated Legendre series of p rather than its
// analytic form.
func ApproxAll(
	p Provider, thetaIn, thetaOut, phiIn, phiOut []float64, out ...[]float64,
) ([]float64, error) {
	coefs := p.LegCoefs()
	f := func(ti, to, pi, po float64) float64 {
		return LegendreSeries(coefs, p.Cosine(ti, to, pi, po))
	}
	return evalAll(f, thetaIn, thetaOut, phiIn, phiOut, out)
}

func evalAll(
	f func(ti, to, pi, po float64) float64,
	thetaIn, thetaOut, phiIn, phiOut []float64, out [][]float64,
) ([]float64, error) {
	args := [4][]float64{thetaIn, thetaOut, phiIn, phiOut}
	n := 1
	for _, a := range args {
		if len(a) == 0 {
			return nil, fmt.Errorf("Empty angle slice given to EvalAll().")
		}
		if len(a) > 1 {
			if n > 1 && len(a) != n {
				return nil, fmt.Errorf(
					"Angle slices of lengths %d and %d can't be broadcast.",
					n, len(a),
				)
			}
			n = len(a)
		}
	}

	var res []float64
	if len(out) > 0 && len(out[0]) >= n {
		res = out[0][:n]
	} else {
		res = make([]float64, n)
	}

	at := func(a []float64, i int) float64 {
		if len(a) == 1 {
			return a[0]
		}
		return a[i]
	}
	for i := range res {
		res[i] = f(at(thetaIn, i), at(thetaOut, i), at(phiIn, i), at(phiOut, i))
	}
	return res, nil
}

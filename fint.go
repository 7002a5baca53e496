package rt1

import (
	"math"

	"github.com/phil-mansfield/rt1/math/expint"
)

// muOneTol is the distance from mu1 = 1 within which InteractionIntegral uses
// the limiting form of its logarithmic term.
const muOneTol = 1e-10

// InteractionIntegral returns
//
//     sum_n fn[n] * integral_0^1 mu^(n+1) (e^(-tau/mu1) - e^(-tau/mu)) / (mu1 - mu) dmu
//
// for a layer of optical depth tau. The integrals are found with the upward
// recurrence
//
//     D_0 = e^(-tau/mu1) ln(mu1/(1 - mu1)) - Ei(-tau) + e^(-tau/mu1) Ei(tau/mu1 - tau)
//     D_m = mu1 D_(m-1) + E_(m+1)(tau) - e^(-tau/mu1)/m
//
// which loses no accuracy for mu1 <= 1. tau = 0 gives 0.
func InteractionIntegral(tau, mu1 float64, fn []float64) float64 {
	if tau == 0 || len(fn) == 0 {
		return 0
	}

	e1 := math.Exp(-tau / mu1)
	d := interactionBase(tau, mu1, e1)
	sum := 0.0
	for n := range fn {
		m := n + 1
		d = mu1*d + expint.En(m+1, tau) - e1/float64(m)
		sum += fn[n] * d
	}
	return sum
}

// interactionBase returns D_0. Ei(tau/mu1 - tau) is computed in scaled form
// so that neither factor of the last term overflows.
func interactionBase(tau, mu1, e1 float64) float64 {
	if 1-mu1 < muOneTol {
		return math.Exp(-tau)*(expint.EulerGamma+math.Log(tau)) - expint.Ei(-tau)
	}
	d := -expint.Ei(-tau) + math.Exp(-tau)*expint.ScaledEi(tau/mu1-tau)
	if e1 != 0 {
		d += e1 * math.Log(mu1/(1-mu1))
	}
	return d
}

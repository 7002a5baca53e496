/*Package integrator removes an azimuthal angle from trigonometric polynomials
by integrating over a full period.
*/
package integrator

import (
	"fmt"
	"math"

	"github.com/phil-mansfield/rt1/symbolic"
)

// CosPowerMean returns (1/2pi) * integral of cos(x)^i over [0, 2pi), computed
// with the factorial closed form
//
//     (1/(2pi)) * 2^(i+1) pi^2 / (i! * gamma(i)^2)
//
// for even i. Odd powers average to zero.
func CosPowerMean(i int) float64 {
	if i < 0 {
		panic(fmt.Sprintf("CosPowerMean() given negative power %d.", i))
	}
	if i%2 == 1 {
		return 0
	}
	g := gammaFactor(i)
	return 1 / (2 * math.Pi) *
		(math.Pow(2, float64(i+1)) * math.Pi * math.Pi) /
		(factorial(i) * g * g)
}

// CosPowerIntegral returns the integral of cos(x)^i over [0, 2pi).
func CosPowerIntegral(i int) float64 { return 2 * math.Pi * CosPowerMean(i) }

// SinPowerIntegral returns the integral of sin(x)^i over [0, 2pi). A full
// period of sine is a shifted period of cosine.
func SinPowerIntegral(i int) float64 { return CosPowerIntegral(i) }

// gammaFactor is (i/2)! (-4)^(i/2) / i! * sqrt(pi). Only its square is ever
// used, so the sign of (-4)^(i/2) doesn't matter.
func gammaFactor(i int) float64 {
	h := i / 2
	return factorial(h) * math.Pow(-4, float64(h)) / factorial(i) *
		math.Sqrt(math.Pi)
}

func factorial(n int) float64 { return math.Gamma(float64(n) + 1) }

// PythagoreanSin rewrites every even power sin(angle)^i with i <= m as the
// expanded polynomial (1 - cos(angle)^2)^(i/2).
func PythagoreanSin(expr symbolic.Poly, angle string, m int) symbolic.Poly {
	cos2 := symbolic.Cos(angle).Pow(2)
	oneMinus := symbolic.Const(1).Sub(cos2)

	rules := map[int]symbolic.Poly{}
	prev := symbolic.Const(1)
	for i := 2; i <= m; i += 2 {
		rules[i] = prev.Mul(oneMinus)
		prev = rules[i]
	}
	return expr.ReplacePowers(symbolic.SinAtom(angle), rules).Simplify()
}

// Azimuth averages expr over a full period of angle. m bounds the powers of
// sin(angle) and cos(angle) which are reduced: any larger power is left in
// place and reported as an error.
//
// The substitutions run in a fixed order. Odd powers of sine are zeroed,
// even powers of sine are rewritten in terms of cosine, and finally every
// power of cosine is replaced by CosPowerMean.
func Azimuth(expr symbolic.Poly, angle string, m int) (symbolic.Poly, error) {
	if m < 0 {
		return symbolic.Poly{}, fmt.Errorf(
			"%w: negative power bound %d for angle '%s'",
			symbolic.ErrDerivation, m, angle,
		)
	}
	sin, cos := symbolic.SinAtom(angle), symbolic.CosAtom(angle)

	odd := map[int]symbolic.Poly{}
	for i := 1; i <= m; i += 2 {
		odd[i] = symbolic.Poly{}
	}
	res := expr.ReplacePowers(sin, odd).Simplify()

	res = PythagoreanSin(res, angle, m)

	means := map[int]symbolic.Poly{}
	for i := 1; i <= m; i++ {
		means[i] = symbolic.Const(CosPowerMean(i))
	}
	res = res.ReplacePowers(cos, means).Simplify()

	if res.Contains(angle) {
		return symbolic.Poly{}, fmt.Errorf(
			"%w: powers of %s (%d) or %s (%d) exceed the bound %d",
			symbolic.ErrDerivation, sin, res.Degree(sin), cos,
			res.Degree(cos), m,
		)
	}
	return res, nil
}

// AzimuthProduct returns Azimuth(p.Mul(q), angle, m). A pair of terms is
// only multiplied if the product has even powers of both sin(angle) and
// cos(angle), since every other product averages to exactly zero.
func AzimuthProduct(
	p, q symbolic.Poly, angle string, m int,
) (symbolic.Poly, error) {
	sin, cos := symbolic.SinAtom(angle), symbolic.CosAtom(angle)
	prod := symbolic.Poly{}
	for _, oddCos := range []bool{false, true} {
		pc, qc := p.Parity(cos, oddCos), q.Parity(cos, oddCos)
		for _, oddSin := range []bool{false, true} {
			prod = prod.Add(pc.Parity(sin, oddSin).Mul(qc.Parity(sin, oddSin)))
		}
	}
	return Azimuth(prod.Simplify(), angle, m)
}

// Integrate returns the definite integral of expr over angle in [0, 2pi).
func Integrate(expr symbolic.Poly, angle string, m int) (symbolic.Poly, error) {
	res, err := Azimuth(expr, angle, m)
	if err != nil {
		return symbolic.Poly{}, err
	}
	return res.Scale(2 * math.Pi), nil
}

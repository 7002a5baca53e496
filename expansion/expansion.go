/*Package expansion derives the interaction kernel of a volume phase function
and a surface BRDF and splits it into the coefficients of the powers of the
cosine of the intermediate polar angle.

The derivation is symbolic in the four geometry angles, so an Expansion only
depends on the two providers' Legendre coefficients and can be shared by every
geometry and every optical depth.
*/
package expansion

import (
	"fmt"
	"math"

	"github.com/phil-mansfield/rt1/integrator"
	"github.com/phil-mansfield/rt1/scatter"
	"github.com/phil-mansfield/rt1/symbolic"
)

// Names of the angles which appear in kernels.
const (
	Theta0  = "theta_0"
	ThetaEx = "theta_ex"
	Phi0    = "phi_0"
	PhiEx   = "phi_ex"

	ThetaS = "theta_s"
	PhiS   = "phi_s"
)

// azimuthSlack is added to the expansion order when bounding the powers of
// phi_s the azimuthal integral needs to remove.
const azimuthSlack = 4

var (
	volumeAngles  = scatter.Angles{ThetaIn: Theta0, ThetaOut: ThetaS, PhiIn: Phi0, PhiOut: PhiS}
	surfaceAngles = scatter.Angles{ThetaIn: ThetaS, ThetaOut: ThetaEx, PhiIn: PhiS, PhiOut: PhiEx}
)

// Order returns N, the bound on the powers of cos(theta_s) in the kernel of v
// and s.
func Order(v scatter.Volume, s scatter.Surface) int {
	return v.NCoefs() + s.NCoefs()
}

// Kernel returns the interaction kernel of v and s: the product of the volume
// phase function scattering the incident beam down into (pi - theta_s, phi_s)
// and the BRDF reflecting it out into (theta_ex, phi_ex), integrated over
// phi_s. The result is a polynomial in cos(theta_s) and the geometry angles.
func Kernel(v scatter.Volume, s scatter.Surface) (symbolic.Poly, error) {
	if err := scatter.Validate(v); err != nil {
		return symbolic.Poly{}, err
	}
	if err := scatter.Validate(s); err != nil {
		return symbolic.Poly{}, err
	}
	n := Order(v, s)

	// The volume expansion is written for the upward direction theta_s.
	cosS := symbolic.CosAtom(ThetaS)
	vol := v.LegExpansion(volumeAngles).
		Subst(cosS, symbolic.Cos(ThetaS).Scale(-1))
	srf := s.LegExpansion(surfaceAngles)

	k, err := integrator.AzimuthProduct(
		vol.Scale(2*math.Pi), srf, PhiS, n+azimuthSlack,
	)
	if err != nil {
		return symbolic.Poly{}, fmt.Errorf(
			"could not integrate kernel of %s and %s: %w",
			v.Key(), s.Key(), err,
		)
	}
	k = integrator.PythagoreanSin(k, ThetaS, n)

	if d := k.Degree(symbolic.SinAtom(ThetaS)); d > 0 {
		return symbolic.Poly{}, fmt.Errorf(
			"%w: kernel of %s and %s keeps sin(%s)^%d",
			symbolic.ErrDerivation, v.Key(), s.Key(), ThetaS, d,
		)
	}
	return k, nil
}

// Extract splits kernel into its coefficients of cos(theta_s)^n for n in
// [0, n]. Fn[0] is the kernel with cos(theta_s) set to zero, and Fn[i] is the
// kernel with cos(theta_s)^i set to one and every other power set to zero,
// minus Fn[0].
func Extract(kernel symbolic.Poly, n int) ([]symbolic.Poly, error) {
	cos := symbolic.CosAtom(ThetaS)
	if n < 0 {
		return nil, fmt.Errorf(
			"%w: negative expansion order %d", symbolic.ErrDerivation, n,
		)
	} else if d := kernel.Degree(cos); d > n {
		return nil, fmt.Errorf(
			"%w: kernel has degree %d in %s, but the expansion order is %d",
			symbolic.ErrDerivation, d, cos, n,
		)
	} else if kernel.Degree(symbolic.SinAtom(ThetaS)) > 0 ||
		kernel.Contains(PhiS) {

		return nil, fmt.Errorf(
			"%w: kernel isn't a polynomial in %s alone",
			symbolic.ErrDerivation, cos,
		)
	}

	zero := map[int]symbolic.Poly{}
	for i := 1; i <= n; i++ {
		zero[i] = symbolic.Poly{}
	}

	fn := make([]symbolic.Poly, n+1)
	fn[0] = kernel.ReplacePowers(cos, zero).Simplify()
	for i := 1; i <= n; i++ {
		rules := map[int]symbolic.Poly{}
		for j := 1; j <= n; j++ {
			rules[j] = symbolic.Poly{}
		}
		rules[i] = symbolic.Const(1)
		fn[i] = kernel.ReplacePowers(cos, rules).Sub(fn[0]).Simplify()
	}
	return fn, nil
}

// Expansion is the derived interaction kernel of a provider pair. It is never
// modified after Derive returns and is safe for concurrent use.
type Expansion struct {
	// N is the expansion order, the sum of the two providers' NCoefs.
	N      int
	Kernel symbolic.Poly
	// Fn[n] is the coefficient of cos(theta_s)^n in Kernel, as a polynomial
	// in the geometry angles.
	Fn []symbolic.Poly

	volumeKey, surfaceKey string
}

// Derive builds the Expansion of v and s.
func Derive(v scatter.Volume, s scatter.Surface) (*Expansion, error) {
	k, err := Kernel(v, s)
	if err != nil {
		return nil, err
	}
	n := Order(v, s)
	fn, err := Extract(k, n)
	if err != nil {
		return nil, err
	}
	return &Expansion{
		N: n, Kernel: k, Fn: fn,
		volumeKey: v.Key(), surfaceKey: s.Key(),
	}, nil
}

// Key identifies the provider pair an expansion was derived from.
func (e *Expansion) Key() string { return pairKey(e.volumeKey, e.surfaceKey) }

// Matches returns true if e was derived from providers with the same
// expansions as v and s.
func (e *Expansion) Matches(v scatter.Volume, s scatter.Surface) bool {
	return e.volumeKey == v.Key() && e.surfaceKey == s.Key()
}

func pairKey(vKey, sKey string) string { return vKey + "|" + sKey }

func geometryVals(theta0, thetaEx, phi0, phiEx float64) map[string]float64 {
	return map[string]float64{
		Theta0: theta0, ThetaEx: thetaEx, Phi0: phi0, PhiEx: phiEx,
	}
}

// Coef evaluates Fn[n] at a geometry.
func (e *Expansion) Coef(n int, theta0, thetaEx, phi0, phiEx float64) (float64, error) {
	if n < 0 || n > e.N {
		return 0, fmt.Errorf(
			"Coefficient %d requested from an expansion of order %d.", n, e.N,
		)
	}
	return e.Fn[n].Eval(geometryVals(theta0, thetaEx, phi0, phiEx))
}

// Coefs evaluates every Fn at a geometry. If out is given, results are written
// to out[0].
func (e *Expansion) Coefs(
	theta0, thetaEx, phi0, phiEx float64, out ...[]float64,
) ([]float64, error) {
	var res []float64
	if len(out) > 0 && len(out[0]) >= len(e.Fn) {
		res = out[0][:len(e.Fn)]
	} else {
		res = make([]float64, len(e.Fn))
	}

	vals := geometryVals(theta0, thetaEx, phi0, phiEx)
	for n := range e.Fn {
		x, err := e.Fn[n].Eval(vals)
		if err != nil {
			return nil, err
		}
		res[n] = x
	}
	return res, nil
}

// Reconstruct returns sum_n Fn[n] cos(theta_s)^n.
func (e *Expansion) Reconstruct() symbolic.Poly {
	sum := symbolic.Poly{}
	cos := symbolic.Cos(ThetaS)
	for n := range e.Fn {
		sum = sum.Add(e.Fn[n].Mul(cos.Pow(n)))
	}
	return sum.Simplify()
}

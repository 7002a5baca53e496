package scatter

import (
	"math"

	"gonum.org/v1/gonum/integrate/quad"

	"github.com/phil-mansfield/rt1/symbolic"
)

// Legendre returns the Legendre polynomial P_n(x).
func Legendre(n int, x float64) float64 {
	if n == 0 {
		return 1
	}
	p0, p1 := 1.0, x
	for k := 1; k < n; k++ {
		p0, p1 = p1, (float64(2*k+1)*x*p1-float64(k)*p0)/float64(k+1)
	}
	return p1
}

// LegendreSeries returns sum_n coefs[n] P_n(x).
func LegendreSeries(coefs []float64, x float64) float64 {
	sum := 0.0
	p0, p1 := 1.0, x
	for n, c := range coefs {
		switch n {
		case 0:
			sum += c
		case 1:
			sum += c * x
		default:
			k := float64(n - 1)
			p0, p1 = p1, ((2*k+1)*x*p1-k*p0)/(k+1)
			sum += c * p1
		}
	}
	return sum
}

// LegendrePoly returns sum_n coefs[n] P_n(x) where x is itself a polynomial.
// The result is built with Bonnet's recursion so that every P_n is only
// computed once.
func LegendrePoly(coefs []float64, x symbolic.Poly) symbolic.Poly {
	sum := symbolic.Poly{}
	var p0, p1 symbolic.Poly
	for n, c := range coefs {
		switch n {
		case 0:
			p1 = symbolic.Const(1)
		case 1:
			p0, p1 = p1, x
		default:
			k := float64(n - 1)
			next := x.Mul(p1).Scale((2*k + 1) / (k + 1)).
				Sub(p0.Scale(k / (k + 1)))
			p0, p1 = p1, next
		}
		sum = sum.Add(p1.Scale(c))
	}
	return sum.Simplify()
}

// legQuadNodes is the number of Gauss-Legendre nodes used on each half of
// [-1, 1] in NumericLegCoefs, on top of what polynomial exactness needs.
const legQuadNodes = 64

// NumericLegCoefs returns the first ncoefs Legendre coefficients of f,
//
//     a_n = (2n + 1)/2 * integral_-1^1 f(x) P_n(x) dx.
//
// [-1, 0] and [0, 1] are integrated separately so that functions with a kink
// at x = 0, like clipped cosine lobes, are integrated accurately.
func NumericLegCoefs(f func(x float64) float64, ncoefs int) []float64 {
	coefs := make([]float64, ncoefs)
	nodes := ncoefs + legQuadNodes
	for n := range coefs {
		integrand := func(x float64) float64 { return f(x) * Legendre(n, x) }
		lo := quad.Fixed(integrand, -1, 0, nodes, quad.Legendre{}, 0)
		hi := quad.Fixed(integrand, 0, 1, nodes, quad.Legendre{}, 0)
		coefs[n] = float64(2*n+1) / 2 * (lo + hi)
	}
	return coefs
}

// VolumeCosine is the cosine of the angle between the propagation direction
// of a beam incident from (thetaIn, phiIn) and the direction
// (thetaOut, phiOut) it is scattered into. thetaIn = thetaOut, phiOut =
// phiIn + pi is backscattering.
func VolumeCosine(thetaIn, thetaOut, phiIn, phiOut float64) float64 {
	return -math.Cos(thetaIn)*math.Cos(thetaOut) +
		math.Sin(thetaIn)*math.Sin(thetaOut)*math.Cos(phiIn-phiOut)
}

// SurfaceCosine is the cosine of the angle between the specular direction of
// a beam incident from (thetaIn, phiIn) and the exit direction
// (thetaOut, phiOut).
func SurfaceCosine(thetaIn, thetaOut, phiIn, phiOut float64) float64 {
	return math.Cos(thetaIn)*math.Cos(thetaOut) +
		math.Sin(thetaIn)*math.Sin(thetaOut)*math.Cos(phiIn-phiOut)
}

// VolumeCosinePoly is VolumeCosine written in terms of the named angles, with
// cos(phiIn - phiOut) expanded.
func VolumeCosinePoly(a Angles) symbolic.Poly {
	return cosinePoly(a, -1)
}

// SurfaceCosinePoly is SurfaceCosine written in terms of the named angles.
func SurfaceCosinePoly(a Angles) symbolic.Poly {
	return cosinePoly(a, +1)
}

func cosinePoly(a Angles, sign float64) symbolic.Poly {
	cc := symbolic.Cos(a.ThetaIn).Mul(symbolic.Cos(a.ThetaOut)).Scale(sign)
	ss := symbolic.Sin(a.ThetaIn).Mul(symbolic.Sin(a.ThetaOut))
	dPhi := symbolic.Cos(a.PhiIn).Mul(symbolic.Cos(a.PhiOut)).
		Add(symbolic.Sin(a.PhiIn).Mul(symbolic.Sin(a.PhiOut)))
	return cc.Add(ss.Mul(dPhi))
}

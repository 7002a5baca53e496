/*Package surface contains bidirectional reflectance distribution functions
for the ground below the scattering layer.
*/
package surface

import (
	"fmt"
	"math"

	"github.com/phil-mansfield/rt1/scatter"
	"github.com/phil-mansfield/rt1/symbolic"
)

// BRDF is a surface reflectance function. A BRDF is never modified after
// construction.
type BRDF struct {
	name  string
	coefs []float64
	norm  float64

	// f is the analytic BRDF of the scattering cosine, already multiplied
	// by norm. If nil, the Legendre series is exact.
	f    func(cosT float64) float64
	asym float64
	exp  float64
}

var _ scatter.Surface = &BRDF{}

// Isotropic is the Lambertian surface, norm / pi.
func Isotropic(norm float64) *BRDF {
	return &BRDF{
		name: "Isotropic", norm: norm,
		coefs: []float64{norm / math.Pi},
	}
}

// CosineLobe is norm * max(cos, 0)^i, where cos is the cosine of the angle to
// the specular direction. Its Legendre coefficients are found by quadrature.
func CosineLobe(ncoefs int, i, norm float64) *BRDF {
	f := func(x float64) float64 {
		if x <= 0 {
			return 0
		}
		return norm * math.Pow(x, i)
	}
	if ncoefs < 0 {
		ncoefs = 0
	}
	return &BRDF{
		name: "CosineLobe", norm: norm, exp: i, f: f,
		coefs: scatter.NumericLegCoefs(f, ncoefs),
	}
}

// HenyeyGreenstein is a Henyey-Greenstein lobe around the specular
// direction, scaled by norm and truncated to ncoefs terms.
func HenyeyGreenstein(t float64, ncoefs int, norm float64) *BRDF {
	if ncoefs < 0 {
		ncoefs = 0
	}
	coefs := make([]float64, ncoefs)
	for n := range coefs {
		coefs[n] = norm * float64(2*n+1) * math.Pow(t, float64(n)) /
			(4 * math.Pi)
	}
	return &BRDF{
		name: "HenyeyGreenstein", norm: norm, asym: t, coefs: coefs,
		f: func(x float64) float64 {
			return norm * (1 - t*t) / math.Pow(1+t*t-2*t*x, 1.5) /
				(4 * math.Pi)
		},
	}
}

// Legendre is the BRDF given by an arbitrary coefficient table.
func Legendre(coefs []float64) *BRDF {
	return &BRDF{
		name: "Legendre", norm: 1, coefs: append([]float64{}, coefs...),
	}
}

func (b *BRDF) Name() string  { return b.name }
func (b *BRDF) NCoefs() int   { return len(b.coefs) }
func (b *BRDF) Norm() float64 { return b.norm }

// LegCoefs returns a copy of the Legendre coefficients.
func (b *BRDF) LegCoefs() []float64 { return append([]float64{}, b.coefs...) }

func (b *BRDF) Cosine(thetaIn, thetaOut, phiIn, phiOut float64) float64 {
	return scatter.SurfaceCosine(thetaIn, thetaOut, phiIn, phiOut)
}

func (b *BRDF) Eval(thetaIn, thetaOut, phiIn, phiOut float64) float64 {
	x := b.Cosine(thetaIn, thetaOut, phiIn, phiOut)
	if b.f == nil {
		return scatter.LegendreSeries(b.coefs, x)
	}
	return b.f(x)
}

func (b *BRDF) LegExpansion(a scatter.Angles) symbolic.Poly {
	return scatter.LegendrePoly(b.coefs, scatter.SurfaceCosinePoly(a))
}

func (b *BRDF) Key() string { return scatter.CoefKey("surface", b.coefs) }

func (b *BRDF) Check() error {
	if b == nil {
		return fmt.Errorf("surface BRDF is nil")
	}
	switch b.name {
	case "HenyeyGreenstein":
		if !(math.Abs(b.asym) < 1) {
			return fmt.Errorf(
				"Henyey-Greenstein asymmetry parameter must be in (-1, 1), "+
					"but is %g", b.asym,
			)
		}
	case "CosineLobe":
		if !(b.exp >= 0) {
			return fmt.Errorf(
				"cosine lobe exponent must be >= 0, but is %g", b.exp,
			)
		}
	}
	if math.IsNaN(b.norm) || math.IsInf(b.norm, 0) || b.norm < 0 {
		return fmt.Errorf("BRDF normalization must be >= 0, but is %g", b.norm)
	}
	return nil
}

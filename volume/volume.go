/*Package volume contains phase functions for the random scattering layer.
All of them are normalized to one over the unit sphere.
*/
package volume

import (
	"fmt"
	"math"

	"github.com/phil-mansfield/rt1/scatter"
	"github.com/phil-mansfield/rt1/symbolic"
)

// Phase is a phase function together with the optical parameters of the
// layer it describes. A Phase is never modified after construction.
type Phase struct {
	name       string
	tau, omega float64
	coefs      []float64

	// f is the analytic phase function of the scattering cosine. If nil, the
	// Legendre series is exact.
	f func(cosT float64) float64
	// asym is the asymmetry parameter, for functions that have one.
	asym float64
}

var _ scatter.Volume = &Phase{}

// Isotropic scatters equally in all directions.
func Isotropic(tau, omega float64) *Phase {
	return &Phase{
		name: "Isotropic", tau: tau, omega: omega,
		coefs: []float64{1 / (4 * math.Pi)},
	}
}

// Rayleigh is the phase function 3/(16 pi) (1 + cos^2).
func Rayleigh(tau, omega float64) *Phase {
	norm := 3 / (16 * math.Pi)
	return &Phase{
		name: "Rayleigh", tau: tau, omega: omega,
		coefs: []float64{norm * 4 / 3, 0, norm * 2 / 3},
	}
}

// HenyeyGreenstein is the Henyey-Greenstein function with asymmetry
// parameter t, truncated to ncoefs Legendre terms. t > 0 scatters forwards.
func HenyeyGreenstein(tau, omega, t float64, ncoefs int) *Phase {
	if ncoefs < 0 {
		ncoefs = 0
	}
	coefs := make([]float64, ncoefs)
	for n := range coefs {
		coefs[n] = float64(2*n+1) * math.Pow(t, float64(n)) / (4 * math.Pi)
	}
	return &Phase{
		name: "HenyeyGreenstein", tau: tau, omega: omega, coefs: coefs,
		asym: t,
		f: func(x float64) float64 {
			return (1 - t*t) / math.Pow(1+t*t-2*t*x, 1.5) / (4 * math.Pi)
		},
	}
}

// Legendre is the phase function given by an arbitrary coefficient table.
func Legendre(tau, omega float64, coefs []float64) *Phase {
	return &Phase{
		name: "Legendre", tau: tau, omega: omega,
		coefs: append([]float64{}, coefs...),
	}
}

func (p *Phase) Name() string   { return p.name }
func (p *Phase) Tau() float64   { return p.tau }
func (p *Phase) Omega() float64 { return p.omega }
func (p *Phase) NCoefs() int    { return len(p.coefs) }

// LegCoefs returns a copy of the Legendre coefficients.
func (p *Phase) LegCoefs() []float64 { return append([]float64{}, p.coefs...) }

func (p *Phase) Cosine(thetaIn, thetaOut, phiIn, phiOut float64) float64 {
	return scatter.VolumeCosine(thetaIn, thetaOut, phiIn, phiOut)
}

func (p *Phase) Eval(thetaIn, thetaOut, phiIn, phiOut float64) float64 {
	x := p.Cosine(thetaIn, thetaOut, phiIn, phiOut)
	if p.f == nil {
		return scatter.LegendreSeries(p.coefs, x)
	}
	return p.f(x)
}

func (p *Phase) LegExpansion(a scatter.Angles) symbolic.Poly {
	return scatter.LegendrePoly(p.coefs, scatter.VolumeCosinePoly(a))
}

// Key depends only on the coefficients: layers with different optical depths
// share their interaction expansions.
func (p *Phase) Key() string { return scatter.CoefKey("volume", p.coefs) }

func (p *Phase) Check() error {
	if p == nil {
		return fmt.Errorf("volume phase function is nil")
	}
	if p.name == "HenyeyGreenstein" && !(math.Abs(p.asym) < 1) {
		return fmt.Errorf(
			"Henyey-Greenstein asymmetry parameter must be in (-1, 1), "+
				"but is %g", p.asym,
		)
	}
	return nil
}

// WithOptics returns a copy of p describing a layer with different optical
// depth and albedo.
func (p *Phase) WithOptics(tau, omega float64) *Phase {
	q := *p
	q.tau, q.omega = tau, omega
	return &q
}

/*Package rt1 computes first-order radiative transfer intensities for a layer
of randomly oriented scatterers above a reflecting surface.

The backscattered intensity splits into a surface contribution, a volume
contribution and a surface-volume interaction contribution. The interaction
contribution needs the Legendre expansion of the product of the volume phase
function and the surface BRDF, which is derived symbolically once per pair of
providers by package expansion and then evaluated numerically for each
geometry.
*/
package rt1

import (
	"errors"
	"fmt"
	"math"

	"github.com/phil-mansfield/rt1/expansion"
	"github.com/phil-mansfield/rt1/scatter"
)

// ErrConfig is wrapped by every error caused by invalid geometries or
// providers. It is the same error as scatter.ErrConfig.
var ErrConfig = scatter.ErrConfig

// Geometry is an incidence and exit direction. Mu0 and MuEx are the cosines
// of the incidence and exit polar angles, and Phi0 and PhiEx are the
// azimuthal angles the incident beam and the exit beam propagate along.
type Geometry struct {
	I0          float64
	Mu0, MuEx   float64
	Phi0, PhiEx float64
}

// Backscatter returns the monostatic geometry for a beam of intensity i0
// incident at the polar angle theta.
func Backscatter(i0, theta float64) Geometry {
	mu := math.Cos(theta)
	return Geometry{I0: i0, Mu0: mu, MuEx: mu, Phi0: 0, PhiEx: math.Pi}
}

func (g Geometry) Theta0() float64  { return math.Acos(g.Mu0) }
func (g Geometry) ThetaEx() float64 { return math.Acos(g.MuEx) }

// Check returns a configuration error if g can't be evaluated.
func (g Geometry) Check() error {
	if !isFinite(g.I0) || g.I0 < 0 {
		return fmt.Errorf(
			"%w: incident intensity must be finite and >= 0, but is %g",
			ErrConfig, g.I0,
		)
	}
	if !(g.Mu0 > 0 && g.Mu0 <= 1) {
		return fmt.Errorf("%w: mu_0 must be in (0, 1], but is %g", ErrConfig, g.Mu0)
	} else if !(g.MuEx > 0 && g.MuEx <= 1) {
		return fmt.Errorf("%w: mu_ex must be in (0, 1], but is %g", ErrConfig, g.MuEx)
	}
	if !isFinite(g.Phi0) || !isFinite(g.PhiEx) {
		return fmt.Errorf(
			"%w: azimuthal angles must be finite, but are %g and %g",
			ErrConfig, g.Phi0, g.PhiEx,
		)
	}
	return nil
}

func isFinite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }

// RT1 evaluates the intensity contributions of one geometry. It never changes
// after New returns.
type RT1 struct {
	geo Geometry
	v   scatter.Volume
	s   scatter.Surface
	exp *expansion.Expansion

	// fn and fnRecip are the expansion coefficients evaluated at the geometry
	// and at the reciprocal geometry.
	fn, fnRecip []float64
}

type options struct {
	cache *expansion.Cache
	exp   *expansion.Expansion
}

// Option configures New.
type Option func(*options)

// WithCache makes New take the expansion from c, deriving it there if
// needed.
func WithCache(c *expansion.Cache) Option {
	return func(o *options) { o.cache = c }
}

// WithExpansion makes New use an already derived expansion. It must have been
// derived from providers with the same keys as the ones given to New.
func WithExpansion(e *expansion.Expansion) Option {
	return func(o *options) { o.exp = e }
}

// New validates its arguments and derives, or fetches, the interaction
// expansion of v and s.
func New(
	geo Geometry, v scatter.Volume, s scatter.Surface, opts ...Option,
) (*RT1, error) {
	if err := geo.Check(); err != nil {
		return nil, err
	} else if err := scatter.ValidateVolume(v); err != nil {
		return nil, err
	} else if err := scatter.Validate(s); err != nil {
		return nil, err
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	var e *expansion.Expansion
	var err error
	switch {
	case o.exp != nil:
		if !o.exp.Matches(v, s) {
			return nil, fmt.Errorf(
				"%w: expansion %s doesn't belong to %s and %s",
				ErrConfig, o.exp.Key(), v.Key(), s.Key(),
			)
		}
		e = o.exp
	case o.cache != nil:
		e, err = o.cache.Get(v, s)
	default:
		e, err = expansion.Derive(v, s)
	}
	if err != nil {
		return nil, err
	}

	r := &RT1{geo: geo, v: v, s: s, exp: e}
	t0, tex := geo.Theta0(), geo.ThetaEx()
	if r.fn, err = e.Coefs(t0, tex, geo.Phi0, geo.PhiEx); err != nil {
		return nil, err
	}
	if r.fnRecip, err = e.Coefs(tex, t0, geo.PhiEx, geo.Phi0); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *RT1) Geometry() Geometry { return r.geo }

func (r *RT1) Expansion() *expansion.Expansion { return r.exp }

// Surface returns the intensity reflected by the surface and attenuated by
// the layer on the way in and out.
func (r *RT1) Surface() float64 {
	g, tau := r.geo, r.v.Tau()
	brdf := r.s.Eval(g.Theta0(), g.ThetaEx(), g.Phi0, g.PhiEx)
	return g.I0 * math.Exp(-tau/g.Mu0-tau/g.MuEx) * g.Mu0 * brdf
}

// Volume returns the intensity scattered once by the layer. It is exactly
// zero for a layer with no optical depth.
func (r *RT1) Volume() float64 {
	g, tau := r.geo, r.v.Tau()
	if tau == 0 {
		return 0
	}
	p := r.v.Eval(g.Theta0(), g.ThetaEx(), g.Phi0, g.PhiEx)
	return g.I0 * r.v.Omega() * g.Mu0 / (g.Mu0 + g.MuEx) *
		(1 - math.Exp(-tau/g.Mu0-tau/g.MuEx)) * p
}

// Interaction returns the intensity scattered once by the layer and once by
// the surface, in either order. It is exactly zero for a layer with no
// optical depth.
func (r *RT1) Interaction() float64 {
	g, tau := r.geo, r.v.Tau()
	if tau == 0 {
		return 0
	}
	f1, f2 := r.Fints()
	return g.I0 * g.Mu0 * r.v.Omega() *
		(math.Exp(-tau/g.MuEx)*f1 + math.Exp(-tau/g.Mu0)*f2)
}

// Calc returns the total intensity followed by its surface, volume and
// interaction contributions.
func (r *RT1) Calc() (tot, surf, vol, inter float64) {
	surf, vol, inter = r.Surface(), r.Volume(), r.Interaction()
	return surf + vol + inter, surf, vol, inter
}

// Fints returns the two interaction integrals of the geometry:
// Fint(mu_0, mu_ex) and Fint(mu_ex, mu_0).
func (r *RT1) Fints() (f1, f2 float64) {
	tau := r.v.Tau()
	return InteractionIntegral(tau, r.geo.Mu0, r.fn),
		InteractionIntegral(tau, r.geo.MuEx, r.fnRecip)
}

// Fint evaluates the interaction integral for an arbitrary pair of
// directions, using the expansion coefficients at (mu1, mu2, phi1, phi2).
func (r *RT1) Fint(mu1, mu2, phi1, phi2 float64) (float64, error) {
	if !(mu1 > 0 && mu1 <= 1) || !(mu2 > 0 && mu2 <= 1) {
		return 0, fmt.Errorf(
			"%w: direction cosines %g and %g aren't in (0, 1]",
			ErrConfig, mu1, mu2,
		)
	}
	fn, err := r.exp.Coefs(math.Acos(mu1), math.Acos(mu2), phi1, phi2)
	if err != nil {
		return 0, err
	}
	return InteractionIntegral(r.v.Tau(), mu1, fn), nil
}

// Sigma0 converts an intensity to a backscatter coefficient for a beam
// incident at the polar angle inc.
func Sigma0(inc, intensity float64) float64 {
	return 4 * math.Pi * math.Cos(inc) * intensity
}

// DB converts x to decibels.
func DB(x float64) float64 { return 10 * math.Log10(x) }

// IsConfig returns true if err was caused by an invalid configuration.
func IsConfig(err error) bool { return errors.Is(err, ErrConfig) }

/*Package scatter defines the interface shared by volume phase functions and
surface BRDFs, along with the Legendre series machinery both of them use.
*/
package scatter

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/phil-mansfield/rt1/symbolic"
)

// ErrConfig is wrapped by every error caused by an invalid provider or
// provider parameter.
var ErrConfig = errors.New("invalid configuration")

// Angles names the four angles a provider expansion is written in terms of.
type Angles struct {
	ThetaIn, ThetaOut, PhiIn, PhiOut string
}

// Provider is an angular scattering function expanded in a truncated
// Legendre series of the cosine of its scattering angle.
type Provider interface {
	// NCoefs is the number of retained Legendre terms, P_0 through
	// P_(NCoefs-1).
	NCoefs() int
	LegCoefs() []float64

	// Eval evaluates the analytic (untruncated) function.
	Eval(thetaIn, thetaOut, phiIn, phiOut float64) float64
	// Cosine returns the cosine of the scattering angle the Legendre series
	// is written in terms of.
	Cosine(thetaIn, thetaOut, phiIn, phiOut float64) float64
	// LegExpansion returns the Legendre series written out as a polynomial
	// in the sines and cosines of the named angles.
	LegExpansion(a Angles) symbolic.Poly

	// Key identifies the expansion. Providers with equal keys must have
	// identical LegExpansions.
	Key() string
}

// Volume is the phase function of a random scattering layer.
type Volume interface {
	Provider
	Tau() float64
	Omega() float64
}

// Surface is the BRDF of the ground below the layer.
type Surface interface {
	Provider
}

// Checker is implemented by providers with parameters beyond their Legendre
// coefficients.
type Checker interface {
	Check() error
}

// Validate returns a configuration error if p can't be used.
func Validate(p Provider) error {
	if p == nil {
		return fmt.Errorf("%w: provider is nil", ErrConfig)
	}
	// A typed nil provider can only answer Check.
	if c, ok := p.(Checker); ok {
		if err := c.Check(); err != nil {
			return fmt.Errorf("%w: %s", ErrConfig, err.Error())
		}
	}
	if p.NCoefs() < 1 {
		return fmt.Errorf(
			"%w: %s has %d Legendre coefficients, need at least 1",
			ErrConfig, p.Key(), p.NCoefs(),
		)
	} else if len(p.LegCoefs()) != p.NCoefs() {
		return fmt.Errorf(
			"%w: %s declares %d coefficients but has a table of %d",
			ErrConfig, p.Key(), p.NCoefs(), len(p.LegCoefs()),
		)
	}
	for i, c := range p.LegCoefs() {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return fmt.Errorf(
				"%w: %s has non-finite coefficient %d", ErrConfig, p.Key(), i,
			)
		}
	}
	return nil
}

// ValidateVolume is Validate with the additional checks on the optical
// parameters of the layer.
func ValidateVolume(v Volume) error {
	if v == nil {
		return fmt.Errorf("%w: volume is nil", ErrConfig)
	}
	if err := Validate(v); err != nil {
		return err
	}
	if tau := v.Tau(); !(tau >= 0) || math.IsInf(tau, 0) {
		return fmt.Errorf(
			"%w: optical depth must be finite and >= 0, but is %g",
			ErrConfig, tau,
		)
	}
	if omega := v.Omega(); !(omega >= 0 && omega <= 1) {
		return fmt.Errorf(
			"%w: single scattering albedo must be in [0, 1], but is %g",
			ErrConfig, omega,
		)
	}
	return nil
}

// CoefKey formats a coefficient table so that two tables have equal keys
// exactly when they are equal.
func CoefKey(prefix string, coefs []float64) string {
	strs := make([]string, len(coefs))
	for i := range coefs {
		strs[i] = strconv.FormatFloat(coefs[i], 'g', -1, 64)
	}
	return fmt.Sprintf("%s[%s]", prefix, strings.Join(strs, ","))
}

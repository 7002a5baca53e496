package volume

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/integrate/quad"

	"github.com/phil-mansfield/rt1/scatter"
)

// sphereIntegral integrates f(cos) over the unit sphere.
func sphereIntegral(f func(x float64) float64) float64 {
	return 2 * math.Pi * quad.Fixed(f, -1, 1, 200, quad.Legendre{}, 0)
}

func TestNormalization(t *testing.T) {
	tests := []struct {
		name string
		p    *Phase
	}{
		{"isotropic", Isotropic(0.5, 0.5)},
		{"rayleigh", Rayleigh(0.5, 0.5)},
		{"hg forward", HenyeyGreenstein(0.5, 0.5, 0.4, 8)},
		{"hg backward", HenyeyGreenstein(0.5, 0.5, -0.6, 3)},
	}
	for _, test := range tests {
		coefs := test.p.LegCoefs()
		assert.InDelta(t, 1/(4*math.Pi), coefs[0], 1e-15, test.name)
		series := func(x float64) float64 {
			return scatter.LegendreSeries(coefs, x)
		}
		assert.InDelta(t, 1, sphereIntegral(series), 1e-12, test.name)
	}

	hg := HenyeyGreenstein(0.5, 0.5, 0.5, 3)
	analytic := func(x float64) float64 {
		return hg.Eval(math.Acos(x), 0, math.Pi, math.Pi)
	}
	assert.InDelta(t, 1, sphereIntegral(analytic), 1e-10)
}

func TestRayleigh(t *testing.T) {
	p := Rayleigh(1, 1)
	for _, th := range []float64{0.1, 0.7, 1.3} {
		x := p.Cosine(th, 0.4, 0.2, 2.0)
		want := 3 / (16 * math.Pi) * (1 + x*x)
		assert.InDelta(t, want, p.Eval(th, 0.4, 0.2, 2.0), 1e-15)
	}
}

func TestHenyeyGreensteinConverges(t *testing.T) {
	p := HenyeyGreenstein(1, 1, 0.3, 40)
	ti := []float64{0.2, 0.9, 1.4}
	exact, err := scatter.EvalAll(p, ti, []float64{0.5}, []float64{0}, []float64{2})
	require.NoError(t, err)
	approx, err := scatter.ApproxAll(p, ti, []float64{0.5}, []float64{0}, []float64{2})
	require.NoError(t, err)
	assert.InDeltaSlice(t, exact, approx, 1e-13)
}

func TestLegExpansion(t *testing.T) {
	p := HenyeyGreenstein(1, 1, 0.2, 4)
	a := scatter.Angles{ThetaIn: "a", ThetaOut: "b", PhiIn: "c", PhiOut: "d"}
	val, err := p.LegExpansion(a).Eval(map[string]float64{
		"a": 0.3, "b": 1.1, "c": 0.5, "d": 2.5,
	})
	require.NoError(t, err)
	approx, err := scatter.ApproxAll(p,
		[]float64{0.3}, []float64{1.1}, []float64{0.5}, []float64{2.5},
	)
	require.NoError(t, err)
	assert.InDelta(t, approx[0], val, 1e-14)
}

func TestKey(t *testing.T) {
	a, b := Rayleigh(0.1, 0.2), Rayleigh(3, 0.9)
	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), Isotropic(0.1, 0.2).Key())
	assert.NotEqual(t,
		HenyeyGreenstein(1, 1, 0.2, 3).Key(), HenyeyGreenstein(1, 1, 0.2, 4).Key(),
	)
}

func TestWithOptics(t *testing.T) {
	p := Rayleigh(0.1, 0.2)
	q := p.WithOptics(0.7, 0.3)
	assert.Equal(t, 0.1, p.Tau())
	assert.Equal(t, 0.7, q.Tau())
	assert.Equal(t, 0.3, q.Omega())
	assert.Equal(t, p.Key(), q.Key())
}

func TestLegCoefsIsCopy(t *testing.T) {
	p := Legendre(1, 1, []float64{0.1, 0.2})
	p.LegCoefs()[0] = 100
	assert.Equal(t, 0.1, p.LegCoefs()[0])
}

func TestCheck(t *testing.T) {
	assert.NoError(t, scatter.ValidateVolume(HenyeyGreenstein(1, 0.5, 0.9, 5)))

	bad := []*Phase{
		HenyeyGreenstein(1, 0.5, 1, 5),
		HenyeyGreenstein(1, 0.5, -1.5, 5),
		HenyeyGreenstein(1, 0.5, 0.5, 0),
		Isotropic(-1, 0.5),
		Isotropic(1, 1.5),
		Legendre(1, 0.5, nil),
	}
	for i, p := range bad {
		err := scatter.ValidateVolume(p)
		assert.True(t, errors.Is(err, scatter.ErrConfig), "case %d: %v", i, err)
	}
}

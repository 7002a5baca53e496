package integrator

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/integrate/quad"

	"github.com/phil-mansfield/rt1/symbolic"
)

func periodQuad(f func(float64) float64) float64 {
	return quad.Fixed(f, 0, 2*math.Pi, 200, quad.Legendre{}, 0)
}

func TestCosPowerIntegralQuadrature(t *testing.T) {
	for i := 0; i <= 16; i += 2 {
		p := float64(i)
		want := periodQuad(func(x float64) float64 {
			return math.Pow(math.Cos(x), p)
		})
		got := CosPowerIntegral(i)
		assert.InEpsilon(t, want, got, 1e-8, "i = %d", i)
	}
}

func TestCosPowerMeanKnownValues(t *testing.T) {
	// Central binomial coefficient over 2^i.
	table := []struct {
		i    int
		mean float64
	}{
		{0, 1}, {2, 0.5}, {4, 3.0 / 8}, {6, 5.0 / 16}, {8, 35.0 / 128},
	}
	for _, row := range table {
		assert.InDelta(t, row.mean, CosPowerMean(row.i), 1e-14)
	}
}

func TestOddPowersVanish(t *testing.T) {
	for i := 1; i <= 15; i += 2 {
		assert.Equal(t, 0.0, CosPowerMean(i))
		assert.Equal(t, 0.0, CosPowerIntegral(i))
		assert.Equal(t, 0.0, SinPowerIntegral(i))
	}
}

func TestAzimuthMixedPowers(t *testing.T) {
	// <cos^2 sin^2> = 1/8, <cos^4> = 3/8, <sin^3 cos> = 0.
	p := symbolic.Cos("phi").Pow(2).Mul(symbolic.Sin("phi").Pow(2)).
		Add(symbolic.Cos("phi").Pow(4).Scale(2)).
		Add(symbolic.Sin("phi").Pow(3).Mul(symbolic.Cos("phi")).Scale(5)).
		Add(symbolic.Const(1))

	res, err := Azimuth(p, "phi", 8)
	require.NoError(t, err)
	assert.True(t, res.Equal(symbolic.Const(1.0/8+2*3.0/8+1), 1e-14), res.String())

	full, err := Integrate(p, "phi", 8)
	require.NoError(t, err)
	want := periodQuad(func(x float64) float64 {
		c, s := math.Cos(x), math.Sin(x)
		return c*c*s*s + 2*c*c*c*c + 5*s*s*s*c + 1
	})
	v, err := full.Eval(nil)
	require.NoError(t, err)
	assert.InEpsilon(t, want, v, 1e-10)
}

func TestAzimuthKeepsOtherAngles(t *testing.T) {
	// (cos a cos phi + sin a sin phi)^2 = cos^2(a - phi), which averages to
	// 1/2 whatever a is.
	x := symbolic.Cos("a").Mul(symbolic.Cos("phi")).
		Add(symbolic.Sin("a").Mul(symbolic.Sin("phi")))
	res, err := Azimuth(x.Pow(2), "phi", 6)
	require.NoError(t, err)
	assert.False(t, res.Contains("phi"))

	for _, a := range []float64{0, 0.4, 1.3, 2.9} {
		v, err := res.Eval(map[string]float64{"a": a})
		require.NoError(t, err)
		assert.InDelta(t, 0.5, v, 1e-14)
	}
}

func TestAzimuthBoundTooSmall(t *testing.T) {
	p := symbolic.Cos("phi").Pow(6)
	_, err := Azimuth(p, "phi", 4)
	assert.True(t, errors.Is(err, symbolic.ErrDerivation))

	_, err = Azimuth(p, "phi", -1)
	assert.True(t, errors.Is(err, symbolic.ErrDerivation))
}

func TestPythagoreanSin(t *testing.T) {
	p := symbolic.Sin("t").Pow(4).Add(symbolic.Sin("t").Pow(3))
	res := PythagoreanSin(p, "t", 4)
	assert.Equal(t, 3, res.Degree(symbolic.SinAtom("t")))
	assert.Equal(t, 4, res.Degree(symbolic.CosAtom("t")))

	for _, x := range []float64{0.1, 0.7, 2.2} {
		v, err := res.Eval(map[string]float64{"t": x})
		require.NoError(t, err)
		s := math.Sin(x)
		assert.InDelta(t, s*s*s*s+s*s*s, v, 1e-14)
	}
}

func TestPythagoreanSinHighOrder(t *testing.T) {
	res := PythagoreanSin(symbolic.Sin("t").Pow(20), "t", 20)
	assert.Equal(t, 0, res.Degree(symbolic.SinAtom("t")))
	assert.Equal(t, 20, res.Degree(symbolic.CosAtom("t")))

	v, err := res.Eval(map[string]float64{"t": 0.9})
	require.NoError(t, err)
	assert.InEpsilon(t, math.Pow(math.Sin(0.9), 20), v, 1e-10)
}

func TestAzimuthProduct(t *testing.T) {
	x := symbolic.Cos("p").Mul(symbolic.Cos("a")).
		Add(symbolic.Sin("p").Mul(symbolic.Sin("a"))).Add(symbolic.Cos("b"))
	y := symbolic.Cos("p").Mul(symbolic.Sin("b")).Add(symbolic.Const(0.5))
	p, q := x.Pow(5), y.Pow(4)

	want, err := Azimuth(p.Mul(q), "p", 13)
	require.NoError(t, err)
	got, err := AzimuthProduct(p, q, "p", 13)
	require.NoError(t, err)

	assert.False(t, got.Contains("p"))
	assert.True(t, got.Equal(want, 1e-9))

	_, err = AzimuthProduct(p, q, "p", 3)
	assert.True(t, errors.Is(err, symbolic.ErrDerivation))
}

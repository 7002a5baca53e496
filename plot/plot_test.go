package plot

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/rt1"
	"github.com/phil-mansfield/rt1/surface"
	"github.com/phil-mansfield/rt1/volume"
)

func TestProject(t *testing.T) {
	xs, ys := project(
		[]float64{0, math.Pi / 2, math.Pi, -math.Pi / 2},
		[]float64{1, 2, 3, 4},
	)
	assert.InDeltaSlice(t, []float64{0, 2, 0, -4}, xs, 1e-15)
	assert.InDeltaSlice(t, []float64{1, 0, -3, 0}, ys, 1e-15)
}

func TestAngleRange(t *testing.T) {
	xs := angleRange(0, 2*math.Pi)
	require.Len(t, xs, 628)
	assert.Equal(t, 0.0, xs[0])
	assert.True(t, xs[len(xs)-1] < 2*math.Pi)

	xs = angleRange(-math.Pi/2, math.Pi/2)
	assert.Equal(t, -math.Pi/2, xs[0])
	assert.Equal(t, 3.0, maxOf([]float64{1, 3, -4}))
}

func TestPlotErrors(t *testing.T) {
	defer Reset()

	v := volume.HenyeyGreenstein(1, 1, 0.4, 8)
	s := surface.CosineLobe(6, 3, 0.5)

	assert.Error(t, PhasePlot("p.png", v, nil, 2))
	assert.Error(t, BRDFPlot("brdf.png", s, nil, 1))
	assert.Error(t, BRDFPlot("brdf.png", s, []float64{30, 95}, 1))
	assert.Error(t, LogMono("mono.png", nil, false))

	assert.NoError(t, PhasePlot("p.png", v, []float64{15, 35, 55, 75}, 2))
	assert.NoError(t, BRDFPlot("brdf.png", s, []float64{15, 35}, 1))

	results := []rt1.Result{
		{Geometry: rt1.Backscatter(1, 0.2), Tot: 0.1, Surf: 0.05, Vol: 0.05},
		{Geometry: rt1.Backscatter(1, 0.4), Tot: 0.2, Surf: 0.1, Vol: 0.09, Inter: 0.01},
	}
	assert.NoError(t, LogMono("mono.png", results, true))
	assert.NoError(t, LogMono("mono.png", results, false))
}

func TestFractions(t *testing.T) {
	defer Reset()

	assert.Error(t, Fractions("frac.png", nil))
	assert.Error(t, Fractions("frac.png", []rt1.Result{
		{Geometry: rt1.Backscatter(1, 0.2)},
	}))

	results := []rt1.Result{
		{Geometry: rt1.Backscatter(1, 0.2), Tot: 0.2, Surf: 0.1, Vol: 0.05, Inter: 0.05},
		{Geometry: rt1.Backscatter(1, 0.3)},
		{Geometry: rt1.Backscatter(1, 0.4), Tot: 0.1, Surf: 0.02, Vol: 0.09, Inter: -0.01},
	}
	assert.NoError(t, Fractions("frac.png", results))
	assert.Equal(t, []float64{0.2, 0.1, 0.05, 0.05}, contributions(results[0]))
}

package io

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/rt1"
	"github.com/phil-mansfield/rt1/surface"
	"github.com/phil-mansfield/rt1/volume"
)

func TestExampleCalcFile(t *testing.T) {
	w, err := ReadCalcConfigString(ExampleCalcFile)
	require.NoError(t, err)

	assert.Equal(t, []float64{20, 30, 40}, w.Geometry.Incidence)
	assert.Equal(t, 1.0, w.Geometry.I0)
	assert.Equal(t, "Monostatic", w.Geometry.Mode)

	geos, err := w.Geometry.Geometries()
	require.NoError(t, err)
	require.Len(t, geos, 3)
	for i, inc := range []float64{20, 30, 40} {
		assert.Equal(t, rt1.Backscatter(1, inc*math.Pi/180), geos[i])
	}

	v := w.Volume.Provider()
	assert.Equal(t, volume.HenyeyGreenstein(0.7, 0.3, 0.3, 8).Key(), v.Key())
	assert.Equal(t, 0.7, v.Tau())
	assert.Equal(t, 0.3, v.Omega())

	s := w.Surface.Provider()
	assert.Equal(t, surface.CosineLobe(6, 4, 0.3).Key(), s.Key())
}

func TestIncidenceRange(t *testing.T) {
	w, err := ReadCalcConfigString(`[Geometry]
IncidenceMin = 10
IncidenceMax = 50
IncidenceSteps = 5
Mode = bistatic
ExitAngle = 30
Phi0 = 0
PhiEx = 90

[Volume]
Type = Rayleigh
Tau = 0.1
Omega = 0.5

[Surface]
Type = Isotropic`)
	require.NoError(t, err)
	assert.Equal(t, "Bistatic", w.Geometry.Mode)

	incs, err := w.Geometry.IncidenceAngles()
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{10, 20, 30, 40, 50}, incs, 1e-12)

	geos, err := w.Geometry.Geometries()
	require.NoError(t, err)
	for i := range geos {
		assert.InDelta(t, math.Cos(math.Pi/6), geos[i].MuEx, 1e-15)
		assert.InDelta(t, math.Pi/2, geos[i].PhiEx, 1e-15)
		assert.InDelta(t, incs[i]*math.Pi/180, geos[i].Theta0(), 1e-12)
	}
	assert.Equal(t, 1.0, w.Surface.Norm)
	assert.Equal(t, surface.Isotropic(1).Key(), w.Surface.Provider().Key())
}

func TestCalcConfigErrors(t *testing.T) {
	vol := "\n[Volume]\nType = Isotropic\nTau = 1\nOmega = 0.5\n"
	srf := "\n[Surface]\nType = Isotropic\n"
	geo := "[Geometry]\nIncidence = 30\n"

	tests := []struct {
		name, text, field string
	}{
		{"no incidence", "[Geometry]\n" + vol + srf, "Incidence"},
		{"two sources", geo + "IncidenceSteps = 3\nIncidenceMax = 40\n" + vol + srf, "exactly one"},
		{"bad incidence", "[Geometry]\nIncidence = 95\n" + vol + srf, "Incidence"},
		{"bad mode", geo + "Mode = Sideways\n" + vol + srf, "Mode"},
		{"bad type", geo + strings.Replace(vol, "Isotropic", "Mie", 1) + srf, "Type"},
		{"bad omega", geo + strings.Replace(vol, "0.5", "1.5", 1) + srf, "Omega"},
		{"bad tau", geo + strings.Replace(vol, "Tau = 1", "Tau = -1", 1) + srf, "Tau"},
		{"bad asymmetry", geo + "\n[Volume]\nType = HenyeyGreenstein\nTau = 1\nOmega = 0.5\nAsymmetry = 1\nNCoefs = 3\n" + srf, "Asymmetry"},
		{"no coefs", geo + "\n[Volume]\nType = Legendre\nTau = 1\nOmega = 0.5\n" + srf, "Coef"},
		{"bad lobe", geo + vol + "\n[Surface]\nType = CosineLobe\nNCoefs = 0\n", "NCoefs"},
		{"bad norm", geo + vol + "\n[Surface]\nType = Isotropic\nNorm = -1\n", "Norm"},
		{"bad workers", geo + vol + srf + "\n[Sweep]\nWorkers = -2\n", "Workers"},
		{"unknown variable", geo + "Color = blue\n" + vol + srf, ""},
	}

	for _, test := range tests {
		_, err := ReadCalcConfigString(test.text)
		if !assert.Error(t, err, test.name) {
			continue
		}
		assert.True(t, rt1.IsConfig(err), "%s: %v", test.name, err)
		assert.Contains(t, err.Error(), test.field, test.name)
	}
}

func TestReadCalcConfig(t *testing.T) {
	dir := t.TempDir()
	fname := filepath.Join(dir, "calc.ini")
	require.NoError(t, os.WriteFile(fname, []byte(ExampleCalcFile), 0644))

	w, err := ReadCalcConfig(fname)
	require.NoError(t, err)
	assert.Equal(t, "HenyeyGreenstein", w.Volume.Type)

	_, err = ReadCalcConfig(filepath.Join(dir, "missing.ini"))
	assert.Error(t, err)
}

func TestIncidenceFile(t *testing.T) {
	dir := t.TempDir()
	fname := filepath.Join(dir, "angles.txt")
	text := "# id angle\n0 15\n1 25.5\n2 60\n"
	require.NoError(t, os.WriteFile(fname, []byte(text), 0644))

	incs, err := ReadIncidence(fname, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{15, 25.5, 60}, incs)

	con := &GeometryConfig{
		IncidenceFile: fname, IncidenceColumn: 1, I0: 1, Mode: "Monostatic",
	}
	require.NoError(t, con.CheckInit())
	geos, err := con.Geometries()
	require.NoError(t, err)
	assert.Len(t, geos, 3)

	con.IncidenceColumn = 0
	geos, err = con.Geometries()
	require.NoError(t, err)
	assert.Len(t, geos, 3)

	_, err = ReadIncidence(filepath.Join(dir, "missing.txt"), 0)
	assert.Error(t, err)
}

func TestResultTable(t *testing.T) {
	geos := []rt1.Geometry{
		rt1.Backscatter(1, 0.3), rt1.Backscatter(1, 0.6), rt1.Backscatter(1, 0.9),
	}
	results, err := rt1.Sweep(context.Background(), geos,
		volume.Rayleigh(0.5, 0.4), surface.Isotropic(0.2), 2)
	require.NoError(t, err)

	for _, sig0 := range []bool{false, true} {
		buf := &bytes.Buffer{}
		require.NoError(t, WriteResults(buf, results, sig0))

		fname := filepath.Join(t.TempDir(), "results.txt")
		require.NoError(t, os.WriteFile(fname, buf.Bytes(), 0644))
		tab, err := ReadResults(fname)
		require.NoError(t, err)
		require.Len(t, tab.Tot, len(results))

		for i, res := range results {
			if sig0 {
				res = res.Sigma0()
				res.Tot = rt1.DB(res.Tot)
				res.Inter = rt1.DB(res.Inter)
			}
			assert.InDelta(t, res.Theta0()*180/math.Pi, tab.Incidence[i], 1e-4)
			assert.InDelta(t, res.Tot, tab.Tot[i], 1e-5*math.Abs(res.Tot))
			assert.InDelta(t, res.Inter, tab.Inter[i], 1e-5*math.Abs(res.Inter))
		}
	}
}

func TestModeSpelling(t *testing.T) {
	for _, mode := range []string{"monostatic", "MONOSTATIC", " MonoStatic "} {
		con := &GeometryConfig{Incidence: []float64{30}, I0: 1, Mode: mode}
		require.NoError(t, con.CheckInit(), mode)
		assert.Equal(t, "Monostatic", con.Mode)
	}

	con := &GeometryConfig{
		Incidence: []float64{30}, I0: 1, Mode: "biSTATIC", ExitAngle: 10,
	}
	require.NoError(t, con.CheckInit())
	assert.Equal(t, "Bistatic", con.Mode)

	con = &GeometryConfig{Incidence: []float64{30}, I0: 1, Mode: "Mono static"}
	assert.True(t, rt1.IsConfig(con.CheckInit()))
}

func TestSweepPlots(t *testing.T) {
	w, err := ReadCalcConfigString(ExampleCalcFile + `
LogMonoPlot = mono.png
FractionPlot = fractions.png`)
	require.NoError(t, err)
	assert.True(t, w.Sweep.ValidLogMonoPlot())
	assert.True(t, w.Sweep.ValidFractionPlot())
	assert.Equal(t, "fractions.png", w.Sweep.FractionPlot)
	assert.False(t, w.Sweep.ValidPolarPlot())
}

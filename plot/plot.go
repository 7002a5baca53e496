/*Package plot draws phase functions, BRDFs and intensity sweeps with
matplotlib. Figures are only written once Execute is called.
*/
package plot

import (
	"fmt"
	"math"

	plt "github.com/phil-mansfield/pyplot"

	"github.com/phil-mansfield/rt1"
	"github.com/phil-mansfield/rt1/scatter"
)

const (
	angleStep = 0.01
	// rangeMult pads the plotting range around the largest plotted value.
	rangeMult = 1.2
)

var (
	colors        = []string{"r", "g", "b", "k", "c", "m", "y"}
	contribColors = []string{"black", "red", "green", "blue"}
)

// PhasePlot draws the phase function of v in the plane of incidence for a
// beam incident at each of the polar angles incs, in degrees. The analytic
// phase function is drawn with solid lines and its Legendre approximation
// with dashed lines. mult scales the plotting range, which is otherwise set
// by the largest forward scattering peak.
func PhasePlot(fname string, v scatter.Volume, incs []float64, mult float64) error {
	if len(incs) == 0 {
		return fmt.Errorf("No incidence angles given to PhasePlot().")
	}

	thetas := angleRange(0, 2*math.Pi)
	forward := make([]float64, len(incs))
	for i := range incs {
		ti := radians(incs[i])
		forward[i] = v.Eval(ti, math.Pi-ti, 0, 0)
	}
	return polar(fname, v, incs, thetas, mult*maxOf(forward),
		"Volume-Scattering Phase Function")
}

// BRDFPlot is PhasePlot for a surface BRDF. The plotting range is set by the
// largest specular peak, and only the upper half plane is drawn.
func BRDFPlot(fname string, s scatter.Surface, incs []float64, mult float64) error {
	if len(incs) == 0 {
		return fmt.Errorf("No incidence angles given to BRDFPlot().")
	}
	for _, inc := range incs {
		if inc > 90 {
			return fmt.Errorf(
				"BRDF incidence angle must be <= 90 degrees, but is %g.", inc,
			)
		}
	}

	thetas := angleRange(-math.Pi/2, math.Pi/2)
	specular := make([]float64, len(incs))
	for i := range incs {
		ti := radians(incs[i])
		specular[i] = s.Eval(ti, ti, 0, 0)
	}
	return polar(fname, s, incs, thetas, mult*maxOf(specular),
		"Bidirectional Reflectance Distribution Function")
}

// polar draws p(inc, theta, 0, 0) against theta as a polar curve, with theta
// measured clockwise from the vertical.
func polar(
	fname string, p scatter.Provider, incs, thetas []float64,
	rMax float64, title string,
) error {
	rad := make([]float64, len(thetas))
	approx := make([]float64, len(thetas))
	zero := []float64{0}

	plt.Figure(plt.FigSize(7, 7))
	for i, inc := range incs {
		color := colors[i%len(colors)]
		ti := []float64{radians(inc)}

		_, err := scatter.EvalAll(p, ti, thetas, zero, zero, rad)
		if err != nil {
			return err
		}
		_, err = scatter.ApproxAll(p, ti, thetas, zero, zero, approx)
		if err != nil {
			return err
		}

		xs, ys := project(thetas, rad)
		plt.Plot(xs, ys, color, plt.LW(2))
		xs, ys = project(thetas, approx)
		plt.Plot(xs, ys, color+"--", plt.LW(2))

		// Incident beam.
		bx := rMax * rangeMult * math.Sin(-ti[0])
		by := rMax * rangeMult * math.Cos(ti[0])
		plt.Plot([]float64{bx, 0.2 * bx}, []float64{by, 0.2 * by},
			plt.C(color), plt.LW(1))
	}

	lim := rMax * rangeMult
	plt.Plot([]float64{-lim, lim}, []float64{0, 0}, "k", plt.LW(1))
	plt.XLim(-lim, +lim)
	plt.YLim(-lim, +lim)
	plt.Title(title)
	plt.SaveFig(fname)
	return nil
}

// project converts a polar curve with angles measured clockwise from the
// vertical to Cartesian coordinates.
func project(thetas, rs []float64) (xs, ys []float64) {
	xs, ys = make([]float64, len(rs)), make([]float64, len(rs))
	for i := range rs {
		xs[i] = rs[i] * math.Sin(thetas[i])
		ys[i] = rs[i] * math.Cos(thetas[i])
	}
	return xs, ys
}

// LogMono plots the total intensity and its three contributions in dB
// against incidence angle. If sig0 is true, backscatter coefficients are
// plotted instead. Non-positive contributions are left out. The y range runs
// from 5 dB below the interaction peak to 5 dB above the total peak.
func LogMono(fname string, results []rt1.Result, sig0 bool) error {
	if len(results) == 0 {
		return fmt.Errorf("No results given to LogMono().")
	}

	labels := []string{`$I_{tot}$`, `$I_{surf}$`, `$I_{vol}$`, `$I_{int}$`}
	title, ylabel := "Normalized Intensity", `$I^+$ [dB]`
	if sig0 {
		labels = []string{
			`$\sigma_0^{tot}$`, `$\sigma_0^{surf}$`,
			`$\sigma_0^{vol}$`, `$\sigma_0^{int}$`,
		}
		title, ylabel = "Backscattering Coefficient", `$\sigma_0$ [dB]`
	}

	curves := make([][2][]float64, len(labels))
	for _, res := range results {
		if sig0 {
			res = res.Sigma0()
		}
		inc := degrees(res.Theta0())
		for i, x := range contributions(res) {
			if x <= 0 || math.IsNaN(x) || math.IsInf(x, 0) {
				continue
			}
			curves[i][0] = append(curves[i][0], inc)
			curves[i][1] = append(curves[i][1], rt1.DB(x))
		}
	}

	plt.Figure(plt.FigSize(7, 7))
	for i := range curves {
		if len(curves[i][0]) > 0 {
			plt.Plot(curves[i][0], curves[i][1],
				plt.C(contribColors[i]), plt.LW(2), plt.Label(labels[i]))
		}
	}
	tot, inter := curves[0][1], curves[3][1]
	if len(tot) > 0 && len(inter) > 0 {
		plt.YLim(maxOf(inter)-5, maxOf(tot)+5)
	}

	plt.Title(title)
	plt.XLabel(`$\theta_0$ [deg]`, plt.FontSize(16))
	plt.YLabel(ylabel, plt.FontSize(16))
	plt.Grid(plt.Axis("both"))
	plt.Legend(plt.Loc("best"))
	plt.SaveFig(fname)
	return nil
}

// Fractions plots the fraction of the total signal carried by the surface,
// volume and interaction contributions against incidence angle. Geometries
// with no total signal are left out.
func Fractions(fname string, results []rt1.Result) error {
	if len(results) == 0 {
		return fmt.Errorf("No results given to Fractions().")
	}

	labels := []string{"surface", "volume", "interaction"}
	incs := []float64{}
	fracs := make([][]float64, len(labels))
	for _, res := range results {
		if res.Tot == 0 || math.IsNaN(res.Tot) || math.IsInf(res.Tot, 0) {
			continue
		}
		incs = append(incs, degrees(res.Theta0()))
		for i, x := range contributions(res)[1:] {
			fracs[i] = append(fracs[i], x/res.Tot)
		}
	}
	if len(incs) == 0 {
		return fmt.Errorf("Every result given to Fractions() has no signal.")
	}

	plt.Figure(plt.FigSize(7, 7))
	for i := range fracs {
		plt.Plot(incs, fracs[i],
			plt.C(contribColors[i+1]), plt.LW(2), plt.Label(labels[i]))
	}
	plt.Title("Fractional contributions to total signal")
	plt.XLabel(`$\theta_0$ [deg]`, plt.FontSize(16))
	plt.YLabel(`$I / I_{tot}$`, plt.FontSize(16))
	plt.Grid(plt.Axis("both"))
	plt.Legend(plt.Loc("best"))
	plt.SaveFig(fname)
	return nil
}

// contributions returns the total, surface, volume and interaction values of
// res, in the order of contribColors.
func contributions(res rt1.Result) []float64 {
	return []float64{res.Tot, res.Surf, res.Vol, res.Inter}
}

// Execute runs the generated plotting script.
func Execute() { plt.Execute() }

// Reset discards every figure which hasn't been executed.
func Reset() { plt.Reset() }

func angleRange(lo, hi float64) []float64 {
	n := int((hi - lo) / angleStep)
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = lo + float64(i)*angleStep
	}
	return xs
}

func maxOf(xs []float64) float64 {
	max := xs[0]
	for _, x := range xs {
		if x > max {
			max = x
		}
	}
	return max
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
func degrees(rad float64) float64 { return rad * 180 / math.Pi }

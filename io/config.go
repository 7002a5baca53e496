/*Package io reads rt1 configuration files and incidence-angle tables and
writes result tables.
*/
package io

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gopkg.in/gcfg.v1"

	"github.com/phil-mansfield/rt1"
	"github.com/phil-mansfield/rt1/scatter"
	"github.com/phil-mansfield/rt1/surface"
	"github.com/phil-mansfield/rt1/volume"
)

const (
	ExampleCalcFile = `[Geometry]

#######################
# Required Parameters #
#######################

# Incidence angles in degrees. There are three ways to give them: list them
# one per line, give an evenly spaced range, or read them from a column of a
# whitespace separated table. Exactly one must be used.
Incidence = 20
Incidence = 30
Incidence = 40
# IncidenceMin = 10
# IncidenceMax = 70
# IncidenceSteps = 61
# IncidenceFile = path/to/angles.txt
# IncidenceColumn = 0

#######################
# Optional Parameters #
#######################

# Intensity of the incident beam. Default is 1.
# I0 = 1

# Must be one of [ Monostatic | Bistatic ]. Monostatic geometries observe the
# backscattered beam. Bistatic geometries observe a fixed exit direction for
# every incidence angle. Default is Monostatic.
# Mode = Bistatic
# ExitAngle = 30
# Phi0 = 0
# PhiEx = 180

[Volume]

#######################
# Required Parameters #
#######################

# Must be one of [ Isotropic | Rayleigh | HenyeyGreenstein | Legendre ].
Type = HenyeyGreenstein

# Optical depth and single scattering albedo of the layer.
Tau = 0.7
Omega = 0.3

#######################
# Optional Parameters #
#######################

# Asymmetry parameter and number of Legendre terms of a Henyey-Greenstein
# phase function.
Asymmetry = 0.3
NCoefs = 8

# Coefficients of a Legendre phase function, starting with P_0.
# Coef = 0.0795774715
# Coef = 0.05

[Surface]

#######################
# Required Parameters #
#######################

# Must be one of [ Isotropic | CosineLobe | HenyeyGreenstein | Legendre ].
Type = CosineLobe

#######################
# Optional Parameters #
#######################

# Overall normalization of the BRDF. Default is 1.
Norm = 0.3

# Number of Legendre terms of CosineLobe and HenyeyGreenstein BRDFs.
NCoefs = 6

# Exponent of a CosineLobe BRDF.
Exponent = 4

# Asymmetry parameter of a HenyeyGreenstein BRDF.
# Asymmetry = 0.4

# Coefficients of a Legendre BRDF, starting with P_0.
# Coef = 0.1

[Sweep]

#######################
# Optional Parameters #
#######################

# Result table. If not set, results are written to stdout.
# Output = results.txt

# Write backscatter coefficients in dB instead of intensities.
# Sigma0 = true

# Number of goroutines used. Default is the number of CPUs.
# Workers = 4

# Plots written when the -Plot flag is given.
# LogMonoPlot = intensities.png
# FractionPlot = fractions.png
# PolarPlot = phase.png`
)

// GeometryConfig describes the geometries a calculation sweeps over. Angles
// are in degrees.
type GeometryConfig struct {
	// Required
	Incidence                  []float64
	IncidenceMin, IncidenceMax float64
	IncidenceSteps             int
	IncidenceFile              string
	IncidenceColumn            int

	// Optional
	I0          float64
	Mode        string
	ExitAngle   float64
	Phi0, PhiEx float64
}

func (con *GeometryConfig) ValidIncidence() bool {
	for _, inc := range con.Incidence {
		if !validAngle(inc) {
			return false
		}
	}
	return len(con.Incidence) > 0
}
func (con *GeometryConfig) ValidIncidenceRange() bool {
	return con.IncidenceSteps > 0 &&
		validAngle(con.IncidenceMin) && validAngle(con.IncidenceMax) &&
		con.IncidenceMin <= con.IncidenceMax
}
func (con *GeometryConfig) ValidIncidenceFile() bool {
	return con.IncidenceFile != "" && con.IncidenceColumn >= 0
}
func (con *GeometryConfig) ValidI0() bool {
	return con.I0 >= 0 && !math.IsInf(con.I0, 0)
}
var geometryModes = []string{"Monostatic", "Bistatic"}

func (con *GeometryConfig) ValidMode() bool {
	return con.Mode == "Monostatic" || con.Mode == "Bistatic"
}
func (con *GeometryConfig) ValidExitAngle() bool {
	return validAngle(con.ExitAngle)
}

// validAngle returns true for polar angles in [0, 90) degrees.
func validAngle(deg float64) bool { return deg >= 0 && deg < 90 }

func (con *GeometryConfig) CheckInit() error {
	sources := 0
	if len(con.Incidence) > 0 {
		sources++
		if !con.ValidIncidence() {
			return configErr(
				"every Incidence in [Geometry] must be in range [0, 90), " +
					"but one isn't.",
			)
		}
	}
	if con.IncidenceSteps != 0 {
		sources++
		if !con.ValidIncidenceRange() {
			return configErr(
				"IncidenceMin = %g and IncidenceMax = %g in [Geometry] must "+
					"be an ordered range in [0, 90), and IncidenceSteps = %d "+
					"must be positive.",
				con.IncidenceMin, con.IncidenceMax, con.IncidenceSteps,
			)
		}
	}
	if con.IncidenceFile != "" {
		sources++
		if !con.ValidIncidenceFile() {
			return configErr(
				"IncidenceColumn in [Geometry] must be non-negative, but is %d.",
				con.IncidenceColumn,
			)
		}
	}
	if sources != 1 {
		return configErr(
			"[Geometry] must give incidence angles with exactly one of " +
				"Incidence, IncidenceSteps or IncidenceFile.",
		)
	}

	if !con.ValidI0() {
		return configErr(
			"I0 in [Geometry] must be finite and non-negative, but is %g.",
			con.I0,
		)
	}

	tmp := con.Mode
	for _, mode := range geometryModes {
		if strings.EqualFold(strings.TrimSpace(con.Mode), mode) {
			con.Mode = mode
		}
	}
	if !con.ValidMode() {
		return configErr(
			"Mode in [Geometry] must be one of [Monostatic | Bistatic]. "+
				"'%s' is not recognized.", tmp,
		)
	} else if con.Mode == "Bistatic" && !con.ValidExitAngle() {
		return configErr(
			"ExitAngle in [Geometry] must be in range [0, 90), but is %g.",
			con.ExitAngle,
		)
	}
	return nil
}

// IncidenceAngles returns the incidence angles in degrees.
func (con *GeometryConfig) IncidenceAngles() ([]float64, error) {
	switch {
	case len(con.Incidence) > 0:
		return append([]float64{}, con.Incidence...), nil
	case con.IncidenceSteps > 0:
		if con.IncidenceSteps == 1 {
			return []float64{con.IncidenceMin}, nil
		}
		incs := make([]float64, con.IncidenceSteps)
		return floats.Span(incs, con.IncidenceMin, con.IncidenceMax), nil
	}

	incs, err := ReadIncidence(con.IncidenceFile, con.IncidenceColumn)
	if err != nil {
		return nil, err
	}
	for _, inc := range incs {
		if !validAngle(inc) {
			return nil, configErr(
				"incidence angle %g in '%s' isn't in range [0, 90).",
				inc, con.IncidenceFile,
			)
		}
	}
	return incs, nil
}

// Geometries returns the geometries described by con.
func (con *GeometryConfig) Geometries() ([]rt1.Geometry, error) {
	incs, err := con.IncidenceAngles()
	if err != nil {
		return nil, err
	}

	geos := make([]rt1.Geometry, len(incs))
	for i, inc := range incs {
		if con.Mode == "Bistatic" {
			geos[i] = rt1.Geometry{
				I0:    con.I0,
				Mu0:   math.Cos(radians(inc)),
				MuEx:  math.Cos(radians(con.ExitAngle)),
				Phi0:  radians(con.Phi0),
				PhiEx: radians(con.PhiEx),
			}
		} else {
			geos[i] = rt1.Backscatter(con.I0, radians(inc))
		}
	}
	return geos, nil
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

// VolumeConfig describes the phase function of the layer.
type VolumeConfig struct {
	// Required
	Type       string
	Tau, Omega float64

	// Optional
	Asymmetry float64
	NCoefs    int
	Coef      []float64
}

func (con *VolumeConfig) ValidType() bool {
	switch con.Type {
	case "Isotropic", "Rayleigh", "HenyeyGreenstein", "Legendre":
		return true
	}
	return false
}
func (con *VolumeConfig) ValidTau() bool {
	return con.Tau >= 0 && !math.IsInf(con.Tau, 0)
}
func (con *VolumeConfig) ValidOmega() bool {
	return con.Omega >= 0 && con.Omega <= 1
}
func (con *VolumeConfig) ValidAsymmetry() bool {
	return con.Asymmetry > -1 && con.Asymmetry < 1
}
func (con *VolumeConfig) ValidNCoefs() bool { return con.NCoefs > 0 }
func (con *VolumeConfig) ValidCoef() bool  { return len(con.Coef) > 0 }

func (con *VolumeConfig) CheckInit() error {
	switch {
	case !con.ValidType():
		return configErr(
			"Type in [Volume] must be one of [Isotropic | Rayleigh | "+
				"HenyeyGreenstein | Legendre]. '%s' is not recognized.",
			con.Type,
		)
	case !con.ValidTau():
		return configErr(
			"Tau in [Volume] must be finite and non-negative, but is %g.",
			con.Tau,
		)
	case !con.ValidOmega():
		return configErr(
			"Omega in [Volume] must be in range [0, 1], but is %g.", con.Omega,
		)
	}

	switch con.Type {
	case "HenyeyGreenstein":
		if !con.ValidAsymmetry() {
			return configErr(
				"Asymmetry in [Volume] must be in range (-1, 1), but is %g.",
				con.Asymmetry,
			)
		} else if !con.ValidNCoefs() {
			return configErr(
				"NCoefs in [Volume] must be positive, but is %d.", con.NCoefs,
			)
		}
	case "Legendre":
		if !con.ValidCoef() {
			return configErr("A Legendre [Volume] needs at least one Coef.")
		}
	}
	return nil
}

// Provider returns the phase function described by con.
func (con *VolumeConfig) Provider() scatter.Volume {
	switch con.Type {
	case "Rayleigh":
		return volume.Rayleigh(con.Tau, con.Omega)
	case "HenyeyGreenstein":
		return volume.HenyeyGreenstein(
			con.Tau, con.Omega, con.Asymmetry, con.NCoefs,
		)
	case "Legendre":
		return volume.Legendre(con.Tau, con.Omega, con.Coef)
	}
	return volume.Isotropic(con.Tau, con.Omega)
}

// SurfaceConfig describes the BRDF of the ground.
type SurfaceConfig struct {
	// Required
	Type string

	// Optional
	Norm      float64
	NCoefs    int
	Exponent  float64
	Asymmetry float64
	Coef      []float64
}

func (con *SurfaceConfig) ValidType() bool {
	switch con.Type {
	case "Isotropic", "CosineLobe", "HenyeyGreenstein", "Legendre":
		return true
	}
	return false
}
func (con *SurfaceConfig) ValidNorm() bool {
	return con.Norm >= 0 && !math.IsInf(con.Norm, 0)
}
func (con *SurfaceConfig) ValidNCoefs() bool   { return con.NCoefs > 0 }
func (con *SurfaceConfig) ValidExponent() bool { return con.Exponent >= 0 }
func (con *SurfaceConfig) ValidAsymmetry() bool {
	return con.Asymmetry > -1 && con.Asymmetry < 1
}
func (con *SurfaceConfig) ValidCoef() bool { return len(con.Coef) > 0 }

func (con *SurfaceConfig) CheckInit() error {
	if !con.ValidType() {
		return configErr(
			"Type in [Surface] must be one of [Isotropic | CosineLobe | "+
				"HenyeyGreenstein | Legendre]. '%s' is not recognized.",
			con.Type,
		)
	} else if !con.ValidNorm() {
		return configErr(
			"Norm in [Surface] must be finite and non-negative, but is %g.",
			con.Norm,
		)
	}

	switch con.Type {
	case "CosineLobe", "HenyeyGreenstein":
		if !con.ValidNCoefs() {
			return configErr(
				"NCoefs in [Surface] must be positive, but is %d.", con.NCoefs,
			)
		}
		if con.Type == "CosineLobe" && !con.ValidExponent() {
			return configErr(
				"Exponent in [Surface] must be non-negative, but is %g.",
				con.Exponent,
			)
		} else if con.Type == "HenyeyGreenstein" && !con.ValidAsymmetry() {
			return configErr(
				"Asymmetry in [Surface] must be in range (-1, 1), but is %g.",
				con.Asymmetry,
			)
		}
	case "Legendre":
		if !con.ValidCoef() {
			return configErr("A Legendre [Surface] needs at least one Coef.")
		}
	}
	return nil
}

// Provider returns the BRDF described by con.
func (con *SurfaceConfig) Provider() scatter.Surface {
	switch con.Type {
	case "CosineLobe":
		return surface.CosineLobe(con.NCoefs, con.Exponent, con.Norm)
	case "HenyeyGreenstein":
		return surface.HenyeyGreenstein(con.Asymmetry, con.NCoefs, con.Norm)
	case "Legendre":
		return surface.Legendre(con.Coef)
	}
	return surface.Isotropic(con.Norm)
}

// SweepConfig controls how a calculation is run and where it's written.
type SweepConfig struct {
	// Optional
	Output                               string
	Sigma0                               bool
	Workers                              int
	CacheSize                            int
	LogMonoPlot, FractionPlot, PolarPlot string
}

func (con *SweepConfig) ValidOutput() bool       { return con.Output != "" }
func (con *SweepConfig) ValidLogMonoPlot() bool  { return con.LogMonoPlot != "" }
func (con *SweepConfig) ValidFractionPlot() bool { return con.FractionPlot != "" }
func (con *SweepConfig) ValidPolarPlot() bool    { return con.PolarPlot != "" }

func (con *SweepConfig) CheckInit() error {
	if con.Workers < 0 {
		return configErr(
			"Workers in [Sweep] must be non-negative, but is %d.", con.Workers,
		)
	} else if con.CacheSize < 0 {
		return configErr(
			"CacheSize in [Sweep] must be non-negative, but is %d.",
			con.CacheSize,
		)
	}
	return nil
}

// CalcWrapper is the contents of a calculation config file.
type CalcWrapper struct {
	Geometry GeometryConfig
	Volume   VolumeConfig
	Surface  SurfaceConfig
	Sweep    SweepConfig
}

func DefaultCalcWrapper() *CalcWrapper {
	w := &CalcWrapper{}
	w.Geometry.I0 = 1
	w.Geometry.Mode = "Monostatic"
	w.Geometry.PhiEx = 180
	w.Surface.Norm = 1
	return w
}

func (w *CalcWrapper) CheckInit() error {
	if err := w.Geometry.CheckInit(); err != nil {
		return err
	} else if err := w.Volume.CheckInit(); err != nil {
		return err
	} else if err := w.Surface.CheckInit(); err != nil {
		return err
	}
	return w.Sweep.CheckInit()
}

// ReadCalcConfig reads and checks a calculation config file.
func ReadCalcConfig(fname string) (*CalcWrapper, error) {
	w := DefaultCalcWrapper()
	if err := gcfg.ReadFileInto(w, fname); err != nil {
		return nil, configErr("could not parse '%s': %s", fname, err.Error())
	}
	if err := w.CheckInit(); err != nil {
		return nil, err
	}
	return w, nil
}

// ReadCalcConfigString is ReadCalcConfig for the text of a config file.
func ReadCalcConfigString(text string) (*CalcWrapper, error) {
	w := DefaultCalcWrapper()
	if err := gcfg.ReadStringInto(w, text); err != nil {
		return nil, configErr("could not parse config: %s", err.Error())
	}
	if err := w.CheckInit(); err != nil {
		return nil, err
	}
	return w, nil
}

func configErr(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", rt1.ErrConfig, fmt.Sprintf(format, args...))
}

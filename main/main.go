package main

import (
	"context"
	"flag"
	"fmt"
	goio "io"
	"log"
	"os"
	"path/filepath"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/phil-mansfield/rt1"
	"github.com/phil-mansfield/rt1/expansion"
	"github.com/phil-mansfield/rt1/io"
	"github.com/phil-mansfield/rt1/plot"
)

const (
	// Plotting ranges are the largest forward/specular peak times these.
	phaseRangeMult = 1.0
	brdfRangeMult  = 1.0
)

type FileGroup struct {
	out, prof *os.File
}

// Close closes every open file in fg. It may be called more than once.
func (fg *FileGroup) Close() {
	out, prof := fg.out, fg.prof
	fg.out, fg.prof = nil, nil

	if out != nil {
		err := out.Close()
		if err != nil { log.Fatal(err.Error()) }
	}

	if prof != nil {
		pprof.StopCPUProfile()
		err := prof.Close()
		if err != nil { log.Fatal(err.Error()) }
	}
}

func main() {
	var (
		calc, exampleConfig string
		profile             string
		doPlot              bool
	)
	vars := map[string]*string{
		"Calc":          &calc,
		"ExampleConfig": &exampleConfig,
	}

	flag.StringVar(
		&calc, "Calc", "",
		"Configuration file for [Calc] mode.",
	)
	flag.StringVar(
		&exampleConfig,
		"ExampleConfig", "", "Prints an example configuration file of the "+
			"specified type to stdout. The only accepted argument is 'Calc'.",
	)
	flag.BoolVar(
		&doPlot, "Plot", false,
		"Write the plots named in the [Sweep] section of the [Calc] file.",
	)
	flag.StringVar(
		&profile, "CPUProfile", "",
		"Write a pprof CPU profile of [Calc] mode to this file.",
	)

	flag.Parse()

	modeName, err := getModeName(vars)
	if err != nil { log.Fatal(err.Error()) }

	switch modeName {
	case "Calc":
		wrap, err := io.ReadCalcConfig(calc)
		if err != nil { log.Fatal(err.Error()) }

		// log.Fatal skips deferred calls, so fg is closed by hand before
		// every exit.
		fg := &FileGroup{}
		fatal := func(err error) {
			fg.Close()
			log.Fatal(err.Error())
		}

		if profile != "" {
			fg.prof, err = os.Create(profile)
			if err != nil { log.Fatal(err.Error()) }
			err = pprof.StartCPUProfile(fg.prof)
			if err != nil {
				fg.prof.Close()
				log.Fatal(err.Error())
			}
		}

		var out goio.Writer = os.Stdout
		if wrap.Sweep.ValidOutput() {
			fg.out, err = os.Create(wrap.Sweep.Output)
			if err != nil { fatal(err) }
			out = fg.out
		}

		results, err := calcMain(wrap)
		if err != nil { fatal(err) }
		err = io.WriteResults(out, results, wrap.Sweep.Sigma0)
		if err != nil { fatal(err) }

		if doPlot {
			if err = plotMain(wrap, results); err != nil { fatal(err) }
		}
		fg.Close()

	case "ExampleConfig":
		switch exampleConfig {
		case "Calc":
			fmt.Println(io.ExampleCalcFile)
		default:
			log.Fatal(
				"Unrecognized 'ExampleConfig' argument. Only recognized " +
					"argument is 'Calc'.",
			)
		}

	default:
		log.Fatalf("Unrecognized mode '%s'.", modeName)
	}
}

func getModeName(vars map[string]*string) (string, error) {
	setNames := []string{}

	for name, varPtr := range vars {
		if *varPtr != "" { setNames = append(setNames, name) }
	}

	if len(setNames) == 0 {
		return "", fmt.Errorf("No flags have been set.")
	}

	if len(setNames) > 1 {
		return "", fmt.Errorf(
			"The following flags were set: %s, but rt1 "+
				"only accepts one mode flag at a time.",
			strings.Join(setNames, ", "),
		)
	}

	return setNames[0], nil
}

// calcMain runs the sweep described by wrap.
func calcMain(wrap *io.CalcWrapper) ([]rt1.Result, error) {
	geos, err := wrap.Geometry.Geometries()
	if err != nil { return nil, err }

	cache, err := expansion.NewCache(wrap.Sweep.CacheSize)
	if err != nil { return nil, err }

	v, s := wrap.Volume.Provider(), wrap.Surface.Provider()
	log.Printf(
		"Sweeping %d geometries: volume %s, surface %s.",
		len(geos), v.Key(), s.Key(),
	)

	t0 := time.Now()
	results, err := rt1.Sweep(
		context.Background(), geos, v, s, wrap.Sweep.Workers,
		rt1.WithCache(cache),
	)
	if err != nil { return nil, err }
	log.Printf("Sweep finished in %.3g s.", time.Since(t0).Seconds())

	return results, nil
}

func plotMain(wrap *io.CalcWrapper, results []rt1.Result) error {
	con := &wrap.Sweep
	if !con.ValidLogMonoPlot() && !con.ValidFractionPlot() &&
		!con.ValidPolarPlot() {
		return fmt.Errorf("-Plot was set, but none of 'LogMonoPlot', " +
			"'FractionPlot' or 'PolarPlot' is set in [Sweep].")
	}

	if con.ValidLogMonoPlot() {
		err := plot.LogMono(con.LogMonoPlot, results, con.Sigma0)
		if err != nil { return err }
	}
	if con.ValidFractionPlot() {
		err := plot.Fractions(con.FractionPlot, results)
		if err != nil { return err }
	}

	if con.ValidPolarPlot() {
		incs, err := wrap.Geometry.IncidenceAngles()
		if err != nil { return err }

		err = plot.PhasePlot(
			con.PolarPlot, wrap.Volume.Provider(), incs, phaseRangeMult,
		)
		if err != nil { return err }
		err = plot.BRDFPlot(
			brdfName(con.PolarPlot), wrap.Surface.Provider(), incs,
			brdfRangeMult,
		)
		if err != nil { return err }
	}

	plot.Execute()
	return nil
}

// brdfName turns "polar.png" into "polar_brdf.png".
func brdfName(fname string) string {
	ext := filepath.Ext(fname)
	return strings.TrimSuffix(fname, ext) + "_brdf" + ext
}

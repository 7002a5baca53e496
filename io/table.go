package io

import (
	"fmt"
	goio "io"
	"math"

	"github.com/phil-mansfield/table"

	"github.com/phil-mansfield/rt1"
)

// ReadIncidence reads incidence angles, in degrees, from column col of a
// whitespace separated table.
func ReadIncidence(fname string, col int) ([]float64, error) {
	cols, err := table.ReadTable(fname, []int{col}, nil)
	if err != nil {
		return nil, fmt.Errorf("could not read column %d of '%s': %w", col, fname, err)
	}
	return cols[0], nil
}

// Table holds the columns of a result table. Angles are in degrees.
type Table struct {
	Incidence, Exit       []float64
	Tot, Surf, Vol, Inter []float64
}

const (
	tableHeader      = "# %12s %12s %12s %12s %12s %12s\n"
	tableRow         = "  %12.6g %12.6g %12.6g %12.6g %12.6g %12.6g\n"
	tableColumnCount = 6
)

// WriteResults writes results to w as a whitespace separated table which can
// be read by ReadResults. If sig0 is true, the results are converted to
// backscatter coefficients in dB.
func WriteResults(w goio.Writer, results []rt1.Result, sig0 bool) error {
	units := "I"
	if sig0 {
		units = "sig0[dB]"
	}
	_, err := fmt.Fprintf(w, tableHeader, "theta_0", "theta_ex",
		units+"_tot", units+"_surf", units+"_vol", units+"_int")
	if err != nil {
		return err
	}

	for _, res := range results {
		if sig0 {
			res = res.Sigma0()
			res.Tot, res.Surf = rt1.DB(res.Tot), rt1.DB(res.Surf)
			res.Vol, res.Inter = rt1.DB(res.Vol), rt1.DB(res.Inter)
		}
		_, err := fmt.Fprintf(w, tableRow,
			degrees(res.Theta0()), degrees(res.ThetaEx()),
			res.Tot, res.Surf, res.Vol, res.Inter,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// ReadResults reads a table written by WriteResults.
func ReadResults(fname string) (*Table, error) {
	idxs := make([]int, tableColumnCount)
	for i := range idxs {
		idxs[i] = i
	}
	cols, err := table.ReadTable(fname, idxs, nil)
	if err != nil {
		return nil, fmt.Errorf("could not read result table '%s': %w", fname, err)
	}
	return &Table{
		Incidence: cols[0], Exit: cols[1],
		Tot: cols[2], Surf: cols[3], Vol: cols[4], Inter: cols[5],
	}, nil
}

func degrees(rad float64) float64 { return rad * 180 / math.Pi }

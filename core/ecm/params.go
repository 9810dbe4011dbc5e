package ecm

import "sort"

// ParamRow is one sampled point of the extracted circuit parameters.
type ParamRow struct {
	SoC float64
	OCV float64
	Rs  float64
}

// Grid returns n evenly spaced depth-of-discharge points spanning [0, 1].
// A degenerate size (n < 2) cannot span the interval and clamps to the single
// point 0.
func Grid(n int) []float64 {
	if n < 2 {
		return []float64{0}
	}
	out := make([]float64, n)
	step := 1 / float64(n-1)
	for i := range out {
		out[i] = float64(i) * step
	}
	return out
}

// Parameters evaluates the model over the dod grid and returns the parameter
// table sorted ascending by SoC. The sort is explicit: an ascending dod grid
// maps to descending soc, and callers may pass grids in any order.
func Parameters(m Model, dod []float64) ([]ParamRow, error) {
	ocv, err := m.OCV(dod)
	if err != nil {
		return nil, err
	}
	rs, err := m.Rs(dod)
	if err != nil {
		return nil, err
	}
	rows := make([]ParamRow, len(dod))
	for i, x := range dod {
		rows[i] = ParamRow{SoC: 1 - x, OCV: ocv[i], Rs: rs[i]}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].SoC < rows[j].SoC })
	return rows, nil
}

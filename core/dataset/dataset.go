package dataset

import (
	"fmt"
	"sort"
	"strconv"
)

// Point is one raw measurement of a discharge curve: the progress variable in
// the source's own unit and the terminal voltage in volts.
type Point struct {
	X       float64
	Voltage float64
}

// Sample is one normalized measurement of the long-form table.
type Sample struct {
	Rate    float64 // discharge rate in C
	DoD     float64 // depth of discharge
	SoC     float64 // state of charge, 1 - DoD
	Voltage float64 // terminal voltage in V
	Current float64 // discharge current in A, Rate * nominal capacity
}

// Curve holds every sample recorded at one discharge rate, ordered by DoD
// ascending so interpolation over the curve is well defined.
type Curve struct {
	Rate    float64
	Samples []Sample
}

// Dataset owns the normalized discharge curves of one cell. It is read-only
// after Load except for the DoD window bounds, which the caller may change at
// any time; the restricted view is recomputed on every call so a bounds change
// takes effect on the next request. The bounds are not synchronized: guard
// them externally if one Dataset is shared across goroutines.
type Dataset struct {
	// DoDLower and DoDUpper bound the restricted view. Rows are kept only
	// when DoDLower < dod < DoDUpper; boundary samples are excluded.
	DoDLower float64
	DoDUpper float64

	nominalCapacityAh float64
	curves            []Curve
}

// Load normalizes the labeled raw curves into a Dataset. Labels carry the
// discharge rate in C (e.g. "0.5") and the progress column is interpreted
// according to conv. The window defaults to the full unit interval.
func Load(curves map[string][]Point, conv Convention, nominalCapacityAh float64) (*Dataset, error) {
	conv, err := ParseConvention(string(conv))
	if err != nil {
		return nil, err
	}
	if nominalCapacityAh <= 0 {
		return nil, fmt.Errorf("nominal capacity must be positive, got %g Ah", nominalCapacityAh)
	}

	labels := make([]string, 0, len(curves))
	for label := range curves {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	d := &Dataset{
		DoDLower:          0,
		DoDUpper:          1,
		nominalCapacityAh: nominalCapacityAh,
		curves:            make([]Curve, 0, len(labels)),
	}
	byRate := make(map[float64]int, len(labels))
	for _, label := range labels {
		points := curves[label]
		rate, err := strconv.ParseFloat(label, 64)
		if err != nil {
			return nil, MalformedSourceError{Label: label, Reason: "rate label is not a number"}
		}
		if len(points) < 2 {
			return nil, MalformedSourceError{
				Label:  label,
				Reason: fmt.Sprintf("%d samples, need at least 2 for interpolation", len(points)),
			}
		}
		curve := Curve{Rate: rate, Samples: make([]Sample, len(points))}
		for i, p := range points {
			dod, err := conv.toDoD(p.X, nominalCapacityAh)
			if err != nil {
				return nil, err
			}
			curve.Samples[i] = Sample{
				Rate:    rate,
				DoD:     dod,
				SoC:     1 - dod,
				Voltage: p.Voltage,
				Current: rate * nominalCapacityAh,
			}
		}
		// Labels like "1" and "1.0" parse to the same rate and describe the
		// same physical curve, so their samples merge into one curve. The
		// estimators rely on rates being distinct after load.
		if j, ok := byRate[rate]; ok {
			curve.Samples = append(d.curves[j].Samples, curve.Samples...)
		} else {
			byRate[rate] = len(d.curves)
			d.curves = append(d.curves, Curve{Rate: rate})
		}
		sort.Slice(curve.Samples, func(i, j int) bool {
			return curve.Samples[i].DoD < curve.Samples[j].DoD
		})
		d.curves[byRate[rate]].Samples = curve.Samples
	}
	sort.Slice(d.curves, func(i, j int) bool { return d.curves[i].Rate < d.curves[j].Rate })
	return d, nil
}

// NominalCapacityAh returns the rated cell capacity used for unit conversion.
func (d *Dataset) NominalCapacityAh() float64 { return d.nominalCapacityAh }

// Rates returns the distinct discharge rates in ascending order.
func (d *Dataset) Rates() []float64 {
	rates := make([]float64, 0, len(d.curves))
	for _, c := range d.curves {
		rates = append(rates, c.Rate)
	}
	return rates
}

// View returns the full normalized table, curves concatenated in rate order.
func (d *Dataset) View() []Sample {
	var out []Sample
	for _, c := range d.curves {
		out = append(out, c.Samples...)
	}
	return out
}

// RestrictedView returns the rows inside the DoD window. The bounds are
// strict, so samples sitting exactly on DoDLower or DoDUpper are dropped. An
// empty result is valid; the fitting methods detect degenerate windows.
func (d *Dataset) RestrictedView() []Sample {
	var out []Sample
	for _, c := range d.curves {
		for _, s := range c.Samples {
			if s.DoD > d.DoDLower && s.DoD < d.DoDUpper {
				out = append(out, s)
			}
		}
	}
	return out
}

// RestrictedCurve returns the samples of one rate's curve inside the DoD
// window, in DoD order. It returns nil for a rate not present in the dataset.
func (d *Dataset) RestrictedCurve(rate float64) []Sample {
	for _, c := range d.curves {
		if c.Rate != rate {
			continue
		}
		var out []Sample
		for _, s := range c.Samples {
			if s.DoD > d.DoDLower && s.DoD < d.DoDUpper {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

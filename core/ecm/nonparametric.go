package ecm

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/emarine/cellfit/core/dataset"
)

// NonParametric estimates OCV and series resistance pointwise. At each
// requested depth of discharge it interpolates every rate's curve to that
// point and fits a line to the resulting (current, voltage) pairs: under the
// circuit model v = OCV - Rs*I the intercept is the OCV and the slope is -Rs.
//
// Nothing is persisted between queries, so every call repeats the
// interpolation and regression. The dataset must outlive the model.
type NonParametric struct {
	data     *dataset.Dataset
	rates    []float64
	currents []float64
}

// NewNonParametric captures the dataset's distinct rates and currents. It
// fails with InsufficientRatesError when fewer than 2 distinct rates are
// present (curves loaded under equivalent labels count once), since a
// one-point line fit is unidentifiable.
func NewNonParametric(d *dataset.Dataset) (*NonParametric, error) {
	rates := d.Rates()
	if len(rates) < 2 {
		return nil, InsufficientRatesError{Rates: len(rates)}
	}
	currents := make([]float64, len(rates))
	for i, r := range rates {
		currents[i] = r * d.NominalCapacityAh()
	}
	return &NonParametric{data: d, rates: rates, currents: currents}, nil
}

// params runs the per-dod line fit and returns (ocv, rs).
func (m *NonParametric) params(dod float64) (float64, float64, error) {
	voltages := make([]float64, len(m.rates))
	for i, rate := range m.rates {
		curve := m.data.RestrictedCurve(rate)
		if len(curve) < 2 {
			return 0, 0, fmt.Errorf(
				"rate %gC: %d samples inside DoD window (%g, %g), need at least 2",
				rate, len(curve), m.data.DoDLower, m.data.DoDUpper)
		}
		voltages[i] = interpVoltage(curve, dod)
	}
	ocv, slope := stat.LinearRegression(m.currents, voltages, nil, false)
	return ocv, -slope, nil
}

// OCV implements Model.
func (m *NonParametric) OCV(dod []float64) ([]float64, error) {
	out := make([]float64, len(dod))
	for i, x := range dod {
		ocv, _, err := m.params(x)
		if err != nil {
			return nil, err
		}
		out[i] = ocv
	}
	return out, nil
}

// Rs implements Model.
func (m *NonParametric) Rs(dod []float64) ([]float64, error) {
	out := make([]float64, len(dod))
	for i, x := range dod {
		_, rs, err := m.params(x)
		if err != nil {
			return nil, err
		}
		out[i] = rs
	}
	return out, nil
}

// ModeledVoltage implements Model.
func (m *NonParametric) ModeledVoltage(dod []float64, rate float64) ([]float64, error) {
	current := rate * m.data.NominalCapacityAh()
	out := make([]float64, len(dod))
	for i, x := range dod {
		ocv, rs, err := m.params(x)
		if err != nil {
			return nil, err
		}
		out[i] = ocv - current*rs
	}
	return out, nil
}

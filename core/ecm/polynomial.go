package ecm

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/emarine/cellfit/core/dataset"
)

// PolynomialFit models the whole curve family with one global regression:
//
//	v = e0 + e1*dod + .. + eNe*dod^Ne - I*(r0 + r1*dod + .. + rNr*dod^Nr)
//
// Fitting solves an ordinary least-squares problem over the dataset's
// restricted view and keeps two coefficient vectors, one for the OCV
// polynomial and one for the resistance polynomial. Queries before Fit fail
// with ErrModelNotFit. Fit may be called again; a refit overwrites the
// previous coefficients.
type PolynomialFit struct {
	data *dataset.Dataset

	ne, nr int
	// alpha and beta are stored constant term first; evaluation runs Horner
	// from the highest degree down (see polyval).
	alpha []float64 // OCV coefficients, length Ne+1
	beta  []float64 // Rs coefficients, length Nr+1
}

// NewPolynomialFit returns an unfit model bound to d. The dataset must
// outlive the model.
func NewPolynomialFit(d *dataset.Dataset) *PolynomialFit {
	return &PolynomialFit{data: d}
}

// Fit performs the least-squares regression with OCV-polynomial degree ne and
// resistance-polynomial degree nr. The design matrix carries an intercept,
// the columns dod^1..dod^ne and the columns -I*dod^0..-I*dod^nr; note the OCV
// exponents start at 1 (the intercept is the constant OCV term) while the
// resistance exponents start at 0.
func (m *PolynomialFit) Fit(ne, nr int) error {
	if ne < 0 || nr < 0 {
		return fmt.Errorf("polynomial degrees must be non-negative, got Ne=%d Nr=%d", ne, nr)
	}
	rows := m.data.RestrictedView()
	cols := 1 + ne + nr + 1
	if len(rows) < cols {
		return InsufficientDataError{Rows: len(rows), Cols: cols}
	}

	x := mat.NewDense(len(rows), cols, nil)
	y := mat.NewVecDense(len(rows), nil)
	for i, s := range rows {
		x.Set(i, 0, 1)
		p := 1.0
		for j := 1; j <= ne; j++ {
			p *= s.DoD
			x.Set(i, j, p)
		}
		p = 1.0
		for j := 0; j <= nr; j++ {
			x.Set(i, 1+ne+j, -s.Current*p)
			p *= s.DoD
		}
		y.SetVec(i, s.Voltage)
	}

	var qr mat.QR
	qr.Factorize(x)
	var w mat.VecDense
	if err := qr.SolveVecTo(&w, false, y); err != nil {
		return fmt.Errorf("least squares solve: %w", err)
	}

	m.ne, m.nr = ne, nr
	m.alpha = make([]float64, ne+1)
	for i := range m.alpha {
		m.alpha[i] = w.AtVec(i)
	}
	m.beta = make([]float64, nr+1)
	for i := range m.beta {
		m.beta[i] = w.AtVec(1 + ne + i)
	}
	return nil
}

// Fitted reports whether Fit has completed at least once.
func (m *PolynomialFit) Fitted() bool { return m.alpha != nil }

// Degrees returns the hyperparameters of the last fit.
func (m *PolynomialFit) Degrees() (ne, nr int) { return m.ne, m.nr }

// OCVCoefficients returns the fitted OCV polynomial, constant term first.
func (m *PolynomialFit) OCVCoefficients() []float64 { return append([]float64(nil), m.alpha...) }

// RsCoefficients returns the fitted resistance polynomial, constant term first.
func (m *PolynomialFit) RsCoefficients() []float64 { return append([]float64(nil), m.beta...) }

// polyval evaluates a constant-term-first polynomial at x. Horner's scheme
// walks the coefficients from the highest degree down, which is where the
// order reversal of the storage convention happens.
func polyval(coeffs []float64, x float64) float64 {
	v := 0.0
	for i := len(coeffs) - 1; i >= 0; i-- {
		v = v*x + coeffs[i]
	}
	return v
}

func (m *PolynomialFit) eval(coeffs, dod []float64) ([]float64, error) {
	if !m.Fitted() {
		return nil, ErrModelNotFit
	}
	out := make([]float64, len(dod))
	for i, x := range dod {
		out[i] = polyval(coeffs, x)
	}
	return out, nil
}

// OCV implements Model. The polynomial is defined everywhere, so values
// outside [0,1] extrapolate; divergence near the boundaries is a known
// limitation of the global fit.
func (m *PolynomialFit) OCV(dod []float64) ([]float64, error) {
	return m.eval(m.alpha, dod)
}

// Rs implements Model.
func (m *PolynomialFit) Rs(dod []float64) ([]float64, error) {
	return m.eval(m.beta, dod)
}

// ModeledVoltage implements Model.
func (m *PolynomialFit) ModeledVoltage(dod []float64, rate float64) ([]float64, error) {
	if !m.Fitted() {
		return nil, ErrModelNotFit
	}
	current := rate * m.data.NominalCapacityAh()
	out := make([]float64, len(dod))
	for i, x := range dod {
		out[i] = polyval(m.alpha, x) - current*polyval(m.beta, x)
	}
	return out, nil
}

// RMSE measures the fit quality of any model as the root-mean-square residual
// of modeled vs measured voltage over the given samples.
func RMSE(m Model, samples []dataset.Sample) (float64, error) {
	if len(samples) == 0 {
		return 0, fmt.Errorf("no samples to score")
	}
	var sum float64
	for _, s := range samples {
		v, err := m.ModeledVoltage([]float64{s.DoD}, s.Rate)
		if err != nil {
			return 0, err
		}
		r := v[0] - s.Voltage
		sum += r * r
	}
	return math.Sqrt(sum / float64(len(samples))), nil
}

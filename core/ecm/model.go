// Package ecm extracts equivalent-circuit model parameters (open-circuit
// voltage and series resistance as functions of depth of discharge) from
// families of constant-current discharge curves.
package ecm

// Model is the capability contract shared by the fitting strategies. All
// methods are vectorized: they evaluate over an ordered sequence of depth of
// discharge values and return a sequence of equal length.
type Model interface {
	// OCV returns the open-circuit voltage at each dod.
	OCV(dod []float64) ([]float64, error)
	// Rs returns the series resistance at each dod.
	Rs(dod []float64) ([]float64, error)
	// ModeledVoltage returns the reconstructed terminal voltage at each dod
	// for the given discharge rate:
	//
	//	v = OCV(dod) - rate*nominalCapacity*Rs(dod)
	ModeledVoltage(dod []float64, rate float64) ([]float64, error)
}

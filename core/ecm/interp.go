package ecm

import (
	"sort"

	"github.com/emarine/cellfit/core/dataset"
)

// interpVoltage evaluates a curve's voltage at dod by piecewise-linear
// interpolation. Outside the observed DoD range the boundary segment is
// extended, so edge dod values still produce an answer. gonum's interp
// predictors clamp to the nearest endpoint instead, which would flatten the
// curve exactly where the boundary behavior matters, hence the local
// implementation. Samples must be ordered by DoD ascending and contain at
// least 2 entries.
func interpVoltage(samples []dataset.Sample, dod float64) float64 {
	n := len(samples)
	// Index of the first sample with DoD >= dod.
	i := sort.Search(n, func(k int) bool { return samples[k].DoD >= dod })
	switch {
	case i == 0:
		i = 1 // extend the first segment to the left
	case i == n:
		i = n - 1 // extend the last segment to the right
	}
	lo, hi := samples[i-1], samples[i]
	dx := hi.DoD - lo.DoD
	if dx == 0 {
		return lo.Voltage
	}
	return lo.Voltage + (dod-lo.DoD)*(hi.Voltage-lo.Voltage)/dx
}

package dataset

import "strings"

// Convention identifies the unit of the progress column in raw discharge
// curves. The dataset converts every convention to depth of discharge.
type Convention string

const (
	// ConventionDoD means the progress column is already depth of discharge.
	ConventionDoD Convention = "dod"
	// ConventionSoC means the progress column is state of charge.
	ConventionSoC Convention = "soc"
	// ConventionAh means the progress column is discharged capacity in Ah.
	ConventionAh Convention = "ah"
	// ConventionMAh means the progress column is discharged capacity in mAh.
	ConventionMAh Convention = "mah"
)

// ParseConvention maps a config string to a Convention. Matching is
// case-insensitive so "DoD" and "dod" are equivalent.
func ParseConvention(s string) (Convention, error) {
	c := Convention(strings.ToLower(strings.TrimSpace(s)))
	switch c {
	case ConventionDoD, ConventionSoC, ConventionAh, ConventionMAh:
		return c, nil
	}
	return "", InvalidConventionError{Convention: s}
}

// toDoD converts a raw progress value to depth of discharge.
func (c Convention) toDoD(x, nominalCapacityAh float64) (float64, error) {
	switch c {
	case ConventionDoD:
		return x, nil
	case ConventionSoC:
		return 1 - x, nil
	case ConventionAh:
		return x / nominalCapacityAh, nil
	case ConventionMAh:
		return x / (nominalCapacityAh * 1000), nil
	}
	return 0, InvalidConventionError{Convention: string(c)}
}

package dataset

import "fmt"

// InvalidConventionError reports an input convention outside the four
// recognized values.
type InvalidConventionError struct {
	Convention string
}

func (e InvalidConventionError) Error() string {
	return fmt.Sprintf("invalid input convention %q (want dod, soc, ah or mah)", e.Convention)
}

// MalformedSourceError reports a raw curve that cannot be normalized, keeping
// the offending label so misnamed spreadsheet sheets are diagnosable.
type MalformedSourceError struct {
	Label  string
	Reason string
}

func (e MalformedSourceError) Error() string {
	return fmt.Sprintf("curve %q: %s", e.Label, e.Reason)
}

package ecm

import (
	"errors"
	"fmt"
)

// ErrModelNotFit indicates a polynomial model was queried before Fit.
var ErrModelNotFit = errors.New("polynomial model queried before fit")

// InsufficientRatesError indicates the dataset does not carry enough distinct
// discharge rates for the voltage-vs-current line fit to be identifiable.
type InsufficientRatesError struct {
	Rates int
}

func (e InsufficientRatesError) Error() string {
	return fmt.Sprintf("need at least 2 distinct discharge rates, dataset has %d", e.Rates)
}

// InsufficientDataError indicates an underdetermined least-squares fit: fewer
// rows in the restricted view than columns in the design matrix.
type InsufficientDataError struct {
	Rows int
	Cols int
}

func (e InsufficientDataError) Error() string {
	return fmt.Sprintf("underdetermined fit: %d rows in restricted view, design matrix has %d columns", e.Rows, e.Cols)
}

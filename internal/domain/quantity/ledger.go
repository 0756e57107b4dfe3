// Package quantity validates stage quantities against the ceiling inherited
// from the previous lifecycle stage. It is pure: no state, no I/O.
package quantity

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Ceiling is the maximum permissible quantity for a transition, carried over
// from the quantity recorded at the prior stage.
type Ceiling struct {
	Stage string
	Value decimal.Decimal
}

// CeilingOf builds a ceiling named after the stage that recorded the value.
func CeilingOf(stage string, value decimal.Decimal) *Ceiling {
	return &Ceiling{Stage: stage, Value: value}
}

// Validate checks a proposed quantity for a transition. A candidate must be
// strictly positive; when a ceiling is present the bound is inclusive, so a
// candidate equal to the ceiling is valid.
func Validate(candidate decimal.Decimal, ceiling *Ceiling) error {
	if candidate.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("must be greater than 0")
	}

	if ceiling != nil && candidate.GreaterThan(ceiling.Value) {
		return fmt.Errorf("cannot exceed %s quantity", ceiling.Stage)
	}

	return nil
}

package models

import "fmt"

// DomainError reports input that lies outside the domain of a numeric
// operation, such as a zero ellipse axis or unpaired acquisition lists.
type DomainError struct {
	// Op names the operation that rejected the input
	Op string

	// Msg describes the offending input
	Msg string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: domain error: %s", e.Op, e.Msg)
}

// NumericWarning is a non-fatal condition raised while evaluating a map.
// Count is the number of affected pixels.
type NumericWarning struct {
	Op    string
	Msg   string
	Count int
}

func (w NumericWarning) String() string {
	return fmt.Sprintf("%s: %s (%d pixels)", w.Op, w.Msg, w.Count)
}

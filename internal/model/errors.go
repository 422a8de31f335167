package model

import "fmt"

// InvalidInputError reports a caller-supplied value outside its contract
// (probability out of [0,1], non-positive limit). It indicates a caller
// bug and is never retried.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

package normalize

import "fmt"

// ParameterOutOfRangeError reports a normaliser configuration value
// outside its valid range.
type ParameterOutOfRangeError struct {
	Parameter string
	Value     float64
}

func (e *ParameterOutOfRangeError) Error() string {
	return fmt.Sprintf("parameter %q out of range: %v", e.Parameter, e.Value)
}

// ShapeMismatchError reports that a track references a day index or cell
// outside the shape advertised by its AnomalySource (§7). This fails the
// whole run, the same as InvalidGrid or ParameterOutOfRange.
type ShapeMismatchError struct {
	Reason string
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("anomaly source shape mismatch: %s", e.Reason)
}

package labeller

import "fmt"

// ParameterOutOfRangeError reports a labeller configuration value outside
// its valid range (e.g. minpix < 1). Construction-time validation fails
// the whole run, per §7's propagation policy for configuration errors.
type ParameterOutOfRangeError struct {
	Parameter string
	Value     float64
}

func (e *ParameterOutOfRangeError) Error() string {
	return fmt.Sprintf("parameter %q out of range: %v", e.Parameter, e.Value)
}

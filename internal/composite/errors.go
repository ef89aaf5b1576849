package composite

import "fmt"

// UnknownMethodError reports an unrecognised composite_method value.
type UnknownMethodError struct {
	Method string
}

func (e *UnknownMethodError) Error() string {
	return fmt.Sprintf("unknown composite method %q", e.Method)
}

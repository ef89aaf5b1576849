package grid

import "fmt"

// InvalidGridError reports a structurally inconsistent grid descriptor:
// a non-positive face shape, or an adjacency naming a face that does not
// exist. Grid construction fails the whole run on this error; it is never
// raised once a Grid has been built successfully.
type InvalidGridError struct {
	Reason string
}

func (e *InvalidGridError) Error() string {
	return fmt.Sprintf("invalid grid: %s", e.Reason)
}

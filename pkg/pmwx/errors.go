package pmwx

import "fmt"

// ErrInvalidMap reports the first structural invariant a map violates.
type ErrInvalidMap struct {
	Reason string
}

func (e *ErrInvalidMap) Error() string {
	return fmt.Sprintf("invalid planar map: %s", e.Reason)
}

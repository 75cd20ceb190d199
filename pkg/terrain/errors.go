package terrain

import "fmt"

// ErrBadTriangle reports a triangle NewMesh cannot use.
type ErrBadTriangle struct {
	Index  int
	Reason string
}

func (e *ErrBadTriangle) Error() string {
	return fmt.Sprintf("triangle %d: %s", e.Index, e.Reason)
}

// ErrBadGrid reports grid dimensions NewGridMesh cannot use.
type ErrBadGrid struct {
	Cols, Rows int
}

func (e *ErrBadGrid) Error() string {
	return fmt.Sprintf("grid needs at least one cell each way, got %dx%d", e.Cols, e.Rows)
}

package quadtree

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyIndexed is returned when a value whose link is already filed is
	// inserted again, in this tree or another one sharing the link.
	ErrAlreadyIndexed = errors.New("quadtree: value is already indexed")

	// ErrNodeLimit is returned when an insert needs more nodes than
	// Options.MaxNodes allows.
	ErrNodeLimit = errors.New("quadtree: node limit reached")
)

// ErrCullViolation reports a node whose cull volume does not contain one of
// its children or items.
type ErrCullViolation struct {
	Node  int
	Child int // -1 when the violating part is a filed item
}

func (e *ErrCullViolation) Error() string {
	if e.Child < 0 {
		return fmt.Sprintf("quadtree: node %d cull does not contain a filed item", e.Node)
	}
	return fmt.Sprintf("quadtree: node %d cull does not contain child %d", e.Node, e.Child)
}

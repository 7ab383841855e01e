package routingalgorithm

import (
	"errors"
	"fmt"

	"lintang/blocknav/pkg/datastructure"
)

var (
	ErrSearchAborted  = errors.New("search aborted")
	ErrPatternMissing = errors.New("lddb has no table for block pattern")
)

// InvariantError means the parent pointers of a finished search are broken. it
// is a bug in the search, not a missing path.
type InvariantError struct {
	Reason string
	Node   datastructure.Node
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("search invariant violated at (%d, %d): %s", e.Node.Row, e.Node.Col, e.Reason)
}

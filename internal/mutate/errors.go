package mutate

import (
	"errors"
	"fmt"
)

// ErrNotFound matches every NotFoundError via errors.Is.
var ErrNotFound = errors.New("not found")

// NotFoundError reports a mutation whose target (or its parent) does not exist.
// The forest is left unchanged whenever it is returned.
type NotFoundError struct {
	Kind string
	ID   int64
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %d", e.Kind, e.ID)
}

func (e NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func itemNotFound(id int64) error {
	return NotFoundError{Kind: "item", ID: id}
}

func parentNotFound(id int64) error {
	return NotFoundError{Kind: "parent", ID: id}
}

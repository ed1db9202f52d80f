package items

import (
	"errors"
	"fmt"
)

// ErrNotFound is matched by every NotFoundError via errors.Is.
var ErrNotFound = errors.New("item not found")

// NotFoundError reports an operation against an id that does not exist.
// Both the stores and the Service raise this type.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("item with id %s not found", e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// InternalError wraps any unexpected failure. Error() never includes the cause,
// so the message is safe to show to clients; Unwrap keeps it for logging.
type InternalError struct {
	Op  string // e.g. "create item", "retrieve items"
	Err error
}

func (e *InternalError) Error() string {
	return "failed to " + e.Op
}

func (e *InternalError) Unwrap() error { return e.Err }

// IsNotFound reports whether err carries a NotFoundError, returning it.
func IsNotFound(err error) (*NotFoundError, bool) {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return nf, true
	}
	return nil, false
}

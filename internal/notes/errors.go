package notes

import "errors"

var (
	// ErrNotFound means no note has the requested identifier.
	ErrNotFound = errors.New("note not found")
	// ErrForbidden means the note exists but belongs to another user.
	ErrForbidden = errors.New("note belongs to another user")
)

// InternalError wraps an unexpected store failure. Its detail is for logs only.
type InternalError struct {
	Op  string
	Err error
}

func (e *InternalError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

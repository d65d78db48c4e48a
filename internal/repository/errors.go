package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// ErrNotFound reports that the addressed row no longer exists. It is a
// RemoteError variant: callers unwrap it through the same path as any
// other store failure.
var ErrNotFound = errors.New("record not found")

// ErrConflict reports that an insert collided with a uniqueness
// constraint, such as two concurrent registrations for the same email.
var ErrConflict = errors.New("record already exists")

// uniqueViolation is the Postgres error code for a unique constraint hit.
const uniqueViolation = "23505"

// RemoteError wraps a failure reported by the collection store. The cache
// is never touched when one of these surfaces.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

func remoteErr(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		err = ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		err = ErrConflict
	}
	return &RemoteError{Op: op, Err: err}
}

// IsNotFound reports whether err is the not-found RemoteError variant.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict reports whether err is the uniqueness-violation variant.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

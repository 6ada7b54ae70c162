package ledger

import (
	"errors"
	"fmt"
)

// ErrUsage means the command did not carry the expected number of
// pipe-delimited arguments.
var ErrUsage = errors.New("wrong number of arguments")

// ValidationKind names the field category that failed to parse.
type ValidationKind int

const (
	InvalidDate ValidationKind = iota + 1
	InvalidAmount
	InvalidNumber
)

func (k ValidationKind) String() string {
	switch k {
	case InvalidDate:
		return "invalid date"
	case InvalidAmount:
		return "invalid amount"
	case InvalidNumber:
		return "invalid number"
	default:
		return "invalid field"
	}
}

// ValidationError reports a field whose content could not be parsed.
type ValidationError struct {
	Kind  ValidationKind
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %q", e.Kind, e.Field, e.Value)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// PersistenceError reports a failed append. Written counts the rows of the
// same command that were already stored before the failure; they stay.
type PersistenceError struct {
	Table   string
	Written int
	Err     error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("append to %s failed after %d row(s): %v", e.Table, e.Written, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

package query

import (
	"errors"
)

// Outcome of a query. Results are only meaningful when the status is OK.
type Status int8

const (
	OK               Status = 0
	NOT_FOUND        Status = -1
	UNINITIALIZED    Status = -2
	INVALID_ARGUMENT Status = -3
)

var (
	ErrNotFound        = errors.New("not found")
	ErrUninitialized   = errors.New("query engine not initialized")
	ErrInvalidArgument = errors.New("invalid argument")
)

func (self Status) String() string {
	switch self {
	case OK:
		return "ok"
	case NOT_FOUND:
		return "not_found"
	case UNINITIALIZED:
		return "uninitialized"
	case INVALID_ARGUMENT:
		return "invalid_argument"
	default:
		return "unknown"
	}
}

func (self Status) IsOK() bool {
	return self == OK
}

// Returns the matching error or nil for OK.
func (self Status) Err() error {
	switch self {
	case OK:
		return nil
	case NOT_FOUND:
		return ErrNotFound
	case UNINITIALIZED:
		return ErrUninitialized
	default:
		return ErrInvalidArgument
	}
}

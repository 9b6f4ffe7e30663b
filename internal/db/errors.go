package db

import "errors"

// ErrKeyNotFound signals a missing key. Repositories translate it into
// their own domain sentinels.
var ErrKeyNotFound = errors.New("db: key not found")

// Op constants map to Redis command names for error context.
const (
	OpGet   = "GET"
	OpSet   = "SET"
	OpSetEx = "SET EX"
	OpSetNX = "SET NX"
	OpDel   = "DEL"
	OpScan  = "SCAN"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

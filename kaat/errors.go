package kaat

import (
	"errors"
	"fmt"
)

// Validation failures: reported immediately, nothing is written.
var (
	ErrNoSelection    = errors.New("no consignments selected")
	ErrNoCarrier      = errors.New("no carrier resolvable for selection")
	ErrAlreadySettled = errors.New("consignments already settled for this challan")
)

// ErrNoRate marks a resolution miss: a consignment with neither a negotiated
// rate for its destination nor a manual entry. Never fatal; the row is flagged
// and contributes zero to aggregates.
var ErrNoRate = errors.New("no rate for destination")

// PersistError wraps a store rejection (network, constraint violation).
type PersistError struct {
	Op  string
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Op, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

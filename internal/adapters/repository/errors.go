package repository

import "errors"

// Sentinel kinds for ledger errors.
var (
	ErrInvalidAssignment = errors.New("invalid assignment")
	ErrInvalidSeed       = errors.New("invalid ledger seed entry")
	ErrInvalidLimit      = errors.New("invalid workload limit")
)

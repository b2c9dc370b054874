package model

import "errors"

// Sentinel errors for domain model validation.
var (
	ErrEmptyID             = errors.New("empty identifier")
	ErrNoSkills            = errors.New("person has no skills")
	ErrNegativeHours       = errors.New("negative hours")
	ErrUnknownAvailability = errors.New("unknown availability category")
	ErrUnknownSeverity     = errors.New("unknown severity level")
	ErrInvalidWindow       = errors.New("assignment end precedes start")
)

package training

import "errors"

// Sentinel errors returned by Train.
var (
	ErrInsufficientPairs = errors.New("insufficient labelled pairs")
	ErrSingleClass       = errors.New("training pairs carry a single label")
)

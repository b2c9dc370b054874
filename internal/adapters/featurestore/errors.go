package featurestore

import "errors"

// Sentinel errors for dataset loading.
var (
	ErrOpenDataset      = errors.New("open dataset")
	ErrMalformedDataset = errors.New("malformed dataset")
	ErrNoPeople         = errors.New("people dataset is empty")
)

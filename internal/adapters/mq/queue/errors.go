package queue

import "errors"

// Sentinel errors returned by Enqueue.
var (
	ErrQueueFull   = errors.New("commit queue full")
	ErrQueueClosed = errors.New("commit queue closed")
)

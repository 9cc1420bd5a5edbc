package engine

import "errors"

// Engine errors.
var (
	// ErrNotFound is returned when a client or a client's year is absent from the dataset.
	ErrNotFound = errors.New("client or year not found")

	// ErrNilDataset is returned when an engine is constructed without a dataset.
	ErrNilDataset = errors.New("dataset cannot be nil")
)

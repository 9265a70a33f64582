package ref

import "errors"

var (
	// ErrUnbound is returned by operations on an array with no bound region.
	ErrUnbound = errors.New("ref: array is not bound to a region")

	// ErrMalformed is returned when region text does not follow the layout.
	ErrMalformed = errors.New("ref: malformed region")
)

package sim

import "errors"

// Domain errors for driver operations.
var (
	// ErrInvalidState indicates the body state became NaN or Inf.
	ErrInvalidState = errors.New("sim: invalid state (NaN or Inf detected)")

	// ErrNoBody indicates a driver constructed without a body.
	ErrNoBody = errors.New("sim: driver has no body")
)

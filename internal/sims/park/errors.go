package park

import "errors"

var (
	// ErrConfiguration marks setup-time problems: zero distance weight,
	// unknown metric or park, more spawns than entrances, malformed layouts.
	ErrConfiguration = errors.New("configuration error")
	// ErrOutOfBounds is returned for coordinates outside the terrain grid.
	ErrOutOfBounds = errors.New("coordinate out of bounds")
)

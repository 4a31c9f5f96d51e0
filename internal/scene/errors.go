package scene

import "errors"

// ErrInvalidBounds indicates a non-positive or non-finite width or height.
var ErrInvalidBounds = errors.New("scene: invalid bounds")

package painting

import "errors"

var (
	ErrMissingFields = errors.New("missing required fields")
	ErrInvalidPrice  = errors.New("invalid price")
	ErrImageStore    = errors.New("failed to store image")
)

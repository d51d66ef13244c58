package recipes

import "errors"

var (
	ErrNotFound     = errors.New("recipe not found")
	ErrInvalidInput = errors.New("invalid recipe input")
)

// MaxPageSize is the largest page a query may request.
const MaxPageSize = 100

package monday

import "errors"

var (
	ErrDisabled = errors.New("board sync not configured")
	ErrNotFound = errors.New("board item not found")
)

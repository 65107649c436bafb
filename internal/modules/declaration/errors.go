package declaration

import "errors"

var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("declaration not found")
	ErrUploadFailed = errors.New("media upload failed")
)

package provider

import "errors"

var ErrNotFound = errors.New("provider not found")

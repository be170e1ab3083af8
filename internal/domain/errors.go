package domain

import "errors"

// ErrNotFound reports a lookup for a record the platform does not have.
var ErrNotFound = errors.New("not found")

package repositories

import "errors"

// ErrNotFound is wrapped by every repository lookup that matches no record.
var ErrNotFound = errors.New("not found")

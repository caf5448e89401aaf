package repository

import "errors"

// ErrDuplicateKey is returned by repositories when an insert or update hits a
// unique constraint.
var ErrDuplicateKey = errors.New("duplicate key")

package repository

import "errors"

// ErrNotFound is returned by every repository when the requested row does
// not exist. Services branch on it to distinguish not-found from upstream
// failures.
var ErrNotFound = errors.New("record not found")

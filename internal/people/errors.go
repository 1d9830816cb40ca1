package people

import "errors"

var (
	ErrPersonNotFound = errors.New("person not found in store")
	ErrReadOnly       = errors.New("store is read-only")
)

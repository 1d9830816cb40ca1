package medical

import "errors"

var (
	ErrRecordNotFound = errors.New("medical record not found in store")
	ErrReadOnly       = errors.New("store is read-only")
)

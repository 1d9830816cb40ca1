package stations

import "errors"

var (
	ErrStationNotFound = errors.New("fire station mapping not found in store")
	ErrReadOnly        = errors.New("store is read-only")
)

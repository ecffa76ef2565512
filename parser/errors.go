package parser

import (
	"errors"
)

var (
	// missing, empty or unreadable map resource
	ErrResource = errors.New("map resource unavailable")
	// unrecognized map format
	ErrFormat = errors.New("unknown map format")
	// reader failed to open or enumerate the map
	ErrConnect = errors.New("map reader failed")
)

package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrNotLoaded     = errors.New("survey snapshot not loaded")
	ErrInvalidSource = errors.New("invalid survey source")
	ErrLoad          = errors.New("survey load failed")
)

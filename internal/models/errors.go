package models

import "errors"

// The two failure kinds of the catalog and the calculator. Both are local and
// recoverable; callers branch on them with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

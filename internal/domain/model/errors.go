package model

import "errors"

// Sentinel kinds for model errors.
var (
	ErrUnknownGender = errors.New("unknown gender")
)

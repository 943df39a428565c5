package render

import "errors"

// Sentinel kinds for render errors.
var (
	ErrUnsupportedFigure = errors.New("figure cannot be rendered as an image")
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrEmptyFigure       = errors.New("figure has no data")
)

package dataset

import "errors"

// Sentinel kinds for dataset loading errors. All of them are fatal at startup.
var (
	ErrMissingColumn = errors.New("missing required column")
	ErrMalformedRow  = errors.New("malformed row")
	ErrEmptyDataset  = errors.New("empty dataset")
	ErrFetch         = errors.New("dataset fetch failed")
)

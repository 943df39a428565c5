package config

import "errors"

var (
	// ErrInvalidConfig means a loaded value cannot run the dashboard.
	ErrInvalidConfig = errors.New("invalid dashboard config")
	// ErrLoadConfig means the YAML file or the GAP_ environment could not be read.
	ErrLoadConfig = errors.New("read dashboard config")
	// ErrDecodeConfig means a value has the wrong type for its key.
	ErrDecodeConfig = errors.New("decode dashboard config")
)

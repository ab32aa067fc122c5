package config

import "errors"

var (
	// ErrNilPointer indicates a nil configuration pointer was passed to Load.
	ErrNilPointer = errors.New("config: nil pointer provided")

	// ErrParsingConfig indicates environment variables could not be parsed
	// into the configuration struct.
	ErrParsingConfig = errors.New("config: failed to parse environment variables")
)

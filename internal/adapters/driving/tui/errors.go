package tui

import "errors"

// ErrMissingSession is returned when the learning session is not provided.
var ErrMissingSession = errors.New("tui: learning session is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")

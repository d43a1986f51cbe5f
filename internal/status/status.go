// Package status holds the closed set of errors shared by all panel packages.
package status

import "errors"

// Errors
var (
	ErrInvalidParam = errors.New("panel: invalid parameter")
	ErrAllocFailed  = errors.New("panel: allocation failed")
	ErrNotSupported = errors.New("panel: not supported")
	ErrTransport    = errors.New("panel: transport error")
)

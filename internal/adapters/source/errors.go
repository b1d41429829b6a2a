package source

import "errors"

// Sentinel kinds for fetch errors.
var (
	ErrInvalidRequest = errors.New("invalid fetch request")
	ErrTransport      = errors.New("fetch transport failed")
	ErrUpstreamStatus = errors.New("upstream returned non-success status")
	ErrDecode         = errors.New("decode upstream body failed")
)

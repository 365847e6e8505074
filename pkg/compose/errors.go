package compose

import "errors"

var (
	// ErrConfiguration marks failures the caller cannot fix by changing the
	// request: missing or unreadable base manifests, bad storage settings.
	ErrConfiguration = errors.New("compose: configuration error")
	// ErrInvalidRequest marks malformed requests and unknown or inactive features.
	ErrInvalidRequest = errors.New("compose: invalid request")
	// ErrEncodingFailed is returned when the assembled manifest cannot be encoded.
	ErrEncodingFailed = errors.New("compose: failed to encode manifest")
	// ErrCacheMiss is returned by Cache implementations for unknown keys.
	ErrCacheMiss = errors.New("compose: cache miss")
)

package redis

import "errors"

var (
	ErrEmptyConnectionURL           = errors.New("empty redis connection URL")
	ErrFailedToParseRedisConnString = errors.New("failed to parse redis connection string")
	ErrRedisNotReady                = errors.New("redis is not ready")
	ErrHealthcheckFailed            = errors.New("redis healthcheck failed")
)

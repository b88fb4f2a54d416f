package redis

import "errors"

var (
	ErrFailedToParseRedisConnString = errors.New("redis: failed to parse connection string")
	ErrRedisNotReady                = errors.New("redis: not ready within the connect timeout")
	ErrEmptyConnectionURL           = errors.New("redis: empty connection URL")
	ErrHealthcheckFailed            = errors.New("redis: healthcheck failed")
	// ErrCommandFailed wraps every error returned by a Storage operation.
	ErrCommandFailed = errors.New("redis: command failed")
	ErrEmptyPrefix   = errors.New("redis: refusing to delete with empty prefix")
)

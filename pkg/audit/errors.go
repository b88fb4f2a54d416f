package audit

import "errors"

var (
	// ErrStorageNotAvailable indicates the storage backend is unavailable
	ErrStorageNotAvailable = errors.New("audit: storage backend is unavailable")

	// ErrEventValidation indicates event validation failed
	ErrEventValidation = errors.New("audit: event validation failed")

	// ErrBufferFull indicates the async buffer is full and the event was dropped
	ErrBufferFull = errors.New("audit: async buffer is full")

	// ErrLoggerClosed indicates the async logger no longer accepts events
	ErrLoggerClosed = errors.New("audit: logger is closed")
)

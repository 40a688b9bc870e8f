package repositories

import "errors"

var (
	ErrNotFound = errors.New("[repository]: record not found")
	ErrDecode   = errors.New("[repository]: malformed document")
	ErrUnknown  = errors.New("[repository]: unknown error")
)

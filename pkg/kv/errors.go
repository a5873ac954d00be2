package kv

import "errors"

var (
	ErrKeyNotFound = errors.New("kv: key not found")
	ErrEmptyKey    = errors.New("kv: key must not be empty")

	ErrFailedToParseRedisURL = errors.New("kv: failed to parse redis connection string")
	ErrRedisNotReady         = errors.New("kv: redis connection not established")
)

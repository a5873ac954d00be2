package oracle

import "errors"

var (
	ErrAPIKeyRequired    = errors.New("oracle: API key is required")
	ErrEmptyQuestion     = errors.New("oracle: question is empty")
	ErrEmptyAnswer       = errors.New("oracle: no answer returned")
	ErrRequestFailed     = errors.New("oracle: request failed")
	ErrRateLimitExceeded = errors.New("oracle: rate limit exceeded")
)

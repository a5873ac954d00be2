package meallog

import "errors"

var (
	ErrEntryNotFound          = errors.New("meallog: entry not found")
	ErrInvalidPortion         = errors.New("meallog: portion must be positive")
	ErrFailedToConnectToMongo = errors.New("meallog: failed to connect to mongo")
	ErrStoreFailure           = errors.New("meallog: store operation failed")
)

package quota

import "errors"

var (
	ErrFailedToLoadState    = errors.New("quota: failed to load persisted state")
	ErrFailedToPersistState = errors.New("quota: failed to persist state")
)

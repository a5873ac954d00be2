package foodcatalog

import "errors"

var (
	ErrInvalidCategory          = errors.New("foodcatalog: invalid oxalate category")
	ErrFailedToLoadCatalog      = errors.New("foodcatalog: failed to load catalog")
	ErrFailedToParseDBConfig    = errors.New("foodcatalog: failed to parse db config")
	ErrFailedToOpenDBConnection = errors.New("foodcatalog: failed to open db connection")
	ErrFailedToApplyMigrations  = errors.New("foodcatalog: failed to apply migrations")
)

package promptlane

import "github.com/pkg/errors"

var (
	// ErrConfiguration is returned when required configuration for the
	// selected connection mode is missing.
	ErrConfiguration = errors.New("invalid client configuration")

	// ErrNoConnection is returned when a resource is constructed with
	// neither a database nor an API connection.
	ErrNoConnection = errors.New("at least one of database or api connection must be provided")

	// ErrAPIConnectionRequired is returned when a write-through
	// operation is invoked without an API connection.
	ErrAPIConnectionRequired = errors.New("api connection required")
)

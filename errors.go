package wmi

import "errors"

var (
	// ErrNilProvider is returned by New when no provider is given.
	ErrNilProvider = errors.New("provider cannot be nil")

	// ErrConnect is returned for every failure while creating a session. It
	// is joined with the sentinel of the failing phase.
	ErrConnect = errors.New("failed to connect to management service")

	// ErrInitialize marks a failure to initialize the provider runtime.
	ErrInitialize = errors.New("failed to initialize runtime")

	// ErrLocate marks a failure to create the namespace locator.
	ErrLocate = errors.New("failed to create locator")

	// ErrServer marks a failure to open the namespace connection.
	ErrServer = errors.New("failed to connect to namespace")

	// ErrSecurity marks a failure to negotiate call security.
	ErrSecurity = errors.New("failed to set call security")

	// ErrInvalidQuery indicates an empty query.
	ErrInvalidQuery = errors.New("query is invalid")

	// ErrQuery is returned when the service rejects a query or its results
	// cannot be fetched.
	ErrQuery = errors.New("failed to execute query")

	// ErrFetch marks a cursor failure while draining results. Only returned
	// when Config.StrictCursor is set.
	ErrFetch = errors.New("failed to fetch query results")

	// ErrSessionClosed is returned when a closed handle is used.
	ErrSessionClosed = errors.New("session is closed")

	// ErrOutOfRange is returned by ResultSet.At for indexes past the end.
	ErrOutOfRange = errors.New("index out of range")
)

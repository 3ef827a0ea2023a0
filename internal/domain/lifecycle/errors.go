package lifecycle

import "errors"

// ErrTornDown is returned by adapter operations invoked after destroy() has
// already run for that instance. Adapters should wrap their own
// connection-closed sentinels (e.g. whatsmeow.ErrNotConnected) with this so
// the controller can treat them uniformly instead of pattern-matching driver
// errors.
var ErrTornDown = errors.New("lifecycle: adapter torn down")

// ErrNotFound is returned by the registry when an instance has no
// SessionState.
var ErrNotFound = errors.New("lifecycle: session state not found")

// ErrReconnectInFlight is returned when a second reconnect is requested for
// an instance that already has one running (spec §8 invariant 2).
var ErrReconnectInFlight = errors.New("lifecycle: reconnect already in flight")

// ErrShuttingDown is returned by operations rejected because the shutdown
// coordinator has already begun draining.
var ErrShuttingDown = errors.New("lifecycle: engine shutting down")

package messenger

import "errors"

var (
	// ErrNilReceiver is returned when a nil receiver is passed to Register or Unregister.
	ErrNilReceiver = errors.New("messenger: nil receiver")

	// ErrUnsupportedReceiver is returned when a receiver is not a pointer, or
	// points to a value that cannot be tracked by identity: zero-sized values,
	// and pointer-free values smaller than 16 bytes, which the runtime may
	// pack together with other allocations.
	ErrUnsupportedReceiver = errors.New("messenger: receiver must be a pointer to a value of at least 16 bytes or one containing pointers")

	// ErrSweeperAlreadyStarted is returned when attempting to start a sweeper that is already running.
	ErrSweeperAlreadyStarted = errors.New("messenger: sweeper already started")

	// ErrSweeperNotStarted is returned when attempting to stop a sweeper that is not running.
	ErrSweeperNotStarted = errors.New("messenger: sweeper not started")

	// ErrInvalidSweepInterval is returned when a sweeper is started without a positive interval.
	ErrInvalidSweepInterval = errors.New("messenger: sweep interval must be positive")
)

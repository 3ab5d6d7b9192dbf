// Package session provides the public SDK for running DataSHIELD commands
// against several data repositories at once.
package session

import (
	"github.com/datashield/datashield-go/internal/logins"
	internal "github.com/datashield/datashield-go/internal/session"
)

// Session opens connections to a set of servers and fans commands out to
// them, gathering the per server errors.
type Session = internal.Session

// Option tunes a Session.
type Option = internal.Option

// Observer is notified of the connection and error events of a Session.
type Observer = internal.Observer

// LogObserver reports Session events with logrus.
type LogObserver = internal.LogObserver

// NopObserver ignores every Session event.
type NopObserver = internal.NopObserver

// BatchError lists the servers that failed during a batch command.
type BatchError = internal.BatchError

// DriverLookup resolves a driver identifier.
type DriverLookup = internal.DriverLookup

// LoginBuilder collects and validates server login details.
type LoginBuilder = logins.Builder

const (
	DefaultPollInterval = internal.DefaultPollInterval
	DefaultStartTimeout = internal.DefaultStartTimeout
)

var (
	ErrAlreadyOpen    = internal.ErrAlreadyOpen
	ErrNotOpen        = internal.ErrNotOpen
	ErrNoConnection   = internal.ErrNoConnection
	ErrSessionTimeout = internal.ErrSessionTimeout
	ErrResultTimeout  = internal.ErrResultTimeout
	ErrBatchFailed    = internal.ErrBatchFailed
)

var (
	// New creates a closed Session over the given logins.
	New = internal.New

	// NewLoginBuilder returns an empty login registry.
	NewLoginBuilder = logins.NewBuilder

	NewLogObserver    = internal.NewLogObserver
	WithPollInterval  = internal.WithPollInterval
	WithStartTimeout  = internal.WithStartTimeout
	WithResultTimeout = internal.WithResultTimeout
	WithObserver      = internal.WithObserver
	WithDriverLookup  = internal.WithDriverLookup
)

package session

import (
	"time"

	"github.com/datashield/datashield-go/internal/models"
)

const (
	DefaultPollInterval = 100 * time.Millisecond
	DefaultStartTimeout = 300 * time.Second
)

// DriverLookup resolves a driver identifier.
type DriverLookup func(name string) (models.Driver, error)

type Option func(*Session)

// WithPollInterval sets the delay between two polling passes.
func WithPollInterval(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.pollInterval = d
		}
	}
}

// WithStartTimeout bounds the wait for R sessions to start.
func WithStartTimeout(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.startTimeout = d
		}
	}
}

// WithResultTimeout bounds the wait for command results. Zero waits
// until every result is resolved.
func WithResultTimeout(d time.Duration) Option {
	return func(s *Session) {
		if d >= 0 {
			s.resultTimeout = d
		}
	}
}

func WithObserver(observer Observer) Option {
	return func(s *Session) {
		if observer != nil {
			s.observer = observer
		}
	}
}

// WithDriverLookup replaces the driver registry lookup.
func WithDriverLookup(lookup DriverLookup) Option {
	return func(s *Session) {
		if lookup != nil {
			s.lookup = lookup
		}
	}
}

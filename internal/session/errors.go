package session

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

var (
	ErrAlreadyOpen    = errors.New("session is already open, close it first")
	ErrNotOpen        = errors.New("session is not open")
	ErrNoConnection   = errors.New("no connection available")
	ErrSessionTimeout = errors.New("timed out waiting for R sessions to start")
	ErrResultTimeout  = errors.New("timed out waiting for result")
	ErrBatchFailed    = errors.New("there are some errors")
)

// BatchError is returned when at least one server failed during a batch
// command. The per server errors are read with Session.Errors.
type BatchError struct {
	Servers []string
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("There are some errors, please check them with Session.Errors() (servers: %s)",
		strings.Join(e.Servers, ", "))
}

func (e *BatchError) Unwrap() error {
	return ErrBatchFailed
}

func (s *Session) initErrors() {
	s.errors = make(map[string]error)
}

func (s *Session) appendError(server string, err error) {
	s.observer.ErrorRecorded(server, err)
	s.errors[server] = err
}

func (s *Session) checkErrors() error {
	if len(s.errors) == 0 {
		return nil
	}
	return &BatchError{Servers: slices.Sorted(maps.Keys(s.errors))}
}

// HasErrors reports whether the last command produced errors.
func (s *Session) HasErrors() bool {
	return len(s.errors) > 0
}

// Errors returns the last command errors, per server name.
func (s *Session) Errors() map[string]error {
	return maps.Clone(s.errors)
}

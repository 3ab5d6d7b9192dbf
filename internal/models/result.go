package models

import "context"

// Result describes the state of an aggregation or assignment request.
type Result interface {
	// IsCompleted must not wait: it reports whether the request finished,
	// successfully or not. A driver that cannot tell because the check
	// itself failed should report true so that Fetch surfaces the error.
	IsCompleted(ctx context.Context) bool

	// Fetch returns the raw value. For asynchronous requests this is a
	// one-shot call; synchronous results may be fetched any number of times.
	Fetch(ctx context.Context) (any, error)
}

// RemoteSession is the server side R session proxy.
type RemoteSession interface {
	IsStarted() bool
	IsReady() bool
	IsPending() bool
	IsFailed() bool
	IsTerminated() bool
	LastMessage() string
}

// SessionState enumerates the remote session lifecycle.
type SessionState string

const (
	SessionNotStarted SessionState = "not_started"
	SessionPending    SessionState = "pending"
	SessionStarted    SessionState = "started"
	SessionFailed     SessionState = "failed"
	SessionTerminated SessionState = "terminated"
)

// SessionStatus is a RemoteSession backed by a plain state value.
type SessionStatus struct {
	State   SessionState `json:"state"`
	Message string       `json:"message,omitempty"`
}

func (s *SessionStatus) IsStarted() bool    { return s.State == SessionStarted }
func (s *SessionStatus) IsReady() bool      { return s.State == SessionStarted }
func (s *SessionStatus) IsPending() bool    { return s.State == SessionPending }
func (s *SessionStatus) IsFailed() bool     { return s.State == SessionFailed }
func (s *SessionStatus) IsTerminated() bool { return s.State == SessionTerminated }
func (s *SessionStatus) LastMessage() string {
	return s.Message
}

// ValueResult wraps the value of a request that completed synchronously.
// It may be fetched repeatedly.
type ValueResult struct {
	Value any
	Err   error
}

func (r *ValueResult) IsCompleted(ctx context.Context) bool {
	return true
}

func (r *ValueResult) Fetch(ctx context.Context) (any, error) {
	return r.Value, r.Err
}

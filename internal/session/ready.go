package session

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/datashield/datashield-go/internal/models"
)

// EnsureSessions makes sure every connection has a started R session.
// Sessions are started asynchronously then polled until all of them are
// started or StartTimeout elapses. A connection whose session cannot be
// started or checked is excluded: it is dropped from the session for
// good, and the command goes on with the others. Timing out, or ending
// up with no connection at all, is an error.
func (s *Session) EnsureSessions(ctx context.Context) (map[string]models.RemoteSession, error) {
	s.initErrors()

	if err := s.requireOpen(); err != nil {
		return nil, err
	}
	if len(s.conns) == 0 {
		return nil, ErrNoConnection
	}

	excluded := make(map[string]error)
	exclude := func(conn models.Connection, err error) {
		s.observer.SessionExcluded(conn.Name(), err)
		excluded[conn.Name()] = err
	}

	for _, conn := range s.conns {
		if conn.HasSession() {
			continue
		}
		if _, err := conn.StartSession(ctx, true); err != nil {
			exclude(conn, err)
		}
	}

	started := make(map[string]bool)
	poll := func() {
		for _, conn := range s.conns {
			name := conn.Name()
			if _, ok := excluded[name]; ok || started[name] {
				continue
			}
			ok, err := checkSession(ctx, conn)
			if err != nil {
				exclude(conn, err)
			} else if ok {
				started[name] = true
			}
		}
	}

	poll()

	waitCtx, cancel := context.WithTimeout(ctx, s.startTimeout)
	defer cancel()

	for len(started) < len(s.conns)-len(excluded) {
		if err := s.pause(waitCtx); err != nil {
			s.drop(ctx, excluded)
			if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
				return nil, fmt.Errorf("%w after %s: %v", ErrSessionTimeout, s.startTimeout, s.pendingNames(started))
			}
			return nil, err
		}
		poll()
	}

	s.drop(ctx, excluded)

	if len(s.conns) == 0 {
		return nil, ErrNoConnection
	}

	sessions := make(map[string]models.RemoteSession, len(s.conns))
	for _, conn := range s.conns {
		sessions[conn.Name()] = conn.Session()
	}

	s.observer.SessionsReady(slices.Sorted(maps.Keys(sessions)))

	return sessions, nil
}

// checkSession polls the R session once. A session that ended up failed
// or terminated will never start and is reported as an error.
func checkSession(ctx context.Context, conn models.Connection) (bool, error) {
	ok, err := conn.IsSessionStarted(ctx)
	if err != nil || ok {
		return ok, err
	}

	remote := conn.Session()
	if remote == nil {
		return false, nil
	}
	if remote.IsFailed() {
		return false, fmt.Errorf("R session failed: %s", remote.LastMessage())
	}
	if remote.IsTerminated() {
		return false, fmt.Errorf("R session terminated: %s", remote.LastMessage())
	}
	return false, nil
}

func (s *Session) pendingNames(started map[string]bool) []string {
	var names []string
	for _, conn := range s.conns {
		if !started[conn.Name()] {
			names = append(names, conn.Name())
		}
	}
	return names
}

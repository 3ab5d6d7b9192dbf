package session

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/datashield/datashield-go/internal/drivers"
	"github.com/datashield/datashield-go/internal/models"
)

// Session opens connections to a set of DataSHIELD servers and runs
// commands on all of them. Commands are issued from the calling
// goroutine only; a Session is not safe for concurrent use.
type Session struct {
	id     uuid.UUID
	logins []models.LoginInfo
	conns  []models.Connection
	errors map[string]error
	opened bool

	pollInterval  time.Duration
	startTimeout  time.Duration
	resultTimeout time.Duration
	observer      Observer
	lookup        DriverLookup
}

// New creates a session for the given logins. Connections are not opened.
func New(logins []models.LoginInfo, opts ...Option) *Session {
	s := &Session{
		id:           uuid.New(),
		logins:       slices.Clone(logins),
		errors:       make(map[string]error),
		pollInterval: DefaultPollInterval,
		startTimeout: DefaultStartTimeout,
		lookup:       drivers.Get,
	}
	s.observer = NewLogObserver(logrus.Fields{"session": s.id.String()})
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) ID() uuid.UUID {
	return s.id
}

// Open connects to every server, in login order. The restore workspace,
// when given, is handed to the drivers. Without failSafe the first
// failure closes the connections opened so far and is returned; with
// failSafe the failure is recorded under the server name and the server
// is left out.
func (s *Session) Open(ctx context.Context, restore string, failSafe bool) error {
	if s.opened {
		return ErrAlreadyOpen
	}

	s.conns = make([]models.Connection, 0, len(s.logins))
	s.initErrors()
	s.opened = true

	for _, info := range s.logins {
		conn, err := s.connect(ctx, info, restore)
		if err != nil {
			if !failSafe {
				s.Close(ctx, "")
				return fmt.Errorf("failed to open connection to %s: %w", info.Name, err)
			}
			s.errors[info.Name] = err
			continue
		}
		s.observer.ConnectionOpened(info.Name)
		s.conns = append(s.conns, conn)
	}

	for _, name := range slices.Sorted(maps.Keys(s.errors)) {
		s.observer.ConnectionFailed(name, s.errors[name])
	}

	return nil
}

func (s *Session) connect(ctx context.Context, info models.LoginInfo, restore string) (models.Connection, error) {
	driver, err := s.lookup(info.Driver)
	if err != nil {
		return nil, err
	}
	return driver.NewConnection(ctx, info, restore)
}

// Close disconnects from every server, after saving the R session in the
// workspace "{server}:{save}" when save is not empty. Data repository
// errors are ignored; any other error is returned once every connection
// has been closed. The session can be opened again afterwards.
func (s *Session) Close(ctx context.Context, save string) error {
	s.initErrors()

	var errs []error
	for _, conn := range s.conns {
		if len(save) > 0 {
			if err := conn.SaveWorkspace(ctx, workspaceName(conn, save)); err != nil {
				errs = append(errs, s.disconnectFailed(conn.Name(), err))
			}
		}
		if err := conn.Disconnect(ctx); err != nil {
			errs = append(errs, s.disconnectFailed(conn.Name(), err))
		}
	}

	s.conns = nil
	s.opened = false

	return errors.Join(errs...)
}

// disconnectFailed reports err and returns it when it is not a data
// repository error.
func (s *Session) disconnectFailed(server string, err error) error {
	s.observer.DisconnectFailed(server, err)
	if models.IsDSError(err) {
		return nil
	}
	return fmt.Errorf("%s: %w", server, err)
}

func (s *Session) IsOpen() bool {
	return s.opened
}

// HasConnections reports whether some connections are open.
func (s *Session) HasConnections() bool {
	return len(s.conns) > 0
}

// ConnectionNames returns the names of the open connections, nil when
// there are none.
func (s *Session) ConnectionNames() []string {
	if len(s.conns) == 0 {
		return nil
	}
	names := make([]string, 0, len(s.conns))
	for _, conn := range s.conns {
		names = append(names, conn.Name())
	}
	return names
}

func (s *Session) requireOpen() error {
	if !s.opened {
		return ErrNotOpen
	}
	return nil
}

// drop permanently removes connections from the live set. They are
// disconnected, errors ignored.
func (s *Session) drop(ctx context.Context, names map[string]error) {
	if len(names) == 0 {
		return
	}
	s.conns = slices.DeleteFunc(s.conns, func(conn models.Connection) bool {
		if _, ok := names[conn.Name()]; !ok {
			return false
		}
		if err := conn.Disconnect(ctx); err != nil {
			s.observer.DisconnectFailed(conn.Name(), err)
		}
		return true
	})
}

func workspaceName(conn models.Connection, name string) string {
	return fmt.Sprintf("%s:%s", conn.Name(), name)
}

// pause waits for the poll interval, or until ctx is done.
func (s *Session) pause(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.pollInterval):
		return nil
	}
}

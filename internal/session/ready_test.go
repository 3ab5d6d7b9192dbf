package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datashield/datashield-go/internal/models"
)

func TestEnsureSessions_AllStart(t *testing.T) {
	servers := newServers(3)
	servers[1].StartPolls = 3
	servers[2].StartPolls = 5

	s, obs := newTestSession(t, servers)
	ctx := context.Background()
	require.NoError(t, s.Open(ctx, "", false))

	sessions, err := s.EnsureSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 3)
	for name, remote := range sessions {
		assert.True(t, remote.IsStarted(), name)
	}
	assert.Equal(t, [][]string{{"server1", "server2", "server3"}}, obs.ready)

	// sessions are started once
	sessions, err = s.EnsureSessions(ctx)
	require.NoError(t, err)
	assert.Len(t, sessions, 3)
}

func TestEnsureSessions_ExcludesStartFailure(t *testing.T) {
	servers := newServers(3)
	startErr := models.NewDSError("R server is not available")
	servers[1].StartError = startErr

	s, obs := newTestSession(t, servers)
	ctx := context.Background()
	require.NoError(t, s.Open(ctx, "", false))

	sessions, err := s.EnsureSessions(ctx)
	require.NoError(t, err)
	assert.Len(t, sessions, 2)
	assert.NotContains(t, sessions, "server2")

	// exclusion is logged, not recorded as a command error
	assert.False(t, s.HasErrors())
	assert.ErrorIs(t, obs.excluded["server2"], startErr)

	// and it is permanent
	assert.Equal(t, []string{"server1", "server3"}, s.ConnectionNames())
	assert.Equal(t, 1, servers[1].Disconnects())

	values, err := s.Aggregate(ctx, "length(D)", true)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"server1": 100, "server3": 300}, values)
}

func TestEnsureSessions_ExcludesCheckFailure(t *testing.T) {
	servers := newServers(2)
	servers[0].CheckError = errors.New("connection reset by peer")

	s, obs := newTestSession(t, servers)
	ctx := context.Background()
	require.NoError(t, s.Open(ctx, "", false))

	sessions, err := s.EnsureSessions(ctx)
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
	assert.Contains(t, obs.excluded, "server1")
	assert.Equal(t, []string{"server2"}, s.ConnectionNames())
}

func TestEnsureSessions_AllFail(t *testing.T) {
	servers := newServers(2)
	for _, server := range servers {
		server.StartError = models.NewDSError("R server is not available")
	}

	s, _ := newTestSession(t, servers)
	ctx := context.Background()
	require.NoError(t, s.Open(ctx, "", false))

	_, err := s.EnsureSessions(ctx)
	assert.ErrorIs(t, err, ErrNoConnection)
	assert.False(t, s.HasConnections())

	values, err := s.Aggregate(ctx, "length(D)", true)
	assert.ErrorIs(t, err, ErrNoConnection)
	assert.Nil(t, values)
}

func TestEnsureSessions_Timeout(t *testing.T) {
	servers := newServers(2)
	servers[1].StartPolls = -1

	s, _ := newTestSession(t, servers, WithStartTimeout(20*time.Millisecond))
	ctx := context.Background()
	require.NoError(t, s.Open(ctx, "", false))

	start := time.Now()
	_, err := s.EnsureSessions(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSessionTimeout)
	assert.Contains(t, err.Error(), "server2")
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)

	// a slow server is not excluded
	assert.Equal(t, []string{"server1", "server2"}, s.ConnectionNames())
}

func TestEnsureSessions_Cancelled(t *testing.T) {
	servers := newServers(1)
	servers[0].StartPolls = -1

	s, _ := newTestSession(t, servers)
	require.NoError(t, s.Open(context.Background(), "", false))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.EnsureSessions(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrSessionTimeout)
}

func TestCheckSession_FailedSession(t *testing.T) {
	conn := &failedSessionConn{state: models.SessionFailed}
	ok, err := checkSession(context.Background(), conn)
	assert.False(t, ok)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of memory")

	conn.state = models.SessionPending
	ok, err = checkSession(context.Background(), conn)
	assert.False(t, ok)
	assert.NoError(t, err)
}

// failedSessionConn only implements the session checks.
type failedSessionConn struct {
	models.Connection
	state models.SessionState
}

func (c *failedSessionConn) IsSessionStarted(ctx context.Context) (bool, error) {
	return false, nil
}

func (c *failedSessionConn) Session() models.RemoteSession {
	return &models.SessionStatus{State: c.state, Message: "out of memory"}
}

package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datashield/datashield-go/internal/drivers"
	"github.com/datashield/datashield-go/internal/models"
)

func TestDriver_Registered(t *testing.T) {
	driver, err := drivers.Get(DriverName)
	require.NoError(t, err)
	assert.IsType(t, &Driver{}, driver)
}

func TestConnection_SessionLifecycle(t *testing.T) {
	server := NewServer("server1")
	server.StartPolls = 2
	driver := NewDriver(server)
	ctx := context.Background()

	conn, err := driver.NewConnection(ctx, models.LoginInfo{Name: "server1", Token: "abc"}, "")
	require.NoError(t, err)
	assert.False(t, conn.HasSession())
	assert.Nil(t, conn.Session())

	remote, err := conn.StartSession(ctx, true)
	require.NoError(t, err)
	assert.True(t, remote.IsPending())

	ok, err := conn.IsSessionStarted(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = conn.IsSessionStarted(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, conn.Session().IsReady())

	require.NoError(t, conn.Disconnect(ctx))
	require.NoError(t, conn.Disconnect(ctx))
	assert.False(t, conn.HasSession())

	_, err = conn.ListTables(ctx)
	assert.True(t, models.IsDSError(err))
}

func TestResult_Fetch(t *testing.T) {
	server := NewServer("server1")
	server.Aggregates = map[string]any{"dim(D)": []int{100, 11}}
	conn, err := NewDriver(server).NewConnection(context.Background(), models.LoginInfo{Name: "server1"}, "")
	require.NoError(t, err)
	ctx := context.Background()

	async, err := conn.Aggregate(ctx, "dim(D)", true)
	require.NoError(t, err)
	require.True(t, async.IsCompleted(ctx))
	value, err := async.Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{100, 11}, value)

	// one-shot when asynchronous
	_, err = async.Fetch(ctx)
	assert.Error(t, err)

	sync, err := conn.Aggregate(ctx, "dim(D)", false)
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		value, err = sync.Fetch(ctx)
		require.NoError(t, err)
		assert.Equal(t, []int{100, 11}, value)
	}
}

func TestResult_Polls(t *testing.T) {
	server := NewServer("server1")
	server.Tables = []string{"T"}
	server.ResultPolls = 2
	conn, err := NewDriver(server).NewConnection(context.Background(), models.LoginInfo{Name: "server1"}, "")
	require.NoError(t, err)
	ctx := context.Background()

	res, err := conn.AssignTable(ctx, "D", "T", models.TableOptions{}, true)
	require.NoError(t, err)
	assert.False(t, res.IsCompleted(ctx))
	assert.False(t, res.IsCompleted(ctx))
	assert.True(t, res.IsCompleted(ctx))

	_, ok := server.Symbol("D")
	assert.False(t, ok, "assignment is applied when fetched")

	_, err = res.Fetch(ctx)
	require.NoError(t, err)
	value, ok := server.Symbol("D")
	assert.True(t, ok)
	assert.Equal(t, "table:T", value)
}

func TestDriver_Authentication(t *testing.T) {
	server := NewServer("server1")
	server.Users = map[string]string{"dsuser": "P@ssw0rd"}
	server.Tokens = []string{"1234abcd"}
	driver := NewDriver(server)
	ctx := context.Background()

	tests := []struct {
		name  string
		info  models.LoginInfo
		valid bool
	}{
		{name: "user", info: models.LoginInfo{Name: "server1", User: "dsuser", Password: "P@ssw0rd"}, valid: true},
		{name: "token", info: models.LoginInfo{Name: "server1", Token: "1234abcd"}, valid: true},
		{name: "wrong password", info: models.LoginInfo{Name: "server1", User: "dsuser", Password: "x"}, valid: false},
		{name: "wrong token", info: models.LoginInfo{Name: "server1", Token: "x"}, valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := driver.NewConnection(ctx, tt.info, "")
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			var dsErr *models.DSError
			require.ErrorAs(t, err, &dsErr)
			assert.Equal(t, 401, dsErr.Status)
		})
	}
}

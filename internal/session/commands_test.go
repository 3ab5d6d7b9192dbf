package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datashield/datashield-go/internal/drivers/memory"
	"github.com/datashield/datashield-go/internal/models"
)

func TestAggregate_AllSucceed(t *testing.T) {
	servers := newServers(3)
	servers[0].ResultPolls = 2

	s, _ := newTestSession(t, servers)
	ctx := context.Background()
	require.NoError(t, s.Open(ctx, "", false))

	values, err := s.Aggregate(ctx, "length(D)", true)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"server1": 100, "server2": 200, "server3": 300}, values)
	assert.False(t, s.HasErrors())
	assert.Empty(t, s.Errors())
}

func TestAggregate_OneServerFails(t *testing.T) {
	tests := []struct {
		name  string
		setup func(server2 *memory.Server)
	}{
		{
			name: "fails when issued",
			setup: func(server2 *memory.Server) {
				server2.Failures = map[string]error{"length(D)": models.NewDSError("command rejected")}
			},
		},
		{
			name: "fails when fetched",
			setup: func(server2 *memory.Server) {
				server2.FetchFailures = map[string]error{"length(D)": models.NewDSError("evaluation failed")}
			},
		},
		{
			name: "expression not allowed",
			setup: func(server2 *memory.Server) {
				server2.Aggregates = nil
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			servers := newServers(3)
			tt.setup(servers[1])

			s, _ := newTestSession(t, servers)
			ctx := context.Background()
			require.NoError(t, s.Open(ctx, "", false))

			values, err := s.Aggregate(ctx, "length(D)", true)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrBatchFailed)

			var batchErr *BatchError
			require.ErrorAs(t, err, &batchErr)
			assert.Equal(t, []string{"server2"}, batchErr.Servers)

			assert.Equal(t, map[string]any{"server1": 100, "server3": 300}, values)
			assert.True(t, s.HasErrors())
			assert.Contains(t, s.Errors(), "server2")
			assert.Len(t, s.Errors(), 1)

			// the failure does not degrade the session
			assert.Equal(t, []string{"server1", "server2", "server3"}, s.ConnectionNames())
		})
	}
}

func TestAggregate_ErrorsAreReset(t *testing.T) {
	servers := newServers(2)
	servers[1].Failures = map[string]error{"bad()": models.NewDSError("rejected")}

	s, _ := newTestSession(t, servers)
	ctx := context.Background()
	require.NoError(t, s.Open(ctx, "", false))

	_, err := s.Aggregate(ctx, "bad()", true)
	require.Error(t, err)
	assert.True(t, s.HasErrors())

	_, err = s.Aggregate(ctx, "length(D)", false)
	require.NoError(t, err)
	assert.False(t, s.HasErrors())
}

func TestWait_KeepsIdleConnectionsAlive(t *testing.T) {
	servers := newServers(3)
	servers[2].ResultPolls = 5

	s, _ := newTestSession(t, servers)
	ctx := context.Background()
	require.NoError(t, s.Open(ctx, "", false))

	_, err := s.Aggregate(ctx, "length(D)", true)
	require.NoError(t, err)

	assert.Positive(t, servers[0].KeepAlives())
	assert.Positive(t, servers[1].KeepAlives())
	assert.Zero(t, servers[2].KeepAlives())
}

func TestWait_ResultTimeout(t *testing.T) {
	servers := newServers(2)
	servers[1].ResultPolls = 1 << 30

	s, _ := newTestSession(t, servers, WithResultTimeout(20*time.Millisecond))
	ctx := context.Background()
	require.NoError(t, s.Open(ctx, "", false))

	values, err := s.Aggregate(ctx, "length(D)", true)
	assert.ErrorIs(t, err, ErrBatchFailed)
	assert.Equal(t, map[string]any{"server1": 100}, values)
	assert.ErrorIs(t, s.Errors()["server2"], ErrResultTimeout)
}

func TestWait_Cancelled(t *testing.T) {
	servers := newServers(2)
	for _, server := range servers {
		server.ResultPolls = 5
	}

	s, _ := newTestSession(t, servers)
	require.NoError(t, s.Open(context.Background(), "", false))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Aggregate(ctx, "length(D)", true)
	assert.ErrorIs(t, err, ErrBatchFailed)
	for _, name := range []string{"server1", "server2"} {
		assert.ErrorIs(t, s.Errors()[name], context.Canceled, name)
	}
}

func TestAssignTable_SymbolsRoundTrip(t *testing.T) {
	servers := newServers(3)
	servers[2].Failures = map[string]error{"CNSIM.CNSIM1": models.NewDSError("permission denied")}

	s, _ := newTestSession(t, servers)
	ctx := context.Background()
	require.NoError(t, s.Open(ctx, "", false))

	err := s.AssignTable(ctx, "D", "CNSIM.CNSIM1", nil, models.TableOptions{}, true)
	assert.ErrorIs(t, err, ErrBatchFailed)
	assert.Contains(t, s.Errors(), "server3")

	symbols, err := s.Symbols(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"D"}, symbols["server1"])
	assert.Equal(t, []string{"D"}, symbols["server2"])
	assert.Empty(t, symbols["server3"])

	require.NoError(t, s.RemoveSymbol(ctx, "D"))

	symbols, err = s.Symbols(ctx)
	require.NoError(t, err)
	for name, names := range symbols {
		assert.NotContains(t, names, "D", name)
	}
}

func TestAssignTable_PerServerTables(t *testing.T) {
	servers := newServers(3)
	s, _ := newTestSession(t, servers)
	ctx := context.Background()
	require.NoError(t, s.Open(ctx, "", false))

	tables := map[string]string{
		"server1": "CNSIM.CNSIM1",
		"server2": "CNSIM.CNSIM2",
	}
	require.NoError(t, s.AssignTable(ctx, "D", "", tables, models.TableOptions{Missings: true}, false))

	value, ok := servers[0].Symbol("D")
	require.True(t, ok)
	assert.Equal(t, "table:CNSIM.CNSIM1", value)

	value, ok = servers[1].Symbol("D")
	require.True(t, ok)
	assert.Equal(t, "table:CNSIM.CNSIM2", value)

	// no table resolved for server3: skipped without error
	_, ok = servers[2].Symbol("D")
	assert.False(t, ok)
	assert.False(t, s.HasErrors())
}

func TestAssignTable_DefaultWithOverride(t *testing.T) {
	servers := newServers(2)
	s, _ := newTestSession(t, servers)
	ctx := context.Background()
	require.NoError(t, s.Open(ctx, "", false))

	err := s.AssignTable(ctx, "D", "CNSIM.CNSIM1", map[string]string{"server2": "CNSIM.CNSIM2"}, models.TableOptions{}, true)
	require.NoError(t, err)

	value, _ := servers[0].Symbol("D")
	assert.Equal(t, "table:CNSIM.CNSIM1", value)
	value, _ = servers[1].Symbol("D")
	assert.Equal(t, "table:CNSIM.CNSIM2", value)
}

func TestAssignTable_EmptyOverrideSkipsServer(t *testing.T) {
	servers := newServers(3)
	s, obs := newTestSession(t, servers)
	ctx := context.Background()
	require.NoError(t, s.Open(ctx, "", false))

	err := s.AssignTable(ctx, "D", "CNSIM.CNSIM1", map[string]string{"server2": ""}, models.TableOptions{}, true)
	require.NoError(t, err)
	assert.False(t, s.HasErrors())

	_, ok := servers[1].Symbol("D")
	assert.False(t, ok)
	assert.Equal(t, map[string]string{"server2": "assign_table"}, obs.skipped)

	for _, server := range []*memory.Server{servers[0], servers[2]} {
		value, ok := server.Symbol("D")
		require.True(t, ok, server.Name)
		assert.Equal(t, "table:CNSIM.CNSIM1", value)
	}
}

func TestAssignResource_EmptyOverrideSkipsServer(t *testing.T) {
	servers := newServers(2)
	s, obs := newTestSession(t, servers)
	ctx := context.Background()
	require.NoError(t, s.Open(ctx, "", false))

	require.NoError(t, s.AssignResource(ctx, "R", "RSRC.CNSIM1", map[string]string{"server1": ""}, true))

	_, ok := servers[0].Symbol("R")
	assert.False(t, ok)
	_, ok = servers[1].Symbol("R")
	assert.True(t, ok)
	assert.Contains(t, obs.skipped, "server1")
	assert.Empty(t, s.Errors())
}

func TestAssignTable_UnknownTable(t *testing.T) {
	servers := newServers(2)
	s, _ := newTestSession(t, servers)
	ctx := context.Background()
	require.NoError(t, s.Open(ctx, "", false))

	err := s.AssignTable(ctx, "D", "CNSIM.MISSING", nil, models.TableOptions{}, true)
	assert.ErrorIs(t, err, ErrBatchFailed)
	assert.Len(t, s.Errors(), 2)
}

func TestAssignResource(t *testing.T) {
	servers := newServers(2)
	s, _ := newTestSession(t, servers)
	ctx := context.Background()
	require.NoError(t, s.Open(ctx, "", false))

	require.NoError(t, s.AssignResource(ctx, "R", "RSRC.CNSIM1", nil, true))

	value, ok := servers[1].Symbol("R")
	require.True(t, ok)
	assert.Equal(t, "resource:RSRC.CNSIM1", value)
}

func TestAssignExpr(t *testing.T) {
	servers := newServers(2)
	s, obs := newTestSession(t, servers)
	ctx := context.Background()
	require.NoError(t, s.Open(ctx, "", false))

	servers[0].Failures = map[string]error{"as.factor(D$GENDER)": models.NewDSError("not allowed")}

	err := s.AssignExpr(ctx, "G", "as.factor(D$GENDER)", true)
	assert.ErrorIs(t, err, ErrBatchFailed)
	assert.Contains(t, obs.recorded, "server1")

	value, ok := servers[1].Symbol("G")
	require.True(t, ok)
	assert.Equal(t, "expr:as.factor(D$GENDER)", value)
}

func TestPerServer(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		overrides map[string]string
		server    string
		expected  string
		ok        bool
	}{
		{name: "default", value: "T", server: "s1", expected: "T", ok: true},
		{name: "override", value: "T", overrides: map[string]string{"s1": "U"}, server: "s1", expected: "U", ok: true},
		{name: "other override", value: "T", overrides: map[string]string{"s2": "U"}, server: "s1", expected: "T", ok: true},
		{name: "empty override skips", value: "T", overrides: map[string]string{"s1": ""}, server: "s1", ok: false},
		{name: "nothing", overrides: map[string]string{"s2": "U"}, server: "s1", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, ok := perServer(tt.value, tt.overrides)(tt.server)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, value)
			}
		})
	}
}

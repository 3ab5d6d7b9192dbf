package session

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/datashield/datashield-go/internal/drivers/memory"
	"github.com/datashield/datashield-go/internal/models"
)

// recorder is an Observer keeping track of the events it receives.
type recorder struct {
	mu       sync.Mutex
	opened   []string
	failed   map[string]error
	excluded map[string]error
	recorded map[string]error
	skipped  map[string]string
	ready    [][]string
}

func newRecorder() *recorder {
	return &recorder{
		failed:   make(map[string]error),
		excluded: make(map[string]error),
		recorded: make(map[string]error),
		skipped:  make(map[string]string),
	}
}

func (r *recorder) ConnectionOpened(server string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.opened = append(r.opened, server)
}

func (r *recorder) ConnectionFailed(server string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed[server] = err
}

func (r *recorder) SessionExcluded(server string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.excluded[server] = err
}

func (r *recorder) SessionsReady(servers []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ready = append(r.ready, servers)
}

func (r *recorder) ServerSkipped(server string, command string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.skipped[server] = command
}

func (r *recorder) ErrorRecorded(server string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recorded[server] = err
}

func (r *recorder) DisconnectFailed(string, error) {}

// newServers creates in-memory servers named server1..serverN holding a
// CNSIM table and answering the "length" aggregate.
func newServers(n int) []*memory.Server {
	servers := make([]*memory.Server, 0, n)
	for i := 1; i <= n; i++ {
		server := memory.NewServer(fmt.Sprintf("server%d", i))
		server.Tables = []string{"CNSIM.CNSIM1", "CNSIM.CNSIM2"}
		server.Resources = []string{"RSRC.CNSIM1"}
		server.Aggregates = map[string]any{"length(D)": 100 * i}
		servers = append(servers, server)
	}
	return servers
}

// newTestSession builds a session over the given servers, reached
// through a private memory driver.
func newTestSession(t *testing.T, servers []*memory.Server, opts ...Option) (*Session, *recorder) {
	t.Helper()

	driver := memory.NewDriver(servers...)
	logins := make([]models.LoginInfo, 0, len(servers))
	for _, server := range servers {
		logins = append(logins, models.NewLoginInfo(server.Name, "memory://"+server.Name, "dsuser", "P@ssw0rd", "", "", memory.DriverName))
	}

	obs := newRecorder()
	lookup := func(name string) (models.Driver, error) {
		if name == memory.DriverName {
			return driver, nil
		}
		return nil, fmt.Errorf("%w: %s", models.ErrDriverNotFound, name)
	}

	base := []Option{
		WithDriverLookup(lookup),
		WithObserver(obs),
		WithPollInterval(time.Millisecond),
		WithStartTimeout(time.Second),
	}
	return New(logins, append(base, opts...)...), obs
}

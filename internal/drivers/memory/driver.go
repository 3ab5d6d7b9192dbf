package memory

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/datashield/datashield-go/internal/drivers"
	"github.com/datashield/datashield-go/internal/models"
)

const DriverName = "memory"

// Driver hands out connections to in-process servers, looked up by the
// login name. Unknown names get a fresh empty server.
type Driver struct {
	mu      sync.Mutex
	servers map[string]*Server
}

func NewDriver(servers ...*Server) *Driver {
	d := &Driver{servers: make(map[string]*Server)}
	for _, server := range servers {
		d.Add(server)
	}
	return d
}

func (d *Driver) Add(server *Server) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.servers[server.Name] = server
}

func (d *Driver) Server(name string) *Server {
	d.mu.Lock()
	defer d.mu.Unlock()
	server, ok := d.servers[name]
	if !ok {
		server = NewServer(name)
		d.servers[name] = server
	}
	return server
}

func (d *Driver) NewConnection(ctx context.Context, info models.LoginInfo, restore string) (models.Connection, error) {
	server := d.Server(info.Name)

	if server.ConnectError != nil {
		return nil, server.ConnectError
	}
	if err := server.authenticate(info); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"server":  info.Name,
		"profile": info.Profile,
		"restore": restore,
	}).Debugln("Opening in-memory connection")

	server.mu.Lock()
	server.connections++
	server.mu.Unlock()

	conn := &connection{
		name:    info.Name,
		profile: info.Profile,
		server:  server,
	}

	if len(restore) > 0 {
		if err := conn.RestoreWorkspace(ctx, info.Name+":"+restore); err != nil {
			return nil, err
		}
	}

	return conn, nil
}

func init() {
	drivers.Register(DriverName, NewDriver())
}

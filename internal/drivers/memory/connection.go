package memory

import (
	"context"
	"slices"

	"github.com/datashield/datashield-go/internal/models"
)

type connection struct {
	name    string
	profile string
	server  *Server
	session *models.SessionStatus
	polls   int
	closed  bool
}

var errClosed = &models.DSError{Message: "connection is closed", Status: 400}

func (c *connection) Name() string {
	return c.name
}

func (c *connection) check() error {
	if c.closed {
		return errClosed
	}
	return c.server.ListError
}

func (c *connection) ListTables(ctx context.Context) ([]string, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	return slices.Clone(c.server.Tables), nil
}

func (c *connection) HasTable(ctx context.Context, name string) (bool, error) {
	if err := c.check(); err != nil {
		return false, err
	}
	return slices.Contains(c.server.Tables, name), nil
}

func (c *connection) ListResources(ctx context.Context) ([]string, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	return slices.Clone(c.server.Resources), nil
}

func (c *connection) HasResource(ctx context.Context, name string) (bool, error) {
	if err := c.check(); err != nil {
		return false, err
	}
	return slices.Contains(c.server.Resources, name), nil
}

func (c *connection) ListProfiles(ctx context.Context) ([]string, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	return slices.Clone(c.server.Profiles), nil
}

func (c *connection) ListMethods(ctx context.Context, kind models.MethodKind) ([]models.Method, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	return slices.Clone(c.server.Methods[kind]), nil
}

func (c *connection) ListPackages(ctx context.Context) ([]models.Package, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	return slices.Clone(c.server.Packages), nil
}

func (c *connection) ListWorkspaces(ctx context.Context) ([]models.Workspace, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	var workspaces []models.Workspace
	for _, name := range c.server.Workspaces() {
		workspaces = append(workspaces, models.Workspace{Name: name})
	}
	return workspaces, nil
}

func (c *connection) SaveWorkspace(ctx context.Context, name string) error {
	if c.closed {
		return errClosed
	}
	if c.server.SaveError != nil {
		return c.server.SaveError
	}
	c.server.saveWorkspace(name)
	return nil
}

func (c *connection) RestoreWorkspace(ctx context.Context, name string) error {
	if c.closed {
		return errClosed
	}
	if !c.server.restoreWorkspace(name) {
		return &models.DSError{Message: "no such workspace", Status: 404, Detail: name}
	}
	return nil
}

func (c *connection) RemoveWorkspace(ctx context.Context, name string) error {
	if c.closed {
		return errClosed
	}
	c.server.removeWorkspace(name)
	return nil
}

func (c *connection) HasSession() bool {
	return c.session != nil
}

func (c *connection) StartSession(ctx context.Context, async bool) (models.RemoteSession, error) {
	if c.closed {
		return nil, errClosed
	}
	if c.server.StartError != nil {
		return nil, c.server.StartError
	}
	c.polls = c.server.StartPolls
	c.session = &models.SessionStatus{State: models.SessionStarted}
	if c.polls != 0 {
		c.session.State = models.SessionPending
		c.session.Message = "R server is starting"
	}
	return c.session, nil
}

func (c *connection) IsSessionStarted(ctx context.Context) (bool, error) {
	if c.closed {
		return false, errClosed
	}
	if c.server.CheckError != nil {
		return false, c.server.CheckError
	}
	if c.session == nil {
		return false, nil
	}
	if c.session.IsPending() && c.polls > 0 {
		c.polls--
		if c.polls == 0 {
			c.session.State = models.SessionStarted
			c.session.Message = ""
		}
	}
	return c.session.IsStarted(), nil
}

func (c *connection) Session() models.RemoteSession {
	if c.session == nil {
		return nil
	}
	return c.session
}

func (c *connection) issue(argument string, async bool, apply func() (any, error)) (models.Result, error) {
	if c.closed {
		return nil, errClosed
	}
	if err, ok := c.server.Failures[argument]; ok {
		return nil, err
	}
	res := &result{
		async: async,
		apply: apply,
		err:   c.server.FetchFailures[argument],
	}
	if async {
		res.polls = c.server.ResultPolls
	}
	return res, nil
}

func (c *connection) AssignTable(ctx context.Context, symbol string, table string, opts models.TableOptions, async bool) (models.Result, error) {
	if !slices.Contains(c.server.Tables, table) {
		return nil, &models.DSError{Message: "no such table", Status: 404, Detail: table}
	}
	return c.issue(table, async && c.server.Async.AssignTable, func() (any, error) {
		c.server.setSymbol(symbol, "table:"+table)
		return nil, nil
	})
}

func (c *connection) AssignResource(ctx context.Context, symbol string, resource string, async bool) (models.Result, error) {
	if !slices.Contains(c.server.Resources, resource) {
		return nil, &models.DSError{Message: "no such resource", Status: 404, Detail: resource}
	}
	return c.issue(resource, async && c.server.Async.AssignResource, func() (any, error) {
		c.server.setSymbol(symbol, "resource:"+resource)
		return nil, nil
	})
}

func (c *connection) AssignExpr(ctx context.Context, symbol string, expr string, async bool) (models.Result, error) {
	return c.issue(expr, async && c.server.Async.AssignExpr, func() (any, error) {
		c.server.setSymbol(symbol, "expr:"+expr)
		return nil, nil
	})
}

func (c *connection) Aggregate(ctx context.Context, expr string, async bool) (models.Result, error) {
	return c.issue(expr, async && c.server.Async.Aggregate, func() (any, error) {
		value, ok := c.server.Aggregates[expr]
		if !ok {
			return nil, &models.DSError{Message: "aggregate expression is not allowed", Status: 400, Detail: expr}
		}
		return value, nil
	})
}

func (c *connection) ListSymbols(ctx context.Context) ([]string, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	return c.server.Symbols(), nil
}

func (c *connection) RemoveSymbol(ctx context.Context, name string) error {
	if c.closed {
		return errClosed
	}
	c.server.removeSymbol(name)
	return nil
}

func (c *connection) AsyncSupport() models.AsyncSupport {
	return c.server.Async
}

func (c *connection) KeepAlive(ctx context.Context) {
	if c.closed {
		return
	}
	c.server.mu.Lock()
	c.server.keepAlives++
	c.server.mu.Unlock()
}

func (c *connection) Disconnect(ctx context.Context) error {
	c.server.mu.Lock()
	c.server.disconnects++
	c.server.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.session = nil
	c.server.clearSymbols()
	return c.server.DisconnectError
}

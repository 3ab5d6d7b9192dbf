package session

import (
	"context"

	"github.com/datashield/datashield-go/internal/models"
)

// resolver gives the argument of a command for a server, false when the
// server has nothing to do.
type resolver func(server string) (string, bool)

// perServer resolves to the server's override when it has one, even an
// empty one, otherwise to the default value. Empty values do not resolve.
func perServer(value string, overrides map[string]string) resolver {
	return func(server string) (string, bool) {
		if override, ok := overrides[server]; ok {
			return override, len(override) > 0
		}
		return value, len(value) > 0
	}
}

func everyServer(value string) resolver {
	return func(string) (string, bool) {
		return value, true
	}
}

type issuer func(conn models.Connection, argument string) (models.Result, error)

// fanOut runs a command on every connection and waits for the results.
// A failing server never stops the others: its error is recorded and the
// call fails once everything has settled.
func (s *Session) fanOut(ctx context.Context, command string, resolve resolver, issue issuer) (map[string]any, error) {
	if _, err := s.EnsureSessions(ctx); err != nil {
		return nil, err
	}

	s.initErrors()

	pending := make(map[string]models.Result, len(s.conns))
	for _, conn := range s.conns {
		argument, ok := resolve(conn.Name())
		if !ok {
			s.observer.ServerSkipped(conn.Name(), command)
			continue
		}

		res, err := issue(conn, argument)
		if err != nil {
			s.appendError(conn.Name(), err)
			continue
		}
		pending[conn.Name()] = res
	}

	values := s.wait(ctx, pending)

	return values, s.checkErrors()
}

// AssignTable assigns a table to a symbol in every R session. The table
// name is table, unless tables has an entry for the server. Servers
// resolving to no table are skipped.
func (s *Session) AssignTable(ctx context.Context, symbol string, table string, tables map[string]string, opts models.TableOptions, async bool) error {
	_, err := s.fanOut(ctx, "assign_table", perServer(table, tables),
		func(conn models.Connection, name string) (models.Result, error) {
			return conn.AssignTable(ctx, symbol, name, opts, async)
		})
	return err
}

// AssignResource assigns a resource to a symbol in every R session. The
// resource name is resource, unless resources has an entry for the server.
func (s *Session) AssignResource(ctx context.Context, symbol string, resource string, resources map[string]string, async bool) error {
	_, err := s.fanOut(ctx, "assign_resource", perServer(resource, resources),
		func(conn models.Connection, name string) (models.Result, error) {
			return conn.AssignResource(ctx, symbol, name, async)
		})
	return err
}

// AssignExpr assigns the result of an R expression to a symbol in every
// R session.
func (s *Session) AssignExpr(ctx context.Context, symbol string, expr string, async bool) error {
	_, err := s.fanOut(ctx, "assign_expr", everyServer(expr),
		func(conn models.Connection, expr string) (models.Result, error) {
			return conn.AssignExpr(ctx, symbol, expr, async)
		})
	return err
}

// Aggregate evaluates an aggregation expression in every R session. On
// error the values of the servers that succeeded are still returned.
func (s *Session) Aggregate(ctx context.Context, expr string, async bool) (map[string]any, error) {
	return s.fanOut(ctx, "aggregate", everyServer(expr),
		func(conn models.Connection, expr string) (models.Result, error) {
			return conn.Aggregate(ctx, expr, async)
		})
}

// Symbols lists the symbols living in every R session. A failing server
// maps to nil.
func (s *Session) Symbols(ctx context.Context) (map[string][]string, error) {
	if _, err := s.EnsureSessions(ctx); err != nil {
		return nil, err
	}

	s.initErrors()

	symbols := make(map[string][]string, len(s.conns))
	for _, conn := range s.conns {
		names, err := conn.ListSymbols(ctx)
		if err != nil {
			s.appendError(conn.Name(), err)
			symbols[conn.Name()] = nil
			continue
		}
		symbols[conn.Name()] = names
	}

	return symbols, s.checkErrors()
}

// RemoveSymbol removes a symbol from every R session.
func (s *Session) RemoveSymbol(ctx context.Context, symbol string) error {
	if _, err := s.EnsureSessions(ctx); err != nil {
		return err
	}

	s.initErrors()

	for _, conn := range s.conns {
		if err := conn.RemoveSymbol(ctx, symbol); err != nil {
			s.appendError(conn.Name(), err)
		}
	}

	return s.checkErrors()
}

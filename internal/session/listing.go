package session

import (
	"context"
	"fmt"

	"github.com/datashield/datashield-go/internal/models"
)

// collect calls list on every connection. The first failure is returned
// as is, wrapped with the server name.
func collect[T any](s *Session, list func(conn models.Connection) (T, error)) (map[string]T, error) {
	if err := s.requireOpen(); err != nil {
		return nil, err
	}

	values := make(map[string]T, len(s.conns))
	for _, conn := range s.conns {
		value, err := list(conn)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", conn.Name(), err)
		}
		values[conn.Name()] = value
	}
	return values, nil
}

// Tables lists the table names of every data repository.
func (s *Session) Tables(ctx context.Context) (map[string][]string, error) {
	return collect(s, func(conn models.Connection) ([]string, error) {
		return conn.ListTables(ctx)
	})
}

func (s *Session) HasTable(ctx context.Context, name string) (map[string]bool, error) {
	return collect(s, func(conn models.Connection) (bool, error) {
		return conn.HasTable(ctx, name)
	})
}

// Resources lists the resource names of every data repository.
func (s *Session) Resources(ctx context.Context) (map[string][]string, error) {
	return collect(s, func(conn models.Connection) ([]string, error) {
		return conn.ListResources(ctx)
	})
}

func (s *Session) HasResource(ctx context.Context, name string) (map[string]bool, error) {
	return collect(s, func(conn models.Connection) (bool, error) {
		return conn.HasResource(ctx, name)
	})
}

// Profiles lists the DataSHIELD profiles of every data repository.
func (s *Session) Profiles(ctx context.Context) (map[string][]string, error) {
	return collect(s, func(conn models.Connection) ([]string, error) {
		return conn.ListProfiles(ctx)
	})
}

// Packages lists the DataSHIELD packages, with their version.
func (s *Session) Packages(ctx context.Context) (map[string][]models.Package, error) {
	return collect(s, func(conn models.Connection) ([]models.Package, error) {
		return conn.ListPackages(ctx)
	})
}

// Methods lists the DataSHIELD methods of the given kind.
func (s *Session) Methods(ctx context.Context, kind models.MethodKind) (map[string][]models.Method, error) {
	return collect(s, func(conn models.Connection) ([]models.Method, error) {
		return conn.ListMethods(ctx, kind)
	})
}

// AsyncSupport tells, per server, which commands can run asynchronously.
func (s *Session) AsyncSupport() (map[string]models.AsyncSupport, error) {
	return collect(s, func(conn models.Connection) (models.AsyncSupport, error) {
		return conn.AsyncSupport(), nil
	})
}

// Workspaces lists the saved workspaces of every data repository.
func (s *Session) Workspaces(ctx context.Context) (map[string][]models.Workspace, error) {
	return collect(s, func(conn models.Connection) ([]models.Workspace, error) {
		return conn.ListWorkspaces(ctx)
	})
}

// SaveWorkspace saves every R session in the workspace "{server}:{name}".
func (s *Session) SaveWorkspace(ctx context.Context, name string) error {
	if _, err := s.EnsureSessions(ctx); err != nil {
		return err
	}
	_, err := collect(s, func(conn models.Connection) (struct{}, error) {
		return struct{}{}, conn.SaveWorkspace(ctx, workspaceName(conn, name))
	})
	return err
}

// RestoreWorkspace restores the workspace "{server}:{name}" in every R
// session. Symbols with the same name are overridden.
func (s *Session) RestoreWorkspace(ctx context.Context, name string) error {
	if _, err := s.EnsureSessions(ctx); err != nil {
		return err
	}
	_, err := collect(s, func(conn models.Connection) (struct{}, error) {
		return struct{}{}, conn.RestoreWorkspace(ctx, workspaceName(conn, name))
	})
	return err
}

// RemoveWorkspace removes the workspace "{server}:{name}", ignored where
// it does not exist.
func (s *Session) RemoveWorkspace(ctx context.Context, name string) error {
	_, err := collect(s, func(conn models.Connection) (struct{}, error) {
		return struct{}{}, conn.RemoveWorkspace(ctx, workspaceName(conn, name))
	})
	return err
}

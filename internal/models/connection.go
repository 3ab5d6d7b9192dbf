package models

import (
	"context"
	"fmt"
	"strings"
)

// MethodKind is the type of a DataSHIELD method.
type MethodKind string

const (
	MethodAggregate MethodKind = "aggregate"
	MethodAssign    MethodKind = "assign"
)

func GetMethodKindFromString(kind string) (MethodKind, error) {
	switch strings.ToLower(kind) {
	case "", string(MethodAggregate):
		return MethodAggregate, nil
	case string(MethodAssign):
		return MethodAssign, nil
	default:
		return "", fmt.Errorf("unknown method type: %s", kind)
	}
}

// Method is a DataSHIELD method configured on a data repository.
type Method struct {
	Name    string `json:"name" yaml:"name"`
	Type    string `json:"type" yaml:"type"` // e.g. function, script
	Class   string `json:"class" yaml:"class"`
	Value   string `json:"value" yaml:"value"`
	Package string `json:"package,omitempty" yaml:"package,omitempty"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
}

// Package is an R package providing DataSHIELD methods.
type Package struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`
}

// Workspace is a saved R session image.
type Workspace struct {
	Name           string `json:"name" yaml:"name"`
	User           string `json:"user,omitempty" yaml:"user,omitempty"`
	LastAccessDate string `json:"lastAccessDate,omitempty" yaml:"lastAccessDate,omitempty"`
	Size           int64  `json:"size,omitempty" yaml:"size,omitempty"`
}

// TableOptions tunes a table assignment.
type TableOptions struct {
	Variables   []string // variable names to keep, all when empty
	Missings    bool     // include missing values
	Identifiers string   // identifiers mapping name
	IDName      string   // name of the column holding the entity ids
}

// AsyncSupport tells which operations a connection can run asynchronously.
type AsyncSupport struct {
	Aggregate      bool `json:"aggregate"`
	AssignTable    bool `json:"assign_table"`
	AssignResource bool `json:"assign_resource"`
	AssignExpr     bool `json:"assign_expr"`
}

// Connection is a live link to one DataSHIELD server.
type Connection interface {
	Name() string

	// Content listing
	ListTables(ctx context.Context) ([]string, error)
	HasTable(ctx context.Context, name string) (bool, error)
	ListResources(ctx context.Context) ([]string, error)
	HasResource(ctx context.Context, name string) (bool, error)

	// Configuration
	ListProfiles(ctx context.Context) ([]string, error)
	ListMethods(ctx context.Context, kind MethodKind) ([]Method, error)
	ListPackages(ctx context.Context) ([]Package, error)

	// Workspaces, removing a missing workspace is a no-op
	ListWorkspaces(ctx context.Context) ([]Workspace, error)
	SaveWorkspace(ctx context.Context, name string) error
	RestoreWorkspace(ctx context.Context, name string) error
	RemoveWorkspace(ctx context.Context, name string) error

	// R session
	HasSession() bool
	StartSession(ctx context.Context, async bool) (RemoteSession, error)
	IsSessionStarted(ctx context.Context) (bool, error)
	Session() RemoteSession

	// Assignment and aggregation
	AssignTable(ctx context.Context, symbol string, table string, opts TableOptions, async bool) (Result, error)
	AssignResource(ctx context.Context, symbol string, resource string, async bool) (Result, error)
	AssignExpr(ctx context.Context, symbol string, expr string, async bool) (Result, error)
	Aggregate(ctx context.Context, expr string, async bool) (Result, error)

	// Symbols
	ListSymbols(ctx context.Context) ([]string, error)
	RemoveSymbol(ctx context.Context, name string) error

	AsyncSupport() AsyncSupport

	// KeepAlive pings an idle connection while others are busy. Any
	// communication failure is swallowed.
	KeepAlive(ctx context.Context)

	// Disconnect discards pending work and frees resources. It can be
	// called more than once.
	Disconnect(ctx context.Context) error
}

// Driver creates connections for one kind of data repository.
type Driver interface {
	NewConnection(ctx context.Context, info LoginInfo, restore string) (Connection, error)
}

// DriverFunc adapts a function to the Driver interface.
type DriverFunc func(ctx context.Context, info LoginInfo, restore string) (Connection, error)

func (f DriverFunc) NewConnection(ctx context.Context, info LoginInfo, restore string) (Connection, error) {
	return f(ctx, info, restore)
}

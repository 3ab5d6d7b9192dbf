package models

import internal "github.com/datashield/datashield-go/internal/models"

// Driver creates connections to one kind of data repository.
// Implementations are registered by name with the drivers package.
type Driver = internal.Driver

// DriverFunc adapts a plain function to the Driver interface.
type DriverFunc = internal.DriverFunc

// Connection is one live link to a data repository, holding at most one
// remote R session.
type Connection = internal.Connection

// Result is a command submitted to a server, completed asynchronously or not.
type Result = internal.Result

// RemoteSession exposes the state of the remote R session of a connection.
type RemoteSession = internal.RemoteSession

// SessionState enumerates the remote R session states.
type SessionState = internal.SessionState

// SessionStatus is a plain RemoteSession value.
type SessionStatus = internal.SessionStatus

// ValueResult is a Result that is already completed.
type ValueResult = internal.ValueResult

// MethodKind is either aggregate or assign.
type MethodKind = internal.MethodKind

// Method describes a DataSHIELD function exposed by a server profile.
type Method = internal.Method

// Package is an R package installed on a server.
type Package = internal.Package

// Workspace is a saved R session image.
type Workspace = internal.Workspace

// TableOptions tunes the assignment of a table to a symbol.
type TableOptions = internal.TableOptions

// AsyncSupport flags which commands a server can run asynchronously.
type AsyncSupport = internal.AsyncSupport

const (
	SessionNotStarted = internal.SessionNotStarted
	SessionPending    = internal.SessionPending
	SessionStarted    = internal.SessionStarted
	SessionFailed     = internal.SessionFailed
	SessionTerminated = internal.SessionTerminated

	MethodAggregate = internal.MethodAggregate
	MethodAssign    = internal.MethodAssign
)

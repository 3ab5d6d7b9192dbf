package models

import internal "github.com/datashield/datashield-go/internal/models"

// DSError is an error reported by a DataSHIELD data repository, such as a
// rejected command or an unknown table.
type DSError = internal.DSError

var (
	// ErrValidation is wrapped by every login or configuration validation error.
	ErrValidation = internal.ErrValidation

	// ErrDriverNotFound is returned when no driver is registered under a name.
	ErrDriverNotFound = internal.ErrDriverNotFound

	// NewDSError formats a data repository error.
	NewDSError = internal.NewDSError

	// IsDSError reports whether err wraps a data repository error.
	IsDSError = internal.IsDSError
)

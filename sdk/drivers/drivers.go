// Package drivers lets external packages plug a data repository driver in
// the registry used by DataSHIELD sessions. A driver package usually
// registers itself from an init function:
//
//	func init() {
//		drivers.Register("datashield_opal.OpalDriver", NewDriver())
//	}
package drivers

import internal "github.com/datashield/datashield-go/internal/drivers"

var (
	// Register adds a driver under a case insensitive name. The first
	// registration of a name wins.
	Register = internal.Register

	// Set replaces the driver registered under a name.
	Set = internal.Set

	// Unregister removes a driver, if registered.
	Unregister = internal.Unregister

	// Get returns the driver registered under a name.
	Get = internal.Get

	// Names lists the registered driver names.
	Names = internal.Names
)

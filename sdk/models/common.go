// Package models provides public SDK types for DataSHIELD clients and
// drivers. These types are re-exported from the internal models package to
// provide a stable public API for external consumers.
package models

import internal "github.com/datashield/datashield-go/internal/models"

// DefaultProfile is the DataSHIELD profile used when a login has none.
const DefaultProfile = internal.DefaultProfile

// DefaultDriver is the driver identifier used when a login has none.
const DefaultDriver = internal.DefaultDriver

// LoginInfo holds the login details of one server: name, url, user and
// password or token, DataSHIELD profile and driver identifier.
type LoginInfo = internal.LoginInfo

// NewLoginInfo returns login details with the profile and driver defaults applied.
var NewLoginInfo = internal.NewLoginInfo

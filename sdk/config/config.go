// Package config provides public SDK types for the DataSHIELD client
// configuration. These types are re-exported from the internal config
// package to provide a stable public API for external consumers.
package config

import (
	internal "github.com/datashield/datashield-go/internal/config"
)

// Config holds the configured servers, logging and session settings.
type Config = internal.Config

// LoggingConfig holds the log level, format and output.
type LoggingConfig = internal.LoggingConfig

// SessionConfig holds the session polling settings.
type SessionConfig = internal.SessionConfig

// EventLog keeps the recent warnings and errors of the process.
type EventLog = internal.EventLog

// Event is one entry of an EventLog.
type Event = internal.Event

// ProjectConfigPath is the configuration file of the working directory.
const ProjectConfigPath = internal.ProjectConfigPath

var (
	// Load reads and merges the configuration files, an explicit file
	// replacing the default locations.
	Load = internal.Load

	// DefaultConfig returns the configuration defaults, without servers.
	DefaultConfig = internal.DefaultConfig

	// UserConfigPath returns the user level configuration file path.
	UserConfigPath = internal.UserConfigPath
)

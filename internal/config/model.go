package config

import (
	"time"

	"github.com/datashield/datashield-go/internal/models"
)

// Config is the client configuration, for example:
//
//	servers:
//	  - name: server1
//	    url: https://opal-demo.obiba.org
//	    user: dsuser
//	    password: P@ssw0rd
//	  - name: server2
//	    url: https://opal.example.org
//	    token: your-access-token-here
//	    profile: omics
//	logging:
//	  level: info
//	session:
//	  start_timeout: 5m
type Config struct {
	Servers []models.LoginInfo `mapstructure:"servers" yaml:"servers"`
	Logging LoggingConfig      `mapstructure:"logging" yaml:"logging"`
	Session SessionConfig      `mapstructure:"session" yaml:"session"`

	files  []string
	events *EventLog
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level" default:"info"`
	Format string `mapstructure:"format" yaml:"format" default:"text"`
	Output string `mapstructure:"output" yaml:"output,omitempty"` // stderr, stdout or a file path
	// EventsLevel is the least severe level kept for the --events digest.
	EventsLevel string `mapstructure:"events_level" yaml:"events_level,omitempty" default:"warn"`
}

// SessionConfig tunes the multi-server session polling.
type SessionConfig struct {
	PollInterval  time.Duration `mapstructure:"poll_interval" yaml:"poll_interval" default:"100ms"`
	StartTimeout  time.Duration `mapstructure:"start_timeout" yaml:"start_timeout" default:"300s"`
	ResultTimeout time.Duration `mapstructure:"result_timeout" yaml:"result_timeout" default:"0s"` // 0 waits forever
	FailSafe      bool          `mapstructure:"fail_safe" yaml:"fail_safe"`
}

// Files lists the configuration files that were merged, in order.
func (c *Config) Files() []string {
	return c.files
}

// Events returns the entries logged by the process at or above logging.events_level.
func (c *Config) Events() *EventLog {
	return c.events
}

// Server returns the login details of the named server.
func (c *Config) Server(name string) (*models.LoginInfo, bool) {
	for i := range c.Servers {
		if c.Servers[i].Name == name {
			return &c.Servers[i], true
		}
	}
	return nil, false
}

func (c *Config) ServerNames() []string {
	names := make([]string, 0, len(c.Servers))
	for _, server := range c.Servers {
		names = append(names, server.Name)
	}
	return names
}

package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/datashield/datashield-go/internal/logins"
	"github.com/datashield/datashield-go/internal/models"
	"github.com/datashield/datashield-go/internal/session"
)

// Logins validates the configured servers into a login registry.
func (c *Config) Logins() (*logins.Builder, error) {
	builder := logins.NewBuilder()
	for _, server := range c.Servers {
		if err := builder.Add(server); err != nil {
			return nil, err
		}
	}
	return builder, nil
}

// SessionOptions turns the session settings into session options.
func (c *Config) SessionOptions() []session.Option {
	opts := []session.Option{
		session.WithPollInterval(c.Session.PollInterval),
		session.WithStartTimeout(c.Session.StartTimeout),
		session.WithResultTimeout(c.Session.ResultTimeout),
	}
	return opts
}

// NewSession creates a session over the configured servers.
func (c *Config) NewSession(opts ...session.Option) (*session.Session, error) {
	builder, err := c.Logins()
	if err != nil {
		return nil, err
	}
	return session.New(builder.Build(), append(c.SessionOptions(), opts...)...), nil
}

// Save writes the configuration as YAML. Only the owner can read it since
// it may hold passwords.
func (c *Config) Save(path string) error {
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	defer encoder.Close()

	return encoder.Encode(c.document())
}

// document is the YAML form of the config, durations as strings.
func (c *Config) document() any {
	type sessionDocument struct {
		PollInterval  string `yaml:"poll_interval"`
		StartTimeout  string `yaml:"start_timeout"`
		ResultTimeout string `yaml:"result_timeout"`
		FailSafe      bool   `yaml:"fail_safe"`
	}
	return struct {
		Servers []models.LoginInfo `yaml:"servers"`
		Logging LoggingConfig      `yaml:"logging"`
		Session sessionDocument    `yaml:"session"`
	}{
		Servers: c.Servers,
		Logging: c.Logging,
		Session: sessionDocument{
			PollInterval:  c.Session.PollInterval.String(),
			StartTimeout:  c.Session.StartTimeout.String(),
			ResultTimeout: c.Session.ResultTimeout.String(),
			FailSafe:      c.Session.FailSafe,
		},
	}
}

// Marshal returns the YAML form of the config.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c.document())
}

// Redacted returns a copy of the config with passwords and tokens masked.
func (c *Config) Redacted() *Config {
	redacted := *c
	redacted.Servers = make([]models.LoginInfo, len(c.Servers))
	for i, server := range c.Servers {
		if len(server.Password) > 0 {
			server.Password = redactedValue
		}
		if len(server.Token) > 0 {
			server.Token = redactedValue
		}
		redacted.Servers[i] = server
	}
	return &redacted
}

const redactedValue = "********"

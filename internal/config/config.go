package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"

	"github.com/datashield/datashield-go/internal/common"
	"github.com/datashield/datashield-go/internal/models"
)

const (
	// ProjectConfigPath is the configuration file of the working directory.
	ProjectConfigPath = ".datashield/config.yaml"
	envPrefix         = "DATASHIELD"
)

// UserConfigPath returns ~/.config/datashield/config.yaml, empty when the
// home directory is unknown.
func UserConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil || len(home) == 0 {
		return ""
	}
	return filepath.Join(home, ".config", "datashield", "config.yaml")
}

// decodeHooks accepts ISO 8601 durations next to the Go notation.
var decodeHooks = viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
	common.DurationHook(),
	mapstructure.StringToSliceHookFunc(","),
))

func DefaultConfig() *Config {
	v := viper.New()
	setDefaults(v)

	var config Config
	if err := v.Unmarshal(&config, decodeHooks); err != nil {
		logrus.Fatalf("error unmarshaling default config: %v", err)
	}
	return &config
}

// Load reads the configuration. When configFile is empty the user level
// file then the project level file are merged, if they exist: a server
// defined in both comes from the project file, other settings are
// overridden key by key. Environment variables prefixed DATASHIELD_ have
// the last word.
func Load(configFile string) (*Config, error) {
	loadEnvFile()

	files, err := configFiles(configFile)
	if err != nil {
		return nil, err
	}

	config, err := load(files)
	if err != nil {
		return nil, err
	}

	if err := setupLogging(config); err != nil {
		return nil, err
	}

	return config, nil
}

func load(files []string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	bindEnvironmentVariables(v)

	var servers []models.LoginInfo
	for _, file := range files {
		part, settings, err := readConfigFile(file)
		if err != nil {
			return nil, err
		}
		servers = mergeServers(servers, part.Servers)

		delete(settings, "servers")
		if err := v.MergeConfigMap(settings); err != nil {
			return nil, fmt.Errorf("error merging config file %s: %w", file, err)
		}
	}

	var config Config
	if err := v.UnmarshalExact(&config, decodeHooks); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	config.Servers = servers
	config.files = files

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// loadEnvFile loads the .env file if it exists
func loadEnvFile() {
	if err := gotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).Warnln("Error loading .env file")
	}
}

func configFiles(configFile string) ([]string, error) {
	if len(configFile) > 0 {
		if _, err := os.Stat(configFile); err != nil {
			return nil, fmt.Errorf("config file not found: %w", err)
		}
		return []string{configFile}, nil
	}

	var files []string
	for _, candidate := range []string{UserConfigPath(), ProjectConfigPath} {
		if len(candidate) == 0 {
			continue
		}
		if _, err := os.Stat(candidate); err == nil {
			files = append(files, candidate)
		}
	}
	return files, nil
}

// readConfigFile decodes one file strictly: unknown keys are rejected.
func readConfigFile(file string) (*Config, map[string]any, error) {
	v := viper.New()
	v.SetConfigFile(file)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, nil, fmt.Errorf("error reading config file %s: %w", file, err)
	}

	var part Config
	if err := v.UnmarshalExact(&part, decodeHooks); err != nil {
		return nil, nil, fmt.Errorf("%w: invalid config file %s: %v", models.ErrValidation, file, err)
	}

	logrus.WithFields(logrus.Fields{
		"file":    file,
		"servers": len(part.Servers),
	}).Debugln("Read config file")

	return &part, v.AllSettings(), nil
}

// mergeServers replaces servers with the same name, in place, and appends
// the new ones.
func mergeServers(base []models.LoginInfo, overrides []models.LoginInfo) []models.LoginInfo {
	for _, server := range overrides {
		replaced := false
		for i := range base {
			if base[i].Name == server.Name {
				base[i] = server
				replaced = true
				break
			}
		}
		if !replaced {
			base = append(base, server)
		}
	}
	return base
}

// Validate checks the required server fields and applies the defaults.
func (c *Config) Validate() error {
	var errs []error
	for i := range c.Servers {
		server := &c.Servers[i]
		if len(server.Name) == 0 {
			errs = append(errs, fmt.Errorf("%w: servers[%d]: name is required", models.ErrValidation, i))
		}
		if len(server.URL) == 0 {
			errs = append(errs, fmt.Errorf("%w: servers[%d]: url is required", models.ErrValidation, i))
		}
		server.ApplyDefaults()
	}
	if c.Session.PollInterval < 0 || c.Session.StartTimeout < 0 || c.Session.ResultTimeout < 0 {
		errs = append(errs, fmt.Errorf("%w: session durations must not be negative", models.ErrValidation))
	}
	return errors.Join(errs...)
}

func bindEnvironmentVariables(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.BindEnv("logging.level", "DATASHIELD_LOGGING_LEVEL")
	v.BindEnv("logging.format", "DATASHIELD_LOGGING_FORMAT")
	v.BindEnv("logging.output", "DATASHIELD_LOGGING_OUTPUT")
	v.BindEnv("logging.events_level", "DATASHIELD_LOGGING_EVENTS_LEVEL")

	v.BindEnv("session.poll_interval", "DATASHIELD_SESSION_POLL_INTERVAL")
	v.BindEnv("session.start_timeout", "DATASHIELD_SESSION_START_TIMEOUT")
	v.BindEnv("session.result_timeout", "DATASHIELD_SESSION_RESULT_TIMEOUT")
	v.BindEnv("session.fail_safe", "DATASHIELD_SESSION_FAIL_SAFE")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.output", "")
	v.SetDefault("logging.events_level", "warn")

	v.SetDefault("session.poll_interval", "100ms")
	v.SetDefault("session.start_timeout", "300s")
	v.SetDefault("session.result_timeout", "0s")
	v.SetDefault("session.fail_safe", false)
}

// setupLogging configures logrus from the config
func setupLogging(config *Config) error {
	level, err := logrus.ParseLevel(config.Logging.Level)
	if err != nil {
		return fmt.Errorf("error parsing log level: %w", err)
	}
	logrus.SetLevel(level)

	switch strings.ToLower(config.Logging.Format) {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	default:
		logrus.WithFields(logrus.Fields{
			"format": config.Logging.Format,
		}).Warn("Unknown log format")
	}

	switch strings.ToLower(config.Logging.Output) {
	case "", "stderr":
		logrus.SetOutput(os.Stderr)
	case "stdout":
		logrus.SetOutput(os.Stdout)
	default:
		file, err := os.OpenFile(config.Logging.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return fmt.Errorf("error opening log file: %w", err)
		}
		logrus.SetOutput(file)
	}

	eventsLevel, err := logrus.ParseLevel(config.Logging.EventsLevel)
	if err != nil {
		return fmt.Errorf("error parsing events level: %w", err)
	}
	config.events = eventLog(eventsLevel)

	return nil
}

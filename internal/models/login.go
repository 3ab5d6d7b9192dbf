package models

const (
	// DefaultProfile is the DataSHIELD profile used when none is given.
	DefaultProfile = "default"
	// DefaultDriver is the driver identifier used when none is given.
	DefaultDriver = "datashield_opal.OpalDriver"
)

/*
name: server1
url: https://opal-demo.obiba.org
user: dsuser
password: P@ssw0rd
profile: default
driver: datashield_opal.OpalDriver
*/
type LoginInfo struct {
	Name     string `json:"name" yaml:"name" mapstructure:"name"`
	URL      string `json:"url" yaml:"url" mapstructure:"url"`
	User     string `json:"user,omitempty" yaml:"user,omitempty" mapstructure:"user"`
	Password string `json:"password,omitempty" yaml:"password,omitempty" mapstructure:"password"`
	Token    string `json:"token,omitempty" yaml:"token,omitempty" mapstructure:"token"`
	Profile  string `json:"profile" yaml:"profile" mapstructure:"profile"`
	Driver   string `json:"driver" yaml:"driver" mapstructure:"driver"`
}

// NewLoginInfo returns login details with the profile and driver defaults applied.
func NewLoginInfo(name, url, user, password, token, profile, driver string) LoginInfo {
	info := LoginInfo{
		Name:     name,
		URL:      url,
		User:     user,
		Password: password,
		Token:    token,
		Profile:  profile,
		Driver:   driver,
	}
	info.ApplyDefaults()
	return info
}

func (l *LoginInfo) ApplyDefaults() {
	if len(l.Profile) == 0 {
		l.Profile = DefaultProfile
	}
	if len(l.Driver) == 0 {
		l.Driver = DefaultDriver
	}
}

// HasCredentials reports whether a user or a token is available to authenticate.
func (l LoginInfo) HasCredentials() bool {
	return len(l.User) > 0 || len(l.Token) > 0
}

// UsesToken is true when the token takes precedence over user/password.
func (l LoginInfo) UsesToken() bool {
	return len(l.Token) > 0
}

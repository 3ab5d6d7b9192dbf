package logins

import (
	"fmt"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/datashield/datashield-go/internal/common"
	"github.com/datashield/datashield-go/internal/models"
)

// Builder collects the login details of a set of DataSHIELD servers.
// Insertion order is kept and server names are unique.
type Builder struct {
	items []models.LoginInfo
}

func NewBuilder() *Builder {
	return &Builder{}
}

// AddServer is a shortcut for Add with positional arguments. Empty profile
// and driver fall back to their defaults.
func (b *Builder) AddServer(name, url, user, password, token, profile, driver string) error {
	return b.Add(models.NewLoginInfo(name, url, user, password, token, profile, driver))
}

// Add validates and appends login details. The builder is unchanged when
// validation fails.
func (b *Builder) Add(info models.LoginInfo) error {
	if len(info.Name) == 0 {
		return fmt.Errorf("%w: server name is missing", models.ErrValidation)
	}
	if len(info.URL) == 0 {
		return fmt.Errorf("%w: server URL is missing for %s", models.ErrValidation, info.Name)
	}
	if b.Has(info.Name) {
		return fmt.Errorf("%w: server name must be unique: %s", models.ErrValidation, info.Name)
	}
	if !info.HasCredentials() {
		return fmt.Errorf("%w: either user or token must be provided for %s", models.ErrValidation, info.Name)
	}

	info.ApplyDefaults()

	if !common.IsValidURL(info.URL) {
		logrus.WithFields(logrus.Fields{
			"server": info.Name,
			"url":    info.URL,
		}).Warnln("Server URL is not an absolute http(s) URL")
	}

	logrus.WithFields(logrus.Fields{
		"server":  info.Name,
		"url":     info.URL,
		"profile": info.Profile,
		"driver":  info.Driver,
	}).Debugln("Adding server login")

	b.items = append(b.items, info)
	return nil
}

// Remove drops the login details of the named server, if any.
func (b *Builder) Remove(name string) {
	b.items = slices.DeleteFunc(b.items, func(info models.LoginInfo) bool {
		return info.Name == name
	})
}

func (b *Builder) Has(name string) bool {
	return slices.ContainsFunc(b.items, func(info models.LoginInfo) bool {
		return info.Name == name
	})
}

func (b *Builder) Len() int {
	return len(b.items)
}

func (b *Builder) Names() []string {
	names := make([]string, 0, len(b.items))
	for _, info := range b.items {
		names = append(names, info.Name)
	}
	return names
}

// Build returns a copy of the login details, in insertion order.
func (b *Builder) Build() []models.LoginInfo {
	return slices.Clone(b.items)
}

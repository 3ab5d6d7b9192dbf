package common

import (
	"net/url"
	"slices"
)

// IsValidURL checks that rawurl is an absolute http(s) URL.
func IsValidURL(rawurl string) bool {
	parsed, err := url.ParseRequestURI(rawurl)
	if err != nil {
		return false
	}
	return slices.Contains([]string{"http", "https"}, parsed.Scheme) && len(parsed.Host) > 0
}

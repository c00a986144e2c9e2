/*
 * m3u-bridge is a project to serve an M3U playlist through an Xtream-style catalog.
 * Copyright (C) 2025  Lucas Duport
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <https://www.gnu.org/licenses/>.
 */

package config

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"

	"github.com/lucasduport/m3u-bridge/pkg/utils"
)

// Defaults applied by ApplyDefaults.
const (
	DefaultPort            = 8080
	DefaultM3UFileName     = "iptv.m3u"
	DefaultCacheExpiration = 5 * time.Minute
	DefaultUpstreamTimeout = 30 * time.Second
)

// CredentialString represents a username or password that may need escaping
// when inserted into a URL path.
type CredentialString string

func (c CredentialString) String() string {
	return string(c)
}

// PathEscape escapes the credential for use in a URL path segment.
func (c CredentialString) PathEscape() string {
	return url.PathEscape(string(c))
}

// ConfigurationError reports an unusable configuration value.
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration %q: %s", e.Key, e.Reason)
}

// ErrMissingPlaylistURL is reported when no upstream playlist is configured.
// The server still starts and every catalog request fails until it is set.
var ErrMissingPlaylistURL = &ConfigurationError{Key: "m3u-url", Reason: "upstream playlist URL is required"}

// HostConfiguration is the address the server listens on.
type HostConfiguration struct {
	Hostname string `yaml:"hostname"`
	Port     int    `yaml:"port"`
}

// ProxyConfig is the process configuration, built once at startup.
type ProxyConfig struct {
	HostConfig *HostConfiguration `yaml:"host"`

	RemoteURL          string        `yaml:"m3u-url"`
	M3UCacheExpiration time.Duration `yaml:"m3u-cache-expiration"`
	UserAgent          string        `yaml:"user-agent"`
	UpstreamTimeout    time.Duration `yaml:"upstream-timeout"`

	// Users is the allow-list, "user:pass" pairs separated by commas.
	Users string `yaml:"users"`

	AdvertisedPort int    `yaml:"advertised-port"`
	HTTPS          bool   `yaml:"https"`
	M3UFileName    string `yaml:"m3u-file-name"`
	CustomEndpoint string `yaml:"custom-endpoint"`
	LogLevel       string `yaml:"log-level"`

	// RateLimit is the number of requests per second accepted, 0 disables it.
	RateLimit float64 `yaml:"rate-limit"`
	RateBurst int     `yaml:"rate-burst"`

	// LDAP configuration
	LDAPEnabled        bool             `yaml:"ldap-enabled"`
	LDAPServer         string           `yaml:"ldap-server,omitempty"`
	LDAPBaseDN         string           `yaml:"ldap-base-dn,omitempty"`
	LDAPBindDN         string           `yaml:"ldap-bind-dn,omitempty"`
	LDAPBindPassword   CredentialString `yaml:"ldap-bind-password,omitempty"`
	LDAPUserAttribute  string           `yaml:"ldap-user-attribute,omitempty"`
	LDAPGroupAttribute string           `yaml:"ldap-group-attribute,omitempty"`
	LDAPRequiredGroup  string           `yaml:"ldap-required-group,omitempty"`
}

// ApplyDefaults fills the zero values that have a default.
func (c *ProxyConfig) ApplyDefaults() {
	if c.HostConfig == nil {
		c.HostConfig = &HostConfiguration{}
	}
	if c.HostConfig.Port == 0 {
		c.HostConfig.Port = DefaultPort
	}
	// Use port if advertised port is not specified
	if c.AdvertisedPort == 0 {
		c.AdvertisedPort = c.HostConfig.Port
	}
	if c.M3UCacheExpiration <= 0 {
		c.M3UCacheExpiration = DefaultCacheExpiration
	}
	if c.UpstreamTimeout <= 0 {
		c.UpstreamTimeout = DefaultUpstreamTimeout
	}
	if c.M3UFileName == "" {
		c.M3UFileName = DefaultM3UFileName
	}
	c.M3UFileName = strings.Trim(c.M3UFileName, "/")
	if c.RateLimit > 0 && c.RateBurst <= 0 {
		c.RateBurst = int(math.Ceil(c.RateLimit))
	}
	c.CustomEndpoint = strings.Trim(c.CustomEndpoint, "/")
}

// Validate reports every configuration problem found. Callers decide which
// ones are fatal: a missing playlist URL is not.
func (c *ProxyConfig) Validate() error {
	var errs []error

	if strings.TrimSpace(c.RemoteURL) == "" {
		errs = append(errs, ErrMissingPlaylistURL)
	} else if u, err := url.Parse(c.RemoteURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, &ConfigurationError{Key: "m3u-url", Reason: "not an absolute URL: " + utils.MaskURL(c.RemoteURL)})
	}

	if c.LDAPEnabled && c.LDAPServer == "" {
		errs = append(errs, &ConfigurationError{Key: "ldap-server", Reason: "required when ldap-enabled is set"})
	}

	if c.RateLimit < 0 {
		errs = append(errs, &ConfigurationError{Key: "rate-limit", Reason: "must not be negative"})
	}

	if c.HostConfig != nil && (c.HostConfig.Port < 0 || c.HostConfig.Port > 65535) {
		errs = append(errs, &ConfigurationError{Key: "port", Reason: fmt.Sprintf("%d is out of range", c.HostConfig.Port)})
	}

	return errors.Join(errs...)
}

// Redacted returns a copy safe to print: passwords are masked.
func (c ProxyConfig) Redacted() ProxyConfig {
	if c.HostConfig != nil {
		host := *c.HostConfig
		c.HostConfig = &host
	}
	c.RemoteURL = utils.MaskURL(c.RemoteURL)
	c.Users = maskUsers(c.Users)
	if c.LDAPBindPassword != "" {
		c.LDAPBindPassword = "******"
	}
	return c
}

func maskUsers(users string) string {
	pairs := strings.FieldsFunc(users, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n' || r == '\r'
	})
	masked := make([]string, 0, len(pairs))
	for _, pair := range pairs {
		user, _, _ := strings.Cut(pair, ":")
		user = strings.TrimSpace(user)
		if user == "" {
			continue
		}
		masked = append(masked, user+":******")
	}
	return strings.Join(masked, ",")
}

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
	"testing"
	"time"
)

func TestApplyDefaults(t *testing.T) {
	c := &ProxyConfig{M3UFileName: "/lists/tv.m3u/", CustomEndpoint: "/custom/"}
	c.ApplyDefaults()

	if c.HostConfig.Port != DefaultPort || c.AdvertisedPort != DefaultPort {
		t.Errorf("ports = %d/%d, want %d", c.HostConfig.Port, c.AdvertisedPort, DefaultPort)
	}
	if c.M3UCacheExpiration != 5*time.Minute {
		t.Errorf("M3UCacheExpiration = %v", c.M3UCacheExpiration)
	}
	if c.UpstreamTimeout != DefaultUpstreamTimeout {
		t.Errorf("UpstreamTimeout = %v", c.UpstreamTimeout)
	}
	if c.M3UFileName != "lists/tv.m3u" || c.CustomEndpoint != "custom" {
		t.Errorf("M3UFileName/CustomEndpoint = %q/%q", c.M3UFileName, c.CustomEndpoint)
	}

	c = &ProxyConfig{RateLimit: 2.5}
	c.ApplyDefaults()
	if c.RateBurst != 3 {
		t.Errorf("RateBurst = %d, want 3", c.RateBurst)
	}

	c = &ProxyConfig{HostConfig: &HostConfiguration{Port: 9000}, AdvertisedPort: 443}
	c.ApplyDefaults()
	if c.AdvertisedPort != 443 || c.M3UFileName != DefaultM3UFileName {
		t.Errorf("AdvertisedPort/M3UFileName = %d/%q", c.AdvertisedPort, c.M3UFileName)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ProxyConfig
		wantErr error
		wantKey string
	}{
		{name: "valid", cfg: ProxyConfig{RemoteURL: "http://provider/get.php?username=a&password=b"}},
		{name: "missing url", cfg: ProxyConfig{}, wantErr: ErrMissingPlaylistURL},
		{name: "relative url", cfg: ProxyConfig{RemoteURL: "playlist.m3u"}, wantKey: "m3u-url"},
		{name: "ldap without server", cfg: ProxyConfig{RemoteURL: "http://p/list", LDAPEnabled: true}, wantKey: "ldap-server"},
		{name: "negative rate", cfg: ProxyConfig{RemoteURL: "http://p/list", RateLimit: -1}, wantKey: "rate-limit"},
		{name: "bad port", cfg: ProxyConfig{RemoteURL: "http://p/list", HostConfig: &HostConfiguration{Port: 70000}}, wantKey: "port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == nil && tt.wantKey == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() returned nil")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
			var ce *ConfigurationError
			if !errors.As(err, &ce) {
				t.Fatalf("Validate() = %T, want *ConfigurationError", err)
			}
			if tt.wantKey != "" && ce.Key != tt.wantKey {
				t.Errorf("Key = %q, want %q", ce.Key, tt.wantKey)
			}
		})
	}
}

func TestRedacted(t *testing.T) {
	c := ProxyConfig{
		HostConfig:       &HostConfiguration{Port: 8080},
		RemoteURL:        "http://p/get.php?username=provider&password=longsecretvalue",
		Users:            "alice:secret, bob:hunter2",
		LDAPBindPassword: "svc",
	}
	r := c.Redacted()

	if r.Users != "alice:******,bob:******" {
		t.Errorf("Users = %q", r.Users)
	}
	if r.LDAPBindPassword != "******" {
		t.Errorf("LDAPBindPassword = %q", r.LDAPBindPassword)
	}
	if r.RemoteURL == c.RemoteURL {
		t.Error("RemoteURL credentials not masked")
	}
	r.HostConfig.Port = 1
	if c.HostConfig.Port != 8080 {
		t.Error("Redacted() shares HostConfig with the original")
	}
}

func TestCredentialString(t *testing.T) {
	c := CredentialString("a b/c")
	if c.String() != "a b/c" {
		t.Errorf("String() = %q", c.String())
	}
	if c.PathEscape() != "a%20b%2Fc" {
		t.Errorf("PathEscape() = %q", c.PathEscape())
	}
}

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

// Package auth decides whether a username/password pair may read the
// catalog.
package auth

import (
	"strings"

	"github.com/lucasduport/m3u-bridge/pkg/utils"
)

// Authorizer is the access gate consulted by every endpoint.
type Authorizer interface {
	Authorize(username, password string) bool
}

// AuthorizerFunc adapts a function to the Authorizer interface.
type AuthorizerFunc func(username, password string) bool

// Authorize calls f(username, password).
func (f AuthorizerFunc) Authorize(username, password string) bool {
	return f(username, password)
}

// Credentials maps a username to its password.
type Credentials map[string]string

// ParseCredentials reads an allow-list of the form "alice:secret,bob:pw".
// Pairs may also be separated by semicolons or newlines. A pair without a
// colon gets an empty password, blank usernames are skipped and a repeated
// username keeps its last password.
func ParseCredentials(s string) Credentials {
	creds := make(Credentials)
	pairs := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n' || r == '\r'
	})
	for _, pair := range pairs {
		user, pass, _ := strings.Cut(pair, ":")
		user = strings.TrimSpace(user)
		if user == "" {
			continue
		}
		creds[user] = pass
	}
	return creds
}

// AllowList authorizes the pairs of a static credential mapping.
type AllowList struct {
	creds Credentials
}

// NewAllowList copies creds into a gate. An empty mapping lets every pair in.
func NewAllowList(creds Credentials) *AllowList {
	c := make(Credentials, len(creds))
	for u, p := range creds {
		c[u] = p
	}
	if len(c) == 0 {
		utils.WarnLog("No users configured: the catalog is open to any credentials")
	}
	return &AllowList{creds: c}
}

// Open reports whether the gate accepts any credentials.
func (a *AllowList) Open() bool {
	return len(a.creds) == 0
}

// Len returns the number of configured users.
func (a *AllowList) Len() int {
	return len(a.creds)
}

// Authorize implements Authorizer.
func (a *AllowList) Authorize(username, password string) bool {
	if a.Open() {
		return true
	}
	expected, ok := a.creds[username]
	if !ok || expected != password {
		utils.DebugLog("Local authentication failed for user: %s", username)
		return false
	}
	return true
}

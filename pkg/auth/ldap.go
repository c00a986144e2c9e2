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

package auth

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/go-ldap/ldap/v3"
	"github.com/lucasduport/m3u-bridge/pkg/utils"
)

// LDAPConfig describes the directory used to check credentials.
type LDAPConfig struct {
	Server         string
	BaseDN         string
	BindDN         string
	BindPassword   string
	UserAttribute  string
	GroupAttribute string
	RequiredGroup  string
	Timeout        time.Duration
}

// LDAP authorizes users by binding against a directory.
type LDAP struct {
	cfg  LDAPConfig
	dial func(addr string) (ldapConn, func(), error)
}

// ldapConn is the subset of *ldap.Conn used by the gate.
type ldapConn interface {
	Bind(username, password string) error
	Search(req *ldap.SearchRequest) (*ldap.SearchResult, error)
}

// NewLDAP returns a gate for cfg. UserAttribute defaults to uid.
func NewLDAP(cfg LDAPConfig) *LDAP {
	if cfg.UserAttribute == "" {
		cfg.UserAttribute = "uid"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	timeout := cfg.Timeout
	return &LDAP{
		cfg: cfg,
		dial: func(addr string) (ldapConn, func(), error) {
			conn, err := ldap.DialURL(addr, ldap.DialWithDialer(&net.Dialer{Timeout: timeout}))
			if err != nil {
				return nil, nil, err
			}
			conn.SetTimeout(timeout)
			return conn, func() { conn.Close() }, nil
		},
	}
}

// Authorize binds with the optional service account, looks up the user DN,
// checks group membership when a group is required, then binds as the user.
func (l *LDAP) Authorize(username, password string) bool {
	if username == "" || password == "" {
		// An empty password would be an unauthenticated bind.
		return false
	}
	if err := l.authenticate(username, password); err != nil {
		utils.DebugLog("LDAP authentication failed for user %s: %v", username, err)
		return false
	}
	utils.DebugLog("LDAP authentication succeeded for user: %s", username)
	return true
}

func (l *LDAP) authenticate(username, password string) error {
	conn, closeConn, err := l.dial(l.cfg.Server)
	if err != nil {
		return fmt.Errorf("dial %s: %w", l.cfg.Server, err)
	}
	defer closeConn()

	if l.cfg.BindDN != "" && l.cfg.BindPassword != "" {
		if err := conn.Bind(l.cfg.BindDN, l.cfg.BindPassword); err != nil {
			return fmt.Errorf("service bind: %w", err)
		}
	}

	attrs := []string{"dn"}
	if l.cfg.GroupAttribute != "" {
		attrs = append(attrs, l.cfg.GroupAttribute)
	}
	filter := fmt.Sprintf("(%s=%s)", l.cfg.UserAttribute, ldap.EscapeFilter(username))
	sr, err := conn.Search(ldap.NewSearchRequest(
		l.cfg.BaseDN,
		ldap.ScopeWholeSubtree, ldap.NeverDerefAliases, 1, 0, false,
		filter,
		attrs,
		nil,
	))
	if err != nil {
		return fmt.Errorf("search %s: %w", filter, err)
	}
	if len(sr.Entries) == 0 {
		return fmt.Errorf("no entry matches %s", filter)
	}
	entry := sr.Entries[0]

	if l.cfg.RequiredGroup != "" && l.cfg.GroupAttribute != "" && !memberOf(entry, l.cfg.GroupAttribute, l.cfg.RequiredGroup) {
		return fmt.Errorf("%s is not a member of %s", entry.DN, l.cfg.RequiredGroup)
	}

	if err := conn.Bind(entry.DN, password); err != nil {
		return fmt.Errorf("user bind: %w", err)
	}
	return nil
}

// memberOf reports whether one of the attr values names group. A group given
// as a full DN must match a value exactly; a bare name must match the value
// of the first RDN. Both comparisons ignore case.
func memberOf(entry *ldap.Entry, attr, group string) bool {
	want, err := ldap.ParseDN(group)
	fullDN := err == nil && len(want.RDNs) > 0 && strings.Contains(group, "=")

	for _, v := range entry.GetAttributeValues(attr) {
		dn, err := ldap.ParseDN(v)
		if err != nil || len(dn.RDNs) == 0 {
			continue
		}
		if fullDN {
			if sameDN(dn, want) {
				return true
			}
			continue
		}
		for _, a := range dn.RDNs[0].Attributes {
			if strings.EqualFold(a.Value, group) {
				return true
			}
		}
	}
	return false
}

func sameDN(a, b *ldap.DN) bool {
	if len(a.RDNs) != len(b.RDNs) {
		return false
	}
	for i := range a.RDNs {
		x, y := a.RDNs[i].Attributes, b.RDNs[i].Attributes
		if len(x) != len(y) {
			return false
		}
		for j := range x {
			if !strings.EqualFold(x[j].Type, y[j].Type) || !strings.EqualFold(x[j].Value, y[j].Value) {
				return false
			}
		}
	}
	return true
}

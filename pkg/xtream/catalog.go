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

package xtream

import (
	"fmt"
	"strconv"
	"time"

	"github.com/lucasduport/m3u-bridge/pkg/playlist"
)

const (
	streamTypeLive = "live"
	timeNowLayout  = "2006-01-02 15:04:05"
	// Accounts never expire; players still expect a date.
	accountLifetime = 365 * 24 * time.Hour
)

// Host describes how the bridge is reached by players.
type Host struct {
	Hostname string
	Port     int
	HTTPS    bool
}

func (h Host) protocol() string {
	if h.HTTPS {
		return "https"
	}
	return "http"
}

// NewAccountInfo builds the user_info object. Auth is 1 when authorized and 0
// otherwise, whatever else is returned.
func NewAccountInfo(username, password string, authorized bool, now time.Time) AccountInfo {
	info := AccountInfo{
		Username:             username,
		Password:             password,
		Auth:                 0,
		Status:               "Disabled",
		IsTrial:              "0",
		ActiveCons:           "0",
		MaxConnections:       "1",
		AllowedOutputFormats: []string{"m3u8", "ts"},
	}
	if authorized {
		info.Auth = 1
		info.Status = "Active"
		info.ExpDate = strconv.FormatInt(now.Add(accountLifetime).Unix(), 10)
		info.CreatedAt = strconv.FormatInt(now.Unix(), 10)
	} else {
		info.Message = "Invalid credentials"
	}
	return info
}

// NewServerInfo builds the server_info object for host at time now.
func NewServerInfo(host Host, now time.Time) ServerInfo {
	port := strconv.Itoa(host.Port)
	return ServerInfo{
		URL:            fmt.Sprintf("%s://%s", host.protocol(), host.Hostname),
		Port:           port,
		HTTPSPort:      port,
		ServerProtocol: host.protocol(),
		RTMPPort:       port,
		Timezone:       "UTC",
		TimestampNow:   now.Unix(),
		TimeNow:        now.UTC().Format(timeNowLayout),
	}
}

// NewStream maps a catalog entry to its live stream description.
func NewStream(e playlist.Entry) Stream {
	return Stream{
		Num:          e.SequenceID,
		Name:         e.Name,
		StreamType:   streamTypeLive,
		StreamID:     e.SequenceID,
		StreamIcon:   e.LogoURL,
		EPGChannelID: e.ChannelID,
		Added:        "0",
		CategoryID:   e.Category,
		CategoryName: e.Category,
		DirectSource: e.MediaURL,
	}
}

// Streams maps entries in order.
func Streams(entries []playlist.Entry) []Stream {
	streams := make([]Stream, 0, len(entries))
	for _, e := range entries {
		streams = append(streams, NewStream(e))
	}
	return streams
}

// NewCatalog builds the panel_api envelope. entries is only mapped when the
// account is authorized.
func NewCatalog(account AccountInfo, server ServerInfo, entries []playlist.Entry) Catalog {
	c := Catalog{
		UserInfo:          account,
		ServerInfo:        server,
		AvailableChannels: []Stream{},
	}
	if account.Auth == 1 {
		c.AvailableChannels = Streams(entries)
	}
	return c
}

// Categories lists the distinct categories of entries in order of first
// appearance.
func Categories(entries []playlist.Entry) []Category {
	seen := make(map[string]struct{})
	categories := make([]Category, 0)
	for _, e := range entries {
		if _, ok := seen[e.Category]; ok {
			continue
		}
		seen[e.Category] = struct{}{}
		categories = append(categories, Category{CategoryID: e.Category, CategoryName: e.Category})
	}
	return categories
}

// FilterByCategory keeps the streams of categoryID. An empty categoryID keeps
// everything.
func FilterByCategory(streams []Stream, categoryID string) []Stream {
	if categoryID == "" {
		return streams
	}
	filtered := make([]Stream, 0)
	for _, s := range streams {
		if s.CategoryID == categoryID {
			filtered = append(filtered, s)
		}
	}
	return filtered
}

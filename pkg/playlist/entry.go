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

// Package playlist turns an upstream M3U feed into catalog entries and keeps
// the last good copy of that feed for a bounded amount of time.
package playlist

// Fallback labels used when a metadata line does not carry enough information.
const (
	UnnamedEntry    = "Unnamed"
	DefaultCategory = "Other"
)

// Well known #EXTINF attribute keys.
const (
	AttrName     = "tvg-name"
	AttrID       = "tvg-id"
	AttrLogo     = "tvg-logo"
	AttrGroup    = "group-title"
	AttrChNumber = "tvg-chno"
)

// Entry is one playable item of the playlist.
type Entry struct {
	Name       string
	Title      string
	ChannelID  string // tvg-id, empty when absent
	LogoURL    string // tvg-logo, empty when absent
	Category   string
	MediaURL   string
	SequenceID int // 1-based, only meaningful within one parse
	Duration   int

	// Attributes holds every key="value" pair of the metadata line.
	Attributes map[string]string
}

// Attr returns the value of an attribute of the metadata line, if any.
func (e Entry) Attr(key string) string {
	return e.Attributes[key]
}

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
	"strings"

	"github.com/lucasduport/m3u-bridge/pkg/playlist"
)

// Placeholders substituted in the raw playlist with the caller's credentials.
const (
	UsernamePlaceholder = "{username}"
	PasswordPlaceholder = "{password}"
)

// Content types of the get.php answer.
const (
	ContentTypeHLS = "application/vnd.apple.mpegurl"
	ContentTypeM3U = "audio/x-mpegurl"
)

// DeniedPlaylist is served with 401 to rejected credentials.
const DeniedPlaylist = "#EXTM3U\n# Access denied\n"

// ErrorPlaylist is a playlist-shaped body carrying msg, served when the
// playlist cannot be produced.
func ErrorPlaylist(msg string) string {
	msg = strings.NewReplacer("\r", " ", "\n", " ").Replace(msg)
	return "#EXTM3U\n# Error: " + msg + "\n"
}

// ProcessPlaylist substitutes the credential placeholders of raw and makes
// sure the result starts with the #EXTM3U header.
func ProcessPlaylist(raw, username, password string) string {
	out := strings.NewReplacer(
		UsernamePlaceholder, username,
		PasswordPlaceholder, password,
	).Replace(raw)
	if !playlist.HasHeader(out) {
		out = "#EXTM3U\n" + out
	}
	return out
}

// ContentType picks the content type of get.php from its type and output
// parameters.
func ContentType(typ, output string) string {
	if strings.EqualFold(typ, "m3u8") || strings.EqualFold(output, "hls") || strings.EqualFold(output, "m3u8") {
		return ContentTypeHLS
	}
	return ContentTypeM3U
}

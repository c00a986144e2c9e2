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
	"testing"

	"github.com/lucasduport/m3u-bridge/pkg/playlist"
)

func TestProcessPlaylist(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "placeholders",
			raw:  "#EXTM3U\n#EXTINF:-1,A\nhttp://up/live/{username}/{password}/1.ts",
			want: "#EXTM3U\n#EXTINF:-1,A\nhttp://up/live/alice/secret/1.ts",
		},
		{
			name: "missing header",
			raw:  "#EXTINF:-1,A\nhttp://a",
			want: "#EXTM3U\n#EXTINF:-1,A\nhttp://a",
		},
		{
			name: "lowercase header kept",
			raw:  "#extm3u\n",
			want: "#extm3u\n",
		},
		{
			name: "empty",
			raw:  "",
			want: "#EXTM3U\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ProcessPlaylist(tt.raw, "alice", "secret"); got != tt.want {
				t.Errorf("ProcessPlaylist() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDeniedAndErrorPlaylists(t *testing.T) {
	if !playlist.HasHeader(DeniedPlaylist) {
		t.Error("DeniedPlaylist lacks the header")
	}
	if n := len(playlist.Parse(DeniedPlaylist)); n != 0 {
		t.Errorf("DeniedPlaylist parses to %d entries", n)
	}

	body := ErrorPlaylist("upstream returned HTTP 502\nretry later")
	if !strings.HasPrefix(body, "#EXTM3U\n# Error: upstream returned HTTP 502 retry later") {
		t.Errorf("ErrorPlaylist() = %q", body)
	}
	if n := len(playlist.Parse(body)); n != 0 {
		t.Errorf("ErrorPlaylist parses to %d entries", n)
	}
}

func TestContentType(t *testing.T) {
	tests := []struct {
		typ, output, want string
	}{
		{"m3u_plus", "", ContentTypeM3U},
		{"m3u_plus", "ts", ContentTypeM3U},
		{"m3u8", "", ContentTypeHLS},
		{"m3u_plus", "hls", ContentTypeHLS},
		{"", "M3U8", ContentTypeHLS},
	}
	for _, tt := range tests {
		if got := ContentType(tt.typ, tt.output); got != tt.want {
			t.Errorf("ContentType(%q, %q) = %q, want %q", tt.typ, tt.output, got, tt.want)
		}
	}
}

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

package playlist

import (
	"strings"
	"testing"
)

func TestMarshal_RoundTrip(t *testing.T) {
	text := "#EXTINF:-1 tvg-id=\"c1\" group-title=\"Sports\" tvg-chno=\"3\",Sport One\nhttp://s/1\n" +
		"#EXTINF:-1,\nhttp://s/2\n"

	entries := Parse(text)
	out := string(Marshal(ToPlaylist(entries)))

	if !strings.HasPrefix(out, "#EXTM3U\n") {
		t.Errorf("Marshal() output lacks header:\n%s", out)
	}
	if !strings.Contains(out, "tvg-chno=\"3\"") {
		t.Errorf("Marshal() dropped extra attribute:\n%s", out)
	}

	again := Parse(out)
	if len(again) != len(entries) {
		t.Fatalf("re-parsed %d entries, want %d", len(again), len(entries))
	}
	for i := range entries {
		if again[i].Name != entries[i].Name {
			t.Errorf("entry %d: Name = %q, want %q", i, again[i].Name, entries[i].Name)
		}
		if again[i].Category != entries[i].Category {
			t.Errorf("entry %d: Category = %q, want %q", i, again[i].Category, entries[i].Category)
		}
		if again[i].MediaURL != entries[i].MediaURL {
			t.Errorf("entry %d: MediaURL = %q, want %q", i, again[i].MediaURL, entries[i].MediaURL)
		}
	}
}

func TestToPlaylist_TagOrder(t *testing.T) {
	p := ToPlaylist([]Entry{{
		Name:       "A",
		ChannelID:  "a.id",
		Category:   "G",
		MediaURL:   "http://a",
		Duration:   -1,
		Attributes: map[string]string{"zz": "1", "catchup": "default", AttrID: "a.id"},
	}})

	if len(p.Tracks) != 1 {
		t.Fatalf("got %d tracks, want 1", len(p.Tracks))
	}
	var names []string
	for _, tag := range p.Tracks[0].Tags {
		names = append(names, tag.Name)
	}
	want := "tvg-id,tvg-name,group-title,catchup,zz"
	if got := strings.Join(names, ","); got != want {
		t.Errorf("tag order = %s, want %s", got, want)
	}
}

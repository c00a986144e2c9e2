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
	"bytes"
	"fmt"
	"sort"

	"github.com/jamesnetherton/m3u"
)

var leadingTags = []string{AttrID, AttrName, AttrLogo, AttrGroup}

// ToPlaylist converts parsed entries back into an m3u.Playlist. Resolved
// name and category are written as tvg-name and group-title so that players
// see the same labels as the JSON catalog.
func ToPlaylist(entries []Entry) m3u.Playlist {
	p := m3u.Playlist{Tracks: make([]m3u.Track, 0, len(entries))}
	for _, e := range entries {
		p.Tracks = append(p.Tracks, m3u.Track{
			Name:   e.Name,
			Length: e.Duration,
			URI:    e.MediaURL,
			Tags:   entryTags(e),
		})
	}
	return p
}

func entryTags(e Entry) []m3u.Tag {
	resolved := map[string]string{
		AttrID:    e.ChannelID,
		AttrName:  e.Name,
		AttrLogo:  e.LogoURL,
		AttrGroup: e.Category,
	}

	tags := make([]m3u.Tag, 0, len(e.Attributes)+len(leadingTags))
	for _, k := range leadingTags {
		if v := resolved[k]; v != "" {
			tags = append(tags, m3u.Tag{Name: k, Value: v})
		}
	}

	rest := make([]string, 0, len(e.Attributes))
	for k := range e.Attributes {
		if _, known := resolved[k]; !known {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		tags = append(tags, m3u.Tag{Name: k, Value: e.Attributes[k]})
	}
	return tags
}

// Marshal renders a playlist in extended M3U format.
func Marshal(p m3u.Playlist) []byte {
	var buf bytes.Buffer
	buf.WriteString(headerMarker + "\n")
	for _, track := range p.Tracks {
		fmt.Fprintf(&buf, "%s:%d", metadataMarker, track.Length)
		for _, tag := range track.Tags {
			fmt.Fprintf(&buf, " %s=\"%s\"", tag.Name, tag.Value)
		}
		fmt.Fprintf(&buf, ",%s\n%s\n", track.Name, track.URI)
	}
	return buf.Bytes()
}

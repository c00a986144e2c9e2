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
	"regexp"
	"strconv"
	"strings"
)

const (
	headerMarker   = "#EXTM3U"
	metadataMarker = "#EXTINF"
)

var (
	lineSplitter = regexp.MustCompile(`\r\n|\r|\n`)
	attrPattern  = regexp.MustCompile(`([\w-]+)="([^"]*)"`)
)

// Parse extracts the catalog entries of an M3U playlist.
//
// Parse never fails: a metadata line that is not followed by a URL line is
// dropped, a URL line without a metadata line is ignored and missing
// attributes fall back to default labels.
func Parse(text string) []Entry {
	entries := make([]Entry, 0)
	var pending *Entry

	for _, line := range lineSplitter.Split(text, -1) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch {
		case isMetadataLine(line):
			// An unconsumed pending entry is silently replaced.
			e := parseMetadata(line)
			pending = &e
		case pending != nil && !strings.HasPrefix(line, "#"):
			pending.MediaURL = line
			entries = append(entries, *pending)
			pending = nil
		}
	}

	for i := range entries {
		entries[i].SequenceID = i + 1
	}
	return entries
}

// HasHeader reports whether text starts with the #EXTM3U marker, ignoring a
// byte order mark and leading blank space.
func HasHeader(text string) bool {
	text = strings.TrimLeft(text, "\ufeff \t\r\n")
	return strings.HasPrefix(strings.ToUpper(text), headerMarker)
}

func isMetadataLine(line string) bool {
	return len(line) >= len(metadataMarker) &&
		strings.EqualFold(line[:len(metadataMarker)], metadataMarker)
}

// parseMetadata reads an #EXTINF line: the duration, the attribute list and
// the title after the separator comma.
func parseMetadata(line string) Entry {
	body := line[len(metadataMarker):]
	body = strings.TrimPrefix(body, ":")

	head, title := splitTitle(body)
	attrs := scanAttributes(head)

	e := Entry{
		Title:      title,
		ChannelID:  attrs[AttrID],
		LogoURL:    attrs[AttrLogo],
		Duration:   parseDuration(head),
		Attributes: attrs,
	}
	e.Name = firstNonEmpty(attrs[AttrName], title, attrs[AttrID], UnnamedEntry)
	e.Category = firstNonEmpty(attrs[AttrGroup], DefaultCategory)
	return e
}

// splitTitle cuts body at the first comma that is not inside a quoted
// attribute value.
func splitTitle(body string) (head, title string) {
	quoted := false
	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '"':
			quoted = !quoted
		case ',':
			if !quoted {
				return body[:i], strings.TrimSpace(body[i+1:])
			}
		}
	}
	return body, ""
}

// scanAttributes collects key="value" pairs left to right, so a repeated key
// keeps its last value. Values are kept verbatim. Escaped quotes are not
// supported: a value ends at the next double quote.
func scanAttributes(s string) map[string]string {
	attrs := make(map[string]string)
	for _, m := range attrPattern.FindAllStringSubmatch(s, -1) {
		attrs[m[1]] = m[2]
	}
	return attrs
}

func parseDuration(head string) int {
	head = strings.TrimSpace(head)
	end := strings.IndexAny(head, " \t")
	if end >= 0 {
		head = head[:end]
	}
	if d, err := strconv.ParseFloat(head, 64); err == nil {
		return int(d)
	}
	return -1
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

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

package utils

import "os"

// DefaultUserAgent is sent upstream when nothing else is configured. Many
// panels only answer to well known player agents.
const DefaultUserAgent = "IPTVSmartersPro"

// GetIPTVUserAgent returns the user agent to use for upstream playlist requests.
// An explicit value wins, then the USER_AGENT environment variable, then
// DefaultUserAgent.
func GetIPTVUserAgent(configured string) string {
	if configured != "" {
		return configured
	}
	if ua := os.Getenv("USER_AGENT"); ua != "" {
		return ua
	}
	return DefaultUserAgent
}

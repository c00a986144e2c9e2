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
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/lucasduport/m3u-bridge/pkg/utils"
)

// HTTPFetcher retrieves playlists over HTTP.
type HTTPFetcher struct {
	UserAgent string
	Client    *http.Client
}

// NewHTTPFetcher returns a fetcher whose requests time out after timeout.
// Redirects follow the net/http default and fail after 10 hops.
// An empty userAgent falls back to utils.GetIPTVUserAgent.
func NewHTTPFetcher(userAgent string, timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		UserAgent: utils.GetIPTVUserAgent(userAgent),
		Client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Fetch performs a GET on url and returns the status code and body.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (int, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("User-Agent", f.UserAgent)

	resp, err := f.Client.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, "", fmt.Errorf("read body: %w", err)
	}
	utils.DebugLog("Upstream answered HTTP %d with %d bytes", resp.StatusCode, len(body))
	return resp.StatusCode, string(body), nil
}

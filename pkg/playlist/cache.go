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
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/lucasduport/m3u-bridge/pkg/metrics"
	"github.com/lucasduport/m3u-bridge/pkg/utils"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL is how long a fetched playlist is served before it is refetched.
const DefaultTTL = 5 * time.Minute

// ErrNoUpstream is returned when the cache has no playlist URL to fetch.
var ErrNoUpstream = errors.New("no upstream playlist URL configured")

// Fetcher retrieves the raw body of a URL. A transport failure is reported
// through err; any HTTP status is returned as is.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (status int, body string, err error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, url string) (int, string, error)

// Fetch calls f(ctx, url).
func (f FetcherFunc) Fetch(ctx context.Context, url string) (int, string, error) {
	return f(ctx, url)
}

// FetchError is returned when the upstream playlist could not be retrieved.
type FetchError struct {
	URL        string
	StatusCode int // 0 for transport failures
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch playlist %s: upstream returned HTTP %d", utils.MaskURL(e.URL), e.StatusCode)
	}
	return fmt.Sprintf("fetch playlist %s: %v", utils.MaskURL(e.URL), e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Snapshot is the result of one successful fetch. Raw and Entries always
// belong to the same fetch; a snapshot is never modified once published.
type Snapshot struct {
	Raw       string
	Entries   []Entry
	FetchedAt time.Time
}

// Cache owns the lifecycle of the single upstream playlist.
type Cache struct {
	url     string
	fetcher Fetcher
	ttl     time.Duration
	now     func() time.Time

	mu   sync.RWMutex
	snap *Snapshot

	group singleflight.Group
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithTTL overrides DefaultTTL. Non-positive values are ignored.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// NewCache returns an empty cache for the playlist at url.
func NewCache(url string, fetcher Fetcher, opts ...CacheOption) *Cache {
	c := &Cache{
		url:     url,
		fetcher: fetcher,
		ttl:     DefaultTTL,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the upstream playlist location.
func (c *Cache) URL() string { return c.url }

// TTL returns the configured time to live.
func (c *Cache) TTL() time.Duration { return c.ttl }

// Peek returns the current snapshot without any I/O. It is nil before the
// first successful fetch.
func (c *Cache) Peek() *Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

// Playlist returns the raw playlist text, refreshing it first if it expired.
func (c *Cache) Playlist(ctx context.Context) (string, error) {
	s, err := c.Snapshot(ctx)
	if err != nil {
		return "", err
	}
	return s.Raw, nil
}

// Entries returns the parsed playlist, refreshing it first if it expired.
func (c *Cache) Entries(ctx context.Context) ([]Entry, error) {
	s, err := c.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return s.Entries, nil
}

// Snapshot returns the memoized playlist while it is fresh. Once it is older
// than the TTL, or before the first fetch, the playlist is retrieved again.
// A failed retrieval returns a *FetchError and leaves the previous snapshot
// in place for later calls.
func (c *Cache) Snapshot(ctx context.Context) (*Snapshot, error) {
	if s := c.fresh(); s != nil {
		metrics.RecordCacheHit()
		return s, nil
	}

	// Callers that observe the same expired snapshot share one fetch. The fetch
	// outlives the caller that started it; each caller only stops waiting.
	fetchCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan("refresh", func() (interface{}, error) {
		if s := c.fresh(); s != nil {
			return s, nil
		}
		return c.refresh(fetchCtx)
	})

	select {
	case <-ctx.Done():
		return nil, &FetchError{URL: c.url, Err: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			utils.DebugLog("Playlist refresh shared between concurrent requests")
		}
		return res.Val.(*Snapshot), nil
	}
}

func (c *Cache) fresh() *Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snap == nil || c.now().Sub(c.snap.FetchedAt) >= c.ttl {
		return nil
	}
	return c.snap
}

func (c *Cache) refresh(ctx context.Context) (*Snapshot, error) {
	if c.url == "" {
		metrics.RecordFetch(metrics.FetchFailed)
		return nil, &FetchError{Err: ErrNoUpstream}
	}

	utils.InfoLog("Fetching upstream playlist %s", utils.MaskURL(c.url))
	start := c.now()

	status, body, err := c.fetcher.Fetch(ctx, c.url)
	if err != nil {
		metrics.RecordFetch(metrics.FetchFailed)
		return nil, &FetchError{URL: c.url, Err: err}
	}
	// Redirects are followed by the fetcher; a 3xx reaching here is not a playlist.
	if status >= http.StatusMultipleChoices {
		metrics.RecordFetch(metrics.FetchFailed)
		return nil, &FetchError{URL: c.url, StatusCode: status, Err: fmt.Errorf("HTTP %d", status)}
	}

	snap := &Snapshot{
		Raw:       body,
		Entries:   Parse(body),
		FetchedAt: c.now(),
	}

	c.mu.Lock()
	c.snap = snap
	c.mu.Unlock()

	metrics.RecordFetch(metrics.FetchOK)
	metrics.SetCatalogEntries(len(snap.Entries))
	utils.InfoLog("Playlist refreshed: %d entries, %d bytes in %s",
		len(snap.Entries), len(body), snap.FetchedAt.Sub(start))
	return snap, nil
}

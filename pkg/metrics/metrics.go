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

package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fetch results used as label values of PlaylistFetches.
const (
	FetchOK     = "ok"
	FetchFailed = "error"
)

var (
	// PlaylistFetches counts upstream playlist retrievals by result
	PlaylistFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "m3u_bridge_playlist_fetches_total",
		Help: "Total number of upstream playlist fetches",
	}, []string{"result"})

	// CacheHits counts requests served from the memoized playlist
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "m3u_bridge_playlist_cache_hits_total",
		Help: "Total number of playlist reads served without fetching",
	})

	// CatalogEntries is the number of entries of the last parsed playlist
	CatalogEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "m3u_bridge_catalog_entries",
		Help: "Number of entries in the last parsed playlist",
	})

	// Requests counts served requests by endpoint and status code
	Requests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "m3u_bridge_requests_total",
		Help: "Total number of served requests",
	}, []string{"endpoint", "status"})

	// AuthDenied counts rejected credential pairs by endpoint
	AuthDenied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "m3u_bridge_auth_denied_total",
		Help: "Total number of requests rejected by the access gate",
	}, []string{"endpoint"})
)

// RecordFetch increments the fetch counter for result (FetchOK or FetchFailed)
func RecordFetch(result string) {
	PlaylistFetches.WithLabelValues(result).Inc()
}

// RecordCacheHit increments the cache hit counter
func RecordCacheHit() {
	CacheHits.Inc()
}

// SetCatalogEntries sets the size of the current catalog
func SetCatalogEntries(n int) {
	CatalogEntries.Set(float64(n))
}

// RecordRequest increments the request counter
func RecordRequest(endpoint string, status int) {
	Requests.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
}

// RecordAuthDenied increments the denied counter for endpoint
func RecordAuthDenied(endpoint string) {
	AuthDenied.WithLabelValues(endpoint).Inc()
}

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

package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"
	"github.com/lucasduport/m3u-bridge/pkg/auth"
	"github.com/lucasduport/m3u-bridge/pkg/config"
	"github.com/lucasduport/m3u-bridge/pkg/playlist"
	"github.com/lucasduport/m3u-bridge/pkg/utils"
	"github.com/lucasduport/m3u-bridge/pkg/xtream"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

const shutdownTimeout = 10 * time.Second

// Config represent the server configuration
type Config struct {
	*config.ProxyConfig

	cache   *playlist.Cache
	gate    auth.Authorizer
	fetcher playlist.Fetcher
	now     func() time.Time

	router  *gin.Engine
	handler http.Handler
}

// Option customizes a server built by NewServer.
type Option func(*Config)

// WithFetcher replaces the HTTP retrieval of the upstream playlist.
func WithFetcher(f playlist.Fetcher) Option {
	return func(c *Config) { c.fetcher = f }
}

// WithAuthorizer replaces the gate derived from the configuration.
func WithAuthorizer(a auth.Authorizer) Option {
	return func(c *Config) { c.gate = a }
}

// WithClock replaces time.Now for the cache and the advertised server time.
func WithClock(now func() time.Time) Option {
	return func(c *Config) { c.now = now }
}

// NewServer builds the cache, the access gate and the router for conf.
func NewServer(conf *config.ProxyConfig, opts ...Option) (*Config, error) {
	if conf == nil {
		return nil, errors.New("nil configuration")
	}
	conf.ApplyDefaults()

	c := &Config{ProxyConfig: conf, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}

	if c.fetcher == nil {
		c.fetcher = playlist.NewHTTPFetcher(conf.UserAgent, conf.UpstreamTimeout)
	}
	if c.gate == nil {
		c.gate = newAuthorizer(conf)
	}
	c.cache = playlist.NewCache(conf.RemoteURL, c.fetcher,
		playlist.WithTTL(conf.M3UCacheExpiration),
		playlist.WithClock(c.now),
	)

	c.router = c.newRouter()
	gzip, err := gzhttp.NewWrapper(gzhttp.ContentTypeFilter(compressible))
	if err != nil {
		return nil, utils.PrintErrorAndReturn(err)
	}
	c.handler = gzip(c.router)
	return c, nil
}

// compressible extends the gzhttp defaults with playlists, which are text
// despite their audio/x-mpegurl type.
func compressible(contentType string) bool {
	if strings.Contains(strings.ToLower(contentType), "mpegurl") {
		return true
	}
	return gzhttp.DefaultContentTypeFilter(contentType)
}

func newAuthorizer(conf *config.ProxyConfig) auth.Authorizer {
	if conf.LDAPEnabled {
		utils.InfoLog("LDAP authentication enabled against %s", conf.LDAPServer)
		return auth.NewLDAP(auth.LDAPConfig{
			Server:         conf.LDAPServer,
			BaseDN:         conf.LDAPBaseDN,
			BindDN:         conf.LDAPBindDN,
			BindPassword:   conf.LDAPBindPassword.String(),
			UserAttribute:  conf.LDAPUserAttribute,
			GroupAttribute: conf.LDAPGroupAttribute,
			RequiredGroup:  conf.LDAPRequiredGroup,
		})
	}
	gate := auth.NewAllowList(auth.ParseCredentials(conf.Users))
	if !gate.Open() {
		utils.InfoLog("Local authentication enabled for %d user(s)", gate.Len())
	}
	return gate
}

func (c *Config) newRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), c.requestLogger(), cors.Default())
	if c.RateLimit > 0 {
		utils.InfoLog("Limiting requests to %.2f/s (burst %d)", c.RateLimit, c.RateBurst)
		router.Use(rateLimit(rate.NewLimiter(rate.Limit(c.RateLimit), c.RateBurst)))
	}

	router.GET("/health", c.health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	c.routes(router.Group("/"))
	return router
}

// Handler returns the HTTP handler serving every endpoint. Responses are
// gzip compressed when the client accepts it.
func (c *Config) Handler() http.Handler {
	return c.handler
}

// Cache returns the upstream playlist cache.
func (c *Config) Cache() *playlist.Cache {
	return c.cache
}

func (c *Config) host() xtream.Host {
	return xtream.Host{
		Hostname: c.HostConfig.Hostname,
		Port:     c.AdvertisedPort,
		HTTPS:    c.HTTPS,
	}
}

// Serve listens on the configured port until ctx is cancelled, then shuts the
// server down gracefully.
func (c *Config) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", c.HostConfig.Port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           c.handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		utils.InfoLog("Shutting down server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			utils.ErrorLog("Server shutdown: %v", err)
		}
	}()

	utils.InfoLog("[m3u-bridge] Server is ready and listening on %s", addr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return nil
}

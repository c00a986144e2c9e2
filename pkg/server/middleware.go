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
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lucasduport/m3u-bridge/pkg/metrics"
	"github.com/lucasduport/m3u-bridge/pkg/utils"
	"github.com/lucasduport/m3u-bridge/pkg/xtream"
	"golang.org/x/time/rate"
)

const (
	requestIDHeader = "X-Request-ID"
	requestKey      = "catalogRequest"
	authorizedKey   = "authorized"
)

// catalogRequest holds the parameters shared by the catalog endpoints. They
// come from the query string or, for POST, from a form body.
type catalogRequest struct {
	Username   string `form:"username"`
	Password   string `form:"password"`
	Type       string `form:"type"`
	Output     string `form:"output"`
	Action     string `form:"action"`
	CategoryID string `form:"category_id"`
}

// requestLogger tags every request with an id and logs it once handled.
func (c *Config) requestLogger() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		id := ctx.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		ctx.Header(requestIDHeader, id)

		ctx.Next()

		endpoint := ctx.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		status := ctx.Writer.Status()
		metrics.RecordRequest(endpoint, status)
		utils.RequestLog(ctx.Request.Method, ctx.Request.URL.Path, status, time.Since(start), ctx.ClientIP(), id)
	}
}

const invalidParameters = "invalid request parameters"

// authenticate binds the request parameters and asks the gate about the
// credentials. A denial does not abort: each endpoint answers it its own way.
func (c *Config) authenticate(ctx *gin.Context) {
	c.authenticateWith(ctx, func(ctx *gin.Context) {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": invalidParameters})
	})
}

// authenticatePlaylist is authenticate for the playlist endpoints, which
// answer unreadable parameters with a playlist body.
func (c *Config) authenticatePlaylist(ctx *gin.Context) {
	c.authenticateWith(ctx, func(ctx *gin.Context) {
		ctx.Data(http.StatusBadRequest, xtream.ContentTypeM3U, []byte(xtream.ErrorPlaylist(invalidParameters)))
		ctx.Abort()
	})
}

func (c *Config) authenticateWith(ctx *gin.Context, reject gin.HandlerFunc) {
	var req catalogRequest
	if err := ctx.ShouldBind(&req); err != nil {
		utils.DebugLog("Bind error: %v", err)
		reject(ctx)
		return
	}

	ok := c.gate.Authorize(req.Username, req.Password)
	if !ok {
		utils.DebugLog("Authentication failed for user %q on %s", req.Username, ctx.FullPath())
		metrics.RecordAuthDenied(ctx.FullPath())
	}

	ctx.Set(requestKey, req)
	ctx.Set(authorizedKey, ok)
	ctx.Next()
}

func requestFrom(ctx *gin.Context) (catalogRequest, bool) {
	req, _ := ctx.MustGet(requestKey).(catalogRequest)
	return req, ctx.GetBool(authorizedKey)
}

// rateLimit rejects requests above the limiter's rate with 429.
func rateLimit(limiter *rate.Limiter) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !limiter.Allow() {
			ctx.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		ctx.Next()
	}
}

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
	"fmt"
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
	"github.com/lucasduport/m3u-bridge/pkg/playlist"
	"github.com/lucasduport/m3u-bridge/pkg/types"
	"github.com/lucasduport/m3u-bridge/pkg/utils"
	"github.com/lucasduport/m3u-bridge/pkg/xtream"
)

const defaultPlaylistType = "m3u_plus"

// Player API actions.
const (
	actionLiveCategories   = "get_live_categories"
	actionLiveStreams      = "get_live_streams"
	actionVODCategories    = "get_vod_categories"
	actionVODStreams       = "get_vod_streams"
	actionSeriesCategories = "get_series_categories"
	actionSeries           = "get_series"
)

// getPlaylist serves the raw upstream playlist with the caller's
// credentials substituted.
func (c *Config) getPlaylist(ctx *gin.Context) {
	req, authorized := requestFrom(ctx)
	if !authorized {
		ctx.Data(http.StatusUnauthorized, xtream.ContentTypeM3U, []byte(xtream.DeniedPlaylist))
		return
	}

	raw, err := c.cache.Playlist(ctx.Request.Context())
	if err != nil {
		utils.PrintErrorAndReturn(err) // nolint: errcheck
		ctx.Data(http.StatusInternalServerError, xtream.ContentTypeM3U, []byte(xtream.ErrorPlaylist(err.Error())))
		return
	}

	typ := req.Type
	if typ == "" {
		typ = defaultPlaylistType
	}
	utils.DebugLog("Serving raw playlist (type=%s, output=%s) to %s", typ, req.Output, req.Username)
	ctx.Data(http.StatusOK, xtream.ContentType(typ, req.Output), []byte(xtream.ProcessPlaylist(raw, req.Username, req.Password)))
}

// panelAPI serves the whole catalog envelope. Rejected credentials get
// auth=0 and no channels.
func (c *Config) panelAPI(ctx *gin.Context) {
	req, authorized := requestFrom(ctx)
	now := c.now()

	var entries []playlist.Entry
	if authorized {
		var err error
		entries, err = c.cache.Entries(ctx.Request.Context())
		if err != nil {
			c.jsonError(ctx, err)
			return
		}
	}

	ctx.JSON(http.StatusOK, xtream.NewCatalog(
		xtream.NewAccountInfo(req.Username, req.Password, authorized, now),
		xtream.NewServerInfo(c.host(), now),
		entries,
	))
}

// playerAPI answers the player_api.php actions of live playlists.
func (c *Config) playerAPI(ctx *gin.Context) {
	req, authorized := requestFrom(ctx)

	if req.Action == "" {
		now := c.now()
		utils.InfoLog("Action\tlogin requested by %s", ctx.ClientIP())
		ctx.JSON(http.StatusOK, xtream.Login{
			UserInfo:   xtream.NewAccountInfo(req.Username, req.Password, authorized, now),
			ServerInfo: xtream.NewServerInfo(c.host(), now),
		})
		return
	}

	switch req.Action {
	case actionLiveCategories, actionLiveStreams:
	case actionVODCategories, actionVODStreams, actionSeriesCategories, actionSeries:
		// A playlist only carries live channels.
		ctx.JSON(http.StatusOK, []interface{}{})
		return
	default:
		ctx.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unsupported action %q", req.Action)})
		return
	}

	if !authorized {
		ctx.JSON(http.StatusOK, []interface{}{})
		return
	}

	entries, err := c.cache.Entries(ctx.Request.Context())
	if err != nil {
		c.jsonError(ctx, err)
		return
	}

	utils.DebugLog("Action\t%s requested by %s", req.Action, ctx.ClientIP())
	if req.Action == actionLiveCategories {
		ctx.JSON(http.StatusOK, xtream.Categories(entries))
		return
	}
	ctx.JSON(http.StatusOK, xtream.FilterByCategory(xtream.Streams(entries), req.CategoryID))
}

// getM3U serves the playlist rebuilt from the parsed catalog.
func (c *Config) getM3U(ctx *gin.Context) {
	req, authorized := requestFrom(ctx)
	if !authorized {
		ctx.Data(http.StatusUnauthorized, xtream.ContentTypeM3U, []byte(xtream.DeniedPlaylist))
		return
	}

	entries, err := c.cache.Entries(ctx.Request.Context())
	if err != nil {
		utils.PrintErrorAndReturn(err) // nolint: errcheck
		ctx.Data(http.StatusInternalServerError, xtream.ContentTypeM3U, []byte(xtream.ErrorPlaylist(err.Error())))
		return
	}

	body := playlist.Marshal(playlist.ToPlaylist(entries))
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", path.Base(c.M3UFileName)))
	ctx.Data(http.StatusOK, xtream.ContentTypeM3U, []byte(xtream.ProcessPlaylist(string(body), req.Username, req.Password)))
}

// health reports the cache state without touching the upstream.
func (c *Config) health(ctx *gin.Context) {
	status := types.CacheStatus{
		UpstreamConfigured: c.cache.URL() != "",
		TTL:                c.cache.TTL().String(),
	}
	if snap := c.cache.Peek(); snap != nil {
		fetchedAt := snap.FetchedAt
		status.Loaded = true
		status.Entries = len(snap.Entries)
		status.FetchedAt = &fetchedAt
		status.Fresh = c.now().Sub(fetchedAt) < c.cache.TTL()
	}

	ctx.JSON(http.StatusOK, types.APIResponse{
		Success: status.UpstreamConfigured,
		Message: "m3u-bridge is running",
		Data:    status,
	})
}

func (c *Config) jsonError(ctx *gin.Context, err error) {
	utils.PrintErrorAndReturn(err) // nolint: errcheck
	ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

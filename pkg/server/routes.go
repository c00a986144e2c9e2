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
	"github.com/gin-gonic/gin"
)

func (c *Config) routes(r *gin.RouterGroup) {
	r = r.Group(c.CustomEndpoint)

	r.GET("/get.php", c.authenticatePlaylist, c.getPlaylist)
	r.POST("/get.php", c.authenticatePlaylist, c.getPlaylist)
	r.GET("/panel_api.php", c.authenticate, c.panelAPI)
	r.GET("/player_api.php", c.authenticate, c.playerAPI)
	r.POST("/player_api.php", c.authenticate, c.playerAPI)

	r.GET("/"+c.M3UFileName, c.authenticatePlaylist, c.getM3U)
	// XXX Private need: for external Android app
	r.POST("/"+c.M3UFileName, c.authenticatePlaylist, c.getM3U)
}

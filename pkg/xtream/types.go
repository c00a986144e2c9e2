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

// Package xtream shapes the cached playlist into the responses expected by
// Xtream-Codes compatible players.
package xtream

// AccountInfo is the user_info object of a player_api or panel_api answer.
type AccountInfo struct {
	Username             string   `json:"username"`
	Password             string   `json:"password"`
	Message              string   `json:"message"`
	Auth                 int      `json:"auth"`
	Status               string   `json:"status"`
	ExpDate              string   `json:"exp_date"`
	IsTrial              string   `json:"is_trial"`
	ActiveCons           string   `json:"active_cons"`
	CreatedAt            string   `json:"created_at"`
	MaxConnections       string   `json:"max_connections"`
	AllowedOutputFormats []string `json:"allowed_output_formats"`
}

// ServerInfo is the server_info object advertised to players.
type ServerInfo struct {
	URL            string `json:"url"`
	Port           string `json:"port"`
	HTTPSPort      string `json:"https_port"`
	ServerProtocol string `json:"server_protocol"`
	RTMPPort       string `json:"rtmp_port"`
	Timezone       string `json:"timezone"`
	TimestampNow   int64  `json:"timestamp_now"`
	TimeNow        string `json:"time_now"`
}

// Stream is one live channel of the catalog.
type Stream struct {
	Num               int    `json:"num"`
	Name              string `json:"name"`
	StreamType        string `json:"stream_type"`
	StreamID          int    `json:"stream_id"`
	StreamIcon        string `json:"stream_icon"`
	EPGChannelID      string `json:"epg_channel_id"`
	Added             string `json:"added"`
	CategoryID        string `json:"category_id"`
	CategoryName      string `json:"category_name"`
	CustomSID         string `json:"custom_sid"`
	TVArchive         int    `json:"tv_archive"`
	DirectSource      string `json:"direct_source"`
	TVArchiveDuration int    `json:"tv_archive_duration"`
}

// Category is an entry of get_live_categories.
type Category struct {
	CategoryID   string `json:"category_id"`
	CategoryName string `json:"category_name"`
	ParentID     int    `json:"parent_id"`
}

// Catalog is the panel_api envelope. AvailableChannels is always present and
// empty for an unauthorized user.
type Catalog struct {
	UserInfo          AccountInfo `json:"user_info"`
	ServerInfo        ServerInfo  `json:"server_info"`
	AvailableChannels []Stream    `json:"available_channels"`
}

// Login is the player_api answer when no action is given.
type Login struct {
	UserInfo   AccountInfo `json:"user_info"`
	ServerInfo ServerInfo  `json:"server_info"`
}

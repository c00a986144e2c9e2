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

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// LogLevel represents logging levels
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	TimeFormat:      "2006-01-02 15:04:05.000",
	Prefix:          "m3u-bridge",
	Level:           log.InfoLevel,
})

func init() {
	// DEBUG_LOGGING wins over LOG_LEVEL.
	if os.Getenv("DEBUG_LOGGING") == "true" {
		SetLogLevel(LevelDebug)
		return
	}
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		SetLogLevel(ParseLogLevel(lvl))
	}
}

// ParseLogLevel converts a level name to a LogLevel, defaulting to info.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// SetLogLevel changes the minimum level written by the package logger.
func SetLogLevel(level LogLevel) {
	switch level {
	case LevelDebug:
		logger.SetLevel(log.DebugLevel)
	case LevelWarn:
		logger.SetLevel(log.WarnLevel)
	case LevelError:
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}
}

// SetLogOutput redirects log output, mostly useful in tests.
func SetLogOutput(w io.Writer) {
	logger.SetOutput(w)
}

// IsDebugLogEnabled reports whether debug messages are currently written.
func IsDebugLogEnabled() bool {
	return logger.GetLevel() <= log.DebugLevel
}

// InfoLog logs an info message
func InfoLog(format string, v ...interface{}) {
	logger.Infof(format, v...)
}

// WarnLog logs a warning message
func WarnLog(format string, v ...interface{}) {
	logger.Warnf(format, v...)
}

// DebugLog logs a debug message if debug logging is enabled
func DebugLog(format string, v ...interface{}) {
	logger.Debugf(format, v...)
}

// ErrorLog logs an error message
func ErrorLog(format string, v ...interface{}) {
	logger.Errorf(format, v...)
}

// RequestLog writes one structured line per served request.
func RequestLog(method, path string, status int, latency time.Duration, clientIP, requestID string) {
	logger.Info("request",
		"method", method,
		"path", path,
		"status", status,
		"latency", latency.Round(time.Microsecond).String(),
		"ip", clientIP,
		"request_id", requestID,
	)
}

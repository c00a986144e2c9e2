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
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ErrorDetailLevel controls how much location information is attached to
// errors returned by ErrorWithLocation and PrintErrorAndReturn.
type ErrorDetailLevel int

const (
	// ErrorDetailNone keeps the location prefix but never logs
	ErrorDetailNone ErrorDetailLevel = iota
	// ErrorDetailSimple prefixes file, line and function (default)
	ErrorDetailSimple
	// ErrorDetailFull adds a stack trace
	ErrorDetailFull
)

func getErrorDetailLevel() ErrorDetailLevel {
	switch strings.ToLower(os.Getenv("ERROR_DETAIL_LEVEL")) {
	case "none":
		return ErrorDetailNone
	case "full":
		return ErrorDetailFull
	default:
		return ErrorDetailSimple
	}
}

// formatError wraps err with the location of the caller skip frames above it.
func formatError(err error, skip int) error {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return fmt.Errorf("error occurred: %w", err)
	}
	fnName := "unknown"
	if fn := runtime.FuncForPC(pc); fn != nil {
		fnName = fn.Name()
	}

	if getErrorDetailLevel() == ErrorDetailFull {
		buf := make([]byte, 4096)
		n := runtime.Stack(buf, false)
		stack := strings.SplitN(string(buf[:n]), "\n", 2)
		trace := ""
		if len(stack) == 2 {
			trace = stack[1]
		}
		return fmt.Errorf("%s:%d [%s]: %w\nStack Trace:\n%s",
			filepath.Base(file), line, filepath.Base(fnName), err, trace)
	}

	return fmt.Errorf("%s:%d [%s]: %w", filepath.Base(file), line, filepath.Base(fnName), err)
}

// ErrorWithLocation wraps an error with the caller's file, line and function.
// The original error stays reachable through errors.Is / errors.As.
func ErrorWithLocation(err error) error {
	if err == nil {
		return nil
	}
	return formatError(err, 2)
}

// PrintErrorAndReturn logs the located error (unless ERROR_DETAIL_LEVEL=none)
// and returns it.
func PrintErrorAndReturn(err error) error {
	if err == nil {
		return nil
	}

	wrapped := formatError(err, 2)
	if getErrorDetailLevel() != ErrorDetailNone {
		ErrorLog("%v", wrapped)
	}
	return wrapped
}

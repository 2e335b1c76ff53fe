// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package version provides build-time version information.
package version

// App is the application name reported in backups and the health endpoint.
const App = "reunioncms"

// Info contains build-time version information injected via ldflags.
type Info struct {
	Version   string // Semantic version from git tags (e.g., "v1.2.3")
	GitCommit string // Short git commit hash (e.g., "abc1234")
	BuildTime string // Build timestamp in RFC3339 format
}

// Current holds the values injected at build time. Zero values mean a
// development build.
var Current Info

// String returns the version, or "dev" for untagged builds.
func (i Info) String() string {
	if i.Version == "" {
		return "dev"
	}
	return i.Version
}

// Package build contains build-time information about the binary.
package build

// Version is the release version, overridden at build time with
// -ldflags "-X github.com/liuxd6825/srcmapaudit/internal/build.Version=...".
var Version = "0.1.0" //nolint:gochecknoglobals

// Package version exposes the build-time version string.
package version

// version is injected at build time via -ldflags. The default marks
// binaries built outside the release pipeline.
var version = "v0.0.0-dev"

// Value returns the version string for this build.
func Value() string {
	return version
}

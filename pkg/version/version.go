// Package version holds the build version of nlv
package version

// Version is overridden at build time with
// -ldflags "-X github.com/Dicklesworthstone/numberline_viewer/pkg/version.Version=v1.2.3"
var Version = "v0.1.0"

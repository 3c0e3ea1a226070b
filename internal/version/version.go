// Package version holds the build version stamped into every nucocc binary.
package version

// Version is overridden at link time: -ldflags "-X nucocc/internal/version.Version=v1.2.3".
var Version = "dev"

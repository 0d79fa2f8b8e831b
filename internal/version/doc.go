// Package version exposes build metadata of the linux-packager binary.
//
// Version, Commit and BuildTime are injected with -ldflags at build time.
package version

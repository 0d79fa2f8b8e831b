// Package common holds helpers shared by several services.
//
// It runs external tools with their output captured into the error, looks
// tools up on the search path, and detects the current system actor
// (hostname/username) for release reports.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

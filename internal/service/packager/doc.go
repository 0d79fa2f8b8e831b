// Package packager turns a built browser tree into Linux packages.
//
// Run is the CLI entry point. It validates the settings, guards the shared
// staging area with a run marker and packages every configured architecture.
// For each one the tarball is required while the AppImage and .deb steps are
// best-effort and gated on their tools being installed. Builders report
// failures as *Error values tagged with a Kind, never as panics, and always
// remove their staging directory and any partial artifact before returning.
package packager

// Package build describes one browser build to be packaged: where its files
// live, which version and architecture it is, and the names derived from them.
package build

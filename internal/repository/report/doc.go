// Package report persists release reports as YAML files and defines the
// Repository interface the packager service depends on.
package report

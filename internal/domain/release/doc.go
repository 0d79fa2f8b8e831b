// Package release contains the summary of a packaging run that is published
// next to the artifacts.
package release

// Package config defines the packaging settings read from linux-packager.yaml
// and provides helpers to load, validate and save them.
//
// Validate fills every optional field with its default, so a validated Config
// is complete and can be turned into build contexts directly.
package config

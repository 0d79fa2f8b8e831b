// Package environment inspects the host distribution and, when running as
// root on a Debian-family system, installs the tools the packager needs.
package environment

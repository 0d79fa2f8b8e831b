// Package deb knows the Debian binary package formats the packager deals with:
// it renders DEBIAN/control stanzas and inspects the ar container that
// dpkg-deb produces, so a broken .deb is caught before it is published.
package deb

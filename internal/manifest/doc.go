// Package manifest renders the text files that ship inside the packages:
// the launch and wrapper scripts, the desktop entry, the README and the
// Debian maintainer scripts.
//
// Every shell script is parsed with mvdan.cc/sh before it is returned, so a
// product name that breaks quoting fails the build instead of the install.
package manifest

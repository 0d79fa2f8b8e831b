// Package archive writes and reads gzip-compressed tarballs of directory trees.
//
// Compression goes through klauspost/pgzip, which splits the stream into
// blocks and compresses them on all cores; browser trees are large enough
// for this to matter.
package archive

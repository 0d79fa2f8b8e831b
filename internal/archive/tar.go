package archive

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	gzip "github.com/klauspost/pgzip"
	"go.uber.org/multierr"
)

// Entry is one member of a tarball as reported by List.
type Entry struct {
	// Name is the slash-separated member path.
	Name string
	// Mode holds the permission bits.
	Mode fs.FileMode
	// Type is the tar type flag.
	Type byte
	// Size is the member size in bytes.
	Size int64
	// Linkname is the symlink target, if any.
	Linkname string
}

// IsDir reports whether the entry is a directory.
func (e Entry) IsDir() bool {
	return e.Type == tar.TypeDir
}

var errEmptyRoot = errors.New("archive root name is empty")

// WriteTarGz archives the directory srcDir into dst as a gzip tarball whose
// single top-level entry is rootName. On failure the partial dst is removed.
func WriteTarGz(dst, srcDir, rootName string) (err error) {
	if rootName == "" {
		return errEmptyRoot
	}

	info, err := os.Stat(srcDir)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("source %s is not a directory", srcDir)
	}

	file, err := os.Create(filepath.Clean(dst))
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}

	defer func() {
		if err != nil {
			_ = os.Remove(dst)
		}
	}()

	gw := gzip.NewWriter(file)
	tw := tar.NewWriter(gw)

	walkErr := filepath.WalkDir(srcDir, func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		return addEntry(tw, srcDir, rootName, p, entry)
	})

	// Close in order even when the walk failed so the file handle is released.
	err = multierr.Combine(walkErr, tw.Close(), gw.Close(), file.Close())
	if err != nil {
		return fmt.Errorf("write archive %s: %w", filepath.Base(dst), err)
	}

	return nil
}

// addEntry writes the header and content of one walked path.
func addEntry(tw *tar.Writer, srcDir, rootName, p string, entry fs.DirEntry) error {
	rel, err := filepath.Rel(srcDir, p)
	if err != nil {
		return err
	}

	name := path.Join(rootName, filepath.ToSlash(rel))

	info, err := entry.Info()
	if err != nil {
		return err
	}

	var link string

	if info.Mode()&fs.ModeSymlink != 0 {
		if link, err = os.Readlink(p); err != nil {
			return err
		}
	}

	hdr, err := tar.FileInfoHeader(info, link)
	if err != nil {
		return err
	}

	hdr.Name = name
	if info.IsDir() {
		hdr.Name += "/"
	}

	hdr.Uid, hdr.Gid = 0, 0
	hdr.Uname, hdr.Gname = "", ""

	if err = tw.WriteHeader(hdr); err != nil {
		return err
	}

	if !info.Mode().IsRegular() {
		return nil
	}

	f, err := os.Open(p)
	if err != nil {
		return err
	}

	defer func() {
		_ = f.Close()
	}()

	_, err = io.Copy(tw, f)

	return err
}

// List returns the members of the gzip tarball at src in archive order.
func List(src string) ([]Entry, error) {
	file, err := os.Open(filepath.Clean(src))
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	defer func() {
		_ = file.Close()
	}()

	gr, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("open gzip stream: %w", err)
	}

	defer func() {
		_ = gr.Close()
	}()

	var (
		tr      = tar.NewReader(gr)
		entries []Entry
	)

	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return entries, nil
		}

		if err != nil {
			return nil, fmt.Errorf("read archive: %w", err)
		}

		entries = append(entries, Entry{
			Name:     path.Clean(hdr.Name),
			Mode:     fs.FileMode(hdr.Mode).Perm(),
			Type:     hdr.Typeflag,
			Size:     hdr.Size,
			Linkname: hdr.Linkname,
		})
	}
}

package staging

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	// DirMode is the mode of directories created in a staging tree.
	DirMode os.FileMode = 0o755
	// ExecMode is the mode of generated scripts.
	ExecMode os.FileMode = 0o755
	// FileMode is the mode of generated text files.
	FileMode os.FileMode = 0o644
)

// errNotDirectory is returned when a tree copy source is a plain file.
var errNotDirectory = errors.New("not a directory")

// Dir is a staging directory owned by a single builder invocation.
type Dir struct {
	path string
}

// Create removes anything at path and creates an empty directory there.
func Create(path string) (*Dir, error) {
	path = filepath.Clean(path)

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("clean staging directory: %w", err)
	}

	if err := os.MkdirAll(path, DirMode); err != nil {
		return nil, fmt.Errorf("create staging directory: %w", err)
	}

	return &Dir{path: path}, nil
}

// Path returns the root of the staging tree.
func (d *Dir) Path() string {
	return d.path
}

// Join returns a path inside the staging tree.
func (d *Dir) Join(elem ...string) string {
	return filepath.Join(append([]string{d.path}, elem...)...)
}

// MkdirAll creates directories inside the staging tree.
func (d *Dir) MkdirAll(elem ...string) (string, error) {
	path := d.Join(elem...)
	if err := os.MkdirAll(path, DirMode); err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}

	return path, nil
}

// Remove deletes the whole staging tree. Removing a missing tree is not an error.
func Remove(path string) error {
	return os.RemoveAll(path)
}

// WriteFile writes data to path with exactly mode, regardless of the umask.
func WriteFile(path string, data []byte, mode os.FileMode) error {
	if err := os.WriteFile(path, data, mode); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	if err := os.Chmod(path, mode); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}

	return nil
}

// CopyFile copies a regular file preserving its permission bits and modification time.
func CopyFile(src, dst string) error {
	in, err := os.Open(filepath.Clean(src))
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}

	defer func() {
		_ = in.Close()
	}()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", src, err)
	}

	out, err := os.OpenFile(filepath.Clean(dst), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}

	if _, err = io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("copy %s: %w", src, err)
	}

	if err = out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", dst, err)
	}

	if err = os.Chmod(dst, info.Mode().Perm()); err != nil {
		return fmt.Errorf("chmod %s: %w", dst, err)
	}

	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}

// CopyIfExists copies src to dst when src exists. The result reports whether a copy happened.
func CopyIfExists(src, dst string) (bool, error) {
	if _, err := os.Stat(src); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}

		return false, fmt.Errorf("stat %s: %w", src, err)
	}

	if err := CopyFile(src, dst); err != nil {
		return false, err
	}

	return true, nil
}

// CopyTree recursively copies the directory src to dst, which must not exist.
// A symlinked src is resolved and its contents copied; symbolic links below
// it are recreated, not followed.
func CopyTree(src, dst string) error {
	resolved, err := filepath.EvalSymlinks(filepath.Clean(src))
	if err != nil {
		return fmt.Errorf("resolve %s: %w", src, err)
	}

	src = resolved

	return filepath.WalkDir(src, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}

		target := filepath.Join(dst, rel)

		switch {
		case entry.IsDir():
			info, err := entry.Info()
			if err != nil {
				return err
			}

			return os.MkdirAll(target, info.Mode().Perm()|0o700)
		case entry.Type()&fs.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}

			return os.Symlink(link, target)
		case entry.Type().IsRegular():
			return CopyFile(path, target)
		default:
			// Sockets, devices and pipes have no place in a browser build output.
			return nil
		}
	})
}

// CopyTreeIfExists copies the directory src to dst when src exists.
func CopyTreeIfExists(src, dst string) (bool, error) {
	info, err := os.Stat(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}

		return false, fmt.Errorf("stat %s: %w", src, err)
	}

	if !info.IsDir() {
		return false, fmt.Errorf("%s: %w", src, errNotDirectory)
	}

	if err := CopyTree(src, dst); err != nil {
		return false, fmt.Errorf("copy tree %s: %w", src, err)
	}

	return true, nil
}

// TreeSize returns the total size in bytes of the regular files under root.
// A symlinked root is resolved first.
func TreeSize(root string) (int64, error) {
	resolved, err := filepath.EvalSymlinks(filepath.Clean(root))
	if err != nil {
		return 0, fmt.Errorf("resolve %s: %w", root, err)
	}

	root = resolved

	var total int64

	err = filepath.WalkDir(root, func(_ string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !entry.Type().IsRegular() {
			return nil
		}

		info, err := entry.Info()
		if err != nil {
			return err
		}

		total += info.Size()

		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("measure %s: %w", root, err)
	}

	return total, nil
}

package deb

import (
	"archive/tar"
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/blakesmith/ar"
	"github.com/klauspost/compress/zstd"
	gzip "github.com/klauspost/pgzip"
	"github.com/ulikunitz/xz"
)

// ErrMalformed is returned when a file does not have the layout of a Debian binary package.
var ErrMalformed = errors.New("malformed debian package")

// maxDebianBinarySize bounds the debian-binary member; the real one is four bytes.
const maxDebianBinarySize = 64

// Member is one entry of the outer ar archive.
type Member struct {
	Name string
	Size int64
}

// Info is what Inspect learned about a .deb.
type Info struct {
	// Members lists the ar members in archive order.
	Members []Member
	// FormatVersion is the content of debian-binary.
	FormatVersion string
	// Control holds the control stanza fields.
	Control map[string]string
}

// InspectFile opens and inspects the .deb at path.
func InspectFile(path string) (*Info, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open package: %w", err)
	}

	defer func() {
		_ = f.Close()
	}()

	return Inspect(f)
}

// Inspect reads a .deb stream and checks that its members are debian-binary,
// control.tar* and data.tar*, in that order.
func Inspect(r io.Reader) (*Info, error) {
	var (
		reader = ar.NewReader(r)
		info   = new(Info)
	)

	for {
		header, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("%w: read ar header: %w", ErrMalformed, err)
		}

		name := strings.TrimSuffix(strings.TrimSpace(header.Name), "/")
		info.Members = append(info.Members, Member{Name: name, Size: header.Size})

		switch {
		case name == MemberDebianBinary:
			body, err := io.ReadAll(io.LimitReader(reader, maxDebianBinarySize))
			if err != nil {
				return nil, fmt.Errorf("%w: read %s: %w", ErrMalformed, name, err)
			}

			info.FormatVersion = string(body)
		case strings.HasPrefix(name, MemberControlPrefix):
			control, err := readControl(name, reader)
			if err != nil {
				return nil, err
			}

			info.Control = control
		}
	}

	if err := info.validate(); err != nil {
		return nil, err
	}

	return info, nil
}

// validate checks member order and the format version.
func (i *Info) validate() error {
	if len(i.Members) < 3 {
		return fmt.Errorf("%w: expected at least 3 members, found %d", ErrMalformed, len(i.Members))
	}

	if i.Members[0].Name != MemberDebianBinary {
		return fmt.Errorf("%w: first member is %q", ErrMalformed, i.Members[0].Name)
	}

	if i.FormatVersion != FormatVersion {
		return fmt.Errorf("%w: unsupported format version %q", ErrMalformed, i.FormatVersion)
	}

	if !strings.HasPrefix(i.Members[1].Name, MemberControlPrefix) {
		return fmt.Errorf("%w: second member is %q", ErrMalformed, i.Members[1].Name)
	}

	if !strings.HasPrefix(i.Members[2].Name, MemberDataPrefix) {
		return fmt.Errorf("%w: third member is %q", ErrMalformed, i.Members[2].Name)
	}

	return nil
}

// readControl extracts the control stanza from a control archive member.
// dpkg-deb writes control.tar, control.tar.gz, control.tar.xz or control.tar.zst.
func readControl(member string, r io.Reader) (map[string]string, error) {
	var tr *tar.Reader

	switch strings.TrimPrefix(member, MemberControlPrefix) {
	case "":
		tr = tar.NewReader(r)
	case ".gz":
		gr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("%w: open %s: %w", ErrMalformed, member, err)
		}

		defer func() {
			_ = gr.Close()
		}()

		tr = tar.NewReader(gr)
	case ".xz":
		xr, err := xz.NewReader(bufio.NewReader(r))
		if err != nil {
			return nil, fmt.Errorf("%w: open %s: %w", ErrMalformed, member, err)
		}

		tr = tar.NewReader(xr)
	case ".zst":
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("%w: open %s: %w", ErrMalformed, member, err)
		}

		defer zr.Close()

		tr = tar.NewReader(zr)
	default:
		return nil, fmt.Errorf("%w: unsupported control archive %s", ErrMalformed, member)
	}

	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %s has no control file", ErrMalformed, member)
		}

		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %w", ErrMalformed, member, err)
		}

		if path.Base(path.Clean(hdr.Name)) != FileControl {
			continue
		}

		body, err := io.ReadAll(tr)
		if err != nil {
			return nil, fmt.Errorf("%w: read control: %w", ErrMalformed, err)
		}

		fields, err := ParseControl(string(body))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}

		return fields, nil
	}
}

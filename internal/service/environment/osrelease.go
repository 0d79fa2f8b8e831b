package environment

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	// DefaultOSReleasePath is the standard location of the os-release file.
	DefaultOSReleasePath = "/etc/os-release"

	// Unknown is reported for every field that could not be determined.
	Unknown = "unknown"
)

// Info describes the host distribution.
type Info struct {
	// Distribution is the os-release ID (e.g. ubuntu, debian, fedora).
	Distribution string `yaml:"distribution"`
	// Version is VERSION_ID.
	Version string `yaml:"version"`
	// Codename is VERSION_CODENAME.
	Codename string `yaml:"codename"`
}

// UnknownInfo returns an Info with every field set to Unknown.
func UnknownInfo() Info {
	return Info{
		Distribution: Unknown,
		Version:      Unknown,
		Codename:     Unknown,
	}
}

// ReadOSRelease reads distribution info from the os-release file at path.
// A missing file yields UnknownInfo and no error; other read errors are returned
// together with UnknownInfo.
func ReadOSRelease(path string) (Info, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return UnknownInfo(), nil
		}

		return UnknownInfo(), fmt.Errorf("open os-release: %w", err)
	}

	defer func() {
		_ = f.Close()
	}()

	return ParseOSRelease(f)
}

// ParseOSRelease extracts ID, VERSION_ID and VERSION_CODENAME from KEY=VALUE lines.
// Lines without '=' and unknown keys are ignored; surrounding quotes are stripped.
func ParseOSRelease(r io.Reader) (Info, error) {
	info := UnknownInfo()

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		key, value, ok := strings.Cut(strings.TrimSpace(scanner.Text()), "=")
		if !ok {
			continue
		}

		value = unquote(strings.TrimSpace(value))
		if value == "" {
			continue
		}

		switch strings.TrimSpace(key) {
		case "ID":
			info.Distribution = value
		case "VERSION_ID":
			info.Version = value
		case "VERSION_CODENAME":
			info.Codename = value
		}
	}

	if err := scanner.Err(); err != nil {
		return UnknownInfo(), fmt.Errorf("read os-release: %w", err)
	}

	return info, nil
}

// IsDebianFamily reports whether the distribution uses apt and dpkg natively.
func (i Info) IsDebianFamily() bool {
	switch i.Distribution {
	case "debian", "ubuntu":
		return true
	default:
		return false
	}
}

func unquote(value string) string {
	if len(value) >= 2 {
		first, last := value[0], value[len(value)-1]
		if first == last && (first == '"' || first == '\'') {
			return value[1 : len(value)-1]
		}
	}

	return value
}

package deb

import (
	"bufio"
	"fmt"
	"strings"
)

// Control is the content of a DEBIAN/control stanza as written by the packager.
type Control struct {
	Package      string
	Version      string
	Section      string
	Priority     string
	Architecture string
	Depends      []string
	Maintainer   string
	// Description is the synopsis line followed by the extended description.
	// Blank lines in the extended part become " ." paragraph separators.
	Description string
	Homepage    string
	// InstalledSize is in KiB.
	InstalledSize int64
}

// InstalledSizeKiB converts a byte count to the Installed-Size value (whole KiB, truncated).
func InstalledSizeKiB(bytes int64) int64 {
	return bytes / 1024
}

// Render returns the control stanza in field order
// Package, Version, Section, Priority, Architecture, Depends, Maintainer,
// Description, Homepage, Installed-Size.
func (c *Control) Render() string {
	var b strings.Builder

	writeField := func(field ControlField, value string) {
		if value != "" {
			fmt.Fprintf(&b, "%s: %s\n", field, value)
		}
	}

	writeField(FieldPackage, c.Package)
	writeField(FieldVersion, c.Version)
	writeField(FieldSection, c.Section)
	writeField(FieldPriority, c.Priority)
	writeField(FieldArchitecture, c.Architecture)
	writeField(FieldDepends, strings.Join(c.Depends, ", "))
	writeField(FieldMaintainer, c.Maintainer)

	if c.Description != "" {
		lines := strings.Split(strings.TrimRight(c.Description, "\n"), "\n")
		writeField(FieldDescription, lines[0])

		for _, line := range lines[1:] {
			switch {
			case strings.TrimSpace(line) == "":
				b.WriteString(" .\n")
			case strings.HasPrefix(line, " "):
				b.WriteString(line + "\n")
			default:
				b.WriteString(" " + line + "\n")
			}
		}
	}

	writeField(FieldHomepage, c.Homepage)
	fmt.Fprintf(&b, "%s: %d\n", FieldInstalledSize, c.InstalledSize)

	return b.String()
}

// ParseControl reads a control stanza into a field map.
// Continuation lines are appended to the previous field separated by newlines.
func ParseControl(content string) (map[string]string, error) {
	var (
		fields  = make(map[string]string)
		current string
		scanner = bufio.NewScanner(strings.NewReader(content))
	)

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		if strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t") {
			if current == "" {
				return nil, fmt.Errorf("continuation line before any field: %q", line)
			}

			fields[current] += "\n" + strings.TrimSpace(line)

			continue
		}

		key, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("malformed control line: %q", line)
		}

		current = strings.TrimSpace(key)
		fields[current] = strings.TrimSpace(value)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan control: %w", err)
	}

	return fields, nil
}

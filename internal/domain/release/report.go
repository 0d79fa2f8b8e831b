package release

import (
	"slices"
	"time"
)

// Actor identifies who produced the artifacts.
type Actor struct {
	// Hostname is the machine the packager ran on.
	Hostname string `yaml:"hostname"`
	// Username is the system user that ran the packager.
	Username string `yaml:"username"`
}

// Artifact describes one produced package file.
type Artifact struct {
	// Name is the file name inside the dist directory.
	Name string `yaml:"name"`
	// Format is the package format (tar.gz, deb).
	Format string `yaml:"format"`
	// Size is the file size in bytes.
	Size int64 `yaml:"size"`
	// Checksum is the base64-encoded SHA-512 of the file.
	Checksum string `yaml:"sha512"`
}

// Report summarizes the artifacts produced for one build context.
type Report struct {
	Product      string     `yaml:"product"`
	Version      string     `yaml:"version"`
	BaseVersion  string     `yaml:"base_version"`
	Architecture string     `yaml:"architecture"`
	BuiltAt      time.Time  `yaml:"built_at"`
	BuiltBy      *Actor     `yaml:"built_by,omitempty"`
	Artifacts    []Artifact `yaml:"artifacts"`
}

// Clone returns a deep copy of the report.
func (r *Report) Clone() *Report {
	cloned := *r
	cloned.Artifacts = slices.Clone(r.Artifacts)

	if r.BuiltBy != nil {
		actor := *r.BuiltBy
		cloned.BuiltBy = &actor
	}

	return &cloned
}

// Find returns the artifact with the given format, if any.
func (r *Report) Find(format string) (Artifact, bool) {
	for _, a := range r.Artifacts {
		if a.Format == format {
			return a, true
		}
	}

	return Artifact{}, false
}

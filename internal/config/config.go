package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

// Config holds everything the packager needs to know about a browser build.
type Config struct {
	// SourceDir is the root of the browser source checkout.
	SourceDir string `yaml:"source_dir"`
	// OutDir is the build output directory relative to SourceDir. An "{arch}"
	// in it is replaced by each architecture tag (e.g. out/Default_{arch}).
	OutDir string `yaml:"out_dir"`
	// OutDirs overrides OutDir for individual architectures.
	OutDirs map[string]string `yaml:"out_dirs,omitempty"`
	// RootDir is the packaging project root; dist/ and tmp/ live under it.
	RootDir string `yaml:"root_dir"`
	// ProductName is the user-facing product name, e.g. Nxtscape.
	ProductName string `yaml:"product_name"`
	// Version is the product version embedded in artifact names.
	Version string `yaml:"version"`
	// BaseVersion is the upstream browser version the product is built on.
	BaseVersion string `yaml:"base_version"`
	// Architectures lists the architecture tags to package, one build context each.
	Architectures []string `yaml:"architectures"`
	// Maintainer is written to the Debian control file.
	Maintainer string `yaml:"maintainer"`
	// Homepage is written to the Debian control file.
	Homepage string `yaml:"homepage"`
	// Depends is the Debian runtime dependency list.
	Depends []string `yaml:"depends"`
	// EssentialFiles are copied next to the binary when present in the build output.
	EssentialFiles []string `yaml:"essential_files"`
	// Certificate is an optional signing certificate path.
	Certificate string `yaml:"certificate,omitempty"`
}

const (
	// DefaultConfigFilename is the default settings file name.
	DefaultConfigFilename = "linux-packager.yaml"

	// DefaultOutDir is used when out_dir is not set and one architecture is packaged.
	DefaultOutDir = "out/Default"

	// DefaultMultiArchOutDir is used when out_dir is not set and several architectures are packaged.
	DefaultMultiArchOutDir = "out/Default_" + ArchPlaceholder

	// ArchPlaceholder in out_dir is replaced by the architecture tag.
	ArchPlaceholder = "{arch}"

	// DefaultProductName is used when product_name is not set.
	DefaultProductName = "Nxtscape"

	// DefaultMaintainer is used when maintainer is not set.
	DefaultMaintainer = "BrowserOS Team <support@browseros.com>"

	// DefaultHomepage is used when homepage is not set.
	DefaultHomepage = "https://browseros.com"

	// DefaultFilePermissions is the mode of saved settings files.
	DefaultFilePermissions = 0o600
)

// DefaultArchitectures returns the architectures packaged when none are configured.
func DefaultArchitectures() []string {
	return []string{"x64"}
}

// DefaultDepends returns the runtime dependencies of a Chromium-based browser on Debian.
func DefaultDepends() []string {
	return []string{
		"libc6",
		"libgtk-3-0",
		"libx11-6",
		"libxss1",
		"libasound2",
		"libdrm2",
		"libxcomposite1",
		"libxdamage1",
		"libxrandr2",
		"libgbm1",
		"libatspi2.0-0",
	}
}

// DefaultEssentialFiles returns the resource files shipped next to the browser binary.
func DefaultEssentialFiles() []string {
	return []string{
		"chrome_100_percent.pak",
		"chrome_200_percent.pak",
		"resources.pak",
		"icudtl.dat",
		"chrome_crashpad_handler",
	}
}

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errSourceDirRequired is returned when source_dir is missing.
	errSourceDirRequired = errors.New("source directory must be provided")
	// errVersionRequired is returned when version is missing.
	errVersionRequired = errors.New("product version must be provided")
	// errInvalidName is returned for values that cannot be part of a file name.
	errInvalidName = errors.New("value cannot be used in a file name")
	// errSharedOutDir is returned when two architectures resolve to the same build output.
	errSharedOutDir = errors.New("architectures must use different build output directories")
)

// Read decodes the settings file at path without validating it.
func Read(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	return &cfg, nil
}

// Load reads the settings file at path and validates it.
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes cfg to path after validating it.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks required fields and fills optional ones with defaults.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.SourceDir == "" {
		return errSourceDirRequired
	}

	if cfg.Version == "" {
		return errVersionRequired
	}

	if err := validateName("version", cfg.Version); err != nil {
		return err
	}

	if cfg.RootDir == "" {
		cfg.RootDir = "."
	}

	if cfg.ProductName == "" {
		cfg.ProductName = DefaultProductName
	}

	if err := validateProductName(cfg.ProductName); err != nil {
		return err
	}

	if cfg.BaseVersion == "" {
		cfg.BaseVersion = "unknown"
	}

	if len(cfg.Architectures) == 0 {
		cfg.Architectures = DefaultArchitectures()
	}

	for _, arch := range cfg.Architectures {
		if err := validateName("architecture", arch); err != nil {
			return err
		}
	}

	cfg.Architectures = dedupe(cfg.Architectures)

	if cfg.OutDir == "" {
		cfg.OutDir = DefaultOutDir
		if len(cfg.Architectures) > 1 {
			cfg.OutDir = DefaultMultiArchOutDir
		}
	}

	if err := validateOutDirs(cfg); err != nil {
		return err
	}

	if cfg.Maintainer == "" {
		cfg.Maintainer = DefaultMaintainer
	}

	if cfg.Homepage == "" {
		cfg.Homepage = DefaultHomepage
	}

	if len(cfg.Depends) == 0 {
		cfg.Depends = DefaultDepends()
	}

	if len(cfg.EssentialFiles) == 0 {
		cfg.EssentialFiles = DefaultEssentialFiles()
	}

	return nil
}

// validateName rejects values that would break artifact file names.
func validateName(field, value string) error {
	if value == "" || strings.ContainsAny(value, "/\\ \t\n_") {
		return fmt.Errorf("%s %q: %w", field, value, errInvalidName)
	}

	return nil
}

// OutDirFor returns the build output directory of arch, relative to SourceDir.
func (c *Config) OutDirFor(arch string) string {
	if dir, ok := c.OutDirs[arch]; ok && dir != "" {
		return dir
	}

	return strings.ReplaceAll(c.OutDir, ArchPlaceholder, arch)
}

// validateProductName rejects names that would escape the staging directory
// or break the line-based desktop entry and control formats.
func validateProductName(name string) error {
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("product name %q: %w", name, errInvalidName)
	}

	if strings.IndexFunc(name, unicode.IsControl) >= 0 {
		return fmt.Errorf("product name %q: %w", name, errInvalidName)
	}

	return nil
}

// validateOutDirs makes sure no two architectures package the same build.
func validateOutDirs(cfg *Config) error {
	seen := make(map[string]string, len(cfg.Architectures))

	for _, arch := range cfg.Architectures {
		dir := filepath.Clean(cfg.OutDirFor(arch))
		if other, ok := seen[dir]; ok {
			return fmt.Errorf("%s and %s both use %s: %w", other, arch, dir, errSharedOutDir)
		}

		seen[dir] = arch
	}

	return nil
}

// dedupe drops repeated values, keeping the first occurrence of each.
func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}

		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}

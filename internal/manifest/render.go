package manifest

import (
	"fmt"
	"strings"
	"text/template"

	"mvdan.cc/sh/v3/syntax"

	"github.com/nxtscape/linux-packager/internal/domain/build"
)

// mimeTypes are the content types the browser registers for.
var mimeTypes = []string{
	"text/html",
	"text/xml",
	"application/xhtml+xml",
	"application/xml",
	"application/vnd.mozilla.xul+xml",
	"application/rss+xml",
	"application/rdf+xml",
	"image/gif",
	"image/jpeg",
	"image/png",
	"x-scheme-handler/http",
	"x-scheme-handler/https",
	"x-scheme-handler/ftp",
	"x-scheme-handler/chrome",
	"video/webm",
	"application/x-xpinstall",
}

var templates = template.Must(template.New("manifest").Option("missingkey=error").Parse(""))

//nolint:gochecknoinits // Templates are parsed once; a parse error is a programming error.
func init() {
	for name, text := range map[string]string{
		"launch":      launchScriptTemplate,
		"wrapper":     wrapperScriptTemplate,
		"desktop":     desktopEntryTemplate,
		"readme":      readmeTemplate,
		"description": debDescriptionTemplate,
	} {
		template.Must(templates.New(name).Parse(text))
	}
}

// DesktopEntry holds the variable keys of a .desktop file.
type DesktopEntry struct {
	Name           string
	Exec           string
	Icon           string
	StartupWMClass string
}

// PortableDesktopEntry describes the desktop entry shipped inside the tarball.
func PortableDesktopEntry(c build.Context) DesktopEntry {
	return DesktopEntry{
		Name:           c.DisplayName(),
		Exec:           c.LauncherName(),
		Icon:           c.LauncherName(),
		StartupWMClass: strings.ReplaceAll(strings.ToLower(c.DisplayName()), " ", "-"),
	}
}

// SystemDesktopEntry describes the desktop entry installed by the Debian package.
func SystemDesktopEntry(c build.Context) DesktopEntry {
	return DesktopEntry{
		Name:           c.AppBaseName(),
		Exec:           c.PackageName(),
		Icon:           c.PackageName(),
		StartupWMClass: c.PackageName(),
	}
}

// RenderDesktopEntry renders a .desktop file.
func RenderDesktopEntry(e DesktopEntry) (string, error) {
	return execute("desktop", struct {
		DesktopEntry
		MimeTypes string
	}{e, strings.Join(mimeTypes, ";") + ";"})
}

// LaunchScript renders the self-locating launcher placed next to the binary in the tarball.
func LaunchScript(c build.Context) (string, error) {
	script, err := execute("launch", map[string]string{
		"DisplayName": c.DisplayName(),
		"Binary":      build.BinaryName,
	})
	if err != nil {
		return "", err
	}

	return script, ValidateShell("launch script", script)
}

// WrapperScript renders /usr/bin/<package>, which execs the installed binary.
func WrapperScript(c build.Context) (string, error) {
	script, err := execute("wrapper", map[string]string{
		"ProductName": c.AppBaseName(),
		"PackageName": c.PackageName(),
		"Binary":      build.BinaryName,
	})
	if err != nil {
		return "", err
	}

	return script, ValidateShell("wrapper script", script)
}

// Readme renders README.txt for the tarball.
func Readme(c build.Context) (string, error) {
	return execute("readme", map[string]string{
		"DisplayName":  c.DisplayName(),
		"Version":      c.Version,
		"Launcher":     c.LauncherName(),
		"BaseVersion":  c.BaseVersion,
		"Architecture": c.Architecture,
	})
}

// DebDescription renders the synopsis and extended description of the Debian package.
func DebDescription(c build.Context) (string, error) {
	return execute("description", map[string]string{
		"ProductName": c.AppBaseName(),
		"BaseVersion": c.BaseVersion,
	})
}

// PostInst returns the postinst maintainer script.
func PostInst() string {
	return cacheRefreshScript
}

// PostRm returns the postrm maintainer script.
func PostRm() string {
	return cacheRefreshScript
}

// ValidateShell parses script as bash and reports syntax errors.
func ValidateShell(name, script string) error {
	parser := syntax.NewParser(syntax.Variant(syntax.LangBash))
	if _, err := parser.Parse(strings.NewReader(script), name); err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}

	return nil
}

func execute(name string, data any) (string, error) {
	var b strings.Builder
	if err := templates.ExecuteTemplate(&b, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}

	return b.String(), nil
}

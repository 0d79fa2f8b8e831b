package packager

import (
	"os/exec"

	"github.com/nxtscape/linux-packager/internal/service/common"
)

const (
	// ToolAppImage builds AppImages.
	ToolAppImage = "appimagetool"
	// ToolDpkgDeb builds Debian packages.
	ToolDpkgDeb = "dpkg-deb"
)

// ToolFinder answers whether packaging tools are installed. Nothing is cached:
// every call looks the tool up again.
type ToolFinder struct {
	lookPath common.LookPathFunc
}

// NewToolFinder returns a ToolFinder using lookPath, or exec.LookPath when nil.
func NewToolFinder(lookPath common.LookPathFunc) *ToolFinder {
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	return &ToolFinder{lookPath: lookPath}
}

// HasAppImageTool reports whether appimagetool is on the search path.
func (p *ToolFinder) HasAppImageTool() bool {
	return p.has(ToolAppImage)
}

// HasDebTool reports whether dpkg-deb is on the search path.
func (p *ToolFinder) HasDebTool() bool {
	return p.has(ToolDpkgDeb)
}

func (p *ToolFinder) has(tool string) bool {
	_, err := p.lookPath(tool)
	return err == nil
}

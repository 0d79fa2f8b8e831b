package deb

// ControlField is a field of a Debian control stanza.
type ControlField string

const (
	FieldPackage       ControlField = "Package"
	FieldVersion       ControlField = "Version"
	FieldSection       ControlField = "Section"
	FieldPriority      ControlField = "Priority"
	FieldArchitecture  ControlField = "Architecture"
	FieldDepends       ControlField = "Depends"
	FieldMaintainer    ControlField = "Maintainer"
	FieldDescription   ControlField = "Description"
	FieldHomepage      ControlField = "Homepage"
	FieldInstalledSize ControlField = "Installed-Size"
)

// Member names of the outer ar archive, in the order dpkg requires.
const (
	MemberDebianBinary  = "debian-binary"
	MemberControlPrefix = "control.tar"
	MemberDataPrefix    = "data.tar"

	// FormatVersion is the content of the debian-binary member.
	FormatVersion = "2.0\n"
)

// Names of files under DEBIAN/ in a package build tree.
const (
	FileControl  = "control"
	FilePostinst = "postinst"
	FilePostrm   = "postrm"
)

package build

const (
	// ArchX64 is the internal tag for x86-64 builds.
	ArchX64 = "x64"
	// ArchARM64 is the internal tag for 64-bit ARM builds.
	ArchARM64 = "arm64"

	// DebArchAMD64 is the Debian name for x86-64.
	DebArchAMD64 = "amd64"
	// DebArchARM64 is the Debian name for 64-bit ARM.
	DebArchARM64 = "arm64"
)

// DebianArch maps an internal architecture tag to the Debian architecture name.
// Only x64 maps to amd64; every other tag is treated as arm64.
func DebianArch(arch string) string {
	if arch == ArchX64 {
		return DebArchAMD64
	}

	return DebArchARM64
}

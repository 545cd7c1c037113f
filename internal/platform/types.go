// Package platform detects the host operating system and derives the
// per-user cache directory that swissknife materializes helper binaries into.
//
// Detection happens once, through a Detector, and yields an Info whose
// Family is a closed set: Windows, Linux, MacOS or Other. Everything else in
// swissknife switches on Family instead of comparing GOOS strings. The
// package uses gopsutil to describe the host (product name and version) for
// diagnostics; detection never fails because that description is missing.
package platform

import "context"

// Family is the operating system family of the host.
type Family int

const (
	// Other is any host swissknife has no specific knowledge of.
	Other Family = iota
	// Windows is the only family the helper binaries run on.
	Windows
	// Linux hosts.
	Linux
	// MacOS hosts.
	MacOS
)

// String returns the lowercase family name.
func (f Family) String() string {
	switch f {
	case Windows:
		return "windows"
	case Linux:
		return "linux"
	case MacOS:
		return "macos"
	case Other:
		return "other"
	default:
		return "unknown"
	}
}

// FamilyFromGOOS maps a runtime.GOOS value onto a Family.
func FamilyFromGOOS(goos string) Family {
	switch goos {
	case "windows":
		return Windows
	case "linux":
		return Linux
	case "darwin":
		return MacOS
	default:
		return Other
	}
}

// Info contains platform detection information.
type Info struct {
	OS       string // runtime.GOOS, e.g. "windows"
	Family   Family
	Arch     string // normalized, e.g. "amd64", "386", "arm64"
	ArchRaw  string // original GOARCH
	Platform string // product id reported by the OS, e.g. "microsoft windows 11 pro", "ubuntu"
	Version  string // OS version, e.g. "10.0.22631 build 22631", "22.04"
}

// IsWindows returns true if the host can run the helper binaries.
func (i *Info) IsWindows() bool {
	return i.Family == Windows
}

// IsLinux returns true if the platform is Linux.
func (i *Info) IsLinux() bool {
	return i.Family == Linux
}

// IsMacOS returns true if the platform is macOS.
func (i *Info) IsMacOS() bool {
	return i.Family == MacOS
}

// IsAMD64 returns true if the architecture is amd64.
func (i *Info) IsAMD64() bool {
	return i.Arch == "amd64"
}

// IsARM64 returns true if the architecture is arm64.
func (i *Info) IsARM64() bool {
	return i.Arch == "arm64"
}

// Detector is the interface for platform detection.
type Detector interface {
	Detect(ctx context.Context) (*Info, error)
}

// StaticDetector returns a fixed Info. It is used when the host family is
// already known, for example when a caller overrides it in tests.
type StaticDetector struct {
	Info Info
}

// Detect returns a copy of the configured Info.
func (s StaticDetector) Detect(ctx context.Context) (*Info, error) {
	info := s.Info
	return &info, nil
}

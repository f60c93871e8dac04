package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/fatih/color"
)

// Version information for the cxxfront CLI.
// These variables can be overridden at build time via -ldflags.

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)

	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// Colored renders Version with its major, minor and patch numbers
// highlighted. Versions that do not parse are returned unchanged.
func Colored() string {
	v, err := semver.NewVersion(strings.TrimPrefix(Version, "v"))
	if err != nil {
		return Version
	}
	var sb strings.Builder
	sb.WriteString(versionMajorColor.Sprint(v.Major()))
	sb.WriteString(".")
	sb.WriteString(versionMinorColor.Sprint(v.Minor()))
	sb.WriteString(".")
	sb.WriteString(versionPatchColor.Sprint(v.Patch()))
	if pre := v.Prerelease(); pre != "" {
		sb.WriteString("-" + pre)
	}
	if meta := v.Metadata(); meta != "" {
		sb.WriteString("+" + meta)
	}
	return sb.String()
}

// Package version reports how the maison binary was built. The variables are
// set with -ldflags "-X github.com/felixgeelhaar/maison/internal/version.Version=...".
package version

import (
	"fmt"
	"runtime"
	"strings"
)

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Info is the build description printed by 'maison version'.
type Info struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	Date      string `json:"date" yaml:"date"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	Platform  string `json:"platform" yaml:"platform"`
}

// GetInfo returns the build information of the running binary.
func GetInfo() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

func (i Info) shortCommit() string {
	if len(i.Commit) > 8 {
		return i.Commit[:8]
	}
	return i.Commit
}

// Short is the version alone, with the commit appended for development builds.
func (i Info) Short() string {
	if i.Version == "dev" && i.Commit != "unknown" && i.Commit != "" {
		return "dev+" + i.shortCommit()
	}
	return i.Version
}

func (i Info) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "maison %s\n", i.Short())
	fmt.Fprintf(&b, "  commit:   %s\n", i.shortCommit())
	fmt.Fprintf(&b, "  built:    %s\n", i.Date)
	fmt.Fprintf(&b, "  go:       %s\n", i.GoVersion)
	fmt.Fprintf(&b, "  platform: %s", i.Platform)
	return b.String()
}

// UserAgent identifies the client to the storefront API.
func (i Info) UserAgent() string {
	return fmt.Sprintf("maison/%s (%s)", i.Short(), i.Platform)
}

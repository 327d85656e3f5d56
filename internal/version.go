package internal

import (
	goversion "github.com/caarlos0/go-version"
)

// Build-time variables injected via ldflags:
//
//	-X github.com/altuslabsxyz/jobwatch/internal.Version={{.Version}}
//	-X github.com/altuslabsxyz/jobwatch/internal.GitCommit={{.FullCommit}}
//	-X github.com/altuslabsxyz/jobwatch/internal.BuildDate={{.Date}}
var (
	// Version is the semantic version of the application.
	// Defaults to "0.1.0-dev" for local builds.
	Version = "0.1.0-dev"

	// GitCommit is the git commit hash of the build.
	GitCommit = "unknown"

	// BuildDate is the date when the binary was built.
	BuildDate = "unknown"
)

const (
	appName        = "jobwatch"
	appDescription = "Watch transcription jobs through their processing stages"
	appURL         = "https://github.com/altuslabsxyz/jobwatch"
)

// BuildInfo contains all build-time information.
type BuildInfo struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// VersionInfo returns the full version report. ldflags values win over the
// module build info that go-version reads from the binary.
func VersionInfo() goversion.Info {
	return goversion.GetVersionInfo(
		goversion.WithAppDetails(appName, appDescription, appURL),
		func(i *goversion.Info) {
			if Version != "" {
				i.GitVersion = Version
			}
			if GitCommit != "" && GitCommit != "unknown" {
				i.GitCommit = GitCommit
			}
			if BuildDate != "" && BuildDate != "unknown" {
				i.BuildDate = BuildDate
			}
		},
	)
}

// GetBuildInfo returns the build information for the application.
func GetBuildInfo() BuildInfo {
	info := VersionInfo()
	return BuildInfo{
		Version:   info.GitVersion,
		GitCommit: info.GitCommit,
		BuildDate: info.BuildDate,
		GoVersion: info.GoVersion,
		Platform:  info.Platform,
	}
}

package internal

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetBuildInfo(t *testing.T) {
	prevVersion, prevCommit := Version, GitCommit
	t.Cleanup(func() { Version, GitCommit = prevVersion, prevCommit })

	Version = "1.2.3"
	GitCommit = "abc123"

	info := GetBuildInfo()
	assert.Equal(t, "1.2.3", info.Version)
	assert.Equal(t, "abc123", info.GitCommit)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
}

func TestVersionInfo_AppDetails(t *testing.T) {
	info := VersionInfo()
	assert.Equal(t, appName, info.Name)
	assert.Contains(t, info.String(), appDescription)
}

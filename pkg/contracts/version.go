package contracts

import (
	"fmt"
	"runtime"
)

// Version is the release shared by fardash and farctl.
const Version = "1.0.0"

// APIVersion is the version prefix of the JSON contracts in api/v1.
const APIVersion = "v1"

// GitCommit is set at link time with -ldflags "-X fardash/pkg/contracts.GitCommit=...".
var GitCommit = "unknown"

// VersionInfo describes the running build.
type VersionInfo struct {
	Version    string `json:"version"`
	APIVersion string `json:"api_version"`
	GitCommit  string `json:"git_commit"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
}

// Info returns the version of the running build.
func Info() VersionInfo {
	return VersionInfo{
		Version:    Version,
		APIVersion: APIVersion,
		GitCommit:  GitCommit,
		GoVersion:  runtime.Version(),
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
	}
}

func (v VersionInfo) String() string {
	return fmt.Sprintf("%s (api %s, commit %s, %s, %s)", v.Version, v.APIVersion, v.GitCommit, v.GoVersion, v.Platform)
}

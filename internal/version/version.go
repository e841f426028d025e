package version

import (
	"fmt"
	"runtime"
)

var (
	GitVersion    = "dev"
	BuildMetadata = ""
	GitCommit     = ""
	GitTreeState  = ""
)

const (
	ServerName = "Azure MCP Server"
	// ApplicationPrefix tags outgoing Azure requests. The SDK limits the
	// telemetry application ID to 24 characters.
	ApplicationPrefix = "azmcp-go"
)

func GetVersion() string {
	var version string
	if BuildMetadata != "" {
		version = fmt.Sprintf("%s+%s", GitVersion, BuildMetadata)
	} else {
		version = GitVersion
	}
	return version
}

// ApplicationID is sent in the User-Agent of every Azure SDK request.
func ApplicationID() string {
	id := ApplicationPrefix + "/" + GitVersion
	if len(id) > 24 {
		id = id[:24]
	}
	return id
}

func GetVersionInfo() map[string]string {
	return map[string]string{
		"version":      GetVersion(),
		"gitCommit":    GitCommit,
		"gitTreeState": GitTreeState,
		"goVersion":    runtime.Version(),
		"platform":     fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

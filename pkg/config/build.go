package config

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set at link time:
//
//	go build -ldflags "-X llvmmgmt/pkg/config.BuildVersion=v1.2.0 -X llvmmgmt/pkg/config.BuildTimestamp=..."
var (
	BuildVersion   = ""
	BuildTimestamp = "unknown"
)

// Version is BuildVersion, or the module version recorded by go install.
func Version() string {
	if BuildVersion != "" {
		return BuildVersion
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "devel"
}

// GetBuildInfo is the --version banner.
func GetBuildInfo() string {
	return fmt.Sprintf("%s %s (%s) %s/%s", AppName, Version(), BuildTimestamp, runtime.GOOS, runtime.GOARCH)
}

// UserAgent identifies llvmmgmt to release servers.
func UserAgent() string {
	return AppName + "/" + Version()
}

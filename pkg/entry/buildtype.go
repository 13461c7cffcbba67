package entry

import "strings"

// BuildType is the CMAKE_BUILD_TYPE. The zero value is Release.
type BuildType int

const (
	Release BuildType = iota
	Debug
	RelWithDebInfo
	MinSizeRel
)

func (b BuildType) String() string {
	switch b {
	case Debug:
		return "Debug"
	case RelWithDebInfo:
		return "RelWithDebInfo"
	case MinSizeRel:
		return "MinSizeRel"
	default:
		return "Release"
	}
}

// BuildTypes lists every build type, in CMake's documentation order.
func BuildTypes() []BuildType {
	return []BuildType{Debug, Release, RelWithDebInfo, MinSizeRel}
}

func buildTypeNames() []string {
	var names []string
	for _, b := range BuildTypes() {
		names = append(names, b.String())
	}
	return names
}

// ParseBuildType resolves a build type name case-insensitively.
func ParseBuildType(s string) (BuildType, error) {
	for _, b := range BuildTypes() {
		if strings.EqualFold(s, b.String()) {
			return b, nil
		}
	}
	return Release, &UnsupportedBuildTypeError{BuildType: s}
}

package cmake

import "strings"

// Platform mode selects where the FMI platform tag gets decided.
//
// In "cmake" mode (the default) the generated project probes the target
// system's processor when CMake configures it, so the same CMakeLists.txt
// stays correct under cross-compilation. In "host" mode the generator bakes
// the platform tag of the machine it is running on into the output as a
// literal, which is the legacy behavior of older versions of this tool.
const (
	PlatformModeCMake = "cmake"
	PlatformModeHost  = "host"
)

// archDetectionBlock is the CMake-side architecture probe emitted in
// "cmake" mode, modeled on the Reference-FMUs build system. It prefers
// CMAKE_SYSTEM_PROCESSOR (set by toolchain files when cross-compiling)
// and falls back to CMAKE_HOST_SYSTEM_PROCESSOR.
const archDetectionBlock = `# Architecture detection
set(FMI_ARCHITECTURE "" CACHE STRING "FMI Architecture")
set_property(CACHE FMI_ARCHITECTURE PROPERTY STRINGS "" "aarch64" "x86" "x86_64")

if (NOT FMI_ARCHITECTURE)
  # Try CMAKE_SYSTEM_PROCESSOR first, then CMAKE_HOST_SYSTEM_PROCESSOR as fallback
  set(PROCESSOR "${CMAKE_SYSTEM_PROCESSOR}")
  if (NOT PROCESSOR)
    set(PROCESSOR "${CMAKE_HOST_SYSTEM_PROCESSOR}")
  endif()

  if (PROCESSOR MATCHES "AMD64|x86_64")
    set(FMI_ARCHITECTURE "x86_64")
  elseif (PROCESSOR MATCHES "i386|i686|x86")
    set(FMI_ARCHITECTURE "x86")
  elseif (PROCESSOR MATCHES "aarch64|arm64")
    set(FMI_ARCHITECTURE "aarch64")
  elseif (PROCESSOR MATCHES "arm")
    set(FMI_ARCHITECTURE "arm")
  else ()
    # Default to x86_64 if processor is unknown or empty
    message(STATUS "Unknown or empty system processor '${PROCESSOR}', defaulting to x86_64")
    set(FMI_ARCHITECTURE "x86_64")
  endif ()
endif ()

# Platform detection
if (WIN32)
  set(FMI_PLATFORM "${FMI_ARCHITECTURE}-windows")
elseif (APPLE)
  set(FMI_PLATFORM "${FMI_ARCHITECTURE}-darwin")
else ()
  set(FMI_PLATFORM "${FMI_ARCHITECTURE}-linux")
endif ()

message(STATUS "FMI Platform: ${FMI_PLATFORM}")
`

// mapArchitecture maps a processor identifier to an FMI architecture
// family. It accepts both uname-style strings and Go GOARCH values. An
// unrecognized processor passes through unchanged, unlike the CMake-side
// probe which defaults to x86_64.
func mapArchitecture(proc string) string {
	switch strings.ToLower(proc) {
	case "amd64", "x86_64":
		return "x86_64"
	case "i386", "i686", "x86", "386":
		return "x86"
	case "aarch64", "arm64":
		return "aarch64"
	}
	if strings.HasPrefix(strings.ToLower(proc), "arm") {
		return "arm"
	}
	return proc
}

// hostPlatform builds the baked <arch>-<os> platform tag used in "host"
// mode from GOOS/GOARCH values.
func hostPlatform(goos, goarch string) string {
	arch := mapArchitecture(goarch)
	switch goos {
	case "windows":
		return arch + "-windows"
	case "darwin":
		return arch + "-darwin"
	default:
		return arch + "-linux"
	}
}

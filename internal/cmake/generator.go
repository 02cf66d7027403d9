// Package cmake renders a CMakeLists.txt from a parsed FMI build
// description. Generation is a pure function of its inputs: no I/O, no
// global state, byte-identical output for identical inputs.
package cmake

import (
	"errors"
	"runtime"
	"slices"
	"strings"

	"github.com/fmi-build/bd2cmake/internal/builddesc"
)

var (
	ErrConfigurationMissing = errors.New("build description contains no build configurations")
	ErrSourcesMissing       = errors.New("build configuration contains no source files")
)

const (
	// defaultModelIdentifier names the project when the build
	// configuration carries no model identifier.
	defaultModelIdentifier = "fmi_model"
	defaultCMakeMinimum    = "3.5"
)

// Options tune generation. The zero value is usable.
type Options struct {
	// HeadersDir seeds the FMI headers discovery section with a known
	// headers location. Empty means discover at configure time only.
	HeadersDir string
	// PlatformMode is PlatformModeCMake or PlatformModeHost; empty
	// means PlatformModeCMake.
	PlatformMode string
	// CMakeMinimum overrides the cmake_minimum_required version.
	CMakeMinimum string
	// GOOS and GOARCH feed the baked platform tag in host mode. Empty
	// values fall back to the runtime's.
	GOOS, GOARCH string
}

// Generate renders a complete CMakeLists.txt for the first build
// configuration of info. It fails with ErrConfigurationMissing or
// ErrSourcesMissing before producing any output; there is no partial
// result.
func Generate(info *builddesc.BuildInfo, opts Options) (string, error) {
	if len(info.Configurations) == 0 {
		return "", ErrConfigurationMissing
	}

	// only the first build configuration is consulted
	cfg := &info.Configurations[0]
	projectName := cfg.ModelIdentifier
	if projectName == "" {
		projectName = defaultModelIdentifier
	}

	sources := cfg.SourceFileNames()
	if len(sources) == 0 {
		return "", ErrSourcesMissing
	}

	cmakeMinimum := opts.CMakeMinimum
	if cmakeMinimum == "" {
		cmakeMinimum = defaultCMakeMinimum
	}

	var sb strings.Builder

	writeln(&sb, "cmake_minimum_required(VERSION ", cmakeMinimum, ")")
	writeln(&sb)
	writeln(&sb, `set(CMAKE_SHARED_LIBRARY_PREFIX "")`)
	writeln(&sb)
	writeln(&sb, "project(", projectName, ")")
	writeln(&sb)

	if opts.PlatformMode == PlatformModeHost {
		goos, goarch := opts.GOOS, opts.GOARCH
		if goos == "" {
			goos = runtime.GOOS
		}
		if goarch == "" {
			goarch = runtime.GOARCH
		}
		writeln(&sb, "# Platform tag baked in at generation time")
		writeln(&sb, `set(FMI_PLATFORM "`, hostPlatform(goos, goarch), `")`)
	} else {
		write(&sb, archDetectionBlock)
	}
	writeln(&sb)

	cStd, cxxStd := languageStandards(cfg)
	if cStd != "" {
		writeln(&sb, "set(CMAKE_C_STANDARD ", cStd, ")")
	}
	if cxxStd != "" {
		writeln(&sb, "set(CMAKE_CXX_STANDARD ", cxxStd, ")")
	}
	if cStd != "" || cxxStd != "" {
		writeln(&sb)
	}

	// library target; source files keep their declared order and always
	// live under the FMU's sources/ root
	writeln(&sb, "# Create shared library")
	writeln(&sb, "add_library(", projectName, " SHARED")
	for _, src := range sources {
		writeln(&sb, "    sources/", src)
	}
	writeln(&sb, ")")
	writeln(&sb)

	writeln(&sb, "# Set target properties")
	writeln(&sb, "set_target_properties(", projectName, " PROPERTIES")
	writeln(&sb, "    OUTPUT_NAME ", projectName)
	writeln(&sb, "    LIBRARY_OUTPUT_DIRECTORY binaries/${FMI_PLATFORM}")
	writeln(&sb, "    RUNTIME_OUTPUT_DIRECTORY binaries/${FMI_PLATFORM}")
	writeln(&sb, ")")
	writeln(&sb)

	writeHeadersSection(&sb, opts.HeadersDir)
	writeln(&sb)

	writeln(&sb, "# Include directories")
	writeln(&sb, "target_include_directories(", projectName, " PRIVATE")
	writeln(&sb, "    $<$<BOOL:${FMI_HEADERS_DIR}>:${FMI_HEADERS_DIR}>")
	for _, dir := range includeDirs(cfg) {
		writeln(&sb, "    ", dir)
	}
	writeln(&sb, ")")
	writeln(&sb)

	if defs := definitions(cfg); len(defs) > 0 {
		writeln(&sb, "# Preprocessor definitions")
		writeln(&sb, "target_compile_definitions(", projectName, " PRIVATE")
		for _, def := range defs {
			writeln(&sb, "    ", def)
		}
		writeln(&sb, ")")
		writeln(&sb)
	}

	if options := compilerOptions(cfg); len(options) > 0 {
		writeln(&sb, "# Compiler options")
		writeln(&sb, "target_compile_options(", projectName, " PRIVATE")
		for _, opt := range options {
			writeln(&sb, "    ", opt)
		}
		writeln(&sb, ")")
		writeln(&sb)
	}

	// libraries keep declared order and repeats
	if len(cfg.Libraries) > 0 {
		writeln(&sb, "# Link libraries")
		writeln(&sb, "target_link_libraries(", projectName, " PRIVATE")
		for _, lib := range cfg.Libraries {
			writeln(&sb, "    ", lib)
		}
		writeln(&sb, ")")
		writeln(&sb)
	}

	writeln(&sb, "# Install rules")
	writeln(&sb, "install(TARGETS ", projectName)
	writeln(&sb, "    LIBRARY DESTINATION binaries/${FMI_PLATFORM}")
	writeln(&sb, "    RUNTIME DESTINATION binaries/${FMI_PLATFORM}")
	writeln(&sb, ")")
	writeln(&sb)
	writeln(&sb, "# Create binaries directory")
	writeln(&sb, "file(MAKE_DIRECTORY ${CMAKE_BINARY_DIR}/binaries/${FMI_PLATFORM})")

	return sb.String(), nil
}

// writeHeadersSection emits the FMI headers discovery logic. The headers
// directory can come from a -D flag, the seeded hint, the environment, or
// a find_path probe over well-known locations, in that order.
func writeHeadersSection(sb *strings.Builder, hint string) {
	writeln(sb, "# Find FMI headers directory")
	writeln(sb, "# Can be set via -DFMI_HEADERS_DIR=/path or FMI_HEADERS_DIR environment variable")
	if hint != "" {
		writeln(sb, "if(NOT FMI_HEADERS_DIR)")
		writeln(sb, `    set(FMI_HEADERS_DIR "`, hint, `")`)
		writeln(sb, "endif()")
		writeln(sb)
	}
	write(sb, `if(NOT FMI_HEADERS_DIR)
    # Try environment variable first
    set(FMI_HEADERS_DIR $ENV{FMI_HEADERS_DIR})
endif()

# Try to find fmi2Functions.h if FMI_HEADERS_DIR is not set
if(NOT FMI_HEADERS_DIR)
    find_path(FMI_HEADERS_DIR
        NAMES fmi2Functions.h
        PATHS
            /usr/include/fmi2
            /usr/local/include/fmi2
            /opt/local/include/fmi2
            ${CMAKE_SOURCE_DIR}/../fmi-headers
            ${CMAKE_SOURCE_DIR}/fmi-headers
        DOC "FMI headers directory containing fmi2Functions.h"
    )
endif()

if(FMI_HEADERS_DIR)
    message(STATUS "Using FMI headers from: ${FMI_HEADERS_DIR}")
else()
    message(STATUS "FMI headers not found - you may need to set FMI_HEADERS_DIR")
endif()
`)
}

// includeDirs returns the sorted, deduplicated union of global and per-set
// include directories, always including the sources/ root.
func includeDirs(cfg *builddesc.BuildConfiguration) []string {
	set := map[string]bool{"sources": true}
	for _, dir := range cfg.IncludeDirs {
		set[dir] = true
	}
	for _, sfs := range cfg.SourceFileSets {
		for _, dir := range sfs.IncludeDirs {
			set[dir] = true
		}
	}
	return sortedKeys(set)
}

// definitions returns the sorted, deduplicated union of global and
// per-set preprocessor definitions.
func definitions(cfg *builddesc.BuildConfiguration) []string {
	set := make(map[string]bool)
	for _, def := range cfg.Definitions {
		set[def] = true
	}
	for _, sfs := range cfg.SourceFileSets {
		for _, def := range sfs.Definitions {
			set[def] = true
		}
	}
	return sortedKeys(set)
}

// compilerOptions splits every set's option string on whitespace and
// returns the sorted union of the tokens.
func compilerOptions(cfg *builddesc.BuildConfiguration) []string {
	set := make(map[string]bool)
	for _, sfs := range cfg.SourceFileSets {
		for _, opt := range strings.Fields(sfs.CompilerOptions) {
			set[opt] = true
		}
	}
	return sortedKeys(set)
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func write(sb *strings.Builder, s ...string) {
	for _, str := range s {
		sb.WriteString(str)
	}
}

func writeln(sb *strings.Builder, s ...string) {
	for _, str := range s {
		sb.WriteString(str)
	}
	sb.WriteByte('\n')
}

package cmake

import (
	"errors"
	"strings"
	"testing"

	"github.com/fmi-build/bd2cmake/internal/builddesc"
	"github.com/google/go-cmp/cmp"
)

func infoWith(cfgs ...builddesc.BuildConfiguration) *builddesc.BuildInfo {
	return &builddesc.BuildInfo{FMIVersion: "3.0", Configurations: cfgs}
}

func simpleInfo() *builddesc.BuildInfo {
	return infoWith(builddesc.BuildConfiguration{
		ModelIdentifier: "bouncing_ball",
		SourceFileSets: []builddesc.SourceFileSet{{
			Language:    "C99",
			SourceFiles: files("model.c"),
		}},
	})
}

func TestGenerateNoConfigurations(t *testing.T) {
	_, err := Generate(infoWith(), Options{})
	if !errors.Is(err, ErrConfigurationMissing) {
		t.Fatalf("err = %v, want ErrConfigurationMissing", err)
	}
}

func TestGenerateNoSources(t *testing.T) {
	info := infoWith(builddesc.BuildConfiguration{
		ModelIdentifier: "empty",
		SourceFileSets:  []builddesc.SourceFileSet{{Language: "C99"}, {Language: "C++11"}},
	})
	_, err := Generate(info, Options{})
	if !errors.Is(err, ErrSourcesMissing) {
		t.Fatalf("err = %v, want ErrSourcesMissing", err)
	}
}

func TestGenerateSimpleC99(t *testing.T) {
	out, err := Generate(simpleInfo(), Options{})
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"cmake_minimum_required(VERSION 3.5)",
		"project(bouncing_ball)",
		"set(CMAKE_C_STANDARD 99)",
		"add_library(bouncing_ball SHARED\n    sources/model.c\n)",
		"LIBRARY_OUTPUT_DIRECTORY binaries/${FMI_PLATFORM}",
		"install(TARGETS bouncing_ball",
		"file(MAKE_DIRECTORY ${CMAKE_BINARY_DIR}/binaries/${FMI_PLATFORM})",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output does not contain %q", want)
		}
	}
	if strings.Contains(out, "CMAKE_CXX_STANDARD") {
		t.Error("output sets CMAKE_CXX_STANDARD for a pure C configuration")
	}
	if !strings.HasSuffix(out, ")\n") && !strings.HasSuffix(out, "}\n") {
		t.Errorf("output does not end with a single trailing newline: %q", out[len(out)-8:])
	}
	if strings.HasSuffix(out, "\n\n") {
		t.Error("output ends with more than one newline")
	}
}

func TestGenerateFallbackModelIdentifier(t *testing.T) {
	info := infoWith(builddesc.BuildConfiguration{
		SourceFileSets: []builddesc.SourceFileSet{{SourceFiles: files("model.c")}},
	})
	out, err := Generate(info, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "project(fmi_model)") {
		t.Error("output does not fall back to the fmi_model project name")
	}
}

func TestGenerateUsesFirstConfigurationOnly(t *testing.T) {
	info := infoWith(
		builddesc.BuildConfiguration{
			ModelIdentifier: "first",
			SourceFileSets:  []builddesc.SourceFileSet{{SourceFiles: files("a.c")}},
		},
		builddesc.BuildConfiguration{
			ModelIdentifier: "second",
			SourceFileSets:  []builddesc.SourceFileSet{{SourceFiles: files("b.c")}},
		},
	)
	out, err := Generate(info, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "project(first)") || strings.Contains(out, "second") {
		t.Error("generation consulted a configuration other than the first")
	}
}

func TestGenerateIncludeDirsDedupSorted(t *testing.T) {
	info := infoWith(builddesc.BuildConfiguration{
		ModelIdentifier: "m",
		IncludeDirs:     []string{"inc"},
		SourceFileSets: []builddesc.SourceFileSet{
			{SourceFiles: files("a.c"), IncludeDirs: []string{"inc", "extra"}},
			{SourceFiles: files("b.c"), IncludeDirs: []string{"inc"}},
		},
	})
	out, err := Generate(info, Options{})
	if err != nil {
		t.Fatal(err)
	}

	block := section(t, out, "target_include_directories(m PRIVATE\n", ")\n")
	want := []string{
		"$<$<BOOL:${FMI_HEADERS_DIR}>:${FMI_HEADERS_DIR}>",
		"extra",
		"inc",
		"sources",
	}
	if diff := cmp.Diff(want, block); diff != "" {
		t.Errorf("include directories mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateDefinitionsDedupSorted(t *testing.T) {
	info := infoWith(builddesc.BuildConfiguration{
		ModelIdentifier: "m",
		Definitions:     []string{"FMI_VERSION=2"},
		SourceFileSets: []builddesc.SourceFileSet{
			{SourceFiles: files("a.c"), Definitions: []string{"DEBUG", "FMI_VERSION=2"}},
		},
	})
	out, err := Generate(info, Options{})
	if err != nil {
		t.Fatal(err)
	}

	block := section(t, out, "target_compile_definitions(m PRIVATE\n", ")\n")
	want := []string{"DEBUG", "FMI_VERSION=2"}
	if diff := cmp.Diff(want, block); diff != "" {
		t.Errorf("definitions mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateCompilerOptionsSplitSorted(t *testing.T) {
	info := infoWith(builddesc.BuildConfiguration{
		ModelIdentifier: "m",
		SourceFileSets: []builddesc.SourceFileSet{
			{SourceFiles: files("a.c"), CompilerOptions: "-O2 -Wall"},
			{SourceFiles: files("b.c"), CompilerOptions: "-Wall -fPIC"},
		},
	})
	out, err := Generate(info, Options{})
	if err != nil {
		t.Fatal(err)
	}

	block := section(t, out, "target_compile_options(m PRIVATE\n", ")\n")
	want := []string{"-O2", "-Wall", "-fPIC"}
	if diff := cmp.Diff(want, block); diff != "" {
		t.Errorf("compiler options mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateLibrariesDeclaredOrderWithRepeats(t *testing.T) {
	info := infoWith(builddesc.BuildConfiguration{
		ModelIdentifier: "m",
		Libraries:       []string{"m", "dl", "m"},
		SourceFileSets:  []builddesc.SourceFileSet{{SourceFiles: files("a.c")}},
	})
	out, err := Generate(info, Options{})
	if err != nil {
		t.Fatal(err)
	}

	block := section(t, out, "target_link_libraries(m PRIVATE\n", ")\n")
	want := []string{"m", "dl", "m"}
	if diff := cmp.Diff(want, block); diff != "" {
		t.Errorf("libraries mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateEmptySectionsOmitted(t *testing.T) {
	out, err := Generate(simpleInfo(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	for _, directive := range []string{
		"target_compile_definitions",
		"target_compile_options",
		"target_link_libraries",
	} {
		if strings.Contains(out, directive) {
			t.Errorf("output contains %s block for an empty collection", directive)
		}
	}
}

func TestGenerateSourceOrderPreserved(t *testing.T) {
	info := infoWith(builddesc.BuildConfiguration{
		ModelIdentifier: "m",
		SourceFileSets: []builddesc.SourceFileSet{
			{SourceFiles: files("z.c", "a.c")},
			{SourceFiles: files("m.c")},
		},
	})
	out, err := Generate(info, Options{})
	if err != nil {
		t.Fatal(err)
	}

	block := section(t, out, "add_library(m SHARED\n", ")\n")
	want := []string{"sources/z.c", "sources/a.c", "sources/m.c"}
	if diff := cmp.Diff(want, block); diff != "" {
		t.Errorf("source order mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	info := infoWith(builddesc.BuildConfiguration{
		ModelIdentifier: "m",
		IncludeDirs:     []string{"inc2", "inc1"},
		Definitions:     []string{"B", "A"},
		Libraries:       []string{"m"},
		SourceFileSets: []builddesc.SourceFileSet{
			{Language: "C99", SourceFiles: files("a.c"), CompilerOptions: "-Wall -O2"},
		},
	})
	opts := Options{HeadersDir: "/opt/fmi/headers"}

	first, err := Generate(info, opts)
	if err != nil {
		t.Fatal(err)
	}
	for range 10 {
		again, err := Generate(info, opts)
		if err != nil {
			t.Fatal(err)
		}
		if again != first {
			t.Fatal("repeated generation produced different output")
		}
	}
}

func TestGenerateHeadersHint(t *testing.T) {
	out, err := Generate(simpleInfo(), Options{HeadersDir: "/opt/fmi/headers"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `set(FMI_HEADERS_DIR "/opt/fmi/headers")`) {
		t.Error("output does not seed FMI_HEADERS_DIR with the hint")
	}
	// discovery fallbacks stay in place after the hint
	if !strings.Contains(out, "find_path(FMI_HEADERS_DIR") {
		t.Error("output dropped the find_path fallback")
	}
}

func TestGenerateCMakePlatformMode(t *testing.T) {
	out, err := Generate(simpleInfo(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `set(PROCESSOR "${CMAKE_SYSTEM_PROCESSOR}")`) {
		t.Error("output does not probe CMAKE_SYSTEM_PROCESSOR")
	}
	if !strings.Contains(out, `set(PROCESSOR "${CMAKE_HOST_SYSTEM_PROCESSOR}")`) {
		t.Error("output does not fall back to CMAKE_HOST_SYSTEM_PROCESSOR")
	}
	if !strings.Contains(out, `set(FMI_PLATFORM "${FMI_ARCHITECTURE}-windows")`) {
		t.Error("output does not map WIN32 to a -windows platform tag")
	}
}

func TestGenerateHostPlatformMode(t *testing.T) {
	out, err := Generate(simpleInfo(), Options{
		PlatformMode: PlatformModeHost,
		GOOS:         "linux",
		GOARCH:       "amd64",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `set(FMI_PLATFORM "x86_64-linux")`) {
		t.Error("output does not bake the host platform tag")
	}
	if strings.Contains(out, "CMAKE_SYSTEM_PROCESSOR") {
		t.Error("host mode output still contains the configure-time probe")
	}
}

func TestGenerateCMakeMinimumOverride(t *testing.T) {
	out, err := Generate(simpleInfo(), Options{CMakeMinimum: "3.16"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "cmake_minimum_required(VERSION 3.16)") {
		t.Error("output does not honor the CMake minimum override")
	}
}

// section extracts the indented entries of a directive block.
func section(t *testing.T, out, header, footer string) []string {
	t.Helper()
	start := strings.Index(out, header)
	if start < 0 {
		t.Fatalf("output has no %q block", strings.TrimSpace(header))
	}
	rest := out[start+len(header):]
	end := strings.Index(rest, footer)
	if end < 0 {
		t.Fatalf("%q block is not terminated", strings.TrimSpace(header))
	}
	var entries []string
	for line := range strings.Lines(rest[:end]) {
		entries = append(entries, strings.TrimSpace(line))
	}
	return entries
}

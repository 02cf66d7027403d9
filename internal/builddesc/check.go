package builddesc

import (
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// sourcePattern matches the file extensions a build description can
// plausibly reference.
const sourcePattern = "**/*.{c,cc,cpp,cxx,h,hpp,hxx}"

// SourceCheck is the result of comparing a build configuration's declared
// source files against the FMU's sources/ directory on disk.
type SourceCheck struct {
	// Missing lists declared source files with no file on disk, in
	// declared order.
	Missing []string
	// Unreferenced lists on-disk source files the description never
	// mentions, relative to the sources/ directory.
	Unreferenced []string
}

// Clean reports whether the description and the directory agree exactly.
func (c SourceCheck) Clean() bool {
	return len(c.Missing) == 0 && len(c.Unreferenced) == 0
}

// CheckSources compares the configuration's declared source files against
// the contents of sourcesDir. Missing files are build breakers; files on
// disk that the description never references only merit a warning, so the
// two are reported separately.
func (cfg *BuildConfiguration) CheckSources(sourcesDir string) (SourceCheck, error) {
	var check SourceCheck

	declaredSet := make(map[string]bool)
	for _, name := range cfg.SourceFileNames() {
		declaredSet[filepath.ToSlash(name)] = true
		if _, err := os.Stat(filepath.Join(sourcesDir, name)); err != nil {
			check.Missing = append(check.Missing, name)
		}
	}

	matches, err := doublestar.Glob(os.DirFS(sourcesDir), sourcePattern, doublestar.WithFilesOnly())
	if err != nil {
		return check, err
	}
	for _, match := range matches {
		if !declaredSet[match] {
			check.Unreferenced = append(check.Unreferenced, match)
		}
	}

	return check, nil
}

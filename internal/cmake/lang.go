package cmake

import (
	"strings"

	"github.com/fmi-build/bd2cmake/internal/builddesc"
)

// langFamily classifies a source-file set's language tag.
type langFamily int

const (
	langUnknown langFamily = iota
	langC
	langCXX
)

// language is the decoded form of a free-form language tag.
type language struct {
	family langFamily
	std    string // numeric CMAKE_<LANG>_STANDARD value
}

// parseLanguage decodes a language tag case-insensitively against the
// fixed set of recognized C and C++ standards. Anything else decodes to
// langUnknown and never raises.
func parseLanguage(tag string) language {
	switch strings.ToUpper(strings.TrimSpace(tag)) {
	case "C89", "C90":
		return language{langC, "90"}
	case "C99":
		return language{langC, "99"}
	case "C11":
		return language{langC, "11"}
	case "C17":
		return language{langC, "17"}
	case "C++", "CPP", "C++11":
		// bare C++/CPP default to C++11
		return language{langCXX, "11"}
	case "C++98":
		return language{langCXX, "98"}
	case "C++03":
		return language{langCXX, "03"}
	case "C++14":
		return language{langCXX, "14"}
	case "C++17":
		return language{langCXX, "17"}
	case "C++20":
		return language{langCXX, "20"}
	default:
		return language{langUnknown, ""}
	}
}

var (
	cxxExtensions = []string{".cpp", ".cxx", ".cc", ".hpp", ".hxx"}
	cExtensions   = []string{".c", ".h"}
)

func hasAnyExtension(name string, exts []string) bool {
	for _, ext := range exts {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// languageStandards derives the effective C and C++ standards for a build
// configuration. The first recognized tag of each family wins; later tags
// of the same family are ignored. When no set declares a recognized tag of
// either family, the standards default from the file extensions present,
// with C++ detection taking priority over C.
func languageStandards(cfg *builddesc.BuildConfiguration) (cStd, cxxStd string) {
	for _, sfs := range cfg.SourceFileSets {
		lang := parseLanguage(sfs.Language)
		switch lang.family {
		case langC:
			if cStd == "" {
				cStd = lang.std
			}
		case langCXX:
			if cxxStd == "" {
				cxxStd = lang.std
			}
		}
	}

	if cStd != "" || cxxStd != "" {
		return cStd, cxxStd
	}

	hasC, hasCXX := false, false
	for _, sfs := range cfg.SourceFileSets {
		for _, sf := range sfs.SourceFiles {
			if hasAnyExtension(sf.Name, cxxExtensions) {
				hasCXX = true
			} else if hasAnyExtension(sf.Name, cExtensions) {
				hasC = true
			}
		}
	}

	if hasCXX {
		cxxStd = "11"
	} else if hasC {
		cStd = "99"
	}
	return cStd, cxxStd
}

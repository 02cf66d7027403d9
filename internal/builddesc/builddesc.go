// Package builddesc models the buildDescription.xml file found inside
// source-code FMUs and parses it into an in-memory BuildInfo.
package builddesc

// BuildInfo is the parsed content of a buildDescription.xml. A description
// may carry several build configurations; generation only ever consults the
// first one.
type BuildInfo struct {
	FMIVersion     string
	Configurations []BuildConfiguration
}

// BuildConfiguration is one named variant of build settings.
type BuildConfiguration struct {
	ModelIdentifier string
	SourceFileSets  []SourceFileSet
	// IncludeDirs and Definitions have set semantics: duplicates are
	// dropped at parse time, first occurrence wins.
	IncludeDirs []string
	Definitions []string
	// Libraries keep their declared order, repeats included.
	Libraries []string
}

// SourceFileSet groups source files sharing a language, include paths,
// preprocessor definitions and compiler options.
type SourceFileSet struct {
	// Language is a free-form tag such as "C99" or "C++17", matched
	// case-insensitively during generation.
	Language string
	// CompilerOptions is a whitespace-delimited option string.
	CompilerOptions string
	SourceFiles     []SourceFile
	IncludeDirs     []string
	Definitions     []string
}

// SourceFile is a single source file, relative to the FMU's sources/ root.
type SourceFile struct {
	Name string
}

package builddesc

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"os"
)

// Filename is the well-known name of the build description inside an FMU.
const Filename = "buildDescription.xml"

//
// wire structures (FMI 3.0 schema element names)
//

type xmlBuildDescription struct {
	XMLName        xml.Name                `xml:"fmiBuildDescription"`
	FMIVersion     string                  `xml:"fmiVersion,attr"`
	Configurations []xmlBuildConfiguration `xml:"BuildConfiguration"`
}

type xmlBuildConfiguration struct {
	ModelIdentifier string                      `xml:"modelIdentifier,attr"`
	SourceFileSets  []xmlSourceFileSet          `xml:"SourceFileSet"`
	IncludeDirs     []xmlIncludeDirectory       `xml:"IncludeDirectory"`
	Definitions     []xmlPreprocessorDefinition `xml:"PreprocessorDefinition"`
	Libraries       []xmlLibrary                `xml:"Library"`
}

type xmlSourceFileSet struct {
	Language        string                      `xml:"language,attr"`
	CompilerOptions string                      `xml:"compilerOptions,attr"`
	SourceFiles     []xmlSourceFile             `xml:"SourceFile"`
	IncludeDirs     []xmlIncludeDirectory       `xml:"IncludeDirectory"`
	Definitions     []xmlPreprocessorDefinition `xml:"PreprocessorDefinition"`
}

type xmlSourceFile struct {
	Name string `xml:"name,attr"`
}

type xmlIncludeDirectory struct {
	Name string `xml:"name,attr"`
}

type xmlPreprocessorDefinition struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

type xmlLibrary struct {
	Name string `xml:"name,attr"`
}

// Parse reads a buildDescription.xml document and converts it into a
// BuildInfo. It only checks XML well-formedness and schema shape; semantic
// validation (configurations present, sources present) is left to the
// generator.
func Parse(rdr io.Reader) (*BuildInfo, error) {
	var doc xmlBuildDescription
	dec := xml.NewDecoder(rdr)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse build description: %w", err)
	}

	info := &BuildInfo{FMIVersion: doc.FMIVersion}
	for _, xcfg := range doc.Configurations {
		cfg := BuildConfiguration{
			ModelIdentifier: xcfg.ModelIdentifier,
			IncludeDirs:     dedupIncludeDirs(xcfg.IncludeDirs),
			Definitions:     dedupDefinitions(xcfg.Definitions),
		}
		for _, xlib := range xcfg.Libraries {
			cfg.Libraries = append(cfg.Libraries, xlib.Name)
		}
		for _, xsfs := range xcfg.SourceFileSets {
			sfs := SourceFileSet{
				Language:        xsfs.Language,
				CompilerOptions: xsfs.CompilerOptions,
				IncludeDirs:     dedupIncludeDirs(xsfs.IncludeDirs),
				Definitions:     dedupDefinitions(xsfs.Definitions),
			}
			for _, xsf := range xsfs.SourceFiles {
				sfs.SourceFiles = append(sfs.SourceFiles, SourceFile{Name: xsf.Name})
			}
			cfg.SourceFileSets = append(cfg.SourceFileSets, sfs)
		}
		info.Configurations = append(info.Configurations, cfg)
	}

	return info, nil
}

// ParseFile parses a build description from a filepath.
func ParseFile(path string) (*BuildInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(bufio.NewReader(f))
}

func dedupIncludeDirs(dirs []xmlIncludeDirectory) []string {
	var out []string
	seen := make(map[string]bool)
	for _, d := range dirs {
		if d.Name == "" || seen[d.Name] {
			continue
		}
		seen[d.Name] = true
		out = append(out, d.Name)
	}
	return out
}

// dedupDefinitions joins name/value pairs into NAME or NAME=value form,
// the way they are passed to the preprocessor.
func dedupDefinitions(defs []xmlPreprocessorDefinition) []string {
	var out []string
	seen := make(map[string]bool)
	for _, d := range defs {
		if d.Name == "" {
			continue
		}
		def := d.Name
		if d.Value != "" {
			def += "=" + d.Value
		}
		if seen[def] {
			continue
		}
		seen[def] = true
		out = append(out, def)
	}
	return out
}

// SourceFileNames returns every source file name in the configuration,
// across all source-file sets, in declared order.
func (cfg *BuildConfiguration) SourceFileNames() []string {
	var names []string
	for _, sfs := range cfg.SourceFileSets {
		for _, sf := range sfs.SourceFiles {
			names = append(names, sf.Name)
		}
	}
	return names
}

// bd2cmake validate [path]
package cmd

import (
	"os"
	"path/filepath"

	"github.com/fmi-build/bd2cmake/internal/builddesc"
	"github.com/fmi-build/bd2cmake/internal/msg"
	"github.com/spf13/cobra"
)

func doValidate(cmd *cobra.Command, args []string) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	info, err := builddesc.ParseFile(filepath.Join(dir, builddesc.Filename))
	if err != nil {
		msg.Fatal("%v", err)
	}

	if len(info.Configurations) == 0 {
		msg.Fatal("build description contains no build configurations")
	}
	cfg := &info.Configurations[0]
	if len(info.Configurations) > 1 {
		msg.Warn("%d build configurations found, only %q will be used",
			len(info.Configurations), cfg.ModelIdentifier)
	}

	declared := cfg.SourceFileNames()
	if len(declared) == 0 {
		msg.Fatal("build configuration contains no source files")
	}

	sourcesDir := filepath.Join(dir, "sources")
	if stat, err := os.Stat(sourcesDir); err != nil || !stat.IsDir() {
		msg.Fatal("FMU has no sources/ directory at %s", filepath.ToSlash(sourcesDir))
	}

	check, err := cfg.CheckSources(sourcesDir)
	if err != nil {
		msg.Fatal("%v", err)
	}
	for _, name := range check.Missing {
		msg.Error("declared source file %s not found in sources/", name)
	}
	for _, name := range check.Unreferenced {
		msg.Warn("sources/%s is not referenced by the build description", name)
	}

	if len(check.Missing) > 0 {
		os.Exit(1)
	}
	msg.Info("%s: %d source files, model identifier %q",
		builddesc.Filename, len(declared), cfg.ModelIdentifier)
}

var validateCmd = &cobra.Command{
	Use:   "validate [fmu path]",
	Short: "Check a build description against the FMU's sources",
	Long: `Check that the build description parses, declares at least one source
file, and agrees with the contents of the FMU's sources/ directory.`,
	Args: cobra.MaximumNArgs(1),
	Run:  doValidate,
}

func init() {
	// bd2cmake validate subcommand
	rootCmd.AddCommand(validateCmd)
}

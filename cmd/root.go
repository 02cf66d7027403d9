// bd2cmake [path], bd2cmake generate [path]
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bd2cmake [fmu path]",
	Short: "Generate CMakeLists.txt from an FMI buildDescription.xml",
	Long: `Reads the buildDescription.xml of a source-code FMU and generates a
CMakeLists.txt that builds the model sources into a shared library.
If no FMU path is given, uses "."`,
	Args: cobra.MaximumNArgs(1),
	Run:  doGenerate,
}

func init() {
	addGenerateFlags(rootCmd)

	// bd2cmake generate subcommand
	rootCmd.AddCommand(generateCmd)
	addGenerateFlags(generateCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

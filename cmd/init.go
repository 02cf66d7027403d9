// bd2cmake init [name], bd2cmake new [path]
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/fmi-build/bd2cmake/internal/builddesc"
	"github.com/fmi-build/bd2cmake/internal/msg"
	"github.com/spf13/cobra"
)

func writefile(content string, elem ...string) {
	path := filepath.Join(elem...)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err = os.WriteFile(path, []byte(content), 0o644); err != nil {
			msg.Fatal("create file %s: %v", path, err)
		}
		fmt.Printf("%s file: %s\n", color.HiGreenString("Created"), filepath.ToSlash(path))
	}
}

func mkdir(elem ...string) {
	path := filepath.Join(elem...)
	if err := os.MkdirAll(path, 0o755); err != nil {
		msg.Fatal("mkdir %s: %v", path, err)
	}
}

// initIn scaffolds a minimal source-code FMU in an existing directory
func initIn(dir, name string) {
	writefile(`<?xml version="1.0" encoding="UTF-8"?>
<fmiBuildDescription fmiVersion="3.0">
  <BuildConfiguration modelIdentifier="`+name+`">
    <SourceFileSet language="C99">
      <SourceFile name="model.c"/>
    </SourceFileSet>
  </BuildConfiguration>
</fmiBuildDescription>
`, dir, builddesc.Filename)

	mkdir(dir, "sources")

	writefile(`#include <stdio.h>

void `+name+`_init(void) {
    puts("model initialized");
}
`, dir, "sources", "model.c")

	fmt.Printf("You can now run %s to generate the CMakeLists.txt.\n",
		color.HiCyanString("bd2cmake "+dir))
}

var initCmd = &cobra.Command{
	Use:   "init [model identifier]",
	Short: "Scaffold a source-code FMU in the current directory",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		initIn(".", args[0])
	},
}

var newCmd = &cobra.Command{
	Use:   "new [path]",
	Short: "Scaffold a source-code FMU in a new directory",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		mkdir(args[0])
		initIn(args[0], filepath.Base(args[0]))
	},
}

func init() {
	// bd2cmake init subcommand
	rootCmd.AddCommand(initCmd)

	// bd2cmake new subcommand
	rootCmd.AddCommand(newCmd)
}

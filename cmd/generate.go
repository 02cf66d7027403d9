package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fmi-build/bd2cmake/internal/builddesc"
	"github.com/fmi-build/bd2cmake/internal/cmake"
	"github.com/fmi-build/bd2cmake/internal/config"
	"github.com/fmi-build/bd2cmake/internal/headers"
	"github.com/fmi-build/bd2cmake/internal/msg"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"
)

var (
	flagHeadersDir   string
	flagFetchHeaders bool
	flagCMakeMinimum string
	flagOutput       string
	flagCheck        bool
	flagPlatformMode EnumValue = NewEnumValue(cmake.PlatformModeCMake, map[string]string{
		cmake.PlatformModeCMake: "Detect the platform when CMake configures the project (default)",
		cmake.PlatformModeHost:  "Bake this machine's platform tag into the generated project",
	})
)

var generateCmd = &cobra.Command{
	Use:   "generate [fmu path]",
	Short: "Generate the CMakeLists.txt",
	Long:  `Generate the CMakeLists.txt. If no FMU path is given, uses "."`,
	Args:  cobra.MaximumNArgs(1),
	Run:   doGenerate,
}

func addGenerateFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagHeadersDir, "headers-dir", "", "Seed the FMI headers lookup with a known directory")
	cmd.Flags().BoolVar(&flagFetchHeaders, "fetch-headers", false, "Use the cached FMI standard headers (fetching them if needed)")
	cmd.Flags().StringVar(&flagCMakeMinimum, "cmake-minimum", "", "Minimum CMake version for the generated project")
	cmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Output file (default <fmu path>/CMakeLists.txt)")
	cmd.Flags().BoolVar(&flagCheck, "check", false, "Don't write; fail if the existing CMakeLists.txt is out of date")
	cmd.Flags().VarP(&flagPlatformMode, "platform-mode", "m", "Platform tag strategy, one of "+flagPlatformMode.HelpString())
	cmd.RegisterFlagCompletionFunc("platform-mode", flagPlatformMode.CompletionFunc())
}

func doGenerate(cmd *cobra.Command, args []string) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	env := config.NewEnv()
	cfg, err := config.Load(dir, env)
	if err != nil {
		msg.Fatal("%v", err)
	}

	gen := cfg.Generate
	if cmd.Flags().Changed("headers-dir") {
		gen.HeadersDir = flagHeadersDir
	}
	if cmd.Flags().Changed("cmake-minimum") {
		gen.CMakeMinimum = flagCMakeMinimum
	}
	if cmd.Flags().Changed("output") {
		gen.Output = flagOutput
	}
	if cmd.Flags().Changed("platform-mode") || gen.PlatformMode == "" {
		gen.PlatformMode = flagPlatformMode.Value()
	}
	if gen.PlatformMode != cmake.PlatformModeCMake && gen.PlatformMode != cmake.PlatformModeHost {
		msg.Fatal("unknown platform-mode %q, must be one of %s", gen.PlatformMode, flagPlatformMode.HelpString())
	}

	if flagFetchHeaders && gen.HeadersDir == "" {
		cacheDir, err := headers.CacheDir()
		if err != nil {
			msg.Fatal("%v", err)
		}
		path, err := headers.Ensure(cacheDir)
		if err != nil {
			msg.Fatal("failed to fetch FMI headers: %v", err)
		}
		gen.HeadersDir = path
	}

	info, err := builddesc.ParseFile(filepath.Join(dir, builddesc.Filename))
	if err != nil {
		msg.Fatal("%v", err)
	}

	out, err := cmake.Generate(info, cmake.Options{
		HeadersDir:   gen.HeadersDir,
		PlatformMode: gen.PlatformMode,
		CMakeMinimum: gen.CMakeMinimum,
	})
	if err != nil {
		msg.Fatal("%v", err)
	}

	outPath := gen.Output
	if outPath == "" {
		outPath = "CMakeLists.txt"
	}
	if !filepath.IsAbs(outPath) {
		outPath = filepath.Join(dir, outPath)
	}

	if flagCheck {
		clean, diff, err := checkUpToDate(outPath, out)
		if err != nil {
			msg.Fatal("%s is missing, generate it first: %v", filepath.ToSlash(outPath), err)
		}
		if clean {
			msg.Info("%s is up to date", filepath.ToSlash(outPath))
			return
		}
		fmt.Print(diff)
		msg.Error("%s is out of date", filepath.ToSlash(outPath))
		os.Exit(1)
	}

	if err := os.WriteFile(outPath, []byte(out), 0644); err != nil {
		msg.Fatal("%v", err)
	}
	msg.Info("wrote %s", filepath.ToSlash(outPath))
}

// checkUpToDate compares the existing output file against the regenerated
// text. On drift it returns a human-readable diff.
func checkUpToDate(outPath, want string) (clean bool, diff string, err error) {
	data, err := os.ReadFile(outPath)
	if err != nil {
		return false, "", err
	}
	if string(data) == want {
		return true, "", nil
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(string(data), want, false)
	return false, dmp.DiffPrettyText(dmp.DiffCleanupSemantic(diffs)), nil
}

// bd2cmake headers
package cmd

import (
	"fmt"

	"github.com/fmi-build/bd2cmake/internal/headers"
	"github.com/fmi-build/bd2cmake/internal/msg"
	"github.com/spf13/cobra"
)

var refresh bool

func doHeaders(cmd *cobra.Command, args []string) {
	cacheDir, err := headers.CacheDir()
	if err != nil {
		msg.Fatal("%v", err)
	}

	var path string
	if refresh {
		path, err = headers.Fetch(cacheDir)
	} else {
		path, err = headers.Ensure(cacheDir)
	}
	if err != nil {
		msg.Fatal("failed to fetch FMI headers: %v", err)
	}

	fmt.Println(path)
}

var headersCmd = &cobra.Command{
	Use:   "headers",
	Short: "Fetch the FMI standard headers and print their location",
	Long: `Fetch the FMI standard headers into the user cache (if not already
present) and print the headers directory. Pass the printed path to
generate --headers-dir, or use generate --fetch-headers directly.`,
	Args: cobra.NoArgs,
	Run:  doHeaders,
}

func init() {
	// bd2cmake headers subcommand
	rootCmd.AddCommand(headersCmd)
	headersCmd.Flags().BoolVarP(&refresh, "refresh", "r", false, "Pull the latest headers even if cached")
}

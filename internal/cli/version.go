package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long:  `Display version information for shredstored including build details and Go version.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("shredstored version %s\n", rootCmd.Version)
		fmt.Printf("Go version: %s\n", runtime.Version())
		fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)

		// TODO: stamp git commit and build time via -ldflags
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

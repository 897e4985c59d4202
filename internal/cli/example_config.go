package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/LeJamon/goShredstore/internal/config"
)

// exampleConfigCmd represents the example-config command
var exampleConfigCmd = &cobra.Command{
	Use:   "example-config [path]",
	Short: "Write a starter configuration file",
	Long: `Write an example shredstored.toml with the default settings to the given
path (default: ./shredstored.toml).`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := "shredstored.toml"
		if len(args) > 0 {
			path = args[0]
		}
		if err := config.SaveExampleConfig(path); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote example configuration to %s\n", path)
	},
}

func init() {
	rootCmd.AddCommand(exampleConfigCmd)
}

package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	purgeFrom uint64
	purgeTo   uint64
)

// purgeCmd represents the purge command
var purgeCmd = &cobra.Command{
	Use:   "purge [ledger-dir]",
	Short: "Delete all records for a range of slots",
	Long: `Purge removes every stored record for the slots in [from, to], both
bounds included: slot progress, presence sets, erasure bookkeeping, shred
payloads, orphan and root markers, duplicate evidence and frozen hashes.

Example:
    shredstored purge /var/lib/shredstored/ledger --from 1000 --to 1999`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPurge,
}

func init() {
	rootCmd.AddCommand(purgeCmd)

	purgeCmd.Flags().Uint64Var(&purgeFrom, "from", 0, "first slot of the purge range")
	purgeCmd.Flags().Uint64Var(&purgeTo, "to", 0, "last slot of the purge range")
	_ = purgeCmd.MarkFlagRequired("from")
	_ = purgeCmd.MarkFlagRequired("to")
}

func runPurge(cmd *cobra.Command, args []string) {
	_, store, err := setupCommand(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := store.PurgeSlots(context.Background(), purgeFrom, purgeTo); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: purge failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Purged slots %d through %d.\n", purgeFrom, purgeTo)
	fmt.Printf("Max root is now %d.\n", store.MaxRoot())
}

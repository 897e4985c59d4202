package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// statCmd represents the stat command
var statCmd = &cobra.Command{
	Use:   "stat [ledger-dir]",
	Short: "Print store statistics",
	Long: `Stat counts the records in every column of the store and prints the
rooting watermark, the known orphans and the metadata cache counters.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runStat,
}

func init() {
	rootCmd.AddCommand(statCmd)
}

func runStat(cmd *cobra.Command, args []string) {
	_, store, err := setupCommand(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx := context.Background()
	stats, err := store.Stats(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: counting columns: %v\n", err)
		os.Exit(1)
	}
	orphans, err := store.Orphans(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: listing orphans: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Column Counts:")
	fmt.Println("--------------")
	fmt.Printf("Slot metas:       %d\n", stats.SlotMetas)
	fmt.Printf("Shred indexes:    %d\n", stats.Indexes)
	fmt.Printf("Erasure metas:    %d\n", stats.ErasureMetas)
	fmt.Printf("Data shreds:      %d\n", stats.DataShreds)
	fmt.Printf("Coding shreds:    %d\n", stats.CodeShreds)
	fmt.Printf("Duplicate proofs: %d\n", stats.DuplicateProofs)
	fmt.Printf("Frozen hashes:    %d\n", stats.FrozenHashes)
	fmt.Printf("Orphan markers:   %d\n", stats.Orphans)
	fmt.Printf("Root markers:     %d\n", stats.Roots)
	fmt.Printf("Perf samples:     %d\n", stats.PerfSamples)
	fmt.Printf("Program costs:    %d\n", stats.ProgramCosts)
	fmt.Println()

	fmt.Println("Store State:")
	fmt.Println("------------")
	fmt.Printf("Max root: %d\n", store.MaxRoot())
	if len(orphans) == 0 {
		fmt.Println("Orphans:  (none)")
	} else {
		fmt.Printf("Orphans:  %v\n", orphans)
	}
	fmt.Println()

	cache := store.CacheStats()
	fmt.Println("Meta Cache:")
	fmt.Println("-----------")
	fmt.Printf("Entries: %d\n", cache.Entries)
	fmt.Printf("Hits:    %d\n", cache.Hits)
	fmt.Printf("Misses:  %d\n", cache.Misses)
}

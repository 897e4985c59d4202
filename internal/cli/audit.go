package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// auditCmd represents the audit command
var auditCmd = &cobra.Command{
	Use:   "audit [ledger-dir]",
	Short: "Check the store for internal inconsistencies",
	Long: `Audit walks every column of the store and cross-checks the records:
slot progress against the presence sets, presence sets against stored
payloads, orphan markers against slot ancestry.

It prints every inconsistency found and exits nonzero when the store is
not clean.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runAudit,
}

func init() {
	rootCmd.AddCommand(auditCmd)
}

func runAudit(cmd *cobra.Command, args []string) {
	_, store, err := setupCommand(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	report, err := store.Audit(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: audit failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Slots checked:  %d\n", report.SlotsChecked)
	fmt.Printf("Shreds checked: %d\n", report.ShredsChecked)
	fmt.Printf("Issues found:   %d\n", len(report.Issues))
	for _, issue := range report.Issues {
		fmt.Printf("  - %s\n", issue)
	}

	if !report.Ok() {
		os.Exit(1)
	}
	fmt.Println("Store is consistent.")
}

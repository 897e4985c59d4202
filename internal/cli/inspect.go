package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/ugorji/go/codec"

	"github.com/LeJamon/goShredstore/internal/core/ledger/meta"
	"github.com/LeJamon/goShredstore/internal/storage/blockstore"
)

var (
	inspectSlot     uint64
	inspectSetIndex int64
	inspectFormat   string
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect [ledger-dir]",
	Short: "Dump the stored metadata for one slot",
	Long: `Inspect prints the slot progress record, the shred presence sets and the
erasure set bookkeeping for a single slot, including the live
recoverability status of every erasure set.

When no ledger directory is given, the configured ledger path is used.

Example:
    shredstored inspect /var/lib/shredstored/ledger --slot 1500
    shredstored inspect --slot 1500 --set-index 32
    shredstored inspect --slot 1500 --format json`,
	Args: cobra.MaximumNArgs(1),
	Run:  runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().Uint64Var(&inspectSlot, "slot", 0, "slot to inspect")
	inspectCmd.Flags().Int64Var(&inspectSetIndex, "set-index", -1, "restrict output to one erasure set index")
	inspectCmd.Flags().StringVar(&inspectFormat, "format", "text", "output format: text or json")
	_ = inspectCmd.MarkFlagRequired("slot")
}

// Report structures; --format json encodes these as-is.

type inspectReport struct {
	Slot        uint64             `json:"slot"`
	Meta        *slotMetaReport    `json:"meta,omitempty"`
	DataShreds  presenceReport     `json:"data_shreds"`
	CodeShreds  presenceReport     `json:"code_shreds"`
	ErasureSets []erasureSetReport `json:"erasure_sets"`
	FrozenHash  *frozenHashReport  `json:"frozen_hash,omitempty"`
	IsDuplicate bool               `json:"is_duplicate"`
	IsRoot      bool               `json:"is_root"`
}

type slotMetaReport struct {
	Consumed             uint64   `json:"consumed"`
	Received             uint64   `json:"received"`
	FirstShredTimestamp  uint64   `json:"first_shred_timestamp"`
	LastIndex            *uint64  `json:"last_index"`
	ParentSlot           *uint64  `json:"parent_slot"`
	NextSlots            []uint64 `json:"next_slots"`
	IsFull               bool     `json:"is_full"`
	IsConnected          bool     `json:"is_connected"`
	IsOrphan             bool     `json:"is_orphan"`
	CompletedDataIndexes []uint32 `json:"completed_data_indexes"`
}

type presenceReport struct {
	Count   int     `json:"count"`
	Largest *uint64 `json:"largest,omitempty"`
}

type erasureSetReport struct {
	SetIndex         uint64 `json:"set_index"`
	FirstCodingIndex uint64 `json:"first_coding_index"`
	NumData          int    `json:"num_data"`
	NumCoding        int    `json:"num_coding"`
	DataPresent      int    `json:"data_present"`
	CodingPresent    int    `json:"coding_present"`
	Status           string `json:"status"`
}

type frozenHashReport struct {
	Hash               string `json:"hash"`
	DuplicateConfirmed bool   `json:"duplicate_confirmed"`
}

func runInspect(cmd *cobra.Command, args []string) {
	if inspectFormat != "text" && inspectFormat != "json" {
		fmt.Fprintf(os.Stderr, "ERROR: unknown format %q (valid options: text, json)\n", inspectFormat)
		os.Exit(1)
	}

	_, store, err := setupCommand(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	report, err := buildInspectReport(context.Background(), store)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}

	if inspectFormat == "json" {
		if err := writeJSON(report); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: encoding report: %v\n", err)
			os.Exit(1)
		}
		return
	}
	printInspectReport(report)
}

func buildInspectReport(ctx context.Context, store *blockstore.Store) (*inspectReport, error) {
	report := &inspectReport{Slot: inspectSlot}

	m, err := store.SlotMeta(ctx, inspectSlot)
	switch {
	case err == nil:
		report.Meta = &slotMetaReport{
			Consumed:             m.Consumed,
			Received:             m.Received,
			FirstShredTimestamp:  m.FirstShredTimestamp,
			LastIndex:            m.LastIndex,
			ParentSlot:           m.ParentSlot,
			NextSlots:            m.NextSlots,
			IsFull:               m.IsFull(),
			IsConnected:          m.Connected,
			IsOrphan:             m.IsOrphan(),
			CompletedDataIndexes: m.CompletedDataIndexes,
		}
	case errors.Is(err, blockstore.ErrNotFound):
		// No slot meta recorded; presence sets may still exist.
	default:
		return nil, fmt.Errorf("reading slot meta: %w", err)
	}

	ix, err := store.Index(ctx, inspectSlot)
	if err != nil {
		return nil, fmt.Errorf("reading shred index: %w", err)
	}
	report.DataShreds = presenceFor(ix.Data())
	report.CodeShreds = presenceFor(ix.Coding())

	var sets []meta.ErasureMeta
	if inspectSetIndex >= 0 {
		em, err := store.ErasureMeta(ctx, inspectSlot, uint64(inspectSetIndex))
		if err != nil && !errors.Is(err, blockstore.ErrNotFound) {
			return nil, fmt.Errorf("reading erasure meta: %w", err)
		}
		if err == nil {
			sets = append(sets, em)
		}
	} else {
		sets, err = store.ErasureMetas(ctx, inspectSlot)
		if err != nil {
			return nil, fmt.Errorf("reading erasure metas: %w", err)
		}
	}
	for _, em := range sets {
		report.ErasureSets = append(report.ErasureSets, erasureSetReport{
			SetIndex:         em.SetIndex(),
			FirstCodingIndex: em.FirstCodingIndex(),
			NumData:          em.Config().NumData(),
			NumCoding:        em.Config().NumCoding(),
			DataPresent:      ix.Data().CountInRange(em.DataShredsIndices()),
			CodingPresent:    ix.Coding().CountInRange(em.CodingShredsIndices()),
			Status:           em.Status(ix).String(),
		})
	}

	frozen, err := store.FrozenHash(ctx, inspectSlot)
	switch {
	case err == nil:
		report.FrozenHash = &frozenHashReport{
			Hash:               frozen.FrozenHash().String(),
			DuplicateConfirmed: frozen.IsDuplicateConfirmed(),
		}
	case errors.Is(err, blockstore.ErrNotFound):
	default:
		return nil, fmt.Errorf("reading frozen hash: %w", err)
	}

	if report.IsDuplicate, err = store.IsDuplicateSlot(ctx, inspectSlot); err != nil {
		return nil, fmt.Errorf("reading duplicate proof: %w", err)
	}
	if report.IsRoot, err = store.IsRoot(ctx, inspectSlot); err != nil {
		return nil, fmt.Errorf("reading root marker: %w", err)
	}

	return report, nil
}

func presenceFor(s *meta.ShredIndex) presenceReport {
	report := presenceReport{Count: s.NumShreds()}
	if largest, ok := s.Largest(); ok {
		report.Largest = &largest
	}
	return report
}

func printInspectReport(report *inspectReport) {
	fmt.Println("================================================================================")
	fmt.Printf("                                 Slot %d\n", report.Slot)
	fmt.Println("================================================================================")
	fmt.Println()

	fmt.Println("Slot Meta:")
	fmt.Println("----------")
	if report.Meta == nil {
		fmt.Println("(no slot meta recorded)")
	} else {
		m := report.Meta
		fmt.Printf("Consumed:         %d\n", m.Consumed)
		fmt.Printf("Received:         %d\n", m.Received)
		fmt.Printf("Last index:       %s\n", optionalUint(m.LastIndex))
		fmt.Printf("Parent slot:      %s\n", optionalUint(m.ParentSlot))
		fmt.Printf("Next slots:       %v\n", m.NextSlots)
		fmt.Printf("First shred at:   %s\n", formatMillis(m.FirstShredTimestamp))
		fmt.Printf("Is full:          %t\n", m.IsFull)
		fmt.Printf("Is connected:     %t\n", m.IsConnected)
		fmt.Printf("Is orphan:        %t\n", m.IsOrphan)
		fmt.Printf("Completed ranges: %d markers\n", len(m.CompletedDataIndexes))
	}
	fmt.Println()

	fmt.Println("Shred Presence:")
	fmt.Println("---------------")
	fmt.Printf("Data shreds:   %s\n", formatPresence(report.DataShreds))
	fmt.Printf("Coding shreds: %s\n", formatPresence(report.CodeShreds))
	fmt.Println()

	fmt.Println("Erasure Sets:")
	fmt.Println("-------------")
	if len(report.ErasureSets) == 0 {
		fmt.Println("(none recorded)")
	}
	for _, set := range report.ErasureSets {
		fmt.Printf("set %-6d first_coding=%-6d config=%d:%d data=%d/%d coding=%d/%d status=%s\n",
			set.SetIndex, set.FirstCodingIndex,
			set.NumData, set.NumCoding,
			set.DataPresent, set.NumData,
			set.CodingPresent, set.NumCoding,
			set.Status)
	}
	fmt.Println()

	fmt.Println("Slot Flags:")
	fmt.Println("-----------")
	if report.FrozenHash != nil {
		fmt.Printf("Frozen hash:     %s\n", report.FrozenHash.Hash)
		fmt.Printf("Dup confirmed:   %t\n", report.FrozenHash.DuplicateConfirmed)
	} else {
		fmt.Println("Frozen hash:     (none)")
	}
	fmt.Printf("Duplicate slot:  %t\n", report.IsDuplicate)
	fmt.Printf("Rooted:          %t\n", report.IsRoot)
}

func optionalUint(v *uint64) string {
	if v == nil {
		return "(unknown)"
	}
	return fmt.Sprintf("%d", *v)
}

func formatMillis(ms uint64) string {
	if ms == 0 {
		return "(never)"
	}
	return time.UnixMilli(int64(ms)).UTC().Format(time.RFC3339)
}

func formatPresence(p presenceReport) string {
	if p.Count == 0 {
		return "0 present"
	}
	return fmt.Sprintf("%d present, largest index %d", p.Count, *p.Largest)
}

// writeJSON encodes v to stdout as canonical indented JSON.
func writeJSON(v interface{}) error {
	var jh codec.JsonHandle
	jh.Canonical = true
	jh.Indent = 2

	enc := codec.NewEncoder(os.Stdout, &jh)
	if err := enc.Encode(v); err != nil {
		return err
	}
	fmt.Println()
	return nil
}

package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/AntonStoeckl/lending-registry-go/registry"
)

const timeLayout = time.RFC3339

func newTable(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
}

func printItems(out io.Writer, items []registry.Item) error {
	table := newTable(out)
	_, _ = fmt.Fprintln(table, "ID\tTITLE\tAVAILABLE\tBORROWED")

	for _, item := range items {
		_, _ = fmt.Fprintf(table, "%d\t%s\t%d\t%d\n", item.ID, item.Title, item.AvailableCopiesCount, item.BorrowedCopiesCount)
	}

	return table.Flush()
}

func printHistory(out io.Writer, history []registry.BorrowRecord) error {
	table := newTable(out)
	_, _ = fmt.Fprintln(table, "#\tBORROWER\tBORROWED AT\tRETURNED AT")

	for i, record := range history {
		returned := "-"
		if record.IsReturned() {
			returned = record.ReturnTime.Format(timeLayout)
		}

		_, _ = fmt.Fprintf(table, "%d\t%s\t%s\t%s\n", i, record.BorrowerID, record.BorrowStartTime.Format(timeLayout), returned)
	}

	return table.Flush()
}

func printRecord(out io.Writer, verb string, item registry.Item, record registry.BorrowRecord) error {
	at := record.BorrowStartTime
	if verb == "returned" {
		at = record.ReturnTime
	}

	_, err := fmt.Fprintf(out, "item %d %q %s by %s at %s (%d of %d copies available)\n",
		item.ID, item.Title, verb, record.BorrowerID, at.Format(timeLayout),
		item.AvailableCopiesCount, item.TotalCopiesCount())

	return err
}

func printState(out io.Writer, item registry.Item, borrowerID registry.BorrowerID, state registry.BorrowState) error {
	if !state.IsCurrentlyBorrowed {
		_, err := fmt.Fprintf(out, "item %d %q is not borrowed by %s\n", item.ID, item.Title, borrowerID)
		return err
	}

	_, err := fmt.Fprintf(out, "item %d %q is borrowed by %s (history record %d)\n",
		item.ID, item.Title, borrowerID, state.ActiveRecordIndex)

	return err
}

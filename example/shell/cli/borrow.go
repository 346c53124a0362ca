package cli

import (
	"context"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/lending-registry-go/registry"
)

type lendingOperation func(
	ctx context.Context,
	r *registry.LendingRegistry,
	selector itemSelector,
	borrowerID registry.BorrowerID,
	at time.Time,
) (registry.BorrowRecord, error)

func newBorrowCommand(s *session) *cobra.Command {
	return newLendingCommand(s, "borrow", "Borrow a copy of an item", "borrowed",
		func(ctx context.Context, r *registry.LendingRegistry, selector itemSelector, borrowerID registry.BorrowerID, at time.Time) (registry.BorrowRecord, error) {
			if selector.byID {
				return r.BorrowByID(ctx, selector.id, borrowerID, at)
			}

			return r.BorrowByTitle(ctx, selector.title, borrowerID, at)
		})
}

func newReturnCommand(s *session) *cobra.Command {
	return newLendingCommand(s, "return", "Return a borrowed copy of an item", "returned",
		func(ctx context.Context, r *registry.LendingRegistry, selector itemSelector, borrowerID registry.BorrowerID, at time.Time) (registry.BorrowRecord, error) {
			if selector.byID {
				return r.ReturnByID(ctx, selector.id, borrowerID, at)
			}

			return r.ReturnByTitle(ctx, selector.title, borrowerID, at)
		})
}

func newLendingCommand(s *session, use, short, verb string, operation lendingOperation) *cobra.Command {
	var (
		selector itemSelector
		borrower string
		at       string
	)

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			borrowerID, err := parseBorrower(borrower)
			if err != nil {
				return err
			}

			when, err := parseAt(at)
			if err != nil {
				return err
			}

			selector.byID = cmd.Flags().Changed(flagID)

			return s.run(cmd, func(ctx context.Context, a *app, out io.Writer) error {
				record, err := operation(ctx, a.registry, selector, borrowerID, when)
				if err != nil {
					return err
				}

				item, err := selector.resolve(cmd, a.registry)
				if err != nil {
					return err
				}

				return printRecord(out, verb, item, record)
			})
		},
	}

	addItemSelectorFlags(cmd, &selector)
	cmd.Flags().StringVarP(&borrower, flagBorrower, "b", "", "uuid of the borrower")
	cmd.Flags().StringVar(&at, flagAt, "", "RFC 3339 time of the operation (default: now)")
	_ = cmd.MarkFlagRequired(flagBorrower)

	return cmd
}

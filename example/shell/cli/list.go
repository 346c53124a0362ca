package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/lending-registry-go/registry"
)

func newListCommand(s *session) *cobra.Command {
	var (
		available bool
		borrower  string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List items in registration order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return s.run(cmd, func(_ context.Context, a *app, out io.Writer) error {
				var items []registry.Item

				switch {
				case borrower != "":
					borrowerID, err := parseBorrower(borrower)
					if err != nil {
						return err
					}
					items = a.registry.BorrowedBy(borrowerID)
				case available:
					items = a.registry.ListAvailable()
				default:
					items = a.registry.ListItems()
				}

				return printItems(out, items)
			})
		},
	}

	cmd.Flags().BoolVar(&available, "available", false, "only items with available copies")
	cmd.Flags().StringVarP(&borrower, flagBorrower, "b", "", "only items currently borrowed by this borrower")
	cmd.MarkFlagsMutuallyExclusive("available", flagBorrower)

	return cmd
}

func newHistoryCommand(s *session) *cobra.Command {
	var selector itemSelector

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the borrow history of an item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return s.run(cmd, func(_ context.Context, a *app, out io.Writer) error {
				item, err := selector.resolve(cmd, a.registry)
				if err != nil {
					return err
				}

				return printHistory(out, a.registry.GetBorrowHistory(item.ID))
			})
		},
	}

	addItemSelectorFlags(cmd, &selector)

	return cmd
}

func newStateCommand(s *session) *cobra.Command {
	var (
		selector itemSelector
		borrower string
	)

	cmd := &cobra.Command{
		Use:   "state",
		Short: "Show whether a borrower currently holds a copy of an item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			borrowerID, err := parseBorrower(borrower)
			if err != nil {
				return err
			}

			return s.run(cmd, func(_ context.Context, a *app, out io.Writer) error {
				item, err := selector.resolve(cmd, a.registry)
				if err != nil {
					return err
				}

				return printState(out, item, borrowerID, a.registry.GetBorrowState(borrowerID, item.ID))
			})
		},
	}

	addItemSelectorFlags(cmd, &selector)
	cmd.Flags().StringVarP(&borrower, flagBorrower, "b", "", "uuid of the borrower")
	_ = cmd.MarkFlagRequired(flagBorrower)

	return cmd
}

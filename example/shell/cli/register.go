package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newRegisterCommand(s *session) *cobra.Command {
	var (
		copies int
		caller string
	)

	cmd := &cobra.Command{
		Use:   "register TITLE",
		Short: "Register a new item with a number of copies",
		Long: `Register a new item in the catalog. Only the administrator may register items;
the caller defaults to the configured admin_id.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return s.run(cmd, func(ctx context.Context, a *app, out io.Writer) error {
				callerID := a.settings.AdministratorID()
				if caller != "" {
					parsed, err := parseBorrower(caller)
					if err != nil {
						return err
					}
					callerID = parsed
				}

				item, err := a.registry.RegisterItem(ctx, callerID, args[0], copies)
				if err != nil {
					return err
				}

				_, err = fmt.Fprintf(out, "registered item %d %q with %d copies\n", item.ID, item.Title, item.AvailableCopiesCount)

				return err
			})
		},
	}

	cmd.Flags().IntVarP(&copies, "copies", "n", 1, "number of copies")
	cmd.Flags().StringVar(&caller, "caller", "", "uuid of the caller (default: admin_id)")

	return cmd
}

package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/lending-registry-go/registry"
)

func newSnapshotCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot",
		Short: "Print the registry state as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return s.run(cmd, func(_ context.Context, a *app, out io.Writer) error {
				data, err := registry.MarshalSnapshot(a.registry.Snapshot())
				if err != nil {
					return err
				}

				_, err = out.Write(append(data, '\n'))

				return err
			})
		},
	}
}

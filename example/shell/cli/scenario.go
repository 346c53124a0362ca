package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/lending-registry-go/journal"
	"github.com/AntonStoeckl/lending-registry-go/registry"
)

// ErrScenarioDiverged is returned when a scenario step does not end as expected.
var ErrScenarioDiverged = errors.New("scenario step did not end as expected")

type scenarioStep struct {
	description string
	expectedErr error
	run         func(ctx context.Context) error
}

func newScenarioCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "scenario",
		Short: `Run the "Book 1" walkthrough on a fresh in-memory registry`,
		Long: `Register "Book 1" with two copies, let two borrowers take them, show that a third
borrower is turned away, and return one copy twice. Nothing is written to the configured journal.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			return runScenario(ctx, cmd.OutOrStdout())
		},
	}
}

func runScenario(ctx context.Context, out io.Writer) error {
	adminID := uuid.New()
	userA, userB, userC := uuid.New(), uuid.New(), uuid.New()
	memoryJournal := journal.NewMemoryJournal()

	r, err := registry.NewLendingRegistry(
		registry.NewCatalog(),
		registry.NewBorrowLedger(),
		registry.WithNotifier(memoryJournal),
		registry.WithAuthorizer(registry.NewAdministratorAuthorizer(adminID)),
	)
	if err != nil {
		return err
	}

	start := time.Now().UTC().Truncate(time.Second)

	steps := []scenarioStep{
		{
			description: `register "Book 1" with 2 copies`,
			run: func(ctx context.Context) error {
				_, err := r.RegisterItem(ctx, adminID, "Book 1", 2)
				return err
			},
		},
		{
			description: "borrow item 0 as user A",
			run:         borrowStep(r, userA, start.Add(time.Hour)),
		},
		{
			description: "borrow item 0 as user B",
			run:         borrowStep(r, userB, start.Add(2*time.Hour)),
		},
		{
			description: "borrow item 0 as user C",
			expectedErr: registry.ErrUnavailable,
			run:         borrowStep(r, userC, start.Add(3*time.Hour)),
		},
		{
			description: "return item 0 as user A",
			run:         returnStep(r, userA, start.Add(4*time.Hour)),
		},
		{
			description: "return item 0 as user A again",
			expectedErr: registry.ErrNotBorrowed,
			run:         returnStep(r, userA, start.Add(5*time.Hour)),
		},
		{
			description: `register "" with 5 copies`,
			expectedErr: registry.ErrInvalidArgument,
			run: func(ctx context.Context) error {
				_, err := r.RegisterItem(ctx, adminID, "", 5)
				return err
			},
		},
		{
			description: `register "X" with 0 copies`,
			expectedErr: registry.ErrInvalidArgument,
			run: func(ctx context.Context) error {
				_, err := r.RegisterItem(ctx, adminID, "X", 0)
				return err
			},
		},
	}

	_, _ = fmt.Fprintf(out, "user A: %s\nuser B: %s\nuser C: %s\n\n", userA, userB, userC)

	for i, step := range steps {
		stepErr := step.run(ctx)
		if err := printStep(out, i+1, step, stepErr); err != nil {
			return err
		}

		if item, getErr := r.GetItemByID(0); getErr == nil {
			_, _ = fmt.Fprintf(out, "   item 0: %d available, %d borrowed, %d history records\n",
				item.AvailableCopiesCount, item.BorrowedCopiesCount, len(r.GetBorrowHistory(0)))
		}
	}

	_, _ = fmt.Fprintf(out, "\n%d notifications journaled\n\n", memoryJournal.Len())

	return printHistory(out, r.GetBorrowHistory(0))
}

func printStep(out io.Writer, number int, step scenarioStep, stepErr error) error {
	switch {
	case step.expectedErr == nil && stepErr == nil:
		_, _ = fmt.Fprintf(out, "%d. %s: ok\n", number, step.description)
		return nil

	case step.expectedErr != nil && errors.Is(stepErr, step.expectedErr):
		_, _ = fmt.Fprintf(out, "%d. %s: rejected as expected (%s)\n", number, step.description, step.expectedErr)
		return nil

	default:
		return errors.Join(ErrScenarioDiverged, fmt.Errorf("step %d %q", number, step.description), stepErr)
	}
}

func borrowStep(r *registry.LendingRegistry, borrowerID registry.BorrowerID, at time.Time) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		_, err := r.BorrowByID(ctx, 0, borrowerID, at)
		return err
	}
}

func returnStep(r *registry.LendingRegistry, borrowerID registry.BorrowerID, at time.Time) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		_, err := r.ReturnByID(ctx, 0, borrowerID, at)
		return err
	}
}

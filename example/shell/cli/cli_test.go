package cli_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/lending-registry-go/example/shell/cli"
	"github.com/AntonStoeckl/lending-registry-go/registry"
)

type fixture struct {
	adminID registry.CallerID
	dbFile  string
}

func givenFixture(t *testing.T) fixture {
	t.Helper()

	return fixture{
		adminID: uuid.New(),
		dbFile:  filepath.Join(t.TempDir(), "lending.db"),
	}
}

func (f fixture) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	cmd := cli.NewRootCommand()
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(append([]string{
		"--journal-driver", "sqlite",
		"--journal-dsn", f.dbFile,
		"--admin-id", f.adminID.String(),
	}, args...))

	err := cmd.ExecuteContext(context.Background())

	return stdout.String(), stderr.String(), err
}

func (f fixture) mustRun(t *testing.T, args ...string) string {
	t.Helper()

	stdout, stderr, err := f.run(t, args...)
	require.NoError(t, err, stderr)

	return stdout
}

func Test_Lendingctl_StatePersistsAcrossInvocations(t *testing.T) {
	// arrange
	f := givenFixture(t)
	userA, userB := uuid.New(), uuid.New()

	// act
	registered := f.mustRun(t, "register", "Book 1", "--copies", "2")
	f.mustRun(t, "register", "Book 2")
	borrowed := f.mustRun(t, "borrow", "--title", "Book 1", "--borrower", userA.String(), "--at", "2025-06-01T10:00:00Z")
	f.mustRun(t, "borrow", "--id", "0", "--borrower", userB.String())
	returned := f.mustRun(t, "return", "--id", "0", "--borrower", userA.String(), "--at", "2025-06-02T10:00:00Z")
	list := f.mustRun(t, "list")
	history := f.mustRun(t, "history", "--title", "Book 1")
	stateA := f.mustRun(t, "state", "--id", "0", "--borrower", userA.String())
	stateB := f.mustRun(t, "state", "--id", "0", "--borrower", userB.String())
	heldByB := f.mustRun(t, "list", "--borrower", userB.String())

	// assert
	assert.Equal(t, "registered item 0 \"Book 1\" with 2 copies\n", registered)
	assert.Contains(t, borrowed, "item 0 \"Book 1\" borrowed by "+userA.String()+" at 2025-06-01T10:00:00Z (1 of 2 copies available)")
	assert.Contains(t, returned, "returned by "+userA.String()+" at 2025-06-02T10:00:00Z (1 of 2 copies available)")
	assert.Regexp(t, `0\s+Book 1\s+1\s+1`, list)
	assert.Regexp(t, `1\s+Book 2\s+1\s+0`, list)
	assert.Contains(t, history, "2025-06-02T10:00:00Z")
	assert.Regexp(t, `1\s+`+userB.String()+`\s+\S+\s+-`, history)
	assert.Contains(t, stateA, "is not borrowed by")
	assert.Contains(t, stateB, "is borrowed by "+userB.String()+" (history record 1)")
	assert.Contains(t, heldByB, "Book 1")
	assert.NotContains(t, heldByB, "Book 2")
}

func Test_Lendingctl_ListAvailable(t *testing.T) {
	// arrange
	f := givenFixture(t)
	f.mustRun(t, "register", "Book 1")
	f.mustRun(t, "register", "Book 2")
	f.mustRun(t, "borrow", "--title", "Book 1", "--borrower", uuid.NewString())

	// act
	available := f.mustRun(t, "list", "--available")

	// assert
	assert.NotContains(t, available, "Book 1")
	assert.Contains(t, available, "Book 2")
}

func Test_Lendingctl_ReturnsRegistryErrors(t *testing.T) {
	// arrange
	f := givenFixture(t)
	borrower := uuid.NewString()
	f.mustRun(t, "register", "Book 1")
	f.mustRun(t, "borrow", "--id", "0", "--borrower", borrower)

	testCases := []struct {
		name        string
		args        []string
		expectedErr error
	}{
		{
			name:        "register by someone else",
			args:        []string{"register", "Book 2", "--caller", uuid.NewString()},
			expectedErr: registry.ErrUnauthorized,
		},
		{
			name:        "register duplicate",
			args:        []string{"register", "Book 1"},
			expectedErr: registry.ErrAlreadyExists,
		},
		{
			name:        "register zero copies",
			args:        []string{"register", "Book 2", "--copies", "0"},
			expectedErr: registry.ErrInvalidArgument,
		},
		{
			name:        "borrow unavailable",
			args:        []string{"borrow", "--id", "0", "--borrower", uuid.NewString()},
			expectedErr: registry.ErrUnavailable,
		},
		{
			name:        "borrow unknown item",
			args:        []string{"borrow", "--id", "7", "--borrower", borrower},
			expectedErr: registry.ErrNotFound,
		},
		{
			name:        "return not borrowed",
			args:        []string{"return", "--title", "Book 1", "--borrower", uuid.NewString()},
			expectedErr: registry.ErrNotBorrowed,
		},
		{
			name:        "malformed borrower",
			args:        []string{"borrow", "--id", "0", "--borrower", "someone"},
			expectedErr: cli.ErrInvalidFlag,
		},
		{
			name:        "malformed time",
			args:        []string{"return", "--id", "0", "--borrower", borrower, "--at", "yesterday"},
			expectedErr: cli.ErrInvalidFlag,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			_, _, err := f.run(t, tc.args...)

			// assert
			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}
}

func Test_Lendingctl_RequiresAnItemSelector(t *testing.T) {
	// arrange
	f := givenFixture(t)

	// act
	_, _, missingErr := f.run(t, "history")
	_, _, bothErr := f.run(t, "history", "--id", "0", "--title", "Book 1")

	// assert
	assert.Error(t, missingErr)
	assert.Error(t, bothErr)
}

func Test_Lendingctl_Snapshot_PrintsJSON(t *testing.T) {
	// arrange
	f := givenFixture(t)
	f.mustRun(t, "register", "Book 1", "--copies", "3")
	f.mustRun(t, "borrow", "--id", "0", "--borrower", uuid.NewString())

	// act
	out := f.mustRun(t, "snapshot")

	// assert
	snapshot, err := registry.UnmarshalSnapshot([]byte(out))
	require.NoError(t, err)
	require.Len(t, snapshot.Items, 1)
	assert.True(t, jsoniter.Valid([]byte(out)))
}

func Test_Lendingctl_Scenario(t *testing.T) {
	// arrange
	f := givenFixture(t)

	// act
	out := f.mustRun(t, "scenario")

	// assert
	assert.Contains(t, out, `1. register "Book 1" with 2 copies: ok`)
	assert.Contains(t, out, "4. borrow item 0 as user C: rejected as expected")
	assert.Contains(t, out, "6. return item 0 as user A again: rejected as expected")
	assert.Contains(t, out, "item 0: 1 available, 1 borrowed, 2 history records")
	assert.Contains(t, out, "4 notifications journaled")
	assert.NoFileExists(t, f.dbFile)
}

func Test_Lendingctl_RejectsInvalidSettings(t *testing.T) {
	// arrange
	f := givenFixture(t)

	// act
	_, _, err := f.run(t, "list", "--journal-driver", "mongodb")

	// assert
	assert.Error(t, err)
}

func Test_Lendingctl_LogsTelemetrySummary(t *testing.T) {
	// arrange
	f := givenFixture(t)
	t.Setenv("LENDING_TELEMETRY_ENABLED", "true")
	t.Setenv("LENDING_LOG_LEVEL", "info")

	// act
	_, stderr, err := f.run(t, "register", "Book 1")

	// assert
	require.NoError(t, err)
	assert.Contains(t, stderr, "telemetry summary")
	assert.Contains(t, stderr, registry.OperationCallsMetric)
}

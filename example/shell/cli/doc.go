// Package cli implements the lendingctl command line interface.
//
// Every invocation loads the settings, opens the configured journal, and rehydrates a
// LendingRegistry from it before running the command. Mutations are journaled through the
// registry's Notifier, so the next invocation sees them.
//
// This package is part of the shell (infrastructure) layer.
package cli

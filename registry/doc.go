// Package registry implements a lending registry: a catalog of titled items with a finite
// number of copies, and per-borrower borrow/return bookkeeping with a full borrow history per item.
//
// The package is organized around three components:
//   - Catalog owns the items, indexed by sequential id and by exact title.
//   - BorrowLedger owns the per-(borrower, item) BorrowState and the append-only BorrowRecord history.
//   - LendingRegistry orchestrates both, checks the administrator capability for registrations,
//     serializes all mutations, and hands every state change to a Notifier.
//
// The in-memory state is authoritative. Persistence and transport are external collaborators:
// they observe the registry through the Notifier interface and can rebuild it via Replay or Restore.
//
// Observability follows the same dependency-free pattern as the rest of the module: Logger,
// ContextualLogger, MetricsCollector and TracingCollector are small interfaces that can be
// backed by OpenTelemetry (see the oteladapters sub-package) or anything else.
package registry

// Package journal persists the notifications a LendingRegistry raises and feeds them back into a registry.
//
// A StorableNotification is a scalar DTO that any backend can store; StorableNotificationFrom and NotificationFrom
// convert between it and the registry notification types. MemoryJournal keeps notifications in process,
// package sqljournal keeps them in PostgreSQL or SQLite. Rehydrate rebuilds a registry from any Source.
package journal

package journal

import (
	"slices"

	"github.com/AntonStoeckl/lending-registry-go/registry"
)

// QueryFilter selects journaled notifications. The zero value matches everything.
type QueryFilter struct {
	itemID            *registry.ItemID
	notificationTypes []string
}

// ItemID returns the item the filter is restricted to, if any.
func (f QueryFilter) ItemID() (registry.ItemID, bool) {
	if f.itemID == nil {
		return 0, false
	}

	return *f.itemID, true
}

// NotificationTypes returns the notification types the filter accepts; empty means all.
func (f QueryFilter) NotificationTypes() []string {
	return slices.Clone(f.notificationTypes)
}

// Matches reports whether storable passes the filter.
func (f QueryFilter) Matches(storable StorableNotification) bool {
	if f.itemID != nil && storable.ItemID != *f.itemID {
		return false
	}

	if len(f.notificationTypes) > 0 && !slices.Contains(f.notificationTypes, storable.NotificationType) {
		return false
	}

	return true
}

// QueryFilterBuilder builds a QueryFilter and must be finalized with Finalize.
type QueryFilterBuilder struct {
	filter QueryFilter
}

// BuildQueryFilter starts a new QueryFilterBuilder.
func BuildQueryFilter() QueryFilterBuilder {
	return QueryFilterBuilder{}
}

// MatchingAll returns a filter that matches every notification.
func MatchingAll() QueryFilter {
	return QueryFilter{}
}

// ForItem restricts the filter to notifications about itemID.
func (b QueryFilterBuilder) ForItem(itemID registry.ItemID) QueryFilterBuilder {
	b.filter.itemID = &itemID

	return b
}

// AnyNotificationTypeOf restricts the filter to the given types.
//
// It sanitizes the input:
//   - removing empty types ("")
//   - sorting the types
//   - removing duplicate types
func (b QueryFilterBuilder) AnyNotificationTypeOf(notificationType string, notificationTypes ...string) QueryFilterBuilder {
	all := append([]string{notificationType}, notificationTypes...)
	all = append(all, b.filter.notificationTypes...)
	all = slices.DeleteFunc(all, func(t string) bool { return t == "" })
	slices.Sort(all)

	b.filter.notificationTypes = slices.Compact(all)

	return b
}

// Finalize returns the built QueryFilter.
func (b QueryFilterBuilder) Finalize() QueryFilter {
	return b.filter
}

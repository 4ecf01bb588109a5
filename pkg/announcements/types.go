// Package announcements describes the event types exchanged between PDP components.
package announcements

// AnnouncementType is used to record the type of announcement
type AnnouncementType string

func (at AnnouncementType) String() string {
	return string(at)
}

const (
	// PolicyAdded is the type of announcement emitted when a policy is created
	PolicyAdded AnnouncementType = "policy-added"

	// PolicyUpdated is the type of announcement emitted when a policy document is edited
	PolicyUpdated AnnouncementType = "policy-updated"

	// PolicyDeleted is the type of announcement emitted when a policy is deleted
	PolicyDeleted AnnouncementType = "policy-deleted"

	// ---

	// ScheduleRevalidation is used to request a sweep of the stored policies
	// against the service registry
	ScheduleRevalidation AnnouncementType = "schedule-revalidation"

	// ConfigUpdated is the type of announcement emitted when the server
	// configuration file changes on disk
	ConfigUpdated AnnouncementType = "config-updated"

	// ---

	// TickerStart starts the resync ticker with the duration carried on the message
	TickerStart AnnouncementType = "ticker-start"

	// TickerStop stops the resync ticker
	TickerStop AnnouncementType = "ticker-stop"
)

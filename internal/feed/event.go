package feed

import "time"

// Event status values, matching the iCalendar STATUS property.
const (
	StatusConfirmed = "CONFIRMED"
	StatusCancelled = "CANCELLED"
	StatusTentative = "TENTATIVE"
)

// Event is one translated calendar entry. End follows the iCalendar
// convention of being exclusive for all-day events.
type Event struct {
	UID   string
	Title string

	Categories []string
	Color      string

	Begin  time.Time
	End    time.Time
	AllDay bool

	// Status is one of the Status constants, or empty when the source
	// status has no calendar equivalent.
	Status string

	Description string
	Location    string
	URL         string

	Created      *time.Time
	LastModified *time.Time
}

package calendar

import "time"

// EmailAddress is a name/address pair as used in attendees and organizers.
type EmailAddress struct {
	Name    string `json:"name,omitempty"`
	Address string `json:"address"`
}

// DateTimeZone is a wall-clock time with its time zone, the way the Graph
// API represents event boundaries.
type DateTimeZone struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

// ResponseStatus carries an attendee's response to an invitation.
type ResponseStatus struct {
	// Response is one of "none", "accepted", "declined",
	// "tentativelyAccepted", "organizer", "notResponded".
	Response string `json:"response"`
}

// Attendee represents an event attendee.
type Attendee struct {
	EmailAddress EmailAddress    `json:"emailAddress"`
	Status       *ResponseStatus `json:"status,omitempty"`

	// Type is "required", "optional", or "resource"
	Type string `json:"type,omitempty"`
}

// Location is an event location.
type Location struct {
	DisplayName string `json:"displayName"`
}

// OnlineMeeting carries the join link for an online event.
type OnlineMeeting struct {
	JoinURL string `json:"joinUrl"`
}

// Event represents a calendar event.
type Event struct {
	// ID is the unique identifier for the event
	ID string `json:"id"`

	// Subject is the event title
	Subject string `json:"subject"`

	// BodyPreview is the first few hundred characters of the body as text
	BodyPreview string `json:"bodyPreview,omitempty"`

	// Start and End are the event boundaries
	Start *DateTimeZone `json:"start,omitempty"`
	End   *DateTimeZone `json:"end,omitempty"`

	// IsAllDay indicates an all-day event
	IsAllDay bool `json:"isAllDay"`

	// Location is the event location
	Location *Location `json:"location,omitempty"`

	// Organizer is the event organizer
	Organizer *Attendee `json:"organizer,omitempty"`

	// Attendees are the invited participants
	Attendees []Attendee `json:"attendees,omitempty"`

	// OnlineMeeting carries the join link when the event is online
	OnlineMeeting *OnlineMeeting `json:"onlineMeeting,omitempty"`

	// WebLink opens the event in Outlook on the web
	WebLink string `json:"webLink,omitempty"`
}

// Calendar represents a calendar in the account's calendar list.
type Calendar struct {
	// ID is the unique identifier for the calendar
	ID string `json:"id"`

	// Name is the calendar name
	Name string `json:"name"`

	// IsDefaultCalendar indicates the account's primary calendar
	IsDefaultCalendar bool `json:"isDefaultCalendar"`

	// CanEdit indicates whether events can be written to this calendar
	CanEdit bool `json:"canEdit"`
}

// ListOptions controls event listing.
type ListOptions struct {
	// CalendarID restricts the listing to one calendar. Empty means the
	// default calendar.
	CalendarID string

	// Start and End bound the calendar view. Both are required.
	Start time.Time
	End   time.Time

	// MaxResults caps the total number of events returned across pages.
	// Zero means no cap.
	MaxResults int
}

// EventInput represents the input for creating a calendar event
type EventInput struct {
	Subject   string
	Body      string
	BodyHTML  bool
	Location  string
	Start     time.Time
	End       time.Time
	TimeZone  string
	IsAllDay  bool
	Attendees []string

	// IsOnline requests an online meeting for the event
	IsOnline bool
}

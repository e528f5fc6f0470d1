package domain

// Category classifies why a notification is being sent.
type Category string

const (
	CategoryAssignment Category = "ASSIGNMENT"
	CategoryRemoval    Category = "REMOVAL"
	CategoryReminder   Category = "REMINDER"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryAssignment, CategoryRemoval, CategoryReminder:
		return true
	}
	return false
}

// NotificationEvent is one outbound email, fully resolved: recipient
// identity plus the service context the template needs. Events live only
// on the queue — they are never persisted and never re-enqueued.
//
// Dates are carried pre-formatted (dd/mm/yyyy or the "date to be
// confirmed" placeholder) so the consumer side needs no calendar logic.
type NotificationEvent struct {
	ID       string
	Category Category

	RecipientID    string
	RecipientEmail string
	RecipientName  string

	// Role is DIRECTOR or MUSICIAN; Instrument is set only for musicians.
	Role       Role
	Instrument string

	ServiceID       string
	ServiceDate     string
	ServiceLocation string
	PracticeDate    string

	Subject  string
	Template string
}

// NotifyResult reports how many notifications a diff produced, for the
// caller's logging. Enqueue failures are logged, not reflected here:
// dispatch is best effort and never fails the assignment update.
type NotifyResult struct {
	Assigned int `json:"assigned"`
	Removed  int `json:"removed"`
}

package domain

import "time"

// Service is a scheduled worship event. ServiceDate and PracticeDate are
// calendar dates; PracticeDate is optional (nil = rehearsal not yet planned).
type Service struct {
	ID           string        `json:"id"`
	ServiceDate  *time.Time    `json:"service_date"`
	PracticeDate *time.Time    `json:"practice_date,omitempty"`
	Location     string        `json:"location"`
	Assignments  AssignmentSet `json:"assignments"`
	Songs        []Song        `json:"songs,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
}

// CreateServiceRequest is the inbound payload for creating a service with
// its initial assignments.
type CreateServiceRequest struct {
	ServiceDate  *time.Time           `json:"service_date" validate:"required"`
	PracticeDate *time.Time           `json:"practice_date"`
	Location     string               `json:"location" validate:"required"`
	DirectorIDs  []string             `json:"director_ids"`
	Musicians    []MusicianAssignment `json:"musicians" validate:"dive"`
}

// UpdateAssignmentsRequest carries the assignment set being applied to an
// existing service. The previous set is read from storage, not trusted
// from the client.
type UpdateAssignmentsRequest struct {
	DirectorIDs []string             `json:"director_ids"`
	Musicians   []MusicianAssignment `json:"musicians" validate:"dive"`
}

package events

import (
	"time"

	"github.com/spec-kit/aftersales-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventCaseCreated       EventType = "case_created"
	EventCaseStatusChanged EventType = "case_status_changed"
	EventScheduleUpdated   EventType = "case_schedule_updated"
	EventNoteAdded         EventType = "case_note_added"
	EventNPSSubmitted      EventType = "case_nps_submitted"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Type domain.ActorType `json:"type"`
	Name string           `json:"name,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	CaseID     string      `json:"case_id"`
	CaseNumber string      `json:"case_number"`
	Actor      Actor       `json:"actor"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// CaseCreatedPayload payload.
type CaseCreatedPayload struct {
	CaseType domain.CaseType `json:"case_type"`
	District string          `json:"district"`
	Schedule string          `json:"schedule"`
}

// CaseStatusChangedPayload payload.
type CaseStatusChangedPayload struct {
	OldStatus domain.CaseStatus `json:"old_status"`
	NewStatus domain.CaseStatus `json:"new_status"`
	Comment   string            `json:"comment,omitempty"`
}

// ScheduleUpdatedPayload payload.
type ScheduleUpdatedPayload struct {
	Schedule string `json:"schedule"`
}

// NoteAddedPayload payload.
type NoteAddedPayload struct {
	Preview string `json:"preview"`
}

// NPSSubmittedPayload payload.
type NPSSubmittedPayload struct {
	Score int `json:"score"`
}

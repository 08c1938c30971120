package domain

import (
	"time"
)

// EventKind categorizes history entries so downstream projections match on
// structured tags instead of action text.
type EventKind string

const (
	EventRegistered           EventKind = "REGISTERED"
	EventStatusChanged        EventKind = "STATUS_CHANGED"
	EventScheduled            EventKind = "SCHEDULED"
	EventTechnicianDispatched EventKind = "TECHNICIAN_DISPATCHED"
	EventAttended             EventKind = "ATTENDED"
	EventClosed               EventKind = "CLOSED"
	EventCancelled            EventKind = "CANCELLED"
	EventRescheduled          EventKind = "RESCHEDULED"
	EventNote                 EventKind = "NOTE"
	EventNPSSubmitted         EventKind = "NPS_SUBMITTED"
)

// ActorType indicates who caused a history entry.
type ActorType string

const (
	ActorTypeClient ActorType = "CLIENT"
	ActorTypeAgent  ActorType = "AGENT"
	ActorTypeSystem ActorType = "SYSTEM"
)

// HistoryEntry is an immutable audit trail record. Entries are only ever
// appended to a case, in timestamp order.
type HistoryEntry struct {
	ID        string
	Kind      EventKind
	Action    string
	Actor     string
	ActorType ActorType
	CreatedAt time.Time
}

// IsNote reports whether the entry is a staff-only internal note.
func (e HistoryEntry) IsNote() bool {
	return e.Kind == EventNote
}

// RegisteredEntry builds the initial history entry for a freshly created case.
func RegisteredEntry(now time.Time) HistoryEntry {
	return HistoryEntry{
		Kind:      EventRegistered,
		Action:    "Case registered via web",
		Actor:     "Client",
		ActorType: ActorTypeClient,
		CreatedAt: now,
	}
}

// AddNote appends an internal note to the case and returns the updated copy.
// Notes never change status; they only extend the audit trail.
func AddNote(c Case, content, agent string, now time.Time) Case {
	return withEntry(c, HistoryEntry{
		Kind:      EventNote,
		Action:    content,
		Actor:     agent,
		ActorType: ActorTypeAgent,
		CreatedAt: now,
	}, now)
}

// FirstEntryOfKind returns the earliest history entry with the given kind.
func FirstEntryOfKind(history []HistoryEntry, kind EventKind) (HistoryEntry, bool) {
	for _, entry := range history {
		if entry.Kind == kind {
			return entry, true
		}
	}
	return HistoryEntry{}, false
}

// withEntry returns a copy of c with the entry appended and updatedAt
// refreshed. The history slice is cloned so the caller's copy is untouched.
func withEntry(c Case, entry HistoryEntry, now time.Time) Case {
	history := make([]HistoryEntry, len(c.History), len(c.History)+1)
	copy(history, c.History)
	c.History = append(history, entry)
	c.UpdatedAt = now
	return c
}

package domain

import (
	"fmt"
	"sort"
	"time"
)

// NotificationKind enumerates the client-facing lifecycle milestones.
type NotificationKind string

const (
	NotificationRegistered           NotificationKind = "REGISTERED"
	NotificationScheduled            NotificationKind = "SCHEDULED"
	NotificationTechnicianDispatched NotificationKind = "TECHNICIAN_DISPATCHED"
	NotificationClosed               NotificationKind = "CLOSED"
)

// Notification describes a message that would be delivered to a client.
// Derived from history, never persisted.
type Notification struct {
	Kind       NotificationKind
	CaseID     string
	CaseNumber string
	ClientName string
	Message    string
	Timestamp  time.Time
}

// milestoneKinds pairs each notification with the history tag that produces
// it, in lifecycle order.
var milestoneKinds = []struct {
	notification NotificationKind
	event        EventKind
}{
	{NotificationRegistered, EventRegistered},
	{NotificationScheduled, EventScheduled},
	{NotificationTechnicianDispatched, EventTechnicianDispatched},
	{NotificationClosed, EventClosed},
}

// DeriveNotifications scans each case's history and emits one notification
// per reached milestone, most recent first. Ties keep input order.
func DeriveNotifications(cases []Case) []Notification {
	notifications := []Notification{}
	for i := range cases {
		c := &cases[i]
		for _, milestone := range milestoneKinds {
			entry, ok := FirstEntryOfKind(c.History, milestone.event)
			if !ok {
				continue
			}
			notifications = append(notifications, Notification{
				Kind:       milestone.notification,
				CaseID:     c.ID,
				CaseNumber: c.CaseNumber,
				ClientName: c.Client.FullName(),
				Message:    milestoneMessage(c, milestone.notification),
				Timestamp:  entry.CreatedAt,
			})
		}
	}

	sort.SliceStable(notifications, func(i, j int) bool {
		return notifications[i].Timestamp.After(notifications[j].Timestamp)
	})
	return notifications
}

func milestoneMessage(c *Case, kind NotificationKind) string {
	switch kind {
	case NotificationRegistered:
		return fmt.Sprintf("Case %s registered successfully", c.CaseNumber)
	case NotificationScheduled:
		return fmt.Sprintf("Visit confirmed for %s", c.Schedule.Describe())
	case NotificationTechnicianDispatched:
		return fmt.Sprintf("Technician on the way to %s", c.Location.Address)
	case NotificationClosed:
		return fmt.Sprintf("Case %s closed, we would love your feedback", c.CaseNumber)
	default:
		return ""
	}
}

package domain

import (
	"fmt"
	"time"

	"github.com/spec-kit/aftersales-service/pkg/util"
)

// Slot is a half-day service window.
type Slot string

const (
	SlotAM Slot = "AM"
	SlotPM Slot = "PM"
)

// ScheduleKind discriminates the two schedule shapes.
type ScheduleKind string

const (
	// ScheduleSingleDay is a confirmed visit on one day with a half-day slot.
	ScheduleSingleDay ScheduleKind = "SINGLE_DAY"
	// ScheduleDateRange is a client-proposed window awaiting slot confirmation.
	ScheduleDateRange ScheduleKind = "DATE_RANGE"
)

// Schedule is a tagged variant: either a single day plus slot, or a date
// range with no slot yet.
type Schedule struct {
	Kind  ScheduleKind
	Date  time.Time // SINGLE_DAY only
	Slot  Slot      // SINGLE_DAY only
	Start time.Time // DATE_RANGE only
	End   time.Time // DATE_RANGE only
}

// Validate checks the schedule against the business rules relative to today.
// Dates already stored on a case are never re-validated retroactively.
func (s Schedule) Validate(today time.Time) error {
	today = dayOf(today)
	switch s.Kind {
	case ScheduleSingleDay:
		if s.Slot != SlotAM && s.Slot != SlotPM {
			return util.NewValidationError("slot must be AM or PM", map[string]any{"slot": string(s.Slot)})
		}
		if dayOf(s.Date).Before(today) {
			return util.NewInvalidDateRange("service date cannot be in the past", map[string]any{
				"date": s.Date.Format(dateLayout),
			})
		}
	case ScheduleDateRange:
		if dayOf(s.Start).Before(today) {
			return util.NewInvalidDateRange("start date cannot be in the past", map[string]any{
				"start_date": s.Start.Format(dateLayout),
			})
		}
		if dayOf(s.End).Before(dayOf(s.Start)) {
			return util.NewInvalidDateRange("end date must not be before start date", map[string]any{
				"start_date": s.Start.Format(dateLayout),
				"end_date":   s.End.Format(dateLayout),
			})
		}
	default:
		return util.NewValidationError("unknown schedule shape", map[string]any{"kind": string(s.Kind)})
	}
	return nil
}

// Describe renders the schedule for history entries and notifications.
func (s Schedule) Describe() string {
	switch s.Kind {
	case ScheduleSingleDay:
		return fmt.Sprintf("%s (%s)", s.Date.Format(dateLayout), s.Slot)
	case ScheduleDateRange:
		return fmt.Sprintf("%s - %s", s.Start.Format(dateLayout), s.End.Format(dateLayout))
	default:
		return "to be confirmed"
	}
}

// UpdateSchedule overwrites the case schedule after validation and appends a
// history entry. Status is never touched by a reschedule.
func UpdateSchedule(c Case, s Schedule, agent string, now time.Time) (Case, error) {
	if err := s.Validate(now); err != nil {
		return c, err
	}

	updated := withEntry(c, HistoryEntry{
		Kind:      EventRescheduled,
		Action:    fmt.Sprintf("Visit rescheduled to %s", s.Describe()),
		Actor:     agent,
		ActorType: ActorTypeAgent,
		CreatedAt: now,
	}, now)
	updated.Schedule = s
	return updated, nil
}

// RangeSelection tracks the two-click state of an interactive date-range
// picker. Zero time values mean "not selected yet".
type RangeSelection struct {
	Start time.Time
	End   time.Time
}

// Complete reports whether both ends of the range are chosen.
func (r RangeSelection) Complete() bool {
	return !r.Start.IsZero() && !r.End.IsZero()
}

// Select applies one click to the selection. Clicks before min are ignored.
// The first valid click sets the start; a click before the current start
// restarts from that day; a click on a completed range restarts it; otherwise
// the click closes the range.
func (r RangeSelection) Select(clicked, min time.Time) RangeSelection {
	clicked = dayOf(clicked)
	if clicked.Before(dayOf(min)) {
		return r
	}
	switch {
	case r.Start.IsZero():
		return RangeSelection{Start: clicked}
	case clicked.Before(r.Start):
		return RangeSelection{Start: clicked}
	case r.Complete():
		return RangeSelection{Start: clicked}
	default:
		return RangeSelection{Start: r.Start, End: clicked}
	}
}

const dateLayout = "2006-01-02"

// dayOf truncates a timestamp to its calendar day.
func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

package domain

import (
	"fmt"
	"time"

	"github.com/spec-kit/aftersales-service/pkg/util"
)

// allowedTransitions defines the lifecycle as data. The happy path is linear;
// CANCELLED is reachable from every non-terminal state even though no caller
// currently triggers it.
var allowedTransitions = map[CaseStatus][]CaseStatus{
	CaseStatusNew:               {CaseStatusPendingValidation, CaseStatusCancelled},
	CaseStatusPendingValidation: {CaseStatusScheduled, CaseStatusCancelled},
	CaseStatusScheduled:         {CaseStatusTechnicianEnRoute, CaseStatusCancelled},
	CaseStatusTechnicianEnRoute: {CaseStatusAttended, CaseStatusCancelled},
	CaseStatusAttended:          {CaseStatusClosed, CaseStatusCancelled},
	CaseStatusClosed:            {},
	CaseStatusCancelled:         {},
}

// statusEventKinds maps each transition target to the history tag recorded
// for it. Milestones get their own kind so projections match on tags.
var statusEventKinds = map[CaseStatus]EventKind{
	CaseStatusPendingValidation: EventStatusChanged,
	CaseStatusScheduled:         EventScheduled,
	CaseStatusTechnicianEnRoute: EventTechnicianDispatched,
	CaseStatusAttended:          EventAttended,
	CaseStatusClosed:            EventClosed,
	CaseStatusCancelled:         EventCancelled,
}

// CanTransition reports whether the edge current->next exists.
func CanTransition(current, next CaseStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// AllowedNext returns the permitted successors of a status.
func AllowedNext(current CaseStatus) []CaseStatus {
	next := make([]CaseStatus, len(allowedTransitions[current]))
	copy(next, allowedTransitions[current])
	return next
}

// Transition applies a validated status change and returns the updated case.
// On failure the input case is returned unchanged; the operation never
// partially applies.
func Transition(c Case, target CaseStatus, comment, agent string, now time.Time) (Case, error) {
	if !CanTransition(c.Status, target) {
		return c, util.NewInvalidTransition(string(c.Status), string(target))
	}

	action := fmt.Sprintf("Status updated to %s", target)
	if comment != "" {
		action = fmt.Sprintf("%s. %s", action, comment)
	}

	updated := withEntry(c, HistoryEntry{
		Kind:      statusEventKinds[target],
		Action:    action,
		Actor:     agent,
		ActorType: ActorTypeAgent,
		CreatedAt: now,
	}, now)
	updated.Status = target
	return updated, nil
}

// SetNPS records the post-closure satisfaction score. The score is settable
// exactly once and only while the case is closed.
func SetNPS(c Case, score int, now time.Time) (Case, error) {
	if c.Status != CaseStatusClosed {
		return c, util.NewNotClosed(string(c.Status))
	}
	if c.NPSScore != nil {
		return c, util.NewAlreadyScored(c.CaseNumber)
	}
	if score < 0 || score > 10 {
		return c, util.NewValidationError("nps score must be between 0 and 10", map[string]any{"score": score})
	}

	updated := withEntry(c, HistoryEntry{
		Kind:      EventNPSSubmitted,
		Action:    fmt.Sprintf("NPS survey submitted with score %d", score),
		Actor:     "Client",
		ActorType: ActorTypeClient,
		CreatedAt: now,
	}, now)
	updated.NPSScore = &score
	return updated, nil
}

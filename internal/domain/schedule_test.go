package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/aftersales-service/pkg/util"
)

var today = time.Date(2025, 6, 15, 11, 30, 0, 0, time.UTC)

func day(offset int) time.Time {
	return time.Date(2025, 6, 15+offset, 0, 0, 0, 0, time.UTC)
}

func TestScheduleValidateSingleDay(t *testing.T) {
	tests := []struct {
		name     string
		schedule Schedule
		wantCode string
	}{
		{"today AM is valid", Schedule{Kind: ScheduleSingleDay, Date: day(0), Slot: SlotAM}, ""},
		{"future PM is valid", Schedule{Kind: ScheduleSingleDay, Date: day(4), Slot: SlotPM}, ""},
		{"past date rejected", Schedule{Kind: ScheduleSingleDay, Date: day(-1), Slot: SlotAM}, "INVALID_DATE_RANGE"},
		{"missing slot rejected", Schedule{Kind: ScheduleSingleDay, Date: day(1)}, "VALIDATION_FAILED"},
		{"unknown slot rejected", Schedule{Kind: ScheduleSingleDay, Date: day(1), Slot: Slot("NIGHT")}, "VALIDATION_FAILED"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.schedule.Validate(today)
			if tc.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, util.HasCode(err, tc.wantCode))
		})
	}
}

func TestScheduleValidateDateRange(t *testing.T) {
	tests := []struct {
		name     string
		schedule Schedule
		wantCode string
	}{
		{"valid range", Schedule{Kind: ScheduleDateRange, Start: day(1), End: day(5)}, ""},
		{"single-day range", Schedule{Kind: ScheduleDateRange, Start: day(2), End: day(2)}, ""},
		{"end before start", Schedule{Kind: ScheduleDateRange, Start: day(5), End: day(1)}, "INVALID_DATE_RANGE"},
		{"start in the past", Schedule{Kind: ScheduleDateRange, Start: day(-2), End: day(3)}, "INVALID_DATE_RANGE"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.schedule.Validate(today)
			if tc.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, util.HasCode(err, tc.wantCode))
		})
	}
}

func TestScheduleValidateUnknownKind(t *testing.T) {
	err := Schedule{Kind: ScheduleKind("WEEKLY")}.Validate(today)
	require.Error(t, err)
	assert.True(t, util.HasCode(err, "VALIDATION_FAILED"))
}

func TestUpdateSchedule(t *testing.T) {
	c := newTestCase(CaseStatusScheduled)
	next := Schedule{Kind: ScheduleSingleDay, Date: day(3), Slot: SlotPM}

	updated, err := UpdateSchedule(c, next, "Agent Smith", today)
	require.NoError(t, err)

	assert.Equal(t, next, updated.Schedule)
	assert.Equal(t, c.Status, updated.Status, "reschedule never changes status")
	last := updated.History[len(updated.History)-1]
	assert.Equal(t, EventRescheduled, last.Kind)
	assert.Contains(t, last.Action, "2025-06-18")
	assert.Contains(t, last.Action, "PM")
}

func TestUpdateScheduleLeavesCaseUnchangedOnFailure(t *testing.T) {
	c := newTestCase(CaseStatusScheduled)
	bad := Schedule{Kind: ScheduleDateRange, Start: day(5), End: day(1)}

	updated, err := UpdateSchedule(c, bad, "Agent", today)
	require.Error(t, err)
	assert.True(t, util.HasCode(err, "INVALID_DATE_RANGE"))
	assert.Equal(t, c.Schedule, updated.Schedule)
	assert.Len(t, updated.History, len(c.History))
}

func TestRangeSelection(t *testing.T) {
	min := day(0)

	t.Run("clicks before the minimum are ignored", func(t *testing.T) {
		sel := RangeSelection{}.Select(day(-3), min)
		assert.True(t, sel.Start.IsZero())
	})

	t.Run("first click sets start", func(t *testing.T) {
		sel := RangeSelection{}.Select(day(2), min)
		assert.Equal(t, day(2), sel.Start)
		assert.True(t, sel.End.IsZero())
	})

	t.Run("second click at or after start completes the range", func(t *testing.T) {
		sel := RangeSelection{Start: day(2)}.Select(day(6), min)
		assert.Equal(t, day(2), sel.Start)
		assert.Equal(t, day(6), sel.End)
	})

	t.Run("click before start redefines start and clears end", func(t *testing.T) {
		sel := RangeSelection{Start: day(4), End: day(8)}.Select(day(1), min)
		assert.Equal(t, day(1), sel.Start)
		assert.True(t, sel.End.IsZero())
	})

	t.Run("click on a complete range restarts it", func(t *testing.T) {
		sel := RangeSelection{Start: day(2), End: day(4)}.Select(day(9), min)
		assert.Equal(t, day(9), sel.Start)
		assert.True(t, sel.End.IsZero())
	})
}

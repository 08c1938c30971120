package domain

import (
	"sort"
	"time"
)

// AgendaGroup bundles the confirmed visits for one calendar day.
type AgendaGroup struct {
	Date  time.Time
	Cases []Case
}

// GroupAgenda builds the technician agenda: cases with a confirmed single-day
// schedule that are scheduled or en route, grouped by day ascending with AM
// visits before PM within each day.
func GroupAgenda(cases []Case) []AgendaGroup {
	byDay := map[time.Time][]Case{}
	for i := range cases {
		c := cases[i]
		if c.Schedule.Kind != ScheduleSingleDay {
			continue
		}
		if c.Status != CaseStatusScheduled && c.Status != CaseStatusTechnicianEnRoute {
			continue
		}
		day := dayOf(c.Schedule.Date)
		byDay[day] = append(byDay[day], c)
	}

	groups := make([]AgendaGroup, 0, len(byDay))
	for day, dayCases := range byDay {
		sort.SliceStable(dayCases, func(i, j int) bool {
			return dayCases[i].Schedule.Slot == SlotAM && dayCases[j].Schedule.Slot == SlotPM
		})
		groups = append(groups, AgendaGroup{Date: day, Cases: dayCases})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Date.Before(groups[j].Date)
	})
	return groups
}

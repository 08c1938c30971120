package domain

import (
	"math"
	"sort"
)

// Documented fallbacks reported when no case qualifies for a metric.
const (
	DefaultAvgSchedulingHours = 24.0
	DefaultAvgAttentionHours  = 48.0
	DefaultAvgNPS             = 8.5
)

// MonthlyVolume counts claims and installations opened in one calendar month.
type MonthlyVolume struct {
	Month         string // YYYY-MM
	Claims        int
	Installations int
}

// DashboardStats aggregates operational KPIs over the case set.
type DashboardStats struct {
	TotalClaims        int
	TotalInstallations int
	OpenCases          int
	ClosedCases        int
	AvgSchedulingHours float64
	AvgAttentionHours  float64
	AvgNPS             float64
	ByMonth            []MonthlyVolume
}

// ComputeStats is a pure reducer over the case collection. It touches no
// global state so results are reproducible from the same input.
func ComputeStats(cases []Case) DashboardStats {
	stats := DashboardStats{}

	var schedulingHours, attentionHours, npsSum float64
	var scheduledCount, attendedCount, npsCount int
	months := map[string]*MonthlyVolume{}

	for i := range cases {
		c := &cases[i]

		switch c.Type {
		case CaseTypeClaim:
			stats.TotalClaims++
		case CaseTypeInstallation:
			stats.TotalInstallations++
		}
		if c.IsOpen() {
			stats.OpenCases++
		}
		if c.Status == CaseStatusClosed {
			stats.ClosedCases++
		}

		scheduled, hasScheduled := FirstEntryOfKind(c.History, EventScheduled)
		if hasScheduled {
			schedulingHours += scheduled.CreatedAt.Sub(c.CreatedAt).Hours()
			scheduledCount++

			attended, ok := FirstEntryOfKind(c.History, EventAttended)
			if !ok {
				attended, ok = FirstEntryOfKind(c.History, EventClosed)
			}
			if ok {
				interval := attended.CreatedAt.Sub(scheduled.CreatedAt).Hours()
				if interval > 0 {
					attentionHours += interval
					attendedCount++
				}
			}
		}

		if c.NPSScore != nil {
			npsSum += float64(*c.NPSScore)
			npsCount++
		}

		month := c.CreatedAt.Format("2006-01")
		bucket, ok := months[month]
		if !ok {
			bucket = &MonthlyVolume{Month: month}
			months[month] = bucket
		}
		if c.Type == CaseTypeClaim {
			bucket.Claims++
		} else {
			bucket.Installations++
		}
	}

	stats.AvgSchedulingHours = DefaultAvgSchedulingHours
	if scheduledCount > 0 {
		stats.AvgSchedulingHours = schedulingHours / float64(scheduledCount)
	}
	stats.AvgAttentionHours = DefaultAvgAttentionHours
	if attendedCount > 0 {
		stats.AvgAttentionHours = attentionHours / float64(attendedCount)
	}
	stats.AvgNPS = DefaultAvgNPS
	if npsCount > 0 {
		stats.AvgNPS = math.Round(npsSum/float64(npsCount)*10) / 10
	}

	stats.ByMonth = make([]MonthlyVolume, 0, len(months))
	for _, bucket := range months {
		stats.ByMonth = append(stats.ByMonth, *bucket)
	}
	sort.Slice(stats.ByMonth, func(i, j int) bool {
		return stats.ByMonth[i].Month < stats.ByMonth[j].Month
	})

	return stats
}

// LastMonths returns the most recent n monthly buckets, still ascending.
func (s DashboardStats) LastMonths(n int) []MonthlyVolume {
	if n <= 0 || n >= len(s.ByMonth) {
		return s.ByMonth
	}
	return s.ByMonth[len(s.ByMonth)-n:]
}

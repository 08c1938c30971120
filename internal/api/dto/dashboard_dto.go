package dto

import (
	"time"

	"github.com/spec-kit/aftersales-service/internal/domain"
)

// MonthlyVolumeResponse is one month's intake split by case type.
type MonthlyVolumeResponse struct {
	Month         string `json:"month"`
	Claims        int    `json:"claims"`
	Installations int    `json:"installations"`
}

// DashboardStatsResponse carries the KPI snapshot.
type DashboardStatsResponse struct {
	TotalClaims        int                     `json:"total_claims"`
	TotalInstallations int                     `json:"total_installations"`
	OpenCases          int                     `json:"open_cases"`
	ClosedCases        int                     `json:"closed_cases"`
	AvgSchedulingHours float64                 `json:"avg_scheduling_hours"`
	AvgAttentionHours  float64                 `json:"avg_attention_hours"`
	AvgNPS             float64                 `json:"avg_nps"`
	ByMonth            []MonthlyVolumeResponse `json:"by_month"`
}

// NotificationResponse describes one derived client notification.
type NotificationResponse struct {
	Kind       domain.NotificationKind `json:"kind"`
	CaseID     string                  `json:"case_id"`
	CaseNumber string                  `json:"case_number"`
	ClientName string                  `json:"client_name"`
	Message    string                  `json:"message"`
	Timestamp  time.Time               `json:"timestamp"`
}

// AgendaGroupResponse lists the visits confirmed for one day.
type AgendaGroupResponse struct {
	Date  string        `json:"date"`
	Cases []CaseSummary `json:"cases"`
}

package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/aftersales-service/internal/api/dto"
	"github.com/spec-kit/aftersales-service/internal/service"
)

// DashboardHandler serves KPI, notification and agenda projections.
type DashboardHandler struct {
	stats         *service.StatsService
	notifications *service.NotificationService
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(statsService *service.StatsService, notificationService *service.NotificationService) *DashboardHandler {
	return &DashboardHandler{stats: statsService, notifications: notificationService}
}

// Stats GET /admin/dashboard/stats.
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.stats.Dashboard(c.Context())
	if err != nil {
		return err
	}

	months := stats.ByMonth
	if n, err := strconv.Atoi(c.Query("months", "0")); err == nil && n > 0 {
		months = stats.LastMonths(n)
	}
	byMonth := make([]dto.MonthlyVolumeResponse, 0, len(months))
	for _, bucket := range months {
		byMonth = append(byMonth, dto.MonthlyVolumeResponse{
			Month:         bucket.Month,
			Claims:        bucket.Claims,
			Installations: bucket.Installations,
		})
	}

	return c.JSON(fiber.Map{"data": dto.DashboardStatsResponse{
		TotalClaims:        stats.TotalClaims,
		TotalInstallations: stats.TotalInstallations,
		OpenCases:          stats.OpenCases,
		ClosedCases:        stats.ClosedCases,
		AvgSchedulingHours: stats.AvgSchedulingHours,
		AvgAttentionHours:  stats.AvgAttentionHours,
		AvgNPS:             stats.AvgNPS,
		ByMonth:            byMonth,
	}})
}

// Notifications GET /admin/notifications.
func (h *DashboardHandler) Notifications(c *fiber.Ctx) error {
	notifications, err := h.notifications.List(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		items = append(items, dto.NotificationResponse{
			Kind:       n.Kind,
			CaseID:     n.CaseID,
			CaseNumber: n.CaseNumber,
			ClientName: n.ClientName,
			Message:    n.Message,
			Timestamp:  n.Timestamp,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// Agenda GET /admin/agenda.
func (h *DashboardHandler) Agenda(c *fiber.Ctx) error {
	groups, err := h.stats.Agenda(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.AgendaGroupResponse, 0, len(groups))
	for _, group := range groups {
		cases := make([]dto.CaseSummary, 0, len(group.Cases))
		for i := range group.Cases {
			cases = append(cases, caseSummary(&group.Cases[i]))
		}
		items = append(items, dto.AgendaGroupResponse{
			Date:  group.Date.Format(dateLayout),
			Cases: cases,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

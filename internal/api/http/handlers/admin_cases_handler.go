package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/aftersales-service/internal/api/dto"
	"github.com/spec-kit/aftersales-service/internal/domain"
	"github.com/spec-kit/aftersales-service/internal/service"
	"github.com/spec-kit/aftersales-service/pkg/util"
)

// AdminCasesHandler manages back-office case endpoints.
type AdminCasesHandler struct {
	cases *service.CaseService
}

// NewAdminCasesHandler constructs handler.
func NewAdminCasesHandler(caseService *service.CaseService) *AdminCasesHandler {
	return &AdminCasesHandler{cases: caseService}
}

// ListCases GET /admin/cases.
func (h *AdminCasesHandler) ListCases(c *fiber.Ctx) error {
	filter := parseCaseListQuery(c)
	cases, err := h.cases.ListCases(c.Context(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.CaseSummary, 0, len(cases))
	for i := range cases {
		items = append(items, caseSummary(&cases[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetCase GET /admin/cases/:id.
func (h *AdminCasesHandler) GetCase(c *fiber.Ctx) error {
	found, err := h.cases.GetCaseByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": caseDetail(found, true)})
}

// UpdateStatus PATCH /admin/cases/:id/status.
func (h *AdminCasesHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Status) == "" {
		return util.NewValidationError("status required", nil)
	}

	updated, err := h.cases.TransitionStatus(c.Context(), c.Params("id"), domain.CaseStatus(req.Status), req.Comment, req.Agent)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": caseDetail(updated, true)})
}

// UpdateSchedule PUT /admin/cases/:id/schedule.
func (h *AdminCasesHandler) UpdateSchedule(c *fiber.Ctx) error {
	var req dto.UpdateScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	schedule, err := parseSchedulePayload(req.Schedule)
	if err != nil {
		return err
	}
	updated, err := h.cases.UpdateSchedule(c.Context(), c.Params("id"), schedule, req.Agent)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": caseDetail(updated, true)})
}

// AddNote POST /admin/cases/:id/notes.
func (h *AdminCasesHandler) AddNote(c *fiber.Ctx) error {
	var req dto.AddNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}

	updated, err := h.cases.AddNote(c.Context(), c.Params("id"), req.Content, req.Agent)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": caseDetail(updated, true)})
}

func parseCaseListQuery(c *fiber.Ctx) service.CaseListFilter {
	filter := service.CaseListFilter{}

	if status := strings.TrimSpace(c.Query("status")); status != "" {
		parsed := domain.CaseStatus(status)
		filter.Status = &parsed
	}
	if caseType := strings.TrimSpace(c.Query("type")); caseType != "" {
		parsed := domain.CaseType(caseType)
		filter.Type = &parsed
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		filter.SearchTerm = &search
	}
	if limit, err := strconv.Atoi(c.Query("limit", "20")); err == nil {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(c.Query("offset", "0")); err == nil {
		filter.Offset = offset
	}
	return filter
}

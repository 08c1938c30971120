package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/aftersales-service/internal/api/dto"
	"github.com/spec-kit/aftersales-service/internal/domain"
	"github.com/spec-kit/aftersales-service/internal/service"
	"github.com/spec-kit/aftersales-service/pkg/util"
)

// CasesHandler manages client self-service endpoints.
type CasesHandler struct {
	cases *service.CaseService
}

// NewCasesHandler constructs handler.
func NewCasesHandler(caseService *service.CaseService) *CasesHandler {
	return &CasesHandler{cases: caseService}
}

// CreateCase POST /cases.
func (h *CasesHandler) CreateCase(c *fiber.Ctx) error {
	var req dto.CreateCaseRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if err := validateCreateCase(req); err != nil {
		return err
	}

	schedule, err := parseSchedulePayload(req.Schedule)
	if err != nil {
		return err
	}

	input := service.CaseCreateInput{
		Type: domain.CaseType(req.Type),
		Client: domain.ClientData{
			FirstName: req.Client.FirstName,
			LastName:  req.Client.LastName,
			DocType:   domain.DocType(req.Client.DocType),
			DocNumber: req.Client.DocNumber,
			Email:     req.Client.Email,
			Phone:     req.Client.Phone,
		},
		Product: domain.ProductData{
			Category:     req.Product.Category,
			Brand:        req.Product.Brand,
			Model:        req.Product.Model,
			Typology:     req.Product.Typology,
			SerialNumber: req.Product.SerialNumber,
		},
		Location: domain.LocationData{
			Department: req.Location.Department,
			Province:   req.Location.Province,
			District:   req.Location.District,
			Address:    req.Location.Address,
			Reference:  req.Location.Reference,
			Lat:        req.Location.Lat,
			Lng:        req.Location.Lng,
		},
		Schedule: schedule,
	}
	if req.Product.PurchaseDate != "" {
		purchased, err := parseDay(req.Product.PurchaseDate, "purchase_date")
		if err != nil {
			return err
		}
		input.Product.PurchaseDate = &purchased
	}

	created, err := h.cases.CreateCase(c.Context(), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": caseDetail(created, false)})
}

// LookupCase GET /cases/lookup?case_number=&doc_number=.
// Requires both identifiers so cases are never exposed by guessable ids.
func (h *CasesHandler) LookupCase(c *fiber.Ctx) error {
	caseNumber := strings.TrimSpace(c.Query("case_number"))
	docNumber := strings.TrimSpace(c.Query("doc_number"))
	if caseNumber == "" || docNumber == "" {
		return util.NewValidationError("case_number and doc_number required", nil)
	}

	found, err := h.cases.GetCaseByNumberAndDoc(c.Context(), caseNumber, docNumber)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": caseDetail(found, false)})
}

// SubmitNPS POST /cases/:id/nps.
func (h *CasesHandler) SubmitNPS(c *fiber.Ctx) error {
	var req dto.SubmitNPSRequest
	if err := c.BodyParser(&req); err != nil {
		return util.NewValidationError("invalid payload", nil)
	}
	if req.Score == nil {
		return util.NewValidationError("score required", nil)
	}

	updated, err := h.cases.SetNPS(c.Context(), c.Params("id"), *req.Score)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": caseDetail(updated, false)})
}

func validateCreateCase(req dto.CreateCaseRequest) error {
	missing := map[string]any{}
	if strings.TrimSpace(req.Type) == "" {
		missing["type"] = "required"
	}
	if strings.TrimSpace(req.Client.FirstName) == "" {
		missing["client.first_name"] = "required"
	}
	if strings.TrimSpace(req.Client.LastName) == "" {
		missing["client.last_name"] = "required"
	}
	if strings.TrimSpace(req.Client.DocNumber) == "" {
		missing["client.doc_number"] = "required"
	}
	if strings.TrimSpace(req.Product.Category) == "" {
		missing["product.category"] = "required"
	}
	if strings.TrimSpace(req.Product.Brand) == "" {
		missing["product.brand"] = "required"
	}
	if strings.TrimSpace(req.Product.Model) == "" {
		missing["product.model"] = "required"
	}
	if strings.TrimSpace(req.Location.Address) == "" {
		missing["location.address"] = "required"
	}
	if len(missing) > 0 {
		return util.NewValidationError("missing required fields", missing)
	}
	return nil
}

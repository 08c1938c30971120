package handlers

import (
	"time"

	"github.com/spec-kit/aftersales-service/internal/api/dto"
	"github.com/spec-kit/aftersales-service/internal/domain"
	"github.com/spec-kit/aftersales-service/pkg/util"
)

const dateLayout = "2006-01-02"

func parseSchedulePayload(p dto.SchedulePayload) (domain.Schedule, error) {
	// end_date selects the range shape; otherwise a confirmed day + slot.
	if p.EndDate != "" {
		start, err := parseDay(p.StartDate, "start_date")
		if err != nil {
			return domain.Schedule{}, err
		}
		end, err := parseDay(p.EndDate, "end_date")
		if err != nil {
			return domain.Schedule{}, err
		}
		return domain.Schedule{Kind: domain.ScheduleDateRange, Start: start, End: end}, nil
	}

	date, err := parseDay(p.Date, "date")
	if err != nil {
		return domain.Schedule{}, err
	}
	return domain.Schedule{Kind: domain.ScheduleSingleDay, Date: date, Slot: domain.Slot(p.Slot)}, nil
}

func parseDay(value, field string) (time.Time, error) {
	if value == "" {
		return time.Time{}, util.NewValidationError(field+" required", nil)
	}
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, util.NewValidationError(field+" must be YYYY-MM-DD", map[string]any{field: value})
	}
	return parsed, nil
}

func scheduleResponse(s domain.Schedule) dto.ScheduleResponse {
	resp := dto.ScheduleResponse{Kind: string(s.Kind)}
	switch s.Kind {
	case domain.ScheduleSingleDay:
		resp.Date = s.Date.Format(dateLayout)
		resp.Slot = string(s.Slot)
	case domain.ScheduleDateRange:
		resp.StartDate = s.Start.Format(dateLayout)
		resp.EndDate = s.End.Format(dateLayout)
	}
	return resp
}

func caseSummary(c *domain.Case) dto.CaseSummary {
	return dto.CaseSummary{
		ID:         c.ID,
		CaseNumber: c.CaseNumber,
		Type:       c.Type,
		Status:     c.Status,
		ClientName: c.Client.FullName(),
		District:   c.Location.District,
		Schedule:   scheduleResponse(c.Schedule),
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

func caseDetail(c *domain.Case, includeNotes bool) dto.CaseDetailResponse {
	history := make([]dto.HistoryEntryResponse, 0, len(c.History))
	for _, entry := range c.History {
		if entry.IsNote() && !includeNotes {
			continue
		}
		history = append(history, dto.HistoryEntryResponse{
			Kind:      entry.Kind,
			Action:    entry.Action,
			Actor:     entry.Actor,
			ActorType: entry.ActorType,
			CreatedAt: entry.CreatedAt,
		})
	}

	product := dto.ProductPayload{
		Category:     c.Product.Category,
		Brand:        c.Product.Brand,
		Model:        c.Product.Model,
		Typology:     c.Product.Typology,
		SerialNumber: c.Product.SerialNumber,
	}
	if c.Product.PurchaseDate != nil {
		product.PurchaseDate = c.Product.PurchaseDate.Format(dateLayout)
	}

	return dto.CaseDetailResponse{
		ID:         c.ID,
		CaseNumber: c.CaseNumber,
		Type:       c.Type,
		Status:     c.Status,
		Client: dto.ClientPayload{
			FirstName: c.Client.FirstName,
			LastName:  c.Client.LastName,
			DocType:   string(c.Client.DocType),
			DocNumber: c.Client.DocNumber,
			Email:     c.Client.Email,
			Phone:     c.Client.Phone,
		},
		Product: product,
		Location: dto.LocationPayload{
			Department: c.Location.Department,
			Province:   c.Location.Province,
			District:   c.Location.District,
			Address:    c.Location.Address,
			Reference:  c.Location.Reference,
			Lat:        c.Location.Lat,
			Lng:        c.Location.Lng,
		},
		Schedule:      scheduleResponse(c.Schedule),
		NPSScore:      c.NPSScore,
		SurveyPending: c.SurveyPending(),
		History:       history,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

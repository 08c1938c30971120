package dto

import (
	"time"

	"github.com/spec-kit/aftersales-service/internal/domain"
)

// ClientPayload carries requester data on intake.
type ClientPayload struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	DocType   string `json:"doc_type"`
	DocNumber string `json:"doc_number"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// ProductPayload carries product data on intake.
type ProductPayload struct {
	Category     string `json:"category"`
	Brand        string `json:"brand"`
	Model        string `json:"model"`
	Typology     string `json:"typology,omitempty"`
	SerialNumber string `json:"serial_number,omitempty"`
	PurchaseDate string `json:"purchase_date,omitempty"`
}

// LocationPayload carries the service address on intake.
type LocationPayload struct {
	Department string  `json:"department"`
	Province   string  `json:"province"`
	District   string  `json:"district"`
	Address    string  `json:"address"`
	Reference  string  `json:"reference,omitempty"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
}

// SchedulePayload carries either a single day plus slot or a date range.
// Presence of end_date selects the range shape.
type SchedulePayload struct {
	Date      string `json:"date,omitempty"`
	Slot      string `json:"slot,omitempty"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

// CreateCaseRequest payload.
type CreateCaseRequest struct {
	Type     string          `json:"type"`
	Client   ClientPayload   `json:"client"`
	Product  ProductPayload  `json:"product"`
	Location LocationPayload `json:"location"`
	Schedule SchedulePayload `json:"schedule"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status  string `json:"status"`
	Comment string `json:"comment"`
	Agent   string `json:"agent"`
}

// UpdateScheduleRequest payload.
type UpdateScheduleRequest struct {
	Schedule SchedulePayload `json:"schedule"`
	Agent    string          `json:"agent"`
}

// AddNoteRequest payload.
type AddNoteRequest struct {
	Content string `json:"content"`
	Agent   string `json:"agent"`
}

// SubmitNPSRequest payload.
type SubmitNPSRequest struct {
	Score *int `json:"score"`
}

// ScheduleResponse mirrors the tagged schedule shape.
type ScheduleResponse struct {
	Kind      string `json:"kind"`
	Date      string `json:"date,omitempty"`
	Slot      string `json:"slot,omitempty"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

// CaseSummary response.
type CaseSummary struct {
	ID         string            `json:"id"`
	CaseNumber string            `json:"case_number"`
	Type       domain.CaseType   `json:"type"`
	Status     domain.CaseStatus `json:"status"`
	ClientName string            `json:"client_name"`
	District   string            `json:"district"`
	Schedule   ScheduleResponse  `json:"schedule"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// HistoryEntryResponse represents one audit trail record.
type HistoryEntryResponse struct {
	Kind      domain.EventKind `json:"kind"`
	Action    string           `json:"action"`
	Actor     string           `json:"actor"`
	ActorType domain.ActorType `json:"actor_type"`
	CreatedAt time.Time        `json:"created_at"`
}

// CaseDetailResponse provides full case info.
type CaseDetailResponse struct {
	ID            string                 `json:"id"`
	CaseNumber    string                 `json:"case_number"`
	Type          domain.CaseType        `json:"type"`
	Status        domain.CaseStatus      `json:"status"`
	Client        ClientPayload          `json:"client"`
	Product       ProductPayload         `json:"product"`
	Location      LocationPayload        `json:"location"`
	Schedule      ScheduleResponse       `json:"schedule"`
	NPSScore      *int                   `json:"nps_score,omitempty"`
	SurveyPending bool                   `json:"survey_pending"`
	History       []HistoryEntryResponse `json:"history"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

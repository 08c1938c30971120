package domain

import "time"

// CaseType distinguishes the two service request flavors.
type CaseType string

const (
	CaseTypeClaim        CaseType = "CLAIM"
	CaseTypeInstallation CaseType = "INSTALLATION"
)

// CaseStatus enumerates lifecycle states for cases.
type CaseStatus string

const (
	CaseStatusNew               CaseStatus = "NEW"
	CaseStatusPendingValidation CaseStatus = "PENDING_VALIDATION"
	CaseStatusScheduled         CaseStatus = "SCHEDULED"
	CaseStatusTechnicianEnRoute CaseStatus = "TECHNICIAN_EN_ROUTE"
	CaseStatusAttended          CaseStatus = "ATTENDED"
	CaseStatusClosed            CaseStatus = "CLOSED"
	CaseStatusCancelled         CaseStatus = "CANCELLED"
)

// DocType enumerates accepted identity documents.
type DocType string

const (
	DocTypeDNI DocType = "DNI"
	DocTypeRUC DocType = "RUC"
)

// ClientData holds requester contact details.
type ClientData struct {
	FirstName string
	LastName  string
	DocType   DocType
	DocNumber string
	Email     string
	Phone     string
}

// FullName renders the client display name.
func (c ClientData) FullName() string {
	return c.FirstName + " " + c.LastName
}

// ProductData describes the serviced product.
type ProductData struct {
	Category     string
	Brand        string
	Model        string
	Typology     string
	SerialNumber string
	PurchaseDate *time.Time
}

// LocationData is the service address.
type LocationData struct {
	Department string
	Province   string
	District   string
	Address    string
	Reference  string
	Lat        float64
	Lng        float64
}

// Case is the aggregate for after-sales service requests.
type Case struct {
	ID         string
	CaseNumber string
	Type       CaseType
	Status     CaseStatus
	Client     ClientData
	Product    ProductData
	Location   LocationData
	Schedule   Schedule
	NPSScore   *int
	History    []HistoryEntry
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsTerminal reports whether the case reached a final state.
func (c *Case) IsTerminal() bool {
	return c.Status == CaseStatusClosed || c.Status == CaseStatusCancelled
}

// IsOpen reports whether the case still counts toward the open backlog.
func (c *Case) IsOpen() bool {
	return !c.IsTerminal()
}

// SurveyPending reports whether the client should be offered the NPS survey.
func (c *Case) SurveyPending() bool {
	return c.Status == CaseStatusClosed && c.NPSScore == nil
}

// ValidCaseType reports whether t is a known case type.
func ValidCaseType(t CaseType) bool {
	return t == CaseTypeClaim || t == CaseTypeInstallation
}

// ValidDocType reports whether d is a known document type.
func ValidDocType(d DocType) bool {
	return d == DocTypeDNI || d == DocTypeRUC
}

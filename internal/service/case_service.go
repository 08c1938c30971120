package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/aftersales-service/internal/domain"
	"github.com/spec-kit/aftersales-service/internal/events"
	"github.com/spec-kit/aftersales-service/internal/repository"
	"github.com/spec-kit/aftersales-service/pkg/util"
)

// DefaultAgentName labels mutations when no agent identity is supplied.
const DefaultAgentName = "After-Sales Agent"

// CaseService coordinates case lifecycle workflows.
type CaseService struct {
	cases      repository.CaseRepository
	history    repository.CaseHistoryRepository
	statsCache repository.StatsCacheRepository
	dispatcher events.Dispatcher
}

// CaseDependencies bundles repositories for the case service.
type CaseDependencies struct {
	CaseRepo    repository.CaseRepository
	HistoryRepo repository.CaseHistoryRepository
	StatsCache  repository.StatsCacheRepository
	Dispatcher  events.Dispatcher
}

// CaseCreateInput describes the intake payload.
type CaseCreateInput struct {
	Type     domain.CaseType
	Client   domain.ClientData
	Product  domain.ProductData
	Location domain.LocationData
	Schedule domain.Schedule
}

// CaseListFilter describes back-office listing filters.
type CaseListFilter struct {
	Status      *domain.CaseStatus
	Type        *domain.CaseType
	SearchTerm  *string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
	Offset      int
}

// NewCaseService constructs the service.
func NewCaseService(deps CaseDependencies) *CaseService {
	return &CaseService{
		cases:      deps.CaseRepo,
		history:    deps.HistoryRepo,
		statsCache: deps.StatsCache,
		dispatcher: deps.Dispatcher,
	}
}

// CreateCase registers a new case from the intake flow.
func (s *CaseService) CreateCase(ctx context.Context, input CaseCreateInput) (*domain.Case, error) {
	if !domain.ValidCaseType(input.Type) {
		return nil, util.NewValidationError("unknown case type", map[string]any{"type": string(input.Type)})
	}
	if !domain.ValidDocType(input.Client.DocType) {
		return nil, util.NewValidationError("doc type must be DNI or RUC", map[string]any{"doc_type": string(input.Client.DocType)})
	}

	now := time.Now()
	if err := input.Schedule.Validate(now); err != nil {
		return nil, err
	}

	c := domain.Case{
		CaseNumber: generateCaseNumber(now),
		Type:       input.Type,
		Status:     domain.CaseStatusNew,
		Client:     trimClient(input.Client),
		Product:    input.Product,
		Location:   input.Location,
		Schedule:   input.Schedule,
		History:    []domain.HistoryEntry{domain.RegisteredEntry(now)},
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.cases.Create(ctx, &c); err != nil {
		return nil, err
	}
	if err := s.history.Append(ctx, c.ID, c.History); err != nil {
		return nil, err
	}
	s.invalidateStats(ctx)
	s.publishEvent(ctx, events.Event{
		Type:       events.EventCaseCreated,
		CaseID:     c.ID,
		CaseNumber: c.CaseNumber,
		Actor:      clientActor(),
		Payload: events.CaseCreatedPayload{
			CaseType: c.Type,
			District: c.Location.District,
			Schedule: c.Schedule.Describe(),
		},
	})
	return &c, nil
}

// GetCaseByID fetches a case with its full history for back-office views.
func (s *CaseService) GetCaseByID(ctx context.Context, id string) (*domain.Case, error) {
	return s.getWithHistory(ctx, id)
}

// GetCaseByNumberAndDoc is the client self-service lookup. Both identifiers
// must match; the internal id is never accepted here.
func (s *CaseService) GetCaseByNumberAndDoc(ctx context.Context, caseNumber, docNumber string) (*domain.Case, error) {
	c, err := s.cases.GetByNumberAndDoc(ctx, strings.TrimSpace(caseNumber), strings.TrimSpace(docNumber))
	if err != nil {
		return nil, err
	}
	entries, err := s.history.ListByCase(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	c.History = entries
	return c, nil
}

// ListCases returns paginated cases for the back office. Histories are not
// loaded for list views.
func (s *CaseService) ListCases(ctx context.Context, filter CaseListFilter) ([]domain.Case, error) {
	return s.cases.ListWithFilter(ctx, repository.CaseFilter{
		Status:      filter.Status,
		Type:        filter.Type,
		SearchTerm:  filter.SearchTerm,
		CreatedFrom: filter.CreatedFrom,
		CreatedTo:   filter.CreatedTo,
		Limit:       filter.Limit,
		Offset:      filter.Offset,
	})
}

// TransitionStatus applies a validated status change.
func (s *CaseService) TransitionStatus(ctx context.Context, caseID string, target domain.CaseStatus, comment, agent string) (*domain.Case, error) {
	c, err := s.getWithHistory(ctx, caseID)
	if err != nil {
		return nil, err
	}

	before := len(c.History)
	oldStatus := c.Status
	updated, err := domain.Transition(*c, target, strings.TrimSpace(comment), agentOrDefault(agent), time.Now())
	if err != nil {
		return nil, err
	}
	if err := s.applyUpdate(ctx, &updated, before); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:       events.EventCaseStatusChanged,
		CaseID:     updated.ID,
		CaseNumber: updated.CaseNumber,
		Actor:      agentActor(agent),
		Payload: events.CaseStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: updated.Status,
			Comment:   comment,
		},
	})
	return &updated, nil
}

// UpdateSchedule replaces the case schedule. Status is untouched.
func (s *CaseService) UpdateSchedule(ctx context.Context, caseID string, schedule domain.Schedule, agent string) (*domain.Case, error) {
	c, err := s.getWithHistory(ctx, caseID)
	if err != nil {
		return nil, err
	}

	before := len(c.History)
	updated, err := domain.UpdateSchedule(*c, schedule, agentOrDefault(agent), time.Now())
	if err != nil {
		return nil, err
	}
	if err := s.applyUpdate(ctx, &updated, before); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:       events.EventScheduleUpdated,
		CaseID:     updated.ID,
		CaseNumber: updated.CaseNumber,
		Actor:      agentActor(agent),
		Payload: events.ScheduleUpdatedPayload{
			Schedule: updated.Schedule.Describe(),
		},
	})
	return &updated, nil
}

// AddNote appends a staff-only note to the audit trail.
func (s *CaseService) AddNote(ctx context.Context, caseID, content, agent string) (*domain.Case, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, util.NewValidationError("note content required", nil)
	}

	c, err := s.getWithHistory(ctx, caseID)
	if err != nil {
		return nil, err
	}

	before := len(c.History)
	updated := domain.AddNote(*c, content, agentOrDefault(agent), time.Now())
	if err := s.applyUpdate(ctx, &updated, before); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:       events.EventNoteAdded,
		CaseID:     updated.ID,
		CaseNumber: updated.CaseNumber,
		Actor:      agentActor(agent),
		Payload: events.NoteAddedPayload{
			Preview: stringPreview(content, 120),
		},
	})
	return &updated, nil
}

// SetNPS records the client satisfaction score after closure.
func (s *CaseService) SetNPS(ctx context.Context, caseID string, score int) (*domain.Case, error) {
	c, err := s.getWithHistory(ctx, caseID)
	if err != nil {
		return nil, err
	}

	before := len(c.History)
	updated, err := domain.SetNPS(*c, score, time.Now())
	if err != nil {
		return nil, err
	}
	if err := s.applyUpdate(ctx, &updated, before); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:       events.EventNPSSubmitted,
		CaseID:     updated.ID,
		CaseNumber: updated.CaseNumber,
		Actor:      clientActor(),
		Payload: events.NPSSubmittedPayload{
			Score: score,
		},
	})
	return &updated, nil
}

func (s *CaseService) getWithHistory(ctx context.Context, caseID string) (*domain.Case, error) {
	c, err := s.cases.GetByID(ctx, caseID)
	if err != nil {
		return nil, err
	}
	entries, err := s.history.ListByCase(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	c.History = entries
	return c, nil
}

// applyUpdate persists a mutated case: the row itself plus any history
// entries appended past the before marker.
func (s *CaseService) applyUpdate(ctx context.Context, c *domain.Case, before int) error {
	if err := s.cases.Update(ctx, c); err != nil {
		return err
	}
	if before < len(c.History) {
		if err := s.history.Append(ctx, c.ID, c.History[before:]); err != nil {
			return err
		}
	}
	s.invalidateStats(ctx)
	return nil
}

func (s *CaseService) invalidateStats(ctx context.Context) {
	if s.statsCache == nil {
		return
	}
	_ = s.statsCache.Invalidate(ctx)
}

func (s *CaseService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func generateCaseNumber(now time.Time) string {
	return fmt.Sprintf("INN-%d-%06d", now.Year(), 100000+rand.Intn(900000))
}

func trimClient(c domain.ClientData) domain.ClientData {
	c.FirstName = strings.TrimSpace(c.FirstName)
	c.LastName = strings.TrimSpace(c.LastName)
	c.DocNumber = strings.TrimSpace(c.DocNumber)
	c.Email = strings.TrimSpace(c.Email)
	c.Phone = strings.TrimSpace(c.Phone)
	return c
}

func agentOrDefault(agent string) string {
	agent = strings.TrimSpace(agent)
	if agent == "" {
		return DefaultAgentName
	}
	return agent
}

func clientActor() events.Actor {
	return events.Actor{Type: domain.ActorTypeClient, Name: "Client"}
}

func agentActor(agent string) events.Actor {
	return events.Actor{Type: domain.ActorTypeAgent, Name: agentOrDefault(agent)}
}

func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}

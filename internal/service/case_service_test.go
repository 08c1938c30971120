package service

import (
	"context"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/aftersales-service/internal/domain"
	"github.com/spec-kit/aftersales-service/internal/events"
	"github.com/spec-kit/aftersales-service/internal/repository"
	"github.com/spec-kit/aftersales-service/pkg/util"
)

// memCaseRepo is an in-memory CaseRepository for service tests.
type memCaseRepo struct {
	cases  map[string]domain.Case
	nextID int
}

func newMemCaseRepo() *memCaseRepo {
	return &memCaseRepo{cases: map[string]domain.Case{}}
}

func (r *memCaseRepo) Create(_ context.Context, c *domain.Case) error {
	r.nextID++
	c.ID = fmt.Sprintf("case-%d", r.nextID)
	r.cases[c.ID] = *c
	return nil
}

func (r *memCaseRepo) Update(_ context.Context, c *domain.Case) error {
	if _, ok := r.cases[c.ID]; !ok {
		return util.NewCaseNotFound(c.ID)
	}
	r.cases[c.ID] = *c
	return nil
}

func (r *memCaseRepo) GetByID(_ context.Context, id string) (*domain.Case, error) {
	c, ok := r.cases[id]
	if !ok {
		return nil, util.NewCaseNotFound(id)
	}
	c.History = nil
	return &c, nil
}

func (r *memCaseRepo) GetByNumberAndDoc(_ context.Context, caseNumber, docNumber string) (*domain.Case, error) {
	for _, c := range r.cases {
		if c.CaseNumber == caseNumber && c.Client.DocNumber == docNumber {
			c.History = nil
			return &c, nil
		}
	}
	return nil, util.NewCaseNotFound(caseNumber)
}

func (r *memCaseRepo) ListWithFilter(_ context.Context, filter repository.CaseFilter) ([]domain.Case, error) {
	out := []domain.Case{}
	for _, c := range r.cases {
		if filter.Status != nil && c.Status != *filter.Status {
			continue
		}
		if filter.Type != nil && c.Type != *filter.Type {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *memCaseRepo) ListAll(_ context.Context) ([]domain.Case, error) {
	out := make([]domain.Case, 0, len(r.cases))
	for _, c := range r.cases {
		out = append(out, c)
	}
	return out, nil
}

// memHistoryRepo is an in-memory CaseHistoryRepository.
type memHistoryRepo struct {
	entries map[string][]domain.HistoryEntry
}

func newMemHistoryRepo() *memHistoryRepo {
	return &memHistoryRepo{entries: map[string][]domain.HistoryEntry{}}
}

func (r *memHistoryRepo) Append(_ context.Context, caseID string, entries []domain.HistoryEntry) error {
	r.entries[caseID] = append(r.entries[caseID], entries...)
	return nil
}

func (r *memHistoryRepo) ListByCase(_ context.Context, caseID string) ([]domain.HistoryEntry, error) {
	return append([]domain.HistoryEntry{}, r.entries[caseID]...), nil
}

func (r *memHistoryRepo) ListAll(_ context.Context) (map[string][]domain.HistoryEntry, error) {
	out := map[string][]domain.HistoryEntry{}
	for id, entries := range r.entries {
		out[id] = append([]domain.HistoryEntry{}, entries...)
	}
	return out, nil
}

// memStatsCache records invalidations.
type memStatsCache struct {
	stats         *domain.DashboardStats
	invalidations int
}

func (c *memStatsCache) Get(_ context.Context) (*domain.DashboardStats, error) { return c.stats, nil }

func (c *memStatsCache) Set(_ context.Context, stats domain.DashboardStats, _ time.Duration) error {
	c.stats = &stats
	return nil
}

func (c *memStatsCache) Invalidate(_ context.Context) error {
	c.stats = nil
	c.invalidations++
	return nil
}

// recordingDispatcher captures published events.
type recordingDispatcher struct {
	published []events.Event
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.published = append(d.published, event)
	return nil
}

type serviceFixture struct {
	svc        *CaseService
	cases      *memCaseRepo
	history    *memHistoryRepo
	cache      *memStatsCache
	dispatcher *recordingDispatcher
}

func newFixture() *serviceFixture {
	f := &serviceFixture{
		cases:      newMemCaseRepo(),
		history:    newMemHistoryRepo(),
		cache:      &memStatsCache{},
		dispatcher: &recordingDispatcher{},
	}
	f.svc = NewCaseService(CaseDependencies{
		CaseRepo:    f.cases,
		HistoryRepo: f.history,
		StatsCache:  f.cache,
		Dispatcher:  f.dispatcher,
	})
	return f
}

func validInput() CaseCreateInput {
	return CaseCreateInput{
		Type: domain.CaseTypeClaim,
		Client: domain.ClientData{
			FirstName: "  Carlos ",
			LastName:  "Mendez",
			DocType:   domain.DocTypeDNI,
			DocNumber: " 45678901 ",
			Email:     "carlos@example.com",
			Phone:     "999888777",
		},
		Product: domain.ProductData{
			Category: "Refrigeration",
			Brand:    "FrostCo",
			Model:    "FX-200",
		},
		Location: domain.LocationData{
			Department: "Lima",
			Province:   "Lima",
			District:   "Miraflores",
			Address:    "Av. Larco 500",
		},
		Schedule: domain.Schedule{
			Kind: domain.ScheduleSingleDay,
			Date: time.Now().AddDate(0, 0, 7),
			Slot: domain.SlotAM,
		},
	}
}

var caseNumberPattern = regexp.MustCompile(`^INN-\d{4}-\d{6}$`)

func TestCreateCase(t *testing.T) {
	f := newFixture()

	c, err := f.svc.CreateCase(context.Background(), validInput())
	require.NoError(t, err)

	assert.NotEmpty(t, c.ID)
	assert.Regexp(t, caseNumberPattern, c.CaseNumber)
	assert.Equal(t, domain.CaseStatusNew, c.Status)
	assert.Equal(t, "Carlos", c.Client.FirstName, "client fields are trimmed")
	assert.Equal(t, "45678901", c.Client.DocNumber)

	require.Len(t, c.History, 1)
	assert.Equal(t, domain.EventRegistered, c.History[0].Kind)

	persisted, err := f.history.ListByCase(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Len(t, persisted, 1)

	assert.Equal(t, 1, f.cache.invalidations)
	require.Len(t, f.dispatcher.published, 1)
	event := f.dispatcher.published[0]
	assert.Equal(t, events.EventCaseCreated, event.Type)
	assert.Equal(t, c.ID, event.CaseID)
	assert.NotEmpty(t, event.ID)
	assert.False(t, event.Timestamp.IsZero())
}

func TestCreateCaseRejectsBadInput(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	t.Run("unknown case type", func(t *testing.T) {
		input := validInput()
		input.Type = domain.CaseType("REPAIR")
		_, err := f.svc.CreateCase(ctx, input)
		assert.True(t, util.HasCode(err, "VALIDATION_FAILED"))
	})

	t.Run("unknown doc type", func(t *testing.T) {
		input := validInput()
		input.Client.DocType = domain.DocType("PASSPORT")
		_, err := f.svc.CreateCase(ctx, input)
		assert.True(t, util.HasCode(err, "VALIDATION_FAILED"))
	})

	t.Run("invalid schedule", func(t *testing.T) {
		input := validInput()
		input.Schedule = domain.Schedule{
			Kind:  domain.ScheduleDateRange,
			Start: time.Now().AddDate(0, 0, 10),
			End:   time.Now().AddDate(0, 0, 3),
		}
		_, err := f.svc.CreateCase(ctx, input)
		assert.True(t, util.HasCode(err, "INVALID_DATE_RANGE"))
	})

	assert.Empty(t, f.cases.cases, "nothing persisted on rejection")
	assert.Empty(t, f.dispatcher.published)
}

func TestGetCaseByNumberAndDoc(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.svc.CreateCase(ctx, validInput())
	require.NoError(t, err)

	t.Run("matching pair returns case with history", func(t *testing.T) {
		got, err := f.svc.GetCaseByNumberAndDoc(ctx, " "+created.CaseNumber+" ", "45678901")
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
		assert.Len(t, got.History, 1)
	})

	t.Run("wrong doc number is not found", func(t *testing.T) {
		_, err := f.svc.GetCaseByNumberAndDoc(ctx, created.CaseNumber, "00000000")
		assert.True(t, util.HasCode(err, "NOT_FOUND"))
	})

	t.Run("internal id is not accepted as case number", func(t *testing.T) {
		_, err := f.svc.GetCaseByNumberAndDoc(ctx, created.ID, "45678901")
		assert.True(t, util.HasCode(err, "NOT_FOUND"))
	})
}

func TestTransitionStatusThroughService(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.svc.CreateCase(ctx, validInput())
	require.NoError(t, err)

	updated, err := f.svc.TransitionStatus(ctx, created.ID, domain.CaseStatusPendingValidation, "documents received", "Agent Smith")
	require.NoError(t, err)
	assert.Equal(t, domain.CaseStatusPendingValidation, updated.Status)

	entries, err := f.history.ListByCase(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2, "exactly the new entry is appended")
	assert.Equal(t, domain.EventStatusChanged, entries[1].Kind)
	assert.Equal(t, "Agent Smith", entries[1].Actor)

	stored := f.cases.cases[created.ID]
	assert.Equal(t, domain.CaseStatusPendingValidation, stored.Status)

	require.Len(t, f.dispatcher.published, 2)
	event := f.dispatcher.published[1]
	assert.Equal(t, events.EventCaseStatusChanged, event.Type)
	payload, ok := event.Payload.(events.CaseStatusChangedPayload)
	require.True(t, ok)
	assert.Equal(t, domain.CaseStatusNew, payload.OldStatus)
	assert.Equal(t, domain.CaseStatusPendingValidation, payload.NewStatus)
}

func TestTransitionStatusInvalidEdgeLeavesStateUntouched(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.svc.CreateCase(ctx, validInput())
	require.NoError(t, err)
	invalidationsBefore := f.cache.invalidations

	_, err = f.svc.TransitionStatus(ctx, created.ID, domain.CaseStatusClosed, "", "")
	require.Error(t, err)
	assert.True(t, util.HasCode(err, "INVALID_TRANSITION"))

	assert.Equal(t, domain.CaseStatusNew, f.cases.cases[created.ID].Status)
	entries, _ := f.history.ListByCase(ctx, created.ID)
	assert.Len(t, entries, 1)
	assert.Equal(t, invalidationsBefore, f.cache.invalidations, "no invalidation without a write")
	assert.Len(t, f.dispatcher.published, 1, "no event without a write")
}

func TestTransitionStatusUnknownCase(t *testing.T) {
	f := newFixture()
	_, err := f.svc.TransitionStatus(context.Background(), "missing", domain.CaseStatusPendingValidation, "", "")
	assert.True(t, util.HasCode(err, "NOT_FOUND"))
}

func TestUpdateScheduleThroughService(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.svc.CreateCase(ctx, validInput())
	require.NoError(t, err)

	next := domain.Schedule{
		Kind: domain.ScheduleSingleDay,
		Date: time.Now().AddDate(0, 0, 14),
		Slot: domain.SlotPM,
	}
	updated, err := f.svc.UpdateSchedule(ctx, created.ID, next, "")
	require.NoError(t, err)

	assert.Equal(t, next, updated.Schedule)
	assert.Equal(t, created.Status, updated.Status, "reschedule never touches status")

	entries, _ := f.history.ListByCase(ctx, created.ID)
	require.Len(t, entries, 2)
	assert.Equal(t, domain.EventRescheduled, entries[1].Kind)
	assert.Equal(t, DefaultAgentName, entries[1].Actor)
}

func TestAddNoteThroughService(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.svc.CreateCase(ctx, validInput())
	require.NoError(t, err)

	_, err = f.svc.AddNote(ctx, created.ID, "   ", "Agent")
	assert.True(t, util.HasCode(err, "VALIDATION_FAILED"), "blank notes rejected")

	updated, err := f.svc.AddNote(ctx, created.ID, "  client prefers mornings  ", "Agent Smith")
	require.NoError(t, err)

	last := updated.History[len(updated.History)-1]
	assert.Equal(t, domain.EventNote, last.Kind)
	assert.Equal(t, "client prefers mornings", last.Action)
}

func TestSetNPSThroughService(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.svc.CreateCase(ctx, validInput())
	require.NoError(t, err)

	_, err = f.svc.SetNPS(ctx, created.ID, 9)
	assert.True(t, util.HasCode(err, "NOT_CLOSED"))

	for _, status := range []domain.CaseStatus{
		domain.CaseStatusPendingValidation, domain.CaseStatusScheduled,
		domain.CaseStatusTechnicianEnRoute, domain.CaseStatusAttended, domain.CaseStatusClosed,
	} {
		_, err = f.svc.TransitionStatus(ctx, created.ID, status, "", "")
		require.NoError(t, err)
	}

	updated, err := f.svc.SetNPS(ctx, created.ID, 9)
	require.NoError(t, err)
	require.NotNil(t, updated.NPSScore)
	assert.Equal(t, 9, *updated.NPSScore)
	assert.False(t, updated.SurveyPending())

	_, err = f.svc.SetNPS(ctx, created.ID, 3)
	assert.True(t, util.HasCode(err, "ALREADY_SCORED"))

	event := f.dispatcher.published[len(f.dispatcher.published)-1]
	assert.Equal(t, events.EventNPSSubmitted, event.Type)
}

func TestListCasesFilters(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	claim, err := f.svc.CreateCase(ctx, validInput())
	require.NoError(t, err)

	installation := validInput()
	installation.Type = domain.CaseTypeInstallation
	_, err = f.svc.CreateCase(ctx, installation)
	require.NoError(t, err)

	claimType := domain.CaseTypeClaim
	got, err := f.svc.ListCases(ctx, CaseListFilter{Type: &claimType})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, claim.ID, got[0].ID)
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/aftersales-service/internal/domain"
	"github.com/spec-kit/aftersales-service/pkg/util"
)

// CaseFilter captures back-office search parameters.
type CaseFilter struct {
	Status      *domain.CaseStatus
	Type        *domain.CaseType
	SearchTerm  *string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Limit       int
	Offset      int
}

// CaseRepository encapsulates case persistence.
type CaseRepository interface {
	Create(ctx context.Context, c *domain.Case) error
	Update(ctx context.Context, c *domain.Case) error
	GetByID(ctx context.Context, id string) (*domain.Case, error)
	GetByNumberAndDoc(ctx context.Context, caseNumber, docNumber string) (*domain.Case, error)
	ListWithFilter(ctx context.Context, filter CaseFilter) ([]domain.Case, error)
	ListAll(ctx context.Context) ([]domain.Case, error)
}

type caseRepository struct {
	pool *pgxpool.Pool
}

// NewCaseRepository instantiates repository.
func NewCaseRepository(pool *pgxpool.Pool) CaseRepository {
	return &caseRepository{pool: pool}
}

const caseColumns = `id, case_number, case_type, status,
       client_first_name, client_last_name, client_doc_type, client_doc_number, client_email, client_phone,
       product_category, product_brand, product_model, product_typology, product_serial_number, product_purchase_date,
       location_department, location_province, location_district, location_address, location_reference, location_lat, location_lng,
       schedule_kind, schedule_date, schedule_slot, schedule_start, schedule_end,
       nps_score, created_at, updated_at`

func (r *caseRepository) Create(ctx context.Context, c *domain.Case) error {
	const query = `
        INSERT INTO cases (case_number, case_type, status,
            client_first_name, client_last_name, client_doc_type, client_doc_number, client_email, client_phone,
            product_category, product_brand, product_model, product_typology, product_serial_number, product_purchase_date,
            location_department, location_province, location_district, location_address, location_reference, location_lat, location_lng,
            schedule_kind, schedule_date, schedule_slot, schedule_start, schedule_end,
            nps_score, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27,$28,$29,$30)
        RETURNING id`
	return r.pool.QueryRow(ctx, query,
		c.CaseNumber,
		c.Type,
		c.Status,
		c.Client.FirstName,
		c.Client.LastName,
		c.Client.DocType,
		c.Client.DocNumber,
		c.Client.Email,
		c.Client.Phone,
		c.Product.Category,
		c.Product.Brand,
		c.Product.Model,
		c.Product.Typology,
		c.Product.SerialNumber,
		c.Product.PurchaseDate,
		c.Location.Department,
		c.Location.Province,
		c.Location.District,
		c.Location.Address,
		c.Location.Reference,
		c.Location.Lat,
		c.Location.Lng,
		c.Schedule.Kind,
		nullableDay(c.Schedule.Date),
		nullableSlot(c.Schedule.Slot),
		nullableDay(c.Schedule.Start),
		nullableDay(c.Schedule.End),
		c.NPSScore,
		c.CreatedAt,
		c.UpdatedAt,
	).Scan(&c.ID)
}

func (r *caseRepository) Update(ctx context.Context, c *domain.Case) error {
	const query = `
        UPDATE cases SET status=$1,
            schedule_kind=$2, schedule_date=$3, schedule_slot=$4, schedule_start=$5, schedule_end=$6,
            nps_score=$7, updated_at=$8
        WHERE id=$9`
	cmd, err := r.pool.Exec(ctx, query,
		c.Status,
		c.Schedule.Kind,
		nullableDay(c.Schedule.Date),
		nullableSlot(c.Schedule.Slot),
		nullableDay(c.Schedule.Start),
		nullableDay(c.Schedule.End),
		c.NPSScore,
		c.UpdatedAt,
		c.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return util.NewCaseNotFound(c.ID)
	}
	return nil
}

func (r *caseRepository) GetByID(ctx context.Context, id string) (*domain.Case, error) {
	query := fmt.Sprintf(`SELECT %s FROM cases WHERE id=$1`, caseColumns)
	return r.fetchSingle(ctx, query, id)
}

func (r *caseRepository) GetByNumberAndDoc(ctx context.Context, caseNumber, docNumber string) (*domain.Case, error) {
	// Self-service lookup requires both identifiers; the internal id alone is
	// never accepted from clients.
	query := fmt.Sprintf(`SELECT %s FROM cases WHERE case_number=$1 AND client_doc_number=$2`, caseColumns)
	c, err := r.fetchSingle(ctx, query, caseNumber, docNumber)
	if err != nil {
		var domainErr *util.DomainError
		if errors.As(err, &domainErr) && domainErr.Code == "NOT_FOUND" {
			return nil, util.NewCaseNotFound(caseNumber)
		}
		return nil, err
	}
	return c, nil
}

func (r *caseRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.Case, error) {
	row := r.pool.QueryRow(ctx, query, args...)
	c, err := scanCase(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("case", nil)
		}
		return nil, err
	}
	return c, nil
}

func (r *caseRepository) ListWithFilter(ctx context.Context, filter CaseFilter) ([]domain.Case, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.Type != nil {
		args = append(args, *filter.Type)
		clauses = append(clauses, fmt.Sprintf("case_type=$%d", len(args)))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(
			"(LOWER(case_number) LIKE %s OR LOWER(client_last_name) LIKE %s OR client_doc_number LIKE %s)",
			placeholder, placeholder, placeholder))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM cases WHERE %s ORDER BY updated_at DESC LIMIT %d OFFSET %d`,
		caseColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCases(rows)
}

func (r *caseRepository) ListAll(ctx context.Context) ([]domain.Case, error) {
	query := fmt.Sprintf(`SELECT %s FROM cases ORDER BY created_at ASC`, caseColumns)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCases(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCase(row rowScanner) (*domain.Case, error) {
	var (
		c            domain.Case
		typology     *string
		serialNumber *string
		reference    *string
		scheduleDate *time.Time
		scheduleSlot *string
		rangeStart   *time.Time
		rangeEnd     *time.Time
	)
	if err := row.Scan(
		&c.ID,
		&c.CaseNumber,
		&c.Type,
		&c.Status,
		&c.Client.FirstName,
		&c.Client.LastName,
		&c.Client.DocType,
		&c.Client.DocNumber,
		&c.Client.Email,
		&c.Client.Phone,
		&c.Product.Category,
		&c.Product.Brand,
		&c.Product.Model,
		&typology,
		&serialNumber,
		&c.Product.PurchaseDate,
		&c.Location.Department,
		&c.Location.Province,
		&c.Location.District,
		&c.Location.Address,
		&reference,
		&c.Location.Lat,
		&c.Location.Lng,
		&c.Schedule.Kind,
		&scheduleDate,
		&scheduleSlot,
		&rangeStart,
		&rangeEnd,
		&c.NPSScore,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if typology != nil {
		c.Product.Typology = *typology
	}
	if serialNumber != nil {
		c.Product.SerialNumber = *serialNumber
	}
	if reference != nil {
		c.Location.Reference = *reference
	}
	if scheduleDate != nil {
		c.Schedule.Date = *scheduleDate
	}
	if scheduleSlot != nil {
		c.Schedule.Slot = domain.Slot(*scheduleSlot)
	}
	if rangeStart != nil {
		c.Schedule.Start = *rangeStart
	}
	if rangeEnd != nil {
		c.Schedule.End = *rangeEnd
	}
	return &c, nil
}

func scanCases(rows pgx.Rows) ([]domain.Case, error) {
	var result []domain.Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	return result, rows.Err()
}

func nullableDay(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func nullableSlot(s domain.Slot) *string {
	if s == "" {
		return nil
	}
	str := string(s)
	return &str
}

package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/aftersales-service/internal/domain"
)

// CaseHistoryRepository stores the append-only audit trail.
type CaseHistoryRepository interface {
	Append(ctx context.Context, caseID string, entries []domain.HistoryEntry) error
	ListByCase(ctx context.Context, caseID string) ([]domain.HistoryEntry, error)
	ListAll(ctx context.Context) (map[string][]domain.HistoryEntry, error)
}

type caseHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewCaseHistoryRepository builds repository.
func NewCaseHistoryRepository(pool *pgxpool.Pool) CaseHistoryRepository {
	return &caseHistoryRepository{pool: pool}
}

func (r *caseHistoryRepository) Append(ctx context.Context, caseID string, entries []domain.HistoryEntry) error {
	const query = `
        INSERT INTO case_history (case_id, event_kind, action, actor, actor_type, created_at)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id`
	for i := range entries {
		if err := r.pool.QueryRow(ctx, query,
			caseID,
			entries[i].Kind,
			entries[i].Action,
			entries[i].Actor,
			entries[i].ActorType,
			entries[i].CreatedAt,
		).Scan(&entries[i].ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *caseHistoryRepository) ListByCase(ctx context.Context, caseID string) ([]domain.HistoryEntry, error) {
	const query = `
        SELECT id, event_kind, action, actor, actor_type, created_at
        FROM case_history WHERE case_id=$1 ORDER BY created_at ASC, id ASC`
	rows, err := r.pool.Query(ctx, query, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.HistoryEntry
	for rows.Next() {
		var entry domain.HistoryEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.Kind,
			&entry.Action,
			&entry.Actor,
			&entry.ActorType,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}

func (r *caseHistoryRepository) ListAll(ctx context.Context) (map[string][]domain.HistoryEntry, error) {
	const query = `
        SELECT case_id, id, event_kind, action, actor, actor_type, created_at
        FROM case_history ORDER BY case_id, created_at ASC, id ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := map[string][]domain.HistoryEntry{}
	for rows.Next() {
		var caseID string
		var entry domain.HistoryEntry
		if err := rows.Scan(
			&caseID,
			&entry.ID,
			&entry.Kind,
			&entry.Action,
			&entry.Actor,
			&entry.ActorType,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result[caseID] = append(result[caseID], entry)
	}
	return result, rows.Err()
}

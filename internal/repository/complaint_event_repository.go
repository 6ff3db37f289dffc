package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/civic-stack/grievance-service/internal/domain"
)

// ComplaintEventRepository stores the append-only audit trail. There is no
// update or delete: entries are immutable once written.
type ComplaintEventRepository interface {
	Create(ctx context.Context, event *domain.ComplaintEvent) error
	ListByComplaint(ctx context.Context, complaintID string) ([]domain.ComplaintEvent, error)
}

type complaintEventRepository struct {
	pool *pgxpool.Pool
}

// NewComplaintEventRepository builds repository.
func NewComplaintEventRepository(pool *pgxpool.Pool) ComplaintEventRepository {
	return &complaintEventRepository{pool: pool}
}

func (r *complaintEventRepository) Create(ctx context.Context, event *domain.ComplaintEvent) error {
	const query = `
        INSERT INTO complaint_events (complaint_id, kind, status, assignee_staff_id, actor_id, note, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id`
	return r.pool.QueryRow(ctx, query,
		event.ComplaintID,
		event.Kind,
		event.Status,
		event.AssigneeID,
		event.ActorID,
		event.Note,
		event.CreatedAt,
	).Scan(&event.ID)
}

func (r *complaintEventRepository) ListByComplaint(ctx context.Context, complaintID string) ([]domain.ComplaintEvent, error) {
	const query = `
        SELECT id, complaint_id, kind, status, assignee_staff_id, actor_id, note, created_at
        FROM complaint_events WHERE complaint_id=$1 ORDER BY seq ASC`
	rows, err := r.pool.Query(ctx, query, complaintID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ComplaintEvent
	for rows.Next() {
		var event domain.ComplaintEvent
		if err := rows.Scan(
			&event.ID,
			&event.ComplaintID,
			&event.Kind,
			&event.Status,
			&event.AssigneeID,
			&event.ActorID,
			&event.Note,
			&event.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, event)
	}
	return result, rows.Err()
}

package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/civic-stack/grievance-service/internal/domain"
	"github.com/civic-stack/grievance-service/internal/workflow"
)

// ComplaintFilter captures search parameters for listings.
type ComplaintFilter struct {
	SubmitterID  *string
	ContactEmail *string
	DepartmentID *string
	AssigneeID   *string
	Statuses     []domain.ComplaintStatus
	Priorities   []domain.ComplaintPriority
	SearchTerm   *string
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
	UpdatedFrom  *time.Time
	UpdatedTo    *time.Time
	Limit        int
	Offset       int
}

// ComplaintRepository encapsulates complaint persistence. Complaints are
// never deleted: closure is a terminal status, not row removal.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *domain.Complaint) error
	// UpdateWithVersion performs the optimistic-concurrency write: the row is
	// updated only if its stored version still equals complaint.Version. A
	// miss returns workflow.ErrConcurrentModification and the caller must
	// re-fetch and retry.
	UpdateWithVersion(ctx context.Context, complaint *domain.Complaint) error
	GetByID(ctx context.Context, id string) (*domain.Complaint, error)
	GetByTrackingCode(ctx context.Context, code string) (*domain.Complaint, error)
	ListWithFilter(ctx context.Context, filter ComplaintFilter) ([]domain.Complaint, error)
}

type complaintRepository struct {
	pool *pgxpool.Pool
}

// NewComplaintRepository instantiates repository.
func NewComplaintRepository(pool *pgxpool.Pool) ComplaintRepository {
	return &complaintRepository{pool: pool}
}

const complaintColumns = `id, tracking_code, submitter_user_id, department_id, assignee_staff_id,
               category, title, description, location, contact_email, contact_phone,
               status, priority, resolution_note, resolved_at, escalation_count,
               version, created_at, updated_at`

func (r *complaintRepository) Create(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        INSERT INTO complaints (tracking_code, submitter_user_id, department_id, assignee_staff_id,
            category, title, description, location, contact_email, contact_phone, status, priority)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING id, version, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		complaint.TrackingCode,
		complaint.SubmitterID,
		complaint.DepartmentID,
		complaint.AssigneeID,
		complaint.Category,
		complaint.Title,
		complaint.Description,
		complaint.Location,
		complaint.ContactEmail,
		complaint.ContactPhone,
		complaint.Status,
		complaint.Priority,
	).Scan(&complaint.ID, &complaint.Version, &complaint.CreatedAt, &complaint.UpdatedAt)
}

func (r *complaintRepository) UpdateWithVersion(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        UPDATE complaints SET department_id=$1, assignee_staff_id=$2, category=$3, priority=$4,
            status=$5, resolution_note=$6, resolved_at=$7, escalation_count=$8,
            version=version+1, updated_at=$9
        WHERE id=$10 AND version=$11`
	cmd, err := r.pool.Exec(ctx, query,
		complaint.DepartmentID,
		complaint.AssigneeID,
		complaint.Category,
		complaint.Priority,
		complaint.Status,
		complaint.ResolutionNote,
		complaint.ResolvedAt,
		complaint.EscalationCount,
		complaint.UpdatedAt,
		complaint.ID,
		complaint.Version,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		// Either the row vanished (cannot happen, rows are never deleted) or
		// someone else won the write race.
		return workflow.ErrConcurrentModification
	}
	complaint.Version++
	return nil
}

func (r *complaintRepository) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	query := fmt.Sprintf(`SELECT %s FROM complaints WHERE id=$1`, complaintColumns)
	return r.fetchSingle(ctx, query, id)
}

func (r *complaintRepository) GetByTrackingCode(ctx context.Context, code string) (*domain.Complaint, error) {
	query := fmt.Sprintf(`SELECT %s FROM complaints WHERE tracking_code=$1`, complaintColumns)
	return r.fetchSingle(ctx, query, code)
}

func (r *complaintRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Complaint, error) {
	var complaint domain.Complaint
	if err := scanComplaint(r.pool.QueryRow(ctx, query, arg), &complaint); err != nil {
		return nil, err
	}
	return &complaint, nil
}

func (r *complaintRepository) ListWithFilter(ctx context.Context, filter ComplaintFilter) ([]domain.Complaint, error) {
	base := fmt.Sprintf(`SELECT %s FROM complaints`, complaintColumns)
	clauses := []string{"1=1"}
	args := []any{}

	if filter.SubmitterID != nil {
		args = append(args, *filter.SubmitterID)
		clauses = append(clauses, fmt.Sprintf("submitter_user_id=$%d", len(args)))
	}
	if filter.ContactEmail != nil {
		args = append(args, *filter.ContactEmail)
		clauses = append(clauses, fmt.Sprintf("contact_email=$%d", len(args)))
	}
	if filter.DepartmentID != nil {
		args = append(args, *filter.DepartmentID)
		clauses = append(clauses, fmt.Sprintf("department_id=$%d", len(args)))
	}
	if filter.AssigneeID != nil {
		args = append(args, *filter.AssigneeID)
		clauses = append(clauses, fmt.Sprintf("assignee_staff_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Priorities) > 0 {
		placeholders := make([]string, len(filter.Priorities))
		for i, priority := range filter.Priorities {
			args = append(args, priority)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("priority IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	if filter.UpdatedFrom != nil {
		args = append(args, *filter.UpdatedFrom)
		clauses = append(clauses, fmt.Sprintf("updated_at >= $%d", len(args)))
	}
	if filter.UpdatedTo != nil {
		args = append(args, *filter.UpdatedTo)
		clauses = append(clauses, fmt.Sprintf("updated_at <= $%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(title) LIKE %s OR LOWER(description) LIKE %s)", placeholder, placeholder))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY updated_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Complaint
	for rows.Next() {
		var complaint domain.Complaint
		if err := scanComplaint(rows, &complaint); err != nil {
			return nil, err
		}
		result = append(result, complaint)
	}
	return result, rows.Err()
}

func scanComplaint(row pgx.Row, complaint *domain.Complaint) error {
	return row.Scan(
		&complaint.ID,
		&complaint.TrackingCode,
		&complaint.SubmitterID,
		&complaint.DepartmentID,
		&complaint.AssigneeID,
		&complaint.Category,
		&complaint.Title,
		&complaint.Description,
		&complaint.Location,
		&complaint.ContactEmail,
		&complaint.ContactPhone,
		&complaint.Status,
		&complaint.Priority,
		&complaint.ResolutionNote,
		&complaint.ResolvedAt,
		&complaint.EscalationCount,
		&complaint.Version,
		&complaint.CreatedAt,
		&complaint.UpdatedAt,
	)
}

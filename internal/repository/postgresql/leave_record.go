package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/odpc9/attendance-backend-go/internal/domain/leave"
	"github.com/odpc9/attendance-backend-go/internal/pkg/database"
)

type leaveRepository struct {
	db *database.DB
}

const leaveColumns = `id, person_name, work_group, category, start_date, end_date, total_days,
	reason, attachment_url, created_at, updated_at`

func scanLeave(row pgx.Row) (leave.LeaveRecord, error) {
	var l leave.LeaveRecord
	var category string
	err := row.Scan(
		&l.ID, &l.PersonName, &l.WorkGroup, &category, &l.StartDate, &l.EndDate, &l.TotalDays,
		&l.Reason, &l.AttachmentURL, &l.CreatedAt, &l.UpdatedAt,
	)
	l.Category = leave.ParseCategory(category)
	return l, err
}

// Create implements leave.LeaveRepository.
func (r *leaveRepository) Create(ctx context.Context, record leave.LeaveRecord) (leave.LeaveRecord, error) {
	q := GetQuerier(ctx, r.db)

	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	query := `
		INSERT INTO leave_records (id, person_name, work_group, category, start_date, end_date, total_days,
			reason, attachment_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, COALESCE($10, NOW()), NOW())
		RETURNING ` + leaveColumns

	created, err := scanLeave(q.QueryRow(ctx, query,
		record.ID, record.PersonName, record.WorkGroup, string(record.Category), record.StartDate, record.EndDate,
		record.TotalDays, record.Reason, record.AttachmentURL, nullableTime(record.CreatedAt),
	))
	if err != nil {
		return leave.LeaveRecord{}, fmt.Errorf("failed to create leave record: %w", err)
	}
	return created, nil
}

// GetByID implements leave.LeaveRepository.
func (r *leaveRepository) GetByID(ctx context.Context, id string) (leave.LeaveRecord, error) {
	if _, err := uuid.Parse(id); err != nil {
		return leave.LeaveRecord{}, leave.ErrLeaveNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveColumns + ` FROM leave_records WHERE id = $1`
	l, err := scanLeave(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRecord{}, leave.ErrLeaveNotFound
		}
		return leave.LeaveRecord{}, fmt.Errorf("failed to get leave record: %w", err)
	}
	return l, nil
}

// List implements leave.LeaveRepository.
func (r *leaveRepository) List(ctx context.Context, filter leave.LeaveFilter) ([]leave.LeaveRecord, int64, error) {
	q := GetQuerier(ctx, r.db)

	fb := newFilterBuilder()
	if filter.PersonName != nil && *filter.PersonName != "" {
		fb.add("person_name ILIKE $%d", "%"+*filter.PersonName+"%")
	}
	if filter.WorkGroup != nil && *filter.WorkGroup != "" {
		fb.add("work_group = $%d", *filter.WorkGroup)
	}
	if filter.Category != nil && *filter.Category != "" {
		fb.add("category = $%d", *filter.Category)
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		fb.add("end_date >= $%d::date", *filter.StartDate)
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		fb.add("start_date <= $%d::date", *filter.EndDate)
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM leave_records WHERE "+fb.where, fb.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count leave records: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM leave_records WHERE %s ORDER BY start_date DESC, created_at DESC %s`,
		leaveColumns, fb.where, fb.page(filter.Page, filter.Limit))
	records, err := r.query(ctx, q, query, fb.args...)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// ListBetween implements leave.LeaveRepository.
func (r *leaveRepository) ListBetween(ctx context.Context, start, end time.Time) ([]leave.LeaveRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveColumns + `
		FROM leave_records
		WHERE start_date <= $2 AND end_date >= $1
		ORDER BY created_at, id`
	return r.query(ctx, q, query, start, end)
}

func (r *leaveRepository) query(ctx context.Context, q database.Querier, query string, args ...interface{}) ([]leave.LeaveRecord, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query leave records: %w", err)
	}
	defer rows.Close()

	var records []leave.LeaveRecord
	for rows.Next() {
		l, err := scanLeave(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave record: %w", err)
		}
		records = append(records, l)
	}
	return records, rows.Err()
}

// Update implements leave.LeaveRepository.
func (r *leaveRepository) Update(ctx context.Context, record leave.LeaveRecord) error {
	if _, err := uuid.Parse(record.ID); err != nil {
		return leave.ErrLeaveNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_records
		SET person_name = $2, work_group = $3, category = $4, start_date = $5, end_date = $6,
			total_days = $7, reason = $8, attachment_url = $9, updated_at = NOW()
		WHERE id = $1`
	tag, err := q.Exec(ctx, query,
		record.ID, record.PersonName, record.WorkGroup, string(record.Category), record.StartDate, record.EndDate,
		record.TotalDays, record.Reason, record.AttachmentURL,
	)
	if err != nil {
		return fmt.Errorf("failed to update leave record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveNotFound
	}
	return nil
}

// Delete implements leave.LeaveRepository.
func (r *leaveRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return leave.ErrLeaveNotFound
	}
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM leave_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete leave record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveNotFound
	}
	return nil
}

// ReplaceAll implements leave.LeaveRepository.
func (r *leaveRepository) ReplaceAll(ctx context.Context, records []leave.LeaveRecord) error {
	return WithTransaction(ctx, r.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)
		if _, err := q.Exec(ctx, `DELETE FROM leave_records`); err != nil {
			return fmt.Errorf("failed to clear leave records: %w", err)
		}
		for _, rec := range records {
			if _, err := r.Create(ctx, rec); err != nil {
				return err
			}
		}
		return nil
	})
}

func NewLeaveRepository(db *database.DB) leave.LeaveRepository {
	return &leaveRepository{db: db}
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/odpc9/attendance-backend-go/internal/domain/travel"
	"github.com/odpc9/attendance-backend-go/internal/pkg/database"
)

type travelRepository struct {
	db *database.DB
}

const travelColumns = `id, group_id, person_name, work_group, activity, location, start_date, end_date,
	total_days, companions, attachment_url, created_at, updated_at`

func scanTravel(row pgx.Row) (travel.TravelRecord, error) {
	var t travel.TravelRecord
	err := row.Scan(
		&t.ID, &t.GroupID, &t.PersonName, &t.WorkGroup, &t.Activity, &t.Location, &t.StartDate, &t.EndDate,
		&t.TotalDays, &t.Companions, &t.AttachmentURL, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

func (r *travelRepository) insert(ctx context.Context, q database.Querier, rec travel.TravelRecord) (travel.TravelRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.GroupID == "" {
		rec.GroupID = rec.ID
	}
	query := `
		INSERT INTO travel_records (id, group_id, person_name, work_group, activity, location, start_date, end_date,
			total_days, companions, attachment_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, COALESCE($12, NOW()), NOW())
		RETURNING ` + travelColumns

	created, err := scanTravel(q.QueryRow(ctx, query,
		rec.ID, rec.GroupID, rec.PersonName, rec.WorkGroup, rec.Activity, rec.Location, rec.StartDate, rec.EndDate,
		rec.TotalDays, rec.Companions, rec.AttachmentURL, nullableTime(rec.CreatedAt),
	))
	if err != nil {
		return travel.TravelRecord{}, fmt.Errorf("failed to create travel record: %w", err)
	}
	return created, nil
}

// CreateGroup implements travel.TravelRepository.
func (r *travelRepository) CreateGroup(ctx context.Context, records []travel.TravelRecord) ([]travel.TravelRecord, error) {
	created := make([]travel.TravelRecord, 0, len(records))
	err := WithTransaction(ctx, r.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)
		for _, rec := range records {
			c, err := r.insert(ctx, q, rec)
			if err != nil {
				return err
			}
			created = append(created, c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetByID implements travel.TravelRepository.
func (r *travelRepository) GetByID(ctx context.Context, id string) (travel.TravelRecord, error) {
	if _, err := uuid.Parse(id); err != nil {
		return travel.TravelRecord{}, travel.ErrTravelNotFound
	}
	q := GetQuerier(ctx, r.db)

	t, err := scanTravel(q.QueryRow(ctx, `SELECT `+travelColumns+` FROM travel_records WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return travel.TravelRecord{}, travel.ErrTravelNotFound
		}
		return travel.TravelRecord{}, fmt.Errorf("failed to get travel record: %w", err)
	}
	return t, nil
}

// ListByGroup implements travel.TravelRepository.
func (r *travelRepository) ListByGroup(ctx context.Context, groupID string) ([]travel.TravelRecord, error) {
	if _, err := uuid.Parse(groupID); err != nil {
		return nil, nil
	}
	q := GetQuerier(ctx, r.db)
	return r.query(ctx, q, `SELECT `+travelColumns+` FROM travel_records WHERE group_id = $1 ORDER BY created_at, id`, groupID)
}

// List implements travel.TravelRepository.
func (r *travelRepository) List(ctx context.Context, filter travel.TravelFilter) ([]travel.TravelRecord, int64, error) {
	q := GetQuerier(ctx, r.db)

	fb := newFilterBuilder()
	if filter.PersonName != nil && *filter.PersonName != "" {
		fb.add("person_name ILIKE $%d", "%"+*filter.PersonName+"%")
	}
	if filter.WorkGroup != nil && *filter.WorkGroup != "" {
		fb.add("work_group = $%d", *filter.WorkGroup)
	}
	if filter.GroupID != nil && *filter.GroupID != "" {
		if _, err := uuid.Parse(*filter.GroupID); err != nil {
			return nil, 0, nil
		}
		fb.add("group_id = $%d::uuid", *filter.GroupID)
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		fb.add("end_date >= $%d::date", *filter.StartDate)
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		fb.add("start_date <= $%d::date", *filter.EndDate)
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM travel_records WHERE "+fb.where, fb.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count travel records: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM travel_records WHERE %s ORDER BY start_date DESC, group_id, created_at %s`,
		travelColumns, fb.where, fb.page(filter.Page, filter.Limit))
	records, err := r.query(ctx, q, query, fb.args...)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// ListBetween implements travel.TravelRepository.
func (r *travelRepository) ListBetween(ctx context.Context, start, end time.Time) ([]travel.TravelRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + travelColumns + `
		FROM travel_records
		WHERE start_date <= $2 AND end_date >= $1
		ORDER BY created_at, id`
	return r.query(ctx, q, query, start, end)
}

func (r *travelRepository) query(ctx context.Context, q database.Querier, query string, args ...interface{}) ([]travel.TravelRecord, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query travel records: %w", err)
	}
	defer rows.Close()

	var records []travel.TravelRecord
	for rows.Next() {
		t, err := scanTravel(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan travel record: %w", err)
		}
		records = append(records, t)
	}
	return records, rows.Err()
}

// Update implements travel.TravelRepository.
func (r *travelRepository) Update(ctx context.Context, record travel.TravelRecord) error {
	if _, err := uuid.Parse(record.ID); err != nil {
		return travel.ErrTravelNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE travel_records
		SET person_name = $2, work_group = $3, activity = $4, location = $5, start_date = $6, end_date = $7,
			total_days = $8, companions = $9, attachment_url = $10, updated_at = NOW()
		WHERE id = $1`
	tag, err := q.Exec(ctx, query,
		record.ID, record.PersonName, record.WorkGroup, record.Activity, record.Location, record.StartDate,
		record.EndDate, record.TotalDays, record.Companions, record.AttachmentURL,
	)
	if err != nil {
		return fmt.Errorf("failed to update travel record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return travel.ErrTravelNotFound
	}
	return nil
}

// Delete implements travel.TravelRepository.
func (r *travelRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return travel.ErrTravelNotFound
	}
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM travel_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete travel record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return travel.ErrTravelNotFound
	}
	return nil
}

// ReplaceAll implements travel.TravelRepository.
func (r *travelRepository) ReplaceAll(ctx context.Context, records []travel.TravelRecord) error {
	return WithTransaction(ctx, r.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)
		if _, err := q.Exec(ctx, `DELETE FROM travel_records`); err != nil {
			return fmt.Errorf("failed to clear travel records: %w", err)
		}
		for _, rec := range records {
			if _, err := r.insert(ctx, q, rec); err != nil {
				return err
			}
		}
		return nil
	})
}

func NewTravelRepository(db *database.DB) travel.TravelRepository {
	return &travelRepository{db: db}
}

package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/odpc9/attendance-backend-go/internal/domain/attendance"
	"github.com/odpc9/attendance-backend-go/internal/pkg/database"
)

type scanRepository struct {
	db *database.DB
}

const scanColumns = `id, person_name, scan_date, to_char(clock_in, 'HH24:MI:SS'), to_char(clock_out, 'HH24:MI:SS'),
	note, created_at`

func scanScan(row pgx.Row) (attendance.ScanRecord, error) {
	var s attendance.ScanRecord
	var in, out *string
	if err := row.Scan(&s.ID, &s.PersonName, &s.Date, &in, &out, &s.Note, &s.CreatedAt); err != nil {
		return s, err
	}
	s.ClockIn = parseClock(in)
	s.ClockOut = parseClock(out)
	return s, nil
}

func parseClock(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t, err := time.Parse("15:04:05", *s)
	if err != nil {
		return nil
	}
	return &t
}

func clockParam(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("15:04:05")
	return &s
}

// List implements attendance.ScanRepository.
func (r *scanRepository) List(ctx context.Context, filter attendance.ScanFilter) ([]attendance.ScanRecord, int64, error) {
	q := GetQuerier(ctx, r.db)

	fb := newFilterBuilder()
	if filter.PersonName != nil && *filter.PersonName != "" {
		fb.add("person_name ILIKE $%d", "%"+*filter.PersonName+"%")
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		fb.add("scan_date >= $%d::date", *filter.StartDate)
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		fb.add("scan_date <= $%d::date", *filter.EndDate)
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM scan_records WHERE "+fb.where, fb.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count scan records: %w", err)
	}

	sortOrder := "DESC"
	if strings.ToLower(filter.SortOrder) == "asc" {
		sortOrder = "ASC"
	}
	query := fmt.Sprintf(`SELECT %s FROM scan_records WHERE %s ORDER BY scan_date %s, person_name %s`,
		scanColumns, fb.where, sortOrder, fb.page(filter.Page, filter.Limit))
	records, err := r.query(ctx, q, query, fb.args...)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// ListBetween implements attendance.ScanRepository.
func (r *scanRepository) ListBetween(ctx context.Context, start, end time.Time) ([]attendance.ScanRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + scanColumns + `
		FROM scan_records
		WHERE scan_date BETWEEN $1 AND $2
		ORDER BY created_at, id`
	return r.query(ctx, q, query, start, end)
}

func (r *scanRepository) query(ctx context.Context, q database.Querier, query string, args ...interface{}) ([]attendance.ScanRecord, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query scan records: %w", err)
	}
	defer rows.Close()

	var records []attendance.ScanRecord
	for rows.Next() {
		s, err := scanScan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scan record: %w", err)
		}
		records = append(records, s)
	}
	return records, rows.Err()
}

// CreateBatch implements attendance.ScanRepository.
func (r *scanRepository) CreateBatch(ctx context.Context, records []attendance.ScanRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	n := 0
	err := WithTransaction(ctx, r.db, func(ctx context.Context) error {
		var err error
		n, err = r.insertAll(ctx, records)
		return err
	})
	return n, err
}

func (r *scanRepository) insertAll(ctx context.Context, records []attendance.ScanRecord) (int, error) {
	q := GetQuerier(ctx, r.db)

	batch := &pgx.Batch{}
	for _, rec := range records {
		id := rec.ID
		if id == "" {
			id = uuid.NewString()
		}
		batch.Queue(`
			INSERT INTO scan_records (id, person_name, scan_date, clock_in, clock_out, note, created_at)
			VALUES ($1, $2, $3, $4::text::time, $5::text::time, $6, COALESCE($7, NOW()))`,
			id, rec.PersonName, rec.Date, clockParam(rec.ClockIn), clockParam(rec.ClockOut), rec.Note,
			nullableTime(rec.CreatedAt),
		)
	}

	tx, ok := q.(pgx.Tx)
	if !ok {
		return 0, fmt.Errorf("scan batch insert requires a transaction")
	}
	results := tx.SendBatch(ctx, batch)
	for range records {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return 0, fmt.Errorf("failed to insert scan record: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return 0, fmt.Errorf("failed to insert scan records: %w", err)
	}
	return len(records), nil
}

// ReplaceAll implements attendance.ScanRepository.
func (r *scanRepository) ReplaceAll(ctx context.Context, records []attendance.ScanRecord) error {
	return WithTransaction(ctx, r.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)
		if _, err := q.Exec(ctx, `DELETE FROM scan_records`); err != nil {
			return fmt.Errorf("failed to clear scan records: %w", err)
		}
		if len(records) == 0 {
			return nil
		}
		_, err := r.insertAll(ctx, records)
		return err
	})
}

func NewScanRepository(db *database.DB) attendance.ScanRepository {
	return &scanRepository{db: db}
}

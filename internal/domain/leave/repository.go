package leave

import (
	"context"
	"time"
)

// LeaveRepository is the leave table, backed by PostgreSQL or a workbook.
type LeaveRepository interface {
	Create(ctx context.Context, record LeaveRecord) (LeaveRecord, error)
	GetByID(ctx context.Context, id string) (LeaveRecord, error)
	List(ctx context.Context, filter LeaveFilter) ([]LeaveRecord, int64, error)
	// ListBetween returns records whose interval intersects [start, end].
	ListBetween(ctx context.Context, start, end time.Time) ([]LeaveRecord, error)
	Update(ctx context.Context, record LeaveRecord) error
	Delete(ctx context.Context, id string) error
	// ReplaceAll swaps the whole table for records.
	ReplaceAll(ctx context.Context, records []LeaveRecord) error
}

package attendance

import (
	"context"
	"io"
	"time"
)

type ScanRepository interface {
	List(ctx context.Context, filter ScanFilter) ([]ScanRecord, int64, error)
	// ListBetween returns scans dated within [start, end].
	ListBetween(ctx context.Context, start, end time.Time) ([]ScanRecord, error)
	CreateBatch(ctx context.Context, records []ScanRecord) (int, error)
	ReplaceAll(ctx context.Context, records []ScanRecord) error
}

// ScanParser reads scan rows out of an uploaded spreadsheet export.
type ScanParser interface {
	ParseScans(r io.Reader) ([]ScanRecord, []RowIssue, error)
}

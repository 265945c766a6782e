package attendance

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/odpc9/attendance-backend-go/internal/domain/attendance"
	"github.com/odpc9/attendance-backend-go/internal/pkg/validator"
	"github.com/odpc9/attendance-backend-go/internal/service/reconcile"
)

type ScanServiceImpl struct {
	attendance.ScanRepository
	parser attendance.ScanParser
}

func NewScanService(scanRepo attendance.ScanRepository, parser attendance.ScanParser) attendance.ScanService {
	return &ScanServiceImpl{
		ScanRepository: scanRepo,
		parser:         parser,
	}
}

// ListScans implements attendance.ScanService.
func (s *ScanServiceImpl) ListScans(ctx context.Context, filter attendance.ScanFilter) (attendance.ListScanResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListScanResponse{}, err
	}

	records, totalCount, err := s.ScanRepository.List(ctx, filter)
	if err != nil {
		return attendance.ListScanResponse{}, fmt.Errorf("failed to list scans: %w", err)
	}

	items := make([]attendance.ScanResponse, 0, len(records))
	for _, r := range records {
		items = append(items, attendance.NewScanResponse(r))
	}

	totalPages := int(math.Ceil(float64(totalCount) / float64(filter.Limit)))
	start := (filter.Page-1)*filter.Limit + 1
	end := start + len(items) - 1
	if end > int(totalCount) {
		end = int(totalCount)
	}
	showing := fmt.Sprintf("%d-%d of %d results", start, end, totalCount)
	if totalCount == 0 || len(items) == 0 {
		showing = "0 results"
	}

	return attendance.ListScanResponse{
		TotalCount: totalCount,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Showing:    showing,
		Scans:      items,
	}, nil
}

// ImportScans implements attendance.ScanService. Unreadable rows are
// skipped and reported; they never fail the import.
func (s *ScanServiceImpl) ImportScans(ctx context.Context, req attendance.ImportScansRequest) (attendance.ImportScansResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.ImportScansResponse{}, err
	}
	defer req.File.Close()

	scans, issues, err := s.parser.ParseScans(req.File)
	if err != nil {
		return attendance.ImportScansResponse{}, err
	}
	if issues == nil {
		issues = []attendance.RowIssue{}
	}

	imported := len(scans)
	switch req.Mode {
	case attendance.ImportModeReplace:
		if err := s.ScanRepository.ReplaceAll(ctx, scans); err != nil {
			return attendance.ImportScansResponse{}, fmt.Errorf("failed to replace scans: %w", err)
		}
	default:
		imported, err = s.ScanRepository.CreateBatch(ctx, scans)
		if err != nil {
			return attendance.ImportScansResponse{}, fmt.Errorf("failed to import scans: %w", err)
		}
	}

	return attendance.ImportScansResponse{
		Mode:     req.Mode,
		Imported: imported,
		Skipped:  len(issues),
		Issues:   issues,
	}, nil
}

// ReplaceScans implements attendance.ScanService.
func (s *ScanServiceImpl) ReplaceScans(ctx context.Context, req attendance.ReplaceScansRequest) (int, error) {
	if err := req.Validate(); err != nil {
		return 0, err
	}

	records := make([]attendance.ScanRecord, 0, len(req.Scans))
	for _, row := range req.Scans {
		date, _ := validator.IsValidDate(row.Date)
		record := attendance.ScanRecord{
			PersonName: strings.TrimSpace(row.PersonName),
			Date:       date,
			ClockIn:    reconcile.NormalizeTime(row.ClockIn),
			ClockOut:   reconcile.NormalizeTime(row.ClockOut),
			Note:       row.Note,
		}
		if _, err := uuid.Parse(row.ID); err == nil {
			record.ID = row.ID
		}
		records = append(records, record)
	}

	if err := s.ScanRepository.ReplaceAll(ctx, records); err != nil {
		return 0, fmt.Errorf("failed to replace scans: %w", err)
	}
	return len(records), nil
}

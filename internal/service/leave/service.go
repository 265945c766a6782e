package leave

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/odpc9/attendance-backend-go/internal/domain/leave"
	"github.com/odpc9/attendance-backend-go/internal/domain/meta"
	"github.com/odpc9/attendance-backend-go/internal/pkg/validator"
	"github.com/odpc9/attendance-backend-go/internal/service/file"
)

type LeaveServiceImpl struct {
	leave.LeaveRepository
	fileService file.FileService
}

func NewLeaveService(leaveRepo leave.LeaveRepository, fileService file.FileService) leave.LeaveService {
	return &LeaveServiceImpl{
		LeaveRepository: leaveRepo,
		fileService:     fileService,
	}
}

// CreateLeave implements leave.LeaveService.
func (s *LeaveServiceImpl) CreateLeave(ctx context.Context, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveResponse{}, err
	}

	record, err := recordFromRequest(req)
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	if req.File != nil && req.FileHeader != nil {
		defer req.File.Close()
		url, err := s.fileService.UploadLeaveAttachment(ctx, req.File, req.FileHeader.Filename)
		if err != nil {
			return leave.LeaveResponse{}, fmt.Errorf("failed to upload leave attachment: %w", err)
		}
		record.AttachmentURL = &url
	}

	created, err := s.LeaveRepository.Create(ctx, record)
	if err != nil {
		return leave.LeaveResponse{}, fmt.Errorf("failed to create leave: %w", err)
	}

	return leave.NewLeaveResponse(created), nil
}

// GetLeave implements leave.LeaveService.
func (s *LeaveServiceImpl) GetLeave(ctx context.Context, id string) (leave.LeaveResponse, error) {
	record, err := s.LeaveRepository.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	return leave.NewLeaveResponse(record), nil
}

// ListLeaves implements leave.LeaveService.
func (s *LeaveServiceImpl) ListLeaves(ctx context.Context, filter leave.LeaveFilter) (leave.ListLeaveResponse, error) {
	if err := filter.Validate(); err != nil {
		return leave.ListLeaveResponse{}, err
	}

	records, totalCount, err := s.LeaveRepository.List(ctx, filter)
	if err != nil {
		return leave.ListLeaveResponse{}, fmt.Errorf("failed to list leaves: %w", err)
	}

	items := make([]leave.LeaveResponse, 0, len(records))
	for _, r := range records {
		items = append(items, leave.NewLeaveResponse(r))
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

	return leave.ListLeaveResponse{
		TotalCount: totalCount,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Showing:    showing,
		Leaves:     items,
	}, nil
}

// UpdateLeave implements leave.LeaveService.
func (s *LeaveServiceImpl) UpdateLeave(ctx context.Context, req leave.UpdateLeaveRequest) (leave.LeaveResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveResponse{}, err
	}

	record, err := s.LeaveRepository.GetByID(ctx, req.ID)
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	if req.PersonName != nil {
		record.PersonName = *req.PersonName
	}
	if req.WorkGroup != nil {
		record.WorkGroup = *req.WorkGroup
	}
	if req.Category != nil {
		record.Category = leave.ParseCategory(*req.Category)
	}
	if req.Reason != nil {
		record.Reason = *req.Reason
	}
	if req.StartDate != nil {
		record.StartDate, _ = validator.IsValidDate(*req.StartDate)
	}
	if req.EndDate != nil {
		record.EndDate, _ = validator.IsValidDate(*req.EndDate)
	}
	if record.EndDate.Before(record.StartDate) {
		return leave.LeaveResponse{}, leave.ErrInvalidDateRange
	}
	record.TotalDays = meta.DayCount(record.StartDate, record.EndDate)

	if err := s.LeaveRepository.Update(ctx, record); err != nil {
		return leave.LeaveResponse{}, err
	}

	updated, err := s.LeaveRepository.GetByID(ctx, record.ID)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	return leave.NewLeaveResponse(updated), nil
}

// DeleteLeave implements leave.LeaveService.
func (s *LeaveServiceImpl) DeleteLeave(ctx context.Context, id string) error {
	return s.LeaveRepository.Delete(ctx, id)
}

// ReplaceLeaves implements leave.LeaveService.
func (s *LeaveServiceImpl) ReplaceLeaves(ctx context.Context, req leave.ReplaceLeavesRequest) (int, error) {
	if err := req.Validate(); err != nil {
		return 0, err
	}

	records := make([]leave.LeaveRecord, 0, len(req.Leaves))
	for _, row := range req.Leaves {
		record, err := recordFromRequest(row.CreateLeaveRequest)
		if err != nil {
			return 0, err
		}
		if _, err := uuid.Parse(row.ID); err == nil {
			record.ID = row.ID
		}
		record.AttachmentURL = row.AttachmentURL
		records = append(records, record)
	}

	if err := s.LeaveRepository.ReplaceAll(ctx, records); err != nil {
		return 0, fmt.Errorf("failed to replace leaves: %w", err)
	}
	return len(records), nil
}

// recordFromRequest builds a record from an already validated request.
func recordFromRequest(req leave.CreateLeaveRequest) (leave.LeaveRecord, error) {
	start, _ := validator.IsValidDate(req.StartDate)
	end, _ := validator.IsValidDate(req.EndDate)
	if end.Before(start) {
		return leave.LeaveRecord{}, leave.ErrInvalidDateRange
	}

	return leave.LeaveRecord{
		PersonName: req.PersonName,
		WorkGroup:  req.WorkGroup,
		Category:   leave.ParseCategory(req.Category),
		StartDate:  start,
		EndDate:    end,
		TotalDays:  meta.DayCount(start, end),
		Reason:     req.Reason,
		CreatedAt:  time.Now(),
	}, nil
}

package travel

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/odpc9/attendance-backend-go/internal/domain/meta"
	"github.com/odpc9/attendance-backend-go/internal/domain/travel"
	"github.com/odpc9/attendance-backend-go/internal/pkg/validator"
	"github.com/odpc9/attendance-backend-go/internal/service/file"
	"github.com/odpc9/attendance-backend-go/internal/service/reconcile"
)

type TravelServiceImpl struct {
	travel.TravelRepository
	fileService file.FileService
	identity    *reconcile.Identity
}

// NewTravelService matches travelers with identity, the same policy the
// report engine uses. A nil identity applies the default policy.
func NewTravelService(travelRepo travel.TravelRepository, fileService file.FileService, identity *reconcile.Identity) travel.TravelService {
	if identity == nil {
		identity = reconcile.NewIdentity(reconcile.IdentityPolicy{})
	}
	return &TravelServiceImpl{
		TravelRepository: travelRepo,
		fileService:      fileService,
		identity:         identity,
	}
}

// CreateTravel implements travel.TravelService. One row is stored per
// traveler; each row lists the other travelers as companions.
func (s *TravelServiceImpl) CreateTravel(ctx context.Context, req travel.CreateTravelRequest) (travel.TravelGroupResponse, error) {
	if err := req.Validate(); err != nil {
		return travel.TravelGroupResponse{}, err
	}

	travelers := s.uniqueNames(req.Travelers)
	if len(travelers) == 0 {
		return travel.TravelGroupResponse{}, travel.ErrNoTravelers
	}

	start, _ := validator.IsValidDate(req.StartDate)
	end, _ := validator.IsValidDate(req.EndDate)
	if end.Before(start) {
		return travel.TravelGroupResponse{}, travel.ErrInvalidDateRange
	}

	groupID := uuid.NewString()

	var attachmentURL *string
	if req.File != nil && req.FileHeader != nil {
		defer req.File.Close()
		url, err := s.fileService.UploadTravelAttachment(ctx, groupID, req.File, req.FileHeader.Filename)
		if err != nil {
			return travel.TravelGroupResponse{}, fmt.Errorf("failed to upload travel attachment: %w", err)
		}
		attachmentURL = &url
	}

	now := time.Now()
	records := make([]travel.TravelRecord, 0, len(travelers))
	for _, name := range travelers {
		records = append(records, travel.TravelRecord{
			ID:            uuid.NewString(),
			GroupID:       groupID,
			PersonName:    name,
			WorkGroup:     req.WorkGroup,
			Activity:      strings.TrimSpace(req.Activity),
			Location:      strings.TrimSpace(req.Location),
			StartDate:     start,
			EndDate:       end,
			TotalDays:     meta.DayCount(start, end),
			Companions:    travel.JoinNames(s.others(travelers, name)),
			AttachmentURL: attachmentURL,
			CreatedAt:     now,
		})
	}

	created, err := s.TravelRepository.CreateGroup(ctx, records)
	if err != nil {
		return travel.TravelGroupResponse{}, fmt.Errorf("failed to create travel group: %w", err)
	}

	resp := travel.TravelGroupResponse{GroupID: groupID, Travels: make([]travel.TravelResponse, 0, len(created))}
	for _, r := range created {
		resp.Travels = append(resp.Travels, travel.NewTravelResponse(r))
	}
	return resp, nil
}

// GetTravel implements travel.TravelService.
func (s *TravelServiceImpl) GetTravel(ctx context.Context, id string) (travel.TravelResponse, error) {
	record, err := s.TravelRepository.GetByID(ctx, id)
	if err != nil {
		return travel.TravelResponse{}, err
	}
	return travel.NewTravelResponse(record), nil
}

// ListTravels implements travel.TravelService.
func (s *TravelServiceImpl) ListTravels(ctx context.Context, filter travel.TravelFilter) (travel.ListTravelResponse, error) {
	if err := filter.Validate(); err != nil {
		return travel.ListTravelResponse{}, err
	}

	records, totalCount, err := s.TravelRepository.List(ctx, filter)
	if err != nil {
		return travel.ListTravelResponse{}, fmt.Errorf("failed to list travels: %w", err)
	}

	items := make([]travel.TravelResponse, 0, len(records))
	for _, r := range records {
		items = append(items, travel.NewTravelResponse(r))
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

	return travel.ListTravelResponse{
		TotalCount: totalCount,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Showing:    showing,
		Travels:    items,
	}, nil
}

// UpdateTravel implements travel.TravelService. Renaming a traveler
// rewrites the companion lists of the rest of the group.
func (s *TravelServiceImpl) UpdateTravel(ctx context.Context, req travel.UpdateTravelRequest) (travel.TravelResponse, error) {
	if err := req.Validate(); err != nil {
		return travel.TravelResponse{}, err
	}

	record, err := s.TravelRepository.GetByID(ctx, req.ID)
	if err != nil {
		return travel.TravelResponse{}, err
	}

	renamed := false
	if req.PersonName != nil && strings.TrimSpace(*req.PersonName) != record.PersonName {
		record.PersonName = strings.TrimSpace(*req.PersonName)
		renamed = true
	}
	if req.WorkGroup != nil {
		record.WorkGroup = *req.WorkGroup
	}
	if req.Activity != nil {
		record.Activity = strings.TrimSpace(*req.Activity)
	}
	if req.Location != nil {
		record.Location = strings.TrimSpace(*req.Location)
	}
	if req.StartDate != nil {
		record.StartDate, _ = validator.IsValidDate(*req.StartDate)
	}
	if req.EndDate != nil {
		record.EndDate, _ = validator.IsValidDate(*req.EndDate)
	}
	if record.EndDate.Before(record.StartDate) {
		return travel.TravelResponse{}, travel.ErrInvalidDateRange
	}
	record.TotalDays = meta.DayCount(record.StartDate, record.EndDate)

	if err := s.TravelRepository.Update(ctx, record); err != nil {
		return travel.TravelResponse{}, err
	}
	if renamed {
		if err := s.syncCompanions(ctx, record.GroupID); err != nil {
			return travel.TravelResponse{}, err
		}
	}

	updated, err := s.TravelRepository.GetByID(ctx, record.ID)
	if err != nil {
		return travel.TravelResponse{}, err
	}
	return travel.NewTravelResponse(updated), nil
}

// DeleteTravel implements travel.TravelService. The deleted traveler is
// dropped from the companions of the rest of the group.
func (s *TravelServiceImpl) DeleteTravel(ctx context.Context, id string) error {
	record, err := s.TravelRepository.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.TravelRepository.Delete(ctx, id); err != nil {
		return err
	}
	return s.syncCompanions(ctx, record.GroupID)
}

// ReplaceTravels implements travel.TravelService. Group ids that are not
// UUIDs are remapped consistently so rows keep their grouping.
func (s *TravelServiceImpl) ReplaceTravels(ctx context.Context, req travel.ReplaceTravelsRequest) (int, error) {
	if err := req.Validate(); err != nil {
		return 0, err
	}

	groups := make(map[string]string)
	records := make([]travel.TravelRecord, 0, len(req.Travels))
	for _, row := range req.Travels {
		start, _ := validator.IsValidDate(row.StartDate)
		end, _ := validator.IsValidDate(row.EndDate)

		record := travel.TravelRecord{
			PersonName:    strings.TrimSpace(row.PersonName),
			WorkGroup:     row.WorkGroup,
			Activity:      row.Activity,
			Location:      row.Location,
			StartDate:     start,
			EndDate:       end,
			TotalDays:     meta.DayCount(start, end),
			Companions:    travel.JoinNames(travel.SplitNames(row.Companions)),
			AttachmentURL: row.AttachmentURL,
		}
		if _, err := uuid.Parse(row.ID); err == nil {
			record.ID = row.ID
		} else {
			record.ID = uuid.NewString()
		}

		switch _, err := uuid.Parse(row.GroupID); {
		case err == nil:
			record.GroupID = row.GroupID
		case row.GroupID == "":
			record.GroupID = record.ID
		default:
			if _, ok := groups[row.GroupID]; !ok {
				groups[row.GroupID] = uuid.NewString()
			}
			record.GroupID = groups[row.GroupID]
		}

		records = append(records, record)
	}

	if err := s.TravelRepository.ReplaceAll(ctx, records); err != nil {
		return 0, fmt.Errorf("failed to replace travels: %w", err)
	}
	return len(records), nil
}

// syncCompanions rewrites every row of a group so its companions are the
// other members of the group.
func (s *TravelServiceImpl) syncCompanions(ctx context.Context, groupID string) error {
	rows, err := s.TravelRepository.ListByGroup(ctx, groupID)
	if err != nil {
		return fmt.Errorf("failed to list travel group: %w", err)
	}

	names := make([]string, 0, len(rows))
	for _, r := range rows {
		names = append(names, r.PersonName)
	}
	names = s.uniqueNames(names)

	for _, r := range rows {
		companions := travel.JoinNames(s.others(names, r.PersonName))
		if companions == r.Companions {
			continue
		}
		r.Companions = companions
		if err := s.TravelRepository.Update(ctx, r); err != nil {
			return fmt.Errorf("failed to update companions: %w", err)
		}
	}
	return nil
}

// uniqueNames trims names and drops blanks and repeats of the same person,
// keeping the first spelling and the original order.
func (s *TravelServiceImpl) uniqueNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	var out []string
	for _, n := range names {
		n = strings.TrimSpace(n)
		key := s.identity.Key(n)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, n)
	}
	return out
}

func (s *TravelServiceImpl) others(names []string, self string) []string {
	selfKey := s.identity.Key(self)
	out := make([]string, 0, len(names))
	for _, n := range names {
		if s.identity.Key(n) != selfKey {
			out = append(out, n)
		}
	}
	return out
}

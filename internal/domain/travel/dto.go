package travel

import (
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/odpc9/attendance-backend-go/internal/domain/meta"
	"github.com/odpc9/attendance-backend-go/internal/pkg/validator"
)

// CreateTravelRequest submits one trip for one or more travelers.
type CreateTravelRequest struct {
	Travelers []string `json:"travelers"`
	WorkGroup string   `json:"work_group"`
	Activity  string   `json:"activity"`
	Location  string   `json:"location"`
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`

	File       multipart.File        `json:"-"`
	FileHeader *multipart.FileHeader `json:"-"`
}

func (r *CreateTravelRequest) Validate() error {
	var errs validator.ValidationErrors

	// Travelers
	names := 0
	for i, name := range r.Travelers {
		if validator.IsEmpty(name) {
			errs = append(errs, validator.ValidationError{
				Field:   fmt.Sprintf("travelers[%d]", i),
				Message: "traveler name must not be empty",
			})
			continue
		}
		if strings.Contains(name, ",") {
			errs = append(errs, validator.ValidationError{
				Field:   fmt.Sprintf("travelers[%d]", i),
				Message: "traveler name must not contain a comma",
			})
		}
		names++
	}
	if names == 0 && len(errs) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "travelers",
			Message: "at least one traveler is required",
		})
	}

	if !meta.IsWorkGroup(r.WorkGroup) {
		errs = append(errs, validator.ValidationError{
			Field:   "work_group",
			Message: "work_group must be one of the listed work groups",
		})
	}

	if validator.IsEmpty(r.Activity) {
		errs = append(errs, validator.ValidationError{
			Field:   "activity",
			Message: "activity is required",
		})
	}
	if validator.IsEmpty(r.Location) {
		errs = append(errs, validator.ValidationError{
			Field:   "location",
			Message: "location is required",
		})
	}

	errs = append(errs, validateDates(r.StartDate, r.EndDate)...)

	if r.FileHeader != nil {
		if !validator.HasExtension(r.FileHeader.Filename, meta.AttachmentExtensions) {
			errs = append(errs, validator.ValidationError{
				Field:   "attachment",
				Message: fmt.Sprintf("attachment must be one of: %s", strings.Join(meta.AttachmentExtensions, ", ")),
			})
		}
		if r.FileHeader.Size > meta.MaxAttachmentSize {
			errs = append(errs, validator.ValidationError{
				Field:   "attachment",
				Message: "attachment must not exceed 10MB",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func validateDates(start, end string) validator.ValidationErrors {
	var errs validator.ValidationErrors

	startDate, startOK := validator.IsValidDate(start)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}
	endDate, endOK := validator.IsValidDate(end)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}
	if startOK && endOK && endDate.Before(startDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be on or after start_date",
		})
	}

	return errs
}

type UpdateTravelRequest struct {
	ID         string  `json:"-"`
	PersonName *string `json:"person_name,omitempty"`
	WorkGroup  *string `json:"work_group,omitempty"`
	Activity   *string `json:"activity,omitempty"`
	Location   *string `json:"location,omitempty"`
	StartDate  *string `json:"start_date,omitempty"`
	EndDate    *string `json:"end_date,omitempty"`
}

func (r *UpdateTravelRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}
	if r.PersonName != nil && (validator.IsEmpty(*r.PersonName) || strings.Contains(*r.PersonName, ",")) {
		errs = append(errs, validator.ValidationError{
			Field:   "person_name",
			Message: "person_name must be a non-empty name without commas",
		})
	}
	if r.WorkGroup != nil && !meta.IsWorkGroup(*r.WorkGroup) {
		errs = append(errs, validator.ValidationError{
			Field:   "work_group",
			Message: "work_group must be one of the listed work groups",
		})
	}
	if r.Activity != nil && validator.IsEmpty(*r.Activity) {
		errs = append(errs, validator.ValidationError{
			Field:   "activity",
			Message: "activity must not be empty",
		})
	}
	if r.Location != nil && validator.IsEmpty(*r.Location) {
		errs = append(errs, validator.ValidationError{
			Field:   "location",
			Message: "location must not be empty",
		})
	}
	if r.StartDate != nil {
		if _, ok := validator.IsValidDate(*r.StartDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}
	if r.EndDate != nil {
		if _, ok := validator.IsValidDate(*r.EndDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// TravelRow is one row of an admin table replacement.
type TravelRow struct {
	ID         string `json:"id,omitempty"`
	GroupID    string `json:"group_id,omitempty"`
	PersonName string `json:"person_name"`
	WorkGroup  string `json:"work_group"`
	Activity   string `json:"activity"`
	Location   string `json:"location"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Companions string `json:"companions"`

	AttachmentURL *string `json:"attachment_url,omitempty"`
}

type ReplaceTravelsRequest struct {
	Travels []TravelRow `json:"travels"`
}

func (r *ReplaceTravelsRequest) Validate() error {
	var errs validator.ValidationErrors
	for i, row := range r.Travels {
		prefix := fmt.Sprintf("travels[%d]", i)
		if validator.IsEmpty(row.PersonName) {
			errs = append(errs, validator.ValidationError{
				Field:   prefix + ".person_name",
				Message: "person_name is required",
			})
		}
		errs = append(errs, validateDates(row.StartDate, row.EndDate).Prefixed(prefix)...)
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type TravelFilter struct {
	PersonName *string `json:"person_name,omitempty"`
	WorkGroup  *string `json:"work_group,omitempty"`
	GroupID    *string `json:"group_id,omitempty"`
	StartDate  *string `json:"start_date,omitempty"`
	EndDate    *string `json:"end_date,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *TravelFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 500 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 500",
		})
	}
	if f.StartDate != nil && *f.StartDate != "" {
		if d, valid := validator.IsValidDate(*f.StartDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		} else {
			normalized := d.Format("2006-01-02")
			f.StartDate = &normalized
		}
	}
	if f.EndDate != nil && *f.EndDate != "" {
		if d, valid := validator.IsValidDate(*f.EndDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		} else {
			normalized := d.Format("2006-01-02")
			f.EndDate = &normalized
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type TravelResponse struct {
	ID            string   `json:"id"`
	GroupID       string   `json:"group_id"`
	PersonName    string   `json:"person_name"`
	WorkGroup     string   `json:"work_group"`
	Activity      string   `json:"activity"`
	Location      string   `json:"location"`
	StartDate     string   `json:"start_date"`
	EndDate       string   `json:"end_date"`
	TotalDays     int      `json:"total_days"`
	Companions    []string `json:"companions"`
	AttachmentURL *string  `json:"attachment_url,omitempty"`
	CreatedAt     string   `json:"created_at"`
	UpdatedAt     string   `json:"updated_at"`
}

func NewTravelResponse(r TravelRecord) TravelResponse {
	companions := r.CompanionNames()
	if companions == nil {
		companions = []string{}
	}
	return TravelResponse{
		ID:            r.ID,
		GroupID:       r.GroupID,
		PersonName:    r.PersonName,
		WorkGroup:     r.WorkGroup,
		Activity:      r.Activity,
		Location:      r.Location,
		StartDate:     formatDate(r.StartDate),
		EndDate:       formatDate(r.EndDate),
		TotalDays:     r.TotalDays,
		Companions:    companions,
		AttachmentURL: r.AttachmentURL,
		CreatedAt:     formatTimestamp(r.CreatedAt),
		UpdatedAt:     formatTimestamp(r.UpdatedAt),
	}
}

type TravelGroupResponse struct {
	GroupID string           `json:"group_id"`
	Travels []TravelResponse `json:"travels"`
}

type ListTravelResponse struct {
	TotalCount int64            `json:"total_count"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
	Showing    string           `json:"showing"`
	Travels    []TravelResponse `json:"travels"`
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

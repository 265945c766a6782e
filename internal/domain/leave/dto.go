package leave

import (
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/odpc9/attendance-backend-go/internal/domain/meta"
	"github.com/odpc9/attendance-backend-go/internal/pkg/validator"
)

type CreateLeaveRequest struct {
	PersonName string `json:"person_name"`
	WorkGroup  string `json:"work_group"`
	Category   string `json:"category"`
	StartDate  string `json:"start_date"` // YYYY-MM-DD, Buddhist Era years accepted
	EndDate    string `json:"end_date"`   // YYYY-MM-DD
	Reason     string `json:"reason"`

	File       multipart.File        `json:"-"`
	FileHeader *multipart.FileHeader `json:"-"`
}

func (r *CreateLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	// Person
	if validator.IsEmpty(r.PersonName) {
		errs = append(errs, validator.ValidationError{
			Field:   "person_name",
			Message: "person_name is required",
		})
	}
	if len(r.PersonName) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "person_name",
			Message: "person_name must not exceed 255 characters",
		})
	}

	// Work group
	if !meta.IsWorkGroup(r.WorkGroup) {
		errs = append(errs, validator.ValidationError{
			Field:   "work_group",
			Message: "work_group must be one of the listed work groups",
		})
	}

	// Category
	if _, ok := LookupCategory(r.Category); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "category",
			Message: "category must be one of: sick, personal, vacation, maternity, ordination, spousal-maternity, other",
		})
	}

	// Dates
	errs = append(errs, validateDates(r.StartDate, r.EndDate)...)

	// Attachment
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

// UpdateLeaveRequest is an admin edit of a single row. Nil fields are kept.
type UpdateLeaveRequest struct {
	ID         string  `json:"-"`
	PersonName *string `json:"person_name,omitempty"`
	WorkGroup  *string `json:"work_group,omitempty"`
	Category   *string `json:"category,omitempty"`
	StartDate  *string `json:"start_date,omitempty"`
	EndDate    *string `json:"end_date,omitempty"`
	Reason     *string `json:"reason,omitempty"`
}

func (r *UpdateLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if r.PersonName != nil && validator.IsEmpty(*r.PersonName) {
		errs = append(errs, validator.ValidationError{
			Field:   "person_name",
			Message: "person_name must not be empty",
		})
	}

	if r.WorkGroup != nil && !meta.IsWorkGroup(*r.WorkGroup) {
		errs = append(errs, validator.ValidationError{
			Field:   "work_group",
			Message: "work_group must be one of the listed work groups",
		})
	}

	if r.Category != nil {
		if _, ok := LookupCategory(*r.Category); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "category",
				Message: "category must be one of: sick, personal, vacation, maternity, ordination, spousal-maternity, other",
			})
		}
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

// LeaveRow is one row of an admin table replacement. Rows without an id are
// inserted with a fresh one.
type LeaveRow struct {
	ID            string  `json:"id,omitempty"`
	AttachmentURL *string `json:"attachment_url,omitempty"`
	CreateLeaveRequest
}

type ReplaceLeavesRequest struct {
	Leaves []LeaveRow `json:"leaves"`
}

func (r *ReplaceLeavesRequest) Validate() error {
	var errs validator.ValidationErrors
	for i := range r.Leaves {
		if err := r.Leaves[i].Validate(); err != nil {
			if verrs, ok := err.(validator.ValidationErrors); ok {
				errs = append(errs, verrs.Prefixed(fmt.Sprintf("leaves[%d]", i))...)
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type LeaveFilter struct {
	PersonName *string `json:"person_name,omitempty"`
	WorkGroup  *string `json:"work_group,omitempty"`
	Category   *string `json:"category,omitempty"`
	StartDate  *string `json:"start_date,omitempty"` // records ending on or after
	EndDate    *string `json:"end_date,omitempty"`   // records starting on or before

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *LeaveFilter) Validate() error {
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

	if f.Category != nil {
		c, ok := LookupCategory(*f.Category)
		if !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "category",
				Message: "category must be one of: sick, personal, vacation, maternity, ordination, spousal-maternity, other",
			})
		} else {
			code := string(c)
			f.Category = &code
		}
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

type LeaveResponse struct {
	ID            string  `json:"id"`
	PersonName    string  `json:"person_name"`
	WorkGroup     string  `json:"work_group"`
	Category      string  `json:"category"`
	CategoryLabel string  `json:"category_label"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	TotalDays     int     `json:"total_days"`
	Reason        string  `json:"reason"`
	AttachmentURL *string `json:"attachment_url,omitempty"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

func NewLeaveResponse(r LeaveRecord) LeaveResponse {
	return LeaveResponse{
		ID:            r.ID,
		PersonName:    r.PersonName,
		WorkGroup:     r.WorkGroup,
		Category:      string(r.Category),
		CategoryLabel: r.Category.ThaiLabel(),
		StartDate:     formatDate(r.StartDate),
		EndDate:       formatDate(r.EndDate),
		TotalDays:     r.TotalDays,
		Reason:        r.Reason,
		AttachmentURL: r.AttachmentURL,
		CreatedAt:     formatTimestamp(r.CreatedAt),
		UpdatedAt:     formatTimestamp(r.UpdatedAt),
	}
}

type ListLeaveResponse struct {
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
	Showing    string          `json:"showing"`
	Leaves     []LeaveResponse `json:"leaves"`
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

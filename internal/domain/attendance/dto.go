package attendance

import (
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/odpc9/attendance-backend-go/internal/pkg/validator"
)

const (
	ImportModeAppend  = "append"
	ImportModeReplace = "replace"
)

type ImportScansRequest struct {
	Mode string `json:"mode"` // append (default) or replace

	File       multipart.File        `json:"-"`
	FileHeader *multipart.FileHeader `json:"-"`
}

func (r *ImportScansRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Mode == "" {
		r.Mode = ImportModeAppend
	}
	if !validator.IsInSlice(r.Mode, []string{ImportModeAppend, ImportModeReplace}) {
		errs = append(errs, validator.ValidationError{
			Field:   "mode",
			Message: "mode must be one of: append, replace",
		})
	}

	if r.File == nil || r.FileHeader == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "file",
			Message: "file is required",
		})
	} else if !validator.HasExtension(r.FileHeader.Filename, []string{".xlsx"}) {
		errs = append(errs, validator.ValidationError{
			Field:   "file",
			Message: "file must be an .xlsx workbook",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ImportScansResponse struct {
	Mode     string     `json:"mode"`
	Imported int        `json:"imported"`
	Skipped  int        `json:"skipped"`
	Issues   []RowIssue `json:"issues"`
}

// ScanRow is one row of an admin table replacement.
type ScanRow struct {
	ID         string `json:"id,omitempty"`
	PersonName string `json:"person_name"`
	Date       string `json:"date"`
	ClockIn    string `json:"clock_in,omitempty"`  // HH:MM[:SS], empty when missing
	ClockOut   string `json:"clock_out,omitempty"` // HH:MM[:SS]
	Note       string `json:"note,omitempty"`
}

type ReplaceScansRequest struct {
	Scans []ScanRow `json:"scans"`
}

func (r *ReplaceScansRequest) Validate() error {
	var errs validator.ValidationErrors

	for i, row := range r.Scans {
		prefix := fmt.Sprintf("scans[%d]", i)
		if validator.IsEmpty(row.PersonName) {
			errs = append(errs, validator.ValidationError{
				Field:   prefix + ".person_name",
				Message: "person_name is required",
			})
		}
		if _, ok := validator.IsValidDate(row.Date); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   prefix + ".date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
		if row.ClockIn != "" && !validator.IsValidClock(row.ClockIn) {
			errs = append(errs, validator.ValidationError{
				Field:   prefix + ".clock_in",
				Message: "clock_in must be in HH:MM or HH:MM:SS format",
			})
		}
		if row.ClockOut != "" && !validator.IsValidClock(row.ClockOut) {
			errs = append(errs, validator.ValidationError{
				Field:   prefix + ".clock_out",
				Message: "clock_out must be in HH:MM or HH:MM:SS format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ScanFilter struct {
	PersonName *string `json:"person_name,omitempty"`
	StartDate  *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate    *string `json:"end_date,omitempty"`   // YYYY-MM-DD

	Page  int `json:"page"`
	Limit int `json:"limit"`

	SortOrder string `json:"sort_order"` // asc, desc by date
}

func (f *ScanFilter) Validate() error {
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
		f.Limit = 50
	}
	if f.Limit > 1000 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 1000",
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

	if f.SortOrder != "" {
		if !validator.IsInSlice(strings.ToLower(f.SortOrder), []string{"asc", "desc"}) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_order",
				Message: "sort_order must be one of: asc, desc",
			})
		}
		f.SortOrder = strings.ToLower(f.SortOrder)
	} else {
		f.SortOrder = "desc"
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ScanResponse struct {
	ID         string `json:"id"`
	PersonName string `json:"person_name"`
	Date       string `json:"date"`
	ClockIn    string `json:"clock_in"`
	ClockOut   string `json:"clock_out"`
	Note       string `json:"note"`
}

func NewScanResponse(r ScanRecord) ScanResponse {
	date := ""
	if !r.Date.IsZero() {
		date = r.Date.Format("2006-01-02")
	}
	return ScanResponse{
		ID:         r.ID,
		PersonName: r.PersonName,
		Date:       date,
		ClockIn:    formatClock(r.ClockIn),
		ClockOut:   formatClock(r.ClockOut),
		Note:       r.Note,
	}
}

func formatClock(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("15:04:05")
}

type ListScanResponse struct {
	TotalCount int64          `json:"total_count"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
	Showing    string         `json:"showing"`
	Scans      []ScanResponse `json:"scans"`
}

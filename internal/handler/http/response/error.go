package response

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/odpc9/attendance-backend-go/internal/domain/attendance"
	"github.com/odpc9/attendance-backend-go/internal/domain/auth"
	"github.com/odpc9/attendance-backend-go/internal/domain/leave"
	"github.com/odpc9/attendance-backend-go/internal/domain/report"
	"github.com/odpc9/attendance-backend-go/internal/domain/travel"
	"github.com/odpc9/attendance-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid password")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrTokenRevoked):
		Unauthorized(w, "Token revoked")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrAdminRequired):
		Forbidden(w, "Admin privilege required")

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveNotFound):
		NotFound(w, "Leave record not found")
	case errors.Is(err, leave.ErrInvalidDateRange):
		ValidationError(w, map[string]string{"end_date": err.Error()})
	case errors.Is(err, leave.ErrAttachmentTooLarge):
		BadRequest(w, "Attachment exceeds the maximum size", nil)

	// Travel domain errors
	case errors.Is(err, travel.ErrTravelNotFound):
		NotFound(w, "Travel record not found")
	case errors.Is(err, travel.ErrNoTravelers):
		ValidationError(w, map[string]string{"travelers": err.Error()})
	case errors.Is(err, travel.ErrInvalidDateRange):
		ValidationError(w, map[string]string{"end_date": err.Error()})

	// Attendance domain errors
	case errors.Is(err, attendance.ErrScanNotFound):
		NotFound(w, "Scan record not found")
	case errors.Is(err, attendance.ErrEmptyWorkbook):
		BadRequest(w, "Workbook has no scan rows", nil)
	case errors.Is(err, attendance.ErrMissingColumns):
		ValidationError(w, map[string]string{"file": err.Error()})

	// Report domain errors
	case errors.Is(err, report.ErrInvalidMonth):
		ValidationError(w, map[string]string{"month": err.Error()})
	case errors.Is(err, report.ErrInvalidYear):
		ValidationError(w, map[string]string{"year": err.Error()})
	case errors.Is(err, report.ErrInvalidDateRange):
		ValidationError(w, map[string]string{"end_date": err.Error()})
	case errors.Is(err, report.ErrReportGenerationFailed):
		InternalServerError(w, "Failed to generate report")

	case errors.Is(err, context.DeadlineExceeded):
		GatewayTimeout(w, "Loading the tables took too long")

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}

package report

import "errors"

var (
	ErrInvalidMonth           = errors.New("month must be between 1 and 12")
	ErrInvalidYear            = errors.New("year must be a valid year")
	ErrInvalidDateRange       = errors.New("start date must not be after end date")
	ErrReportGenerationFailed = errors.New("failed to generate report")
)

package report

import (
	"bytes"
	"context"
)

type ReportService interface {
	GenerateMonthlyAttendanceReport(ctx context.Context, req MonthlyAttendanceReportRequest) (MonthlyAttendanceReport, error)
	// ExportMonthlyAttendanceReport renders the report as an .xlsx workbook
	// and returns it with a suggested file name.
	ExportMonthlyAttendanceReport(ctx context.Context, req MonthlyAttendanceReportRequest) (*bytes.Buffer, string, error)
	GenerateDashboard(ctx context.Context, req DashboardRequest) (DashboardReport, error)
}

package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/odpc9/attendance-backend-go/internal/domain/report"
	"github.com/odpc9/attendance-backend-go/internal/handler/http/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler interface {
	GetMonthlyAttendanceReport(w http.ResponseWriter, r *http.Request)
	ExportMonthlyAttendanceReport(w http.ResponseWriter, r *http.Request)
	GetDashboard(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// parseMonthlyRequest reads month, year, person and collapse_leave. person
// may repeat or hold a comma separated list.
func parseMonthlyRequest(r *http.Request) (report.MonthlyAttendanceReportRequest, error) {
	q := r.URL.Query()

	month, err := strconv.Atoi(q.Get("month"))
	if err != nil {
		return report.MonthlyAttendanceReportRequest{}, errors.New("invalid month parameter")
	}
	year, err := strconv.Atoi(q.Get("year"))
	if err != nil {
		return report.MonthlyAttendanceReportRequest{}, errors.New("invalid year parameter")
	}

	req := report.MonthlyAttendanceReportRequest{Month: month, Year: year}
	for _, v := range q["person"] {
		req.Persons = append(req.Persons, strings.Split(v, ",")...)
	}
	if s := q.Get("collapse_leave"); s != "" {
		collapse, err := strconv.ParseBool(s)
		if err != nil {
			return report.MonthlyAttendanceReportRequest{}, errors.New("invalid collapse_leave parameter")
		}
		req.CollapseLeave = &collapse
	}
	return req, nil
}

// GetMonthlyAttendanceReport handles GET /reports/attendance
func (h *reportHandlerImpl) GetMonthlyAttendanceReport(w http.ResponseWriter, r *http.Request) {
	req, err := parseMonthlyRequest(r)
	if err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}

	result, err := h.reportService.GenerateMonthlyAttendanceReport(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ExportMonthlyAttendanceReport handles GET /reports/attendance/export
func (h *reportHandlerImpl) ExportMonthlyAttendanceReport(w http.ResponseWriter, r *http.Request) {
	req, err := parseMonthlyRequest(r)
	if err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}

	buf, filename, err := h.reportService.ExportMonthlyAttendanceReport(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Attachment(w, xlsxContentType, filename, buf)
}

// GetDashboard handles GET /reports/dashboard
func (h *reportHandlerImpl) GetDashboard(w http.ResponseWriter, r *http.Request) {
	var req report.DashboardRequest
	if s := r.URL.Query().Get("year"); s != "" {
		year, err := strconv.Atoi(s)
		if err != nil {
			response.BadRequest(w, "invalid year parameter", nil)
			return
		}
		req.Year = year
	}

	result, err := h.reportService.GenerateDashboard(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

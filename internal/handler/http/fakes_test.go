package http

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/odpc9/attendance-backend-go/internal/domain/attendance"
	"github.com/odpc9/attendance-backend-go/internal/domain/leave"
	"github.com/odpc9/attendance-backend-go/internal/domain/report"
	"github.com/odpc9/attendance-backend-go/internal/domain/travel"
	"github.com/odpc9/attendance-backend-go/internal/pkg/jwt"
	authService "github.com/odpc9/attendance-backend-go/internal/service/auth"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	handlerTestSecret   = "test-secret-key-for-jwt"
	handlerTestPassword = "s3cret-admin"
)

type fakeLeaveService struct {
	created     []leave.CreateLeaveRequest
	attachments []string
	updated     []leave.UpdateLeaveRequest
	deleted     []string
	replaced    []leave.ReplaceLeavesRequest
	filter      leave.LeaveFilter
	err         error
}

func (f *fakeLeaveService) CreateLeave(_ context.Context, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
	if f.err != nil {
		return leave.LeaveResponse{}, f.err
	}
	if req.File != nil {
		content, _ := io.ReadAll(req.File)
		f.attachments = append(f.attachments, req.FileHeader.Filename+":"+string(content))
	}
	f.created = append(f.created, req)
	return leave.LeaveResponse{ID: "l-1", PersonName: req.PersonName, Category: req.Category}, nil
}

func (f *fakeLeaveService) GetLeave(_ context.Context, id string) (leave.LeaveResponse, error) {
	if f.err != nil {
		return leave.LeaveResponse{}, f.err
	}
	return leave.LeaveResponse{ID: id}, nil
}

func (f *fakeLeaveService) ListLeaves(_ context.Context, filter leave.LeaveFilter) (leave.ListLeaveResponse, error) {
	f.filter = filter
	return leave.ListLeaveResponse{Page: filter.Page, Limit: filter.Limit, Showing: "0 results", Leaves: []leave.LeaveResponse{}}, f.err
}

func (f *fakeLeaveService) UpdateLeave(_ context.Context, req leave.UpdateLeaveRequest) (leave.LeaveResponse, error) {
	if f.err != nil {
		return leave.LeaveResponse{}, f.err
	}
	f.updated = append(f.updated, req)
	return leave.LeaveResponse{ID: req.ID}, nil
}

func (f *fakeLeaveService) DeleteLeave(_ context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeLeaveService) ReplaceLeaves(_ context.Context, req leave.ReplaceLeavesRequest) (int, error) {
	f.replaced = append(f.replaced, req)
	return len(req.Leaves), f.err
}

type fakeTravelService struct {
	created []travel.CreateTravelRequest
	filter  travel.TravelFilter
	err     error
}

func (f *fakeTravelService) CreateTravel(_ context.Context, req travel.CreateTravelRequest) (travel.TravelGroupResponse, error) {
	if f.err != nil {
		return travel.TravelGroupResponse{}, f.err
	}
	f.created = append(f.created, req)
	resp := travel.TravelGroupResponse{GroupID: "g-1"}
	for _, name := range req.Travelers {
		resp.Travels = append(resp.Travels, travel.TravelResponse{GroupID: "g-1", PersonName: name})
	}
	return resp, nil
}

func (f *fakeTravelService) GetTravel(_ context.Context, id string) (travel.TravelResponse, error) {
	if f.err != nil {
		return travel.TravelResponse{}, f.err
	}
	return travel.TravelResponse{ID: id}, nil
}

func (f *fakeTravelService) ListTravels(_ context.Context, filter travel.TravelFilter) (travel.ListTravelResponse, error) {
	f.filter = filter
	return travel.ListTravelResponse{Page: filter.Page, Limit: filter.Limit, Travels: []travel.TravelResponse{}}, f.err
}

func (f *fakeTravelService) UpdateTravel(_ context.Context, req travel.UpdateTravelRequest) (travel.TravelResponse, error) {
	return travel.TravelResponse{ID: req.ID}, f.err
}

func (f *fakeTravelService) DeleteTravel(context.Context, string) error { return f.err }

func (f *fakeTravelService) ReplaceTravels(_ context.Context, req travel.ReplaceTravelsRequest) (int, error) {
	return len(req.Travels), f.err
}

type fakeScanService struct {
	imports []string
	err     error
}

func (f *fakeScanService) ListScans(_ context.Context, filter attendance.ScanFilter) (attendance.ListScanResponse, error) {
	return attendance.ListScanResponse{Page: filter.Page, Limit: filter.Limit, Scans: []attendance.ScanResponse{}}, f.err
}

func (f *fakeScanService) ImportScans(_ context.Context, req attendance.ImportScansRequest) (attendance.ImportScansResponse, error) {
	if f.err != nil {
		return attendance.ImportScansResponse{}, f.err
	}
	defer req.File.Close()
	f.imports = append(f.imports, req.Mode+":"+req.FileHeader.Filename)
	return attendance.ImportScansResponse{Mode: req.Mode, Imported: 2, Issues: []attendance.RowIssue{}}, nil
}

func (f *fakeScanService) ReplaceScans(_ context.Context, req attendance.ReplaceScansRequest) (int, error) {
	return len(req.Scans), f.err
}

type fakeReportService struct {
	requests []report.MonthlyAttendanceReportRequest
	err      error
}

func (f *fakeReportService) GenerateMonthlyAttendanceReport(_ context.Context, req report.MonthlyAttendanceReportRequest) (report.MonthlyAttendanceReport, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return report.MonthlyAttendanceReport{}, f.err
	}
	return report.MonthlyAttendanceReport{PeriodMonth: req.Month, PeriodYear: req.Year}, nil
}

func (f *fakeReportService) ExportMonthlyAttendanceReport(_ context.Context, req report.MonthlyAttendanceReportRequest) (*bytes.Buffer, string, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, "", f.err
	}
	return bytes.NewBufferString("PK-fake-xlsx"), "attendance_2025-05.xlsx", nil
}

func (f *fakeReportService) GenerateDashboard(_ context.Context, req report.DashboardRequest) (report.DashboardReport, error) {
	return report.DashboardReport{Year: req.Year}, f.err
}

type testServer struct {
	router  *chi.Mux
	jwt     jwt.Service
	leaves  *fakeLeaveService
	travels *fakeTravelService
	scans   *fakeScanService
	reports *fakeReportService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(handlerTestPassword), bcrypt.MinCost)
	require.NoError(t, err)

	ts := &testServer{
		jwt:     jwt.NewJWTService(handlerTestSecret, time.Hour),
		leaves:  &fakeLeaveService{},
		travels: &fakeTravelService{},
		scans:   &fakeScanService{},
		reports: &fakeReportService{},
	}
	ts.router = NewRouter(ts.jwt, Handlers{
		Auth:   NewAuthHandler(authService.NewAuthService(string(hash), ts.jwt)),
		Leave:  NewLeaveHandler(ts.leaves),
		Travel: NewTravelHandler(ts.travels),
		Scan:   NewScanHandler(ts.scans),
		Report: NewReportHandler(ts.reports),
		Meta:   NewMetaHandler(),
	}, RouterOptions{Env: "test", Version: "test", AllowedOrigins: []string{"http://localhost:3000"}})
	return ts
}

func (ts *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) adminToken(t *testing.T) string {
	t.Helper()
	token, _, err := ts.jwt.GenerateAdminToken()
	require.NoError(t, err)
	return token
}
